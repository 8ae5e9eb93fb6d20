package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
)

type Reservation struct {
	ID              int32             `json:"id"`
	ReservationCode string            `json:"reservation_code"`
	InvoiceNumber   *string           `json:"invoice_number,omitempty"`
	RoomID          int32             `json:"room_id"`
	UserID          *int32            `json:"user_id,omitempty"`
	FullName        string            `json:"full_name"`
	Phone           string            `json:"phone"`
	Address         string            `json:"address"`
	Guests          int32             `json:"guests"`
	StartDate       time.Time         `json:"start_date"` // UTC midnight
	EndDate         time.Time         `json:"end_date"`   // UTC midnight, exclusive
	Status          ReservationStatus `json:"status"`
	TotalPriceCents int32             `json:"total_price_cents"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	PaymentStatus   PaymentStatus     `json:"payment_status"`
	AmountPaidCents int32             `json:"amount_paid_cents"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason    string            `json:"cancel_reason,omitempty"`
	AdminHidden     bool              `json:"admin_hidden"`
	AdminHiddenAt   *time.Time        `json:"admin_hidden_at,omitempty"`
	ClientHidden    bool              `json:"client_hidden"`
	StripeSessionID *string           `json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsActive reports whether the reservation counts toward room occupancy.
func (r *Reservation) IsActive() bool {
	return r.CancelledAt == nil && !r.AdminHidden
}

// OwnedBy reports whether the reservation belongs to the given user.
func (r *Reservation) OwnedBy(userID int32) bool {
	return r.UserID != nil && *r.UserID == userID
}

// Visibility is the soft-delete state derived from the persisted flags.
// ClientHidden only affects the guest's own listing and is not part of it.
type Visibility string

const (
	VisibilityActive               Visibility = "active"
	VisibilityClientCancelled      Visibility = "client_cancelled"
	VisibilityAdminArchived        Visibility = "admin_archived"
	VisibilityCancelledAndArchived Visibility = "cancelled_and_archived"
)

func (r *Reservation) Visibility() Visibility {
	cancelled := r.CancelledAt != nil
	switch {
	case cancelled && r.AdminHidden:
		return VisibilityCancelledAndArchived
	case cancelled:
		return VisibilityClientCancelled
	case r.AdminHidden:
		return VisibilityAdminArchived
	default:
		return VisibilityActive
	}
}

// ReservationFilter narrows staff listings.
type ReservationFilter struct {
	Status          ReservationStatus
	RoomID          int32
	IncludeArchived bool
	Page            int32
	PageSize        int32
}
