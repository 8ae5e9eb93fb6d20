package domain

import "time"

type PaymentOutcome string

const (
	PaymentOutcomeBooked          PaymentOutcome = "booked"
	PaymentOutcomeDuplicate       PaymentOutcome = "duplicate"
	PaymentOutcomeIgnored         PaymentOutcome = "ignored"
	PaymentOutcomeUnmatchedUser   PaymentOutcome = "unmatched_user"
	PaymentOutcomeNoRoom          PaymentOutcome = "no_room"
	PaymentOutcomeInvalidMetadata PaymentOutcome = "invalid_metadata"
)

// NeedsReconciliation reports whether money was captured without a reservation.
func (o PaymentOutcome) NeedsReconciliation() bool {
	switch o {
	case PaymentOutcomeUnmatchedUser, PaymentOutcomeNoRoom, PaymentOutcomeInvalidMetadata:
		return true
	}
	return false
}

// PaymentEvent records how a completed checkout session was handled.
type PaymentEvent struct {
	ID               int32          `json:"id"`
	SessionID        string         `json:"session_id"`
	CustomerEmail    string         `json:"customer_email"`
	AmountTotalCents int64          `json:"amount_total_cents"`
	Outcome          PaymentOutcome `json:"outcome"`
	ReservationID    *int32         `json:"reservation_id,omitempty"`
	Detail           string         `json:"detail"`
	ReportedAt       *time.Time     `json:"reported_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
