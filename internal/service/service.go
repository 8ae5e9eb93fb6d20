package service

import (
	"context"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/payment"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error) // user, access token
}

type AvailabilityService interface {
	FindAvailability(ctx context.Context, roomType, startDate, endDate string, excludeReservationID int32) (availability.Result, error)
	RoomStatusOn(ctx context.Context, date string) ([]domain.RoomDayStatus, error)
	HousekeepingSummary(ctx context.Context, date string) (map[domain.RoomStatus]int, error)
}

type ReservationService interface {
	CreateReservation(ctx context.Context, actor domain.Principal, in BookingInput) (*domain.Reservation, error)
	GetReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error)
	ListReservations(ctx context.Context, actor domain.Principal, filter domain.ReservationFilter) ([]domain.Reservation, int32, error)
	ListMyReservations(ctx context.Context, actor domain.Principal) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, actor domain.Principal, id int32, edit ReservationEdit) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, actor domain.Principal, id int32, status domain.ReservationStatus) (*domain.Reservation, error)
	MarkPaid(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actor domain.Principal, id int32, reason string) (*domain.Reservation, error)
	ArchiveReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error)
	RestoreReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error)
	HideReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error)
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, actor domain.Principal, in CheckoutInput) (*payment.CheckoutSession, error)
	// HandleWebhook processes one delivery. Only signature failures and
	// unexpected store errors are returned as errors; every business outcome
	// is acknowledged.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (domain.PaymentOutcome, error)
}

type RoomService interface {
	CreateRoom(ctx context.Context, actor domain.Principal, in RoomInput) (*domain.Room, error)
	GetRoom(ctx context.Context, id int32) (*domain.Room, error)
	ListRooms(ctx context.Context, roomType string) ([]domain.Room, error)
	ListTypes(ctx context.Context) ([]string, error)
	UpdateRoom(ctx context.Context, actor domain.Principal, id int32, in RoomInput) (*domain.Room, error)
	DeleteRoom(ctx context.Context, actor domain.Principal, id int32) error
	SetStatus(ctx context.Context, actor domain.Principal, id int32, status domain.RoomStatus) (*domain.Room, error)
	GetImageUploadURL(ctx context.Context, actor domain.Principal, roomID int32, filename, contentType string) (*ImageUpload, error)
	ConfirmImage(ctx context.Context, actor domain.Principal, roomID int32, key string) (*domain.Room, error)
	ListImages(ctx context.Context, roomID int32) ([]RoomImage, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, actor domain.Principal, notificationID int32) error
	UnreadCount(ctx context.Context, actor domain.Principal) (int32, error)
}

type ActivityService interface {
	ListActivity(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.ActivityLog, int32, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, to string, res *domain.Reservation, room domain.Room) error
	SendAdminBookingAlert(ctx context.Context, res *domain.Reservation, room domain.Room) error
	SendCheckInReminder(ctx context.Context, to string, res *domain.Reservation, room domain.Room) error
	SendReconciliationReport(ctx context.Context, events []domain.PaymentEvent) error
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// BookingInput is a staff walk-in booking.
type BookingInput struct {
	RoomType      string               `json:"room_type" validate:"required,max=100"`
	RoomID        int32                `json:"room_id" validate:"omitempty,gt=0"`
	StartDate     string               `json:"start_date" validate:"required"`
	EndDate       string               `json:"end_date" validate:"required"`
	FullName      string               `json:"full_name" validate:"required,max=200"`
	Phone         string               `json:"phone" validate:"required,max=50"`
	Address       string               `json:"address" validate:"max=500"`
	Guests        int32                `json:"guests" validate:"omitempty,min=1,max=20"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card"`
	PaymentStatus domain.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=PAID UNPAID"`
	UserID        *int32               `json:"user_id"`
}

// ReservationEdit carries staff changes. Empty fields keep their current value.
type ReservationEdit struct {
	RoomType  string `json:"room_type" validate:"max=100"`
	RoomID    int32  `json:"room_id" validate:"omitempty,gt=0"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	FullName  string `json:"full_name" validate:"max=200"`
	Phone     string `json:"phone" validate:"max=50"`
	Address   string `json:"address" validate:"max=500"`
	Guests    int32  `json:"guests" validate:"omitempty,min=1,max=20"`
}

// CheckoutInput starts an online payment for a stay.
type CheckoutInput struct {
	RoomType  string `json:"room_type" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	FullName  string `json:"full_name" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"required,max=50"`
	Address   string `json:"address" validate:"max=500"`
	Guests    int32  `json:"guests" validate:"omitempty,min=1,max=20"`
}

type RoomInput struct {
	RoomNumber  string            `json:"room_number" validate:"required,max=20"`
	Type        string            `json:"type" validate:"required,max=100"`
	Name        string            `json:"name" validate:"required,max=200"`
	PriceCents  int32             `json:"price_cents" validate:"min=0"`
	Status      domain.RoomStatus `json:"status" validate:"omitempty,oneof=available needs_cleaning out_of_order"`
	Description string            `json:"description" validate:"max=2000"`
}

type ImageUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RoomImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
