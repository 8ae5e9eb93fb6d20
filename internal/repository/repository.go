package repository

import (
	"context"
	"time"

	"hotel-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int32) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	UpdateStatus(ctx context.Context, id int32, status domain.RoomStatus) error
	Delete(ctx context.Context, id int32) error
	// List returns rooms ordered by id; an empty roomType returns every room.
	List(ctx context.Context, roomType string) ([]domain.Room, error)
	ListTypes(ctx context.Context) ([]string, error)
	ExistsNumber(ctx context.Context, roomType, roomNumber string, excludeID int32) (bool, error)
	AddImage(ctx context.Context, id int32, key string) error
}

type ReservationRepository interface {
	// Create inserts the row. A lost race against the exclusion constraint
	// returns domain.ErrNoRoomAvailable; a reused stripe session id returns
	// domain.ErrDuplicateEvent.
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetByStripeSessionID(ctx context.Context, sessionID string) (*domain.Reservation, error)
	// Update writes every mutable column and is subject to the same constraint as Create.
	Update(ctx context.Context, r *domain.Reservation) error
	SetInvoiceNumber(ctx context.Context, id int32, invoice string) error
	// ListActiveForRooms returns active reservations of the given rooms that end after from.
	ListActiveForRooms(ctx context.Context, roomIDs []int32, from time.Time) ([]domain.Reservation, error)
	ListByUser(ctx context.Context, userID int32, includeHidden bool) ([]domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error)
	CountActiveForRoom(ctx context.Context, roomID int32) (int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	CountUnread(ctx context.Context, userID int32) (int32, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, limit, offset int32) ([]domain.ActivityLog, int32, error)
}

type PaymentEventRepository interface {
	// Record stores the outcome for a checkout session; a later outcome for the
	// same session overwrites the earlier one.
	Record(ctx context.Context, event *domain.PaymentEvent) error
	ListUnreported(ctx context.Context) ([]domain.PaymentEvent, error)
	MarkReported(ctx context.Context, ids []int32, at time.Time) error
}
