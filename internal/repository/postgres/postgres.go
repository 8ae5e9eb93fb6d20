package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"

	constraintStripeSession = "reservations_stripe_session_id_key"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.RoomRepository
	repository.ReservationRepository
	repository.NotificationRepository
	repository.ActivityLogRepository
	repository.PaymentEventRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		RoomRepository:         NewRoomRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ActivityLogRepository:  NewActivityLogRepository(db),
		PaymentEventRepository: NewPaymentEventRepository(db),
	}
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("MIGRATE", "schema")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	return err
}

// translateError maps driver errors onto the domain taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return domain.ErrNoRoomAvailable
		case codeUniqueViolation:
			if pqErr.Constraint == constraintStripeSession {
				return domain.ErrDuplicateEvent
			}
		}
	}
	return err
}

func nullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func int32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	i := v.Int32
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
