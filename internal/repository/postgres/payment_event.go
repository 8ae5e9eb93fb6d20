package postgres

import (
	"context"
	"database/sql"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"

	"github.com/lib/pq"
)

type paymentEventRepository struct {
	db *sql.DB
}

func NewPaymentEventRepository(db *sql.DB) repository.PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) Record(ctx context.Context, e *domain.PaymentEvent) error {
	query := `INSERT INTO payment_events (session_id, customer_email, amount_total_cents, outcome, reservation_id, detail, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (session_id) DO UPDATE SET
	              customer_email = EXCLUDED.customer_email,
	              amount_total_cents = EXCLUDED.amount_total_cents,
	              outcome = EXCLUDED.outcome,
	              reservation_id = EXCLUDED.reservation_id,
	              detail = EXCLUDED.detail
	          RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("UPSERT", "payment_events", "sessionID", e.SessionID, "outcome", e.Outcome)
	err := r.db.QueryRowContext(ctx, query, e.SessionID, e.CustomerEmail, e.AmountTotalCents, e.Outcome,
		nullInt32(e.ReservationID), e.Detail, now).Scan(&e.ID)
	logger.DatabaseResult("UPSERT", 1, err, "paymentEventID", e.ID)
	if err != nil {
		return err
	}
	e.CreatedAt = now
	return nil
}

// ListUnreported returns recorded sessions that captured money without a reservation
// and have not been included in a reconciliation report yet.
func (r *paymentEventRepository) ListUnreported(ctx context.Context) ([]domain.PaymentEvent, error) {
	outcomes := []string{
		string(domain.PaymentOutcomeUnmatchedUser),
		string(domain.PaymentOutcomeNoRoom),
		string(domain.PaymentOutcomeInvalidMetadata),
	}
	query := `SELECT id, session_id, customer_email, amount_total_cents, outcome, reservation_id, detail, created_at
	          FROM payment_events WHERE reported_at IS NULL AND outcome = ANY($1) ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(outcomes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.PaymentEvent{}
	for rows.Next() {
		var (
			e       domain.PaymentEvent
			outcome string
			resID   sql.NullInt32
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.CustomerEmail, &e.AmountTotalCents, &outcome, &resID,
			&e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Outcome = domain.PaymentOutcome(outcome)
		e.ReservationID = int32Ptr(resID)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *paymentEventRepository) MarkReported(ctx context.Context, ids []int32, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	logger.DatabaseCall("UPDATE", "payment_events", "count", len(ids))
	result, err := r.db.ExecContext(ctx, `UPDATE payment_events SET reported_at = $1 WHERE id = ANY($2)`, at, pq.Array(ids))
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	rows, _ := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, nil)
	return nil
}
