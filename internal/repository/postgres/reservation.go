package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, reservation_code, invoice_number, room_id, user_id, full_name, phone, address, guests,
	start_date, end_date, status, total_price_cents, payment_method, payment_status, amount_paid_cents, paid_at,
	cancelled_at, cancel_reason, admin_hidden, admin_hidden_at, client_hidden, stripe_session_id, created_at, updated_at`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*domain.Reservation, error) {
	var (
		res                                  domain.Reservation
		invoice, sessionID                   sql.NullString
		userID                               sql.NullInt32
		paidAt, cancelledAt, adminHiddenAt   sql.NullTime
		status, paymentMethod, paymentStatus string
	)
	err := s.Scan(&res.ID, &res.ReservationCode, &invoice, &res.RoomID, &userID, &res.FullName, &res.Phone, &res.Address,
		&res.Guests, &res.StartDate, &res.EndDate, &status, &res.TotalPriceCents, &paymentMethod, &paymentStatus,
		&res.AmountPaidCents, &paidAt, &cancelledAt, &res.CancelReason, &res.AdminHidden, &adminHiddenAt,
		&res.ClientHidden, &sessionID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.InvoiceNumber = stringPtr(invoice)
	res.StripeSessionID = stringPtr(sessionID)
	res.UserID = int32Ptr(userID)
	res.PaidAt = timePtr(paidAt)
	res.CancelledAt = timePtr(cancelledAt)
	res.AdminHiddenAt = timePtr(adminHiddenAt)
	res.Status = domain.ReservationStatus(status)
	res.PaymentMethod = domain.PaymentMethod(paymentMethod)
	res.PaymentStatus = domain.PaymentStatus(paymentStatus)
	res.StartDate = dateOnly(res.StartDate)
	res.EndDate = dateOnly(res.EndDate)
	return &res, nil
}

// dateOnly keeps the calendar date of a DATE column as UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationRepository.Create", "roomID", res.RoomID, "start", res.StartDate, "end", res.EndDate)

	query := `INSERT INTO reservations (reservation_code, room_id, user_id, full_name, phone, address, guests,
	          start_date, end_date, status, total_price_cents, payment_method, payment_status, amount_paid_cents,
	          paid_at, stripe_session_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
	          RETURNING id`
	now := time.Now().UTC()
	var paidAt sql.NullTime
	if res.PaidAt != nil {
		paidAt = sql.NullTime{Time: *res.PaidAt, Valid: true}
	}

	logger.DatabaseCall("INSERT", "reservations", "roomID", res.RoomID)
	err := r.db.QueryRowContext(ctx, query, res.ReservationCode, res.RoomID, nullInt32(res.UserID), res.FullName,
		res.Phone, res.Address, res.Guests, res.StartDate, res.EndDate, res.Status, res.TotalPriceCents,
		res.PaymentMethod, res.PaymentStatus, res.AmountPaidCents, paidAt, nullString(res.StripeSessionID), now).
		Scan(&res.ID)
	err = translateError(err)
	logger.DatabaseResult("INSERT", 1, err, "reservationID", res.ID)
	if err != nil {
		logger.ExitMethodWithError("reservationRepository.Create", err, "roomID", res.RoomID)
		return err
	}
	res.CreatedAt = now
	res.UpdatedAt = now
	logger.ExitMethod("reservationRepository.Create", "reservationID", res.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

func (r *reservationRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE stripe_session_id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationRepository.Update", "reservationID", res.ID)

	query := `UPDATE reservations SET room_id=$1, full_name=$2, phone=$3, address=$4, guests=$5, start_date=$6,
	          end_date=$7, status=$8, total_price_cents=$9, payment_method=$10, payment_status=$11,
	          amount_paid_cents=$12, paid_at=$13, cancelled_at=$14, cancel_reason=$15, admin_hidden=$16,
	          admin_hidden_at=$17, client_hidden=$18, updated_at=$19
	          WHERE id=$20`
	now := time.Now().UTC()
	toNull := func(t *time.Time) sql.NullTime {
		if t == nil {
			return sql.NullTime{}
		}
		return sql.NullTime{Time: *t, Valid: true}
	}

	logger.DatabaseCall("UPDATE", "reservations", "reservationID", res.ID)
	result, err := r.db.ExecContext(ctx, query, res.RoomID, res.FullName, res.Phone, res.Address, res.Guests,
		res.StartDate, res.EndDate, res.Status, res.TotalPriceCents, res.PaymentMethod, res.PaymentStatus,
		res.AmountPaidCents, toNull(res.PaidAt), toNull(res.CancelledAt), res.CancelReason, res.AdminHidden,
		toNull(res.AdminHiddenAt), res.ClientHidden, now, res.ID)
	if err != nil {
		err = translateError(err)
		logger.DatabaseResult("UPDATE", 0, err)
		logger.ExitMethodWithError("reservationRepository.Update", err, "reservationID", res.ID)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil)
	if rows == 0 {
		return domain.ErrNotFound
	}
	res.UpdatedAt = now
	logger.ExitMethod("reservationRepository.Update", "reservationID", res.ID)
	return nil
}

func (r *reservationRepository) SetInvoiceNumber(ctx context.Context, id int32, invoice string) error {
	logger.DatabaseCall("UPDATE", "reservations", "reservationID", id, "invoice", invoice)
	result, err := r.db.ExecContext(ctx, `UPDATE reservations SET invoice_number = $1 WHERE id = $2`, invoice, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil)
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ListActiveForRooms(ctx context.Context, roomIDs []int32, from time.Time) ([]domain.Reservation, error) {
	if len(roomIDs) == 0 {
		return []domain.Reservation{}, nil
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE room_id = ANY($1) AND end_date > $2 AND cancelled_at IS NULL AND admin_hidden = FALSE
	          ORDER BY room_id, start_date`
	logger.DatabaseCall("SELECT", "reservations", "rooms", len(roomIDs), "from", from)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(roomIDs), from)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int32, includeHidden bool) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1`
	if !includeHidden {
		query += ` AND client_hidden = FALSE`
	}
	query += ` ORDER BY start_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.RoomID != 0 {
		args = append(args, filter.RoomID)
		conds = append(conds, fmt.Sprintf("room_id = $%d", len(args)))
	}
	if !filter.IncludeArchived {
		conds = append(conds, "admin_hidden = FALSE")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + reservationColumns + ` FROM reservations` + where +
		fmt.Sprintf(` ORDER BY start_date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := collectReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *reservationRepository) CountActiveForRoom(ctx context.Context, roomID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM reservations WHERE room_id = $1 AND cancelled_at IS NULL AND admin_hidden = FALSE`
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(&count)
	return count, err
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	list := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}
