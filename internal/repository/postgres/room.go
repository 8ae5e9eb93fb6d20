package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"

	"github.com/lib/pq"
)

const roomColumns = `id, room_number, type, name, price_cents, status, description, image_keys, created_at, updated_at`

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func scanRoom(s rowScanner) (*domain.Room, error) {
	var (
		room   domain.Room
		status string
		keys   pq.StringArray
	)
	if err := s.Scan(&room.ID, &room.RoomNumber, &room.Type, &room.Name, &room.PriceCents, &status,
		&room.Description, &keys, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Status = domain.RoomStatus(status)
	room.ImageKeys = []string(keys)
	if room.ImageKeys == nil {
		room.ImageKeys = []string{}
	}
	return &room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	logger.EnterMethod("roomRepository.Create", "type", room.Type, "roomNumber", room.RoomNumber)

	query := `INSERT INTO rooms (room_number, type, name, price_cents, status, description, image_keys, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now().UTC()
	if room.ImageKeys == nil {
		room.ImageKeys = []string{}
	}

	logger.DatabaseCall("INSERT", "rooms", "roomNumber", room.RoomNumber)
	err := r.db.QueryRowContext(ctx, query, room.RoomNumber, room.Type, room.Name, room.PriceCents, room.Status,
		room.Description, pq.Array(room.ImageKeys), now).Scan(&room.ID)
	logger.DatabaseResult("INSERT", 1, err, "roomID", room.ID)
	if err != nil {
		logger.ExitMethodWithError("roomRepository.Create", err)
		return err
	}
	room.CreatedAt = now
	room.UpdatedAt = now
	logger.ExitMethod("roomRepository.Create", "roomID", room.ID)
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `UPDATE rooms SET room_number=$1, type=$2, name=$3, price_cents=$4, status=$5, description=$6, updated_at=$7
	          WHERE id=$8`
	now := time.Now().UTC()
	logger.DatabaseCall("UPDATE", "rooms", "roomID", room.ID)
	result, err := r.db.ExecContext(ctx, query, room.RoomNumber, room.Type, room.Name, room.PriceCents, room.Status,
		room.Description, now, room.ID)
	return r.checkAffected("UPDATE", result, err, func() { room.UpdatedAt = now })
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id int32, status domain.RoomStatus) error {
	logger.DatabaseCall("UPDATE", "rooms", "roomID", id, "status", status)
	result, err := r.db.ExecContext(ctx, `UPDATE rooms SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	return r.checkAffected("UPDATE", result, err, nil)
}

func (r *roomRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "rooms", "roomID", id)
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return r.checkAffected("DELETE", result, err, nil)
}

func (r *roomRepository) checkAffected(op string, result sql.Result, err error, onSuccess func()) error {
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult(op, rows, nil)
	if rows == 0 {
		return domain.ErrNotFound
	}
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}

func (r *roomRepository) List(ctx context.Context, roomType string) ([]domain.Room, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if roomType == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE type = $1 ORDER BY id`, roomType)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) ListTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT type FROM rooms ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *roomRepository) ExistsNumber(ctx context.Context, roomType, roomNumber string, excludeID int32) (bool, error) {
	var id int32
	query := `SELECT id FROM rooms WHERE type = $1 AND room_number = $2 AND id <> $3 LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, roomType, roomNumber, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *roomRepository) AddImage(ctx context.Context, id int32, key string) error {
	logger.DatabaseCall("UPDATE", "rooms", "roomID", id, "imageKey", key)
	result, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET image_keys = array_append(image_keys, $1), updated_at = $2 WHERE id = $3`,
		key, time.Now().UTC(), id)
	return r.checkAffected("UPDATE", result, err, nil)
}
