package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
)

type activityLogRepository struct {
	db *sql.DB
}

func NewActivityLogRepository(db *sql.DB) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.Details == nil {
		entry.Details = map[string]string{}
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	query := `INSERT INTO activity_logs (actor_id, action, entity_type, entity_id, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "activity_logs", "action", entry.Action, "entityID", entry.EntityID)
	err = r.db.QueryRowContext(ctx, query, nullInt32(entry.ActorID), entry.Action, entry.EntityType, entry.EntityID,
		details, now).Scan(&entry.ID)
	logger.DatabaseResult("INSERT", 1, err, "activityID", entry.ID)
	if err != nil {
		return err
	}
	entry.CreatedAt = now
	return nil
}

func (r *activityLogRepository) List(ctx context.Context, limit, offset int32) ([]domain.ActivityLog, int32, error) {
	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, actor_id, action, entity_type, entity_id, details, created_at
	          FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []domain.ActivityLog{}
	for rows.Next() {
		var (
			e       domain.ActivityLog
			actor   sql.NullInt32
			details []byte
		)
		if err := rows.Scan(&e.ID, &actor, &e.Action, &e.EntityType, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.ActorID = int32Ptr(actor)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, 0, err
			}
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
