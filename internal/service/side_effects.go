package service

import (
	"context"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
)

// BestEffort is the result of a secondary write. Callers may ignore it; a
// failure has already been logged and never affects the primary operation.
type BestEffort struct {
	Kind string
	Err  error
}

func (b BestEffort) OK() bool { return b.Err == nil }

// sideEffects records notifications and activity entries after a primary
// write has committed.
type sideEffects struct {
	notes    repository.NotificationRepository
	activity repository.ActivityLogRepository
}

func newSideEffects(notes repository.NotificationRepository, activity repository.ActivityLogRepository) *sideEffects {
	return &sideEffects{notes: notes, activity: activity}
}

func (s *sideEffects) run(ctx context.Context, kind string, fn func() error, args ...any) BestEffort {
	err := fn()
	if err != nil {
		logger.SideEffectFailed(ctx, kind, err, args...)
	}
	return BestEffort{Kind: kind, Err: err}
}

func (s *sideEffects) notify(ctx context.Context, n *domain.Notification) BestEffort {
	return s.run(ctx, "notification", func() error {
		return s.notes.Create(ctx, n)
	}, "title", n.Title)
}

func (s *sideEffects) record(ctx context.Context, actorID *int32, action, entityType string, entityID int32, details map[string]string) BestEffort {
	return s.run(ctx, "activity_log", func() error {
		return s.activity.Create(ctx, &domain.ActivityLog{
			ActorID:    actorID,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
		})
	}, "action", action, "entityID", entityID)
}

func (s *sideEffects) email(ctx context.Context, kind string, fn func() error) BestEffort {
	return s.run(ctx, "email."+kind, fn)
}

func actorRef(actor domain.Principal) *int32 {
	if actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}
