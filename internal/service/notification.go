package service

import (
	"context"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.Notification, int32, error) {
	logger.EnterMethod("notificationService.GetNotifications", "userID", actor.UserID, "page", page)

	if err := requireStaff(actor); err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(page, pageSize)
	notes, count, err := s.noteRepo.List(ctx, actor.UserID, limit, offset)
	if err != nil {
		err = domain.Persistence("list notifications", err)
		logger.ExitMethodWithError("notificationService.GetNotifications", err)
		return nil, 0, err
	}
	logger.ExitMethod("notificationService.GetNotifications", "count", len(notes), "total", count)
	return notes, count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Principal, notificationID int32) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if err := s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID); err != nil {
		return domain.Persistence("mark notification read", err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor domain.Principal) (int32, error) {
	if err := requireStaff(actor); err != nil {
		return 0, err
	}
	n, err := s.noteRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, domain.Persistence("count notifications", err)
	}
	return n, nil
}

type activityService struct {
	activityRepo repository.ActivityLogRepository
}

func NewActivityService(activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) ListActivity(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.ActivityLog, int32, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(page, pageSize)
	entries, total, err := s.activityRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, domain.Persistence("list activity", err)
	}
	return entries, total, nil
}
