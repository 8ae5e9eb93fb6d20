package service_test

import (
	"context"
	"errors"
	"testing"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	noteRepo := new(MockNotificationRepo)
	svc := service.NewNotificationService(noteRepo)

	notes := []domain.Notification{{ID: 1, Title: "New reservation"}}
	noteRepo.On("List", ctx, worker.UserID, int32(20), int32(20)).Return(notes, int32(21), nil)
	noteRepo.On("MarkAsRead", ctx, int32(1), worker.UserID).Return(nil)
	noteRepo.On("MarkAsRead", ctx, int32(99), worker.UserID).Return(domain.ErrNotFound)
	noteRepo.On("CountUnread", ctx, worker.UserID).Return(int32(3), nil)

	list, total, err := svc.GetNotifications(ctx, worker, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, notes, list)
	assert.Equal(t, int32(21), total)

	assert.NoError(t, svc.MarkAsRead(ctx, worker, 1))
	assert.ErrorIs(t, svc.MarkAsRead(ctx, worker, 99), domain.ErrNotFound)

	n, err := svc.UnreadCount(ctx, worker)
	require.NoError(t, err)
	assert.Equal(t, int32(3), n)

	_, _, err = svc.GetNotifications(ctx, guest, 1, 20)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNotificationService_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	noteRepo := new(MockNotificationRepo)
	svc := service.NewNotificationService(noteRepo)
	noteRepo.On("CountUnread", ctx, worker.UserID).Return(int32(0), errors.New("connection reset"))

	_, err := svc.UnreadCount(ctx, worker)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.NotContains(t, err.Error(), "connection reset")
}

func TestActivityService_ListActivity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := service.NewActivityService(store.Activity())
	require.NoError(t, store.Activity().Create(ctx, &domain.ActivityLog{Action: "room.created", EntityType: "room", EntityID: 1}))

	_, _, err := svc.ListActivity(ctx, worker, 1, 20)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	entries, total, err := svc.ListActivity(ctx, admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "room.created", entries[0].Action)
}
