package service_test

import (
	"context"
	"testing"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityService_FindAvailability(t *testing.T) {
	ctx := context.Background()
	rooms := append(doubleRooms(), domain.Room{ID: 3, RoomNumber: "103", Type: "double", Name: "Double 103", Status: domain.RoomStatusOutOfOrder})
	store := newMemStore(rooms...)
	svc := service.NewAvailabilityService(store.Rooms(), store.Reservations())
	booked := store.seed(ownedBy(guest.UserID, 1, 1, 3))

	result, err := svc.FindAvailability(ctx, "double", day(2), day(4), 0)
	require.NoError(t, err)
	require.Len(t, result.AvailableRooms, 1)
	assert.Equal(t, int32(2), result.AvailableRooms[0].ID)
	require.Len(t, result.UnavailableRooms, 2)
	assert.Equal(t, availability.ReasonBooked, result.UnavailableRooms[0].Reason)
	require.NotNil(t, result.UnavailableRooms[0].Conflict)
	assert.Equal(t, booked, result.UnavailableRooms[0].Conflict.ReservationID)
	assert.Equal(t, availability.ReasonOutOfOrder, result.UnavailableRooms[1].Reason)

	// Excluding the blocking reservation frees its room.
	result, err = svc.FindAvailability(ctx, "double", day(2), day(4), booked)
	require.NoError(t, err)
	assert.Len(t, result.AvailableRooms, 2)

	// Touching stays do not conflict.
	result, err = svc.FindAvailability(ctx, "double", day(3), day(4), 0)
	require.NoError(t, err)
	assert.Len(t, result.AvailableRooms, 2)

	result, err = svc.FindAvailability(ctx, "", day(3), day(4), 0)
	require.NoError(t, err)
	assert.Empty(t, result.AvailableRooms)
	assert.Empty(t, result.UnavailableRooms)

	_, err = svc.FindAvailability(ctx, "double", day(-1), day(1), 0)
	assertValidation(t, err, "start_date")

	_, err = svc.FindAvailability(ctx, "double", day(2), day(1), 0)
	assertValidation(t, err, "end_date")
}

func TestAvailabilityService_PastDatesForUnchangedReservation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(doubleRooms()...)
	svc := service.NewAvailabilityService(store.Rooms(), store.Reservations())
	id := store.seed(ownedBy(guest.UserID, 1, -2, 1))

	result, err := svc.FindAvailability(ctx, "double", day(-2), day(1), id)
	require.NoError(t, err)
	assert.Len(t, result.AvailableRooms, 2)

	_, err = svc.FindAvailability(ctx, "double", day(-3), day(1), id)
	assertValidation(t, err, "start_date")
}

func TestAvailabilityService_RoomStatusOn(t *testing.T) {
	ctx := context.Background()
	rooms := doubleRooms()
	rooms = append(rooms,
		domain.Room{ID: 3, RoomNumber: "103", Type: "double", Status: domain.RoomStatusNeedsCleaning},
		domain.Room{ID: 4, RoomNumber: "104", Type: "double", Status: domain.RoomStatusOutOfOrder},
	)
	store := newMemStore(rooms...)
	svc := service.NewAvailabilityService(store.Rooms(), store.Reservations())
	resID := store.seed(ownedBy(guest.UserID, 1, 0, 2))

	statuses, err := svc.RoomStatusOn(ctx, "")
	require.NoError(t, err)
	require.Len(t, statuses, 4)
	assert.Equal(t, domain.RoomStatusBooked, statuses[0].Status)
	require.NotNil(t, statuses[0].ReservationID)
	assert.Equal(t, resID, *statuses[0].ReservationID)
	assert.Equal(t, domain.RoomStatusAvailable, statuses[1].Status)
	assert.Equal(t, domain.RoomStatusNeedsCleaning, statuses[2].Status)
	assert.Equal(t, domain.RoomStatusOutOfOrder, statuses[3].Status)

	// Check-out day is free.
	statuses, err = svc.RoomStatusOn(ctx, day(2))
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusAvailable, statuses[0].Status)

	summary, err := svc.HousekeepingSummary(ctx, day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, summary[domain.RoomStatusBooked])
	assert.Equal(t, 1, summary[domain.RoomStatusAvailable])
	assert.Equal(t, 1, summary[domain.RoomStatusNeedsCleaning])
	assert.Equal(t, 1, summary[domain.RoomStatusOutOfOrder])

	_, err = svc.RoomStatusOn(ctx, "tomorrow")
	assertValidation(t, err, "date")
}
