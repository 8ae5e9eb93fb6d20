package availability_test

import (
	"testing"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func reservation(id, roomID int32, start, end string) domain.Reservation {
	return domain.Reservation{
		ID:              id,
		RoomID:          roomID,
		ReservationCode: "RES-" + start,
		FullName:        "Guest",
		StartDate:       day(start),
		EndDate:         day(end),
	}
}

func doubles() []domain.Room {
	return []domain.Room{
		{ID: 1, RoomNumber: "101", Type: "hotel-double", Name: "Double 101", Status: domain.RoomStatusAvailable},
		{ID: 2, RoomNumber: "102", Type: "hotel-double", Name: "Double 102", Status: domain.RoomStatusAvailable},
	}
}

func TestOverlaps(t *testing.T) {
	t.Run("Touching boundaries do not overlap", func(t *testing.T) {
		assert.False(t, availability.Overlaps(day("2025-06-01"), day("2025-06-05"), day("2025-06-05"), day("2025-06-08")))
		assert.False(t, availability.Overlaps(day("2025-06-05"), day("2025-06-08"), day("2025-06-01"), day("2025-06-05")))
	})

	t.Run("Partial overlap", func(t *testing.T) {
		assert.True(t, availability.Overlaps(day("2025-06-01"), day("2025-06-05"), day("2025-06-04"), day("2025-06-06")))
	})

	t.Run("Containment", func(t *testing.T) {
		assert.True(t, availability.Overlaps(day("2025-06-01"), day("2025-06-10"), day("2025-06-03"), day("2025-06-04")))
	})

	t.Run("Time of day is ignored", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		// 01:00 local on the 5th is still the 4th in UTC
		start := time.Date(2025, 6, 5, 1, 0, 0, 0, loc)
		assert.True(t, availability.Overlaps(day("2025-06-01"), day("2025-06-05"), start, day("2025-06-08")))
	})
}

func TestParseDate(t *testing.T) {
	got, err := availability.ParseDate("start_date", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = availability.ParseDate("start_date", "2025-06-01T23:30:00-07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = availability.ParseDate("end_date", "06/01/2025")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end_date", ve.Field)

	_, err = availability.ParseDate("end_date", "")
	assert.True(t, domain.IsValidation(err))

	for _, bad := range []string{"2025-06-01Tjunk", "2025-06-01T", "2025-06-01T99:99", "2025-06-01 12:00"} {
		_, err = availability.ParseDate("start_date", bad)
		assert.True(t, domain.IsValidation(err), bad)
	}
}

func TestValidateRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	assert.NoError(t, availability.ValidateRange(day("2025-06-01"), day("2025-06-02"), now, false))
	assert.True(t, domain.IsValidation(availability.ValidateRange(day("2025-06-02"), day("2025-06-02"), now, false)))
	assert.True(t, domain.IsValidation(availability.ValidateRange(day("2025-06-03"), day("2025-06-02"), now, false)))
	assert.True(t, domain.IsValidation(availability.ValidateRange(day("2025-05-31"), day("2025-06-02"), now, false)))
	assert.NoError(t, availability.ValidateRange(day("2025-05-31"), day("2025-06-02"), now, true))
}

func TestEvaluate(t *testing.T) {
	q := availability.Query{RoomType: "hotel-double", StartDate: day("2025-06-04"), EndDate: day("2025-06-06")}

	t.Run("Free rooms keep listing order", func(t *testing.T) {
		res := availability.Evaluate(doubles(), nil, q)
		require.Len(t, res.AvailableRooms, 2)
		assert.Equal(t, int32(1), res.AvailableRooms[0].ID)
		assert.Equal(t, int32(2), res.AvailableRooms[1].ID)
		assert.Empty(t, res.UnavailableRooms)
	})

	t.Run("Booked room reports nearest conflict", func(t *testing.T) {
		reservations := []domain.Reservation{
			reservation(10, 1, "2025-06-05", "2025-06-09"),
			reservation(11, 1, "2025-06-01", "2025-06-05"),
		}
		res := availability.Evaluate(doubles(), reservations, q)
		require.Len(t, res.AvailableRooms, 1)
		assert.Equal(t, int32(2), res.AvailableRooms[0].ID)
		require.Len(t, res.UnavailableRooms, 1)
		u := res.UnavailableRooms[0]
		assert.Equal(t, availability.ReasonBooked, u.Reason)
		require.NotNil(t, u.Conflict)
		assert.Equal(t, int32(11), u.Conflict.ReservationID)
		assert.Equal(t, day("2025-06-05"), u.Conflict.EndDate)
	})

	t.Run("Boundary touching reservation does not block", func(t *testing.T) {
		reservations := []domain.Reservation{reservation(10, 1, "2025-06-01", "2025-06-05")}
		res := availability.Evaluate(doubles(), reservations, availability.Query{
			RoomType: "hotel-double", StartDate: day("2025-06-05"), EndDate: day("2025-06-08"),
		})
		assert.Len(t, res.AvailableRooms, 2)
	})

	t.Run("Inactive reservations are ignored", func(t *testing.T) {
		now := time.Now()
		cancelled := reservation(10, 1, "2025-06-01", "2025-06-10")
		cancelled.CancelledAt = &now
		archived := reservation(11, 2, "2025-06-01", "2025-06-10")
		archived.AdminHidden = true
		res := availability.Evaluate(doubles(), []domain.Reservation{cancelled, archived}, q)
		assert.Len(t, res.AvailableRooms, 2)
	})

	t.Run("Excluded reservation does not conflict with itself", func(t *testing.T) {
		reservations := []domain.Reservation{reservation(10, 1, "2025-06-04", "2025-06-06")}
		withExclude := q
		withExclude.ExcludeReservationID = 10
		res := availability.Evaluate(doubles(), reservations, withExclude)
		assert.Len(t, res.AvailableRooms, 2)
	})

	t.Run("Out of order room is never available", func(t *testing.T) {
		rooms := doubles()
		rooms[0].Status = domain.RoomStatusOutOfOrder
		res := availability.Evaluate(rooms, nil, q)
		require.Len(t, res.AvailableRooms, 1)
		assert.Equal(t, int32(2), res.AvailableRooms[0].ID)
		require.Len(t, res.UnavailableRooms, 1)
		assert.Equal(t, availability.ReasonOutOfOrder, res.UnavailableRooms[0].Reason)
		assert.Nil(t, res.UnavailableRooms[0].Conflict)
	})

	t.Run("Empty type or rooms yields no rooms", func(t *testing.T) {
		res := availability.Evaluate(doubles(), nil, availability.Query{StartDate: q.StartDate, EndDate: q.EndDate})
		assert.NotNil(t, res.AvailableRooms)
		assert.Empty(t, res.AvailableRooms)
		assert.Empty(t, availability.Evaluate(nil, nil, q).AvailableRooms)
	})
}

func TestPick(t *testing.T) {
	res := availability.Evaluate(doubles(), nil, availability.Query{
		RoomType: "hotel-double", StartDate: day("2025-06-01"), EndDate: day("2025-06-02"),
	})

	room, ok := availability.Pick(res, 0)
	require.True(t, ok)
	assert.Equal(t, int32(1), room.ID)

	room, ok = availability.Pick(res, 2)
	require.True(t, ok)
	assert.Equal(t, int32(2), room.ID)

	room, ok = availability.Pick(res, 99)
	require.True(t, ok)
	assert.Equal(t, int32(1), room.ID)

	_, ok = availability.Pick(availability.Result{}, 0)
	assert.False(t, ok)
}

func TestDayStatuses(t *testing.T) {
	rooms := doubles()
	rooms = append(rooms, domain.Room{ID: 3, Type: "hotel-double", Status: domain.RoomStatusNeedsCleaning})
	reservations := []domain.Reservation{
		reservation(10, 1, "2025-06-01", "2025-06-05"),
		reservation(11, 3, "2025-06-01", "2025-06-05"),
	}

	statuses := availability.DayStatuses(rooms, reservations, day("2025-06-04"))
	require.Len(t, statuses, 3)
	assert.Equal(t, domain.RoomStatusBooked, statuses[0].Status)
	require.NotNil(t, statuses[0].ReservationID)
	assert.Equal(t, int32(10), *statuses[0].ReservationID)
	assert.Equal(t, domain.RoomStatusAvailable, statuses[1].Status)
	assert.Equal(t, domain.RoomStatusNeedsCleaning, statuses[2].Status)

	// check-out day is free
	statuses = availability.DayStatuses(rooms, reservations, day("2025-06-05"))
	assert.Equal(t, domain.RoomStatusAvailable, statuses[0].Status)

	counts := availability.Summarize(statuses)
	assert.Equal(t, 2, counts[domain.RoomStatusAvailable])
	assert.Equal(t, 1, counts[domain.RoomStatusNeedsCleaning])
	assert.Equal(t, 0, counts[domain.RoomStatusBooked])
}
