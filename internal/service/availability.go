package service

import (
	"context"
	"strings"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/repository"
)

type availabilityService struct {
	*booker
}

func NewAvailabilityService(roomRepo repository.RoomRepository, resRepo repository.ReservationRepository) AvailabilityService {
	return &availabilityService{
		booker: &booker{rooms: roomRepo, reservations: resRepo, now: time.Now},
	}
}

func (s *availabilityService) FindAvailability(ctx context.Context, roomType, startDate, endDate string, excludeReservationID int32) (availability.Result, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return availability.Result{}, err
	}

	// Re-checking an existing reservation with unchanged dates may look at the past.
	allowPast := false
	if excludeReservationID != 0 {
		existing, err := s.reservations.GetByID(ctx, excludeReservationID)
		if err != nil {
			return availability.Result{}, domain.Persistence("get reservation", err)
		}
		allowPast = existing.StartDate.Equal(start) && existing.EndDate.Equal(end)
	}
	if err := availability.ValidateRange(start, end, s.now(), allowPast); err != nil {
		return availability.Result{}, err
	}
	return s.evaluate(ctx, strings.TrimSpace(roomType), start, end, excludeReservationID)
}

func (s *availabilityService) RoomStatusOn(ctx context.Context, date string) ([]domain.RoomDayStatus, error) {
	day := availability.Today(s.now())
	if date != "" {
		d, err := availability.ParseDate("date", date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	rooms, err := s.rooms.List(ctx, "")
	if err != nil {
		return nil, domain.Persistence("list rooms", err)
	}
	ids := make([]int32, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	active, err := s.reservations.ListActiveForRooms(ctx, ids, day)
	if err != nil {
		return nil, domain.Persistence("list reservations", err)
	}
	return availability.DayStatuses(rooms, active, day), nil
}

func (s *availabilityService) HousekeepingSummary(ctx context.Context, date string) (map[domain.RoomStatus]int, error) {
	statuses, err := s.RoomStatusOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return availability.Summarize(statuses), nil
}
