package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
	"hotel-backend/internal/utils"
)

type reservationService struct {
	*booker
}

func NewReservationService(
	roomRepo repository.RoomRepository,
	resRepo repository.ReservationRepository,
	noteRepo repository.NotificationRepository,
	activityRepo repository.ActivityLogRepository,
) ReservationService {
	return &reservationService{
		booker: &booker{
			rooms:        roomRepo,
			reservations: resRepo,
			effects:      newSideEffects(noteRepo, activityRepo),
			now:          time.Now,
		},
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, actor domain.Principal, in BookingInput) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "actor", actor.UserID, "roomType", in.RoomType)

	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := availability.ValidateRange(start, end, s.now(), false); err != nil {
		return nil, err
	}

	res, room, err := s.commit(ctx, bookingDraft{
		RoomType:        strings.TrimSpace(in.RoomType),
		PreferredRoomID: in.RoomID,
		StartDate:       start,
		EndDate:         end,
		Reservation: domain.Reservation{
			UserID:        in.UserID,
			FullName:      strings.TrimSpace(in.FullName),
			Phone:         strings.TrimSpace(in.Phone),
			Address:       strings.TrimSpace(in.Address),
			Guests:        in.Guests,
			Status:        domain.ReservationStatusConfirmed,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: in.PaymentStatus,
		},
	})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err)
		return nil, err
	}

	s.announce(ctx, actorRef(actor), "walk_in", res, room)
	logger.ExitMethod("reservationService.CreateReservation", "reservationID", res.ID)
	return res, nil
}

func (s *reservationService) GetReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && !res.OwnedBy(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (s *reservationService) ListReservations(ctx context.Context, actor domain.Principal, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	if err := requireStaff(actor); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError("status", "unknown reservation status")
	}
	list, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.Persistence("list reservations", err)
	}
	return list, total, nil
}

func (s *reservationService) ListMyReservations(ctx context.Context, actor domain.Principal) ([]domain.Reservation, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	list, err := s.reservations.ListByUser(ctx, actor.UserID, false)
	if err != nil {
		return nil, domain.Persistence("list reservations", err)
	}
	return list, nil
}

func (s *reservationService) UpdateReservation(ctx context.Context, actor domain.Principal, id int32, edit ReservationEdit) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.UpdateReservation", "actor", actor.UserID, "reservationID", id)

	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validateInput(edit); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsActive() {
		return nil, domain.NewValidationError("reservation", "cancelled or archived reservations cannot be edited")
	}
	current, err := s.rooms.GetByID(ctx, res.RoomID)
	if err != nil {
		return nil, domain.Persistence("get room", err)
	}

	start, end := res.StartDate, res.EndDate
	if edit.StartDate != "" {
		if start, err = availability.ParseDate("start_date", edit.StartDate); err != nil {
			return nil, err
		}
	}
	if edit.EndDate != "" {
		if end, err = availability.ParseDate("end_date", edit.EndDate); err != nil {
			return nil, err
		}
	}
	datesChanged := !start.Equal(res.StartDate) || !end.Equal(res.EndDate)
	if err := availability.ValidateRange(start, end, s.now(), !datesChanged); err != nil {
		return nil, err
	}

	roomType := current.Type
	if t := strings.TrimSpace(edit.RoomType); t != "" {
		roomType = t
	}
	roomChanged := roomType != current.Type || (edit.RoomID != 0 && edit.RoomID != res.RoomID)

	updated := *res
	if datesChanged || roomChanged {
		result, err := s.evaluate(ctx, roomType, start, end, res.ID)
		if err != nil {
			return nil, err
		}
		var (
			room domain.Room
			ok   bool
		)
		if edit.RoomID != 0 {
			room, ok = availableRoom(result, edit.RoomID)
		} else {
			preferred := int32(0)
			if roomType == current.Type {
				preferred = res.RoomID
			}
			room, ok = availability.Pick(result, preferred)
		}
		if !ok {
			logger.ExitMethod("reservationService.UpdateReservation", "result", "no room")
			return nil, domain.ErrNoRoomAvailable
		}
		cost, err := utils.CalculateStayCost(room, start, end)
		if err != nil {
			return nil, domain.NewValidationError("end_date", err.Error())
		}
		updated.RoomID = room.ID
		updated.StartDate = start
		updated.EndDate = end
		updated.TotalPriceCents = cost.TotalPriceCents
		if updated.PaymentStatus == domain.PaymentStatusPaid && updated.AmountPaidCents > updated.TotalPriceCents {
			updated.AmountPaidCents = updated.TotalPriceCents
		}
	}
	if v := strings.TrimSpace(edit.FullName); v != "" {
		updated.FullName = v
	}
	if v := strings.TrimSpace(edit.Phone); v != "" {
		updated.Phone = v
	}
	if v := strings.TrimSpace(edit.Address); v != "" {
		updated.Address = v
	}
	if edit.Guests > 0 {
		updated.Guests = edit.Guests
	}

	if err := s.reservations.Update(ctx, &updated); err != nil {
		err = domain.Persistence("update reservation", err)
		logger.ExitMethodWithError("reservationService.UpdateReservation", err)
		return nil, err
	}

	s.effects.record(ctx, actorRef(actor), "reservation.updated", "reservation", updated.ID, map[string]string{
		"start_date": updated.StartDate.Format(availability.DateLayout),
		"end_date":   updated.EndDate.Format(availability.DateLayout),
		"room_id":    fmt.Sprintf("%d", updated.RoomID),
	})
	logger.ExitMethod("reservationService.UpdateReservation", "reservationID", updated.ID)
	return &updated, nil
}

// availableRoom returns roomID when the evaluation lists it as available.
func availableRoom(result availability.Result, roomID int32) (domain.Room, bool) {
	for _, r := range result.AvailableRooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return domain.Room{}, false
}

func (s *reservationService) UpdateStatus(ctx context.Context, actor domain.Principal, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown reservation status")
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := res.Status
	res.Status = status
	if err := s.save(ctx, res); err != nil {
		return nil, err
	}
	s.effects.record(ctx, actorRef(actor), "reservation.status_changed", "reservation", res.ID, map[string]string{
		"from": string(previous),
		"to":   string(status),
	})
	return res, nil
}

func (s *reservationService) MarkPaid(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.PaymentStatus == domain.PaymentStatusPaid {
		return res, nil
	}
	res.PaymentStatus = domain.PaymentStatusPaid
	res.PaidAt = nil
	normalizePayment(res, s.now().UTC())
	if err := s.save(ctx, res); err != nil {
		return nil, err
	}
	s.effects.record(ctx, actorRef(actor), "reservation.paid", "reservation", res.ID, map[string]string{
		"amount": utils.FormatCents(int64(res.AmountPaidCents)),
	})
	return res, nil
}

// CancelReservation is the guest's own cancellation. It is irreversible and
// only allowed strictly before the check-in day.
func (s *reservationService) CancelReservation(ctx context.Context, actor domain.Principal, id int32, reason string) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CancelReservation", "actor", actor.UserID, "reservationID", id)

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.OwnedBy(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	if res.CancelledAt != nil {
		return nil, domain.NewValidationError("reservation", "reservation is already cancelled")
	}
	now := s.now().UTC()
	if !availability.Today(now).Before(availability.Normalize(res.StartDate)) {
		return nil, domain.NewValidationError("start_date", "reservations cannot be cancelled on or after the check-in date")
	}

	res.CancelledAt = &now
	res.CancelReason = strings.TrimSpace(reason)
	res.Status = domain.ReservationStatusCancelled
	if err := s.save(ctx, res); err != nil {
		logger.ExitMethodWithError("reservationService.CancelReservation", err)
		return nil, err
	}

	s.effects.notify(ctx, &domain.Notification{
		Title:   "Reservation cancelled",
		Message: fmt.Sprintf("%s cancelled reservation %s", res.FullName, res.ReservationCode),
		Attributes: map[string]string{
			"type":           "RESERVATION_CANCELLED",
			"reservation_id": fmt.Sprintf("%d", res.ID),
		},
	})
	s.effects.record(ctx, actorRef(actor), "reservation.cancelled", "reservation", res.ID, map[string]string{
		"reason": res.CancelReason,
	})
	logger.ExitMethod("reservationService.CancelReservation", "reservationID", res.ID)
	return res, nil
}

func (s *reservationService) ArchiveReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.AdminHidden {
		return nil, domain.NewValidationError("reservation", "reservation is already archived")
	}
	now := s.now().UTC()
	res.AdminHidden = true
	res.AdminHiddenAt = &now
	if err := s.save(ctx, res); err != nil {
		return nil, err
	}
	s.effects.record(ctx, actorRef(actor), "reservation.archived", "reservation", res.ID, nil)
	return res, nil
}

// RestoreReservation puts an archived reservation back into the active set,
// which is subject to the same no-overlap rule as a new booking.
func (s *reservationService) RestoreReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.AdminHidden {
		return nil, domain.NewValidationError("reservation", "reservation is not archived")
	}

	if res.CancelledAt == nil {
		room, err := s.rooms.GetByID(ctx, res.RoomID)
		if err != nil {
			return nil, domain.Persistence("get room", err)
		}
		result, err := s.evaluate(ctx, room.Type, res.StartDate, res.EndDate, res.ID)
		if err != nil {
			return nil, err
		}
		if _, ok := availableRoom(result, room.ID); !ok {
			return nil, domain.ErrNoRoomAvailable
		}
	}

	res.AdminHidden = false
	res.AdminHiddenAt = nil
	if err := s.save(ctx, res); err != nil {
		return nil, err
	}
	s.effects.record(ctx, actorRef(actor), "reservation.restored", "reservation", res.ID, nil)
	return res, nil
}

func (s *reservationService) HideReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.OwnedBy(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	if res.ClientHidden {
		return res, nil
	}
	res.ClientHidden = true
	if err := s.save(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reservationService) load(ctx context.Context, id int32) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get reservation", err)
	}
	return res, nil
}

func (s *reservationService) save(ctx context.Context, res *domain.Reservation) error {
	if err := s.reservations.Update(ctx, res); err != nil {
		return domain.Persistence("update reservation", err)
	}
	return nil
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := availability.ParseDate("start_date", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := availability.ParseDate("end_date", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
