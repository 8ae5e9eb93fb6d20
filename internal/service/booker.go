package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
	"hotel-backend/internal/utils"
)

// booker runs the check-then-commit sequence shared by walk-in bookings and
// paid checkouts. The engine check only picks a room; the store's exclusion
// constraint decides races.
type booker struct {
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
	effects      *sideEffects
	now          func() time.Time
}

type bookingDraft struct {
	RoomType        string
	PreferredRoomID int32
	StartDate       time.Time
	EndDate         time.Time
	// PriceCents overrides the computed total when positive.
	PriceCents  int32
	Reservation domain.Reservation
}

func (b *booker) evaluate(ctx context.Context, roomType string, start, end time.Time, excludeID int32) (availability.Result, error) {
	q := availability.Query{
		RoomType:             roomType,
		StartDate:            availability.Normalize(start),
		EndDate:              availability.Normalize(end),
		ExcludeReservationID: excludeID,
	}
	if roomType == "" {
		return availability.Evaluate(nil, nil, q), nil
	}

	rooms, err := b.rooms.List(ctx, roomType)
	if err != nil {
		return availability.Result{}, domain.Persistence("list rooms", err)
	}
	ids := make([]int32, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	active, err := b.reservations.ListActiveForRooms(ctx, ids, q.StartDate)
	if err != nil {
		return availability.Result{}, domain.Persistence("list reservations", err)
	}
	return availability.Evaluate(rooms, active, q), nil
}

// commit picks a room, prices the stay and inserts the reservation. Losing a
// race at insert time surfaces as domain.ErrNoRoomAvailable, exactly like a
// room that was never free.
func (b *booker) commit(ctx context.Context, d bookingDraft) (*domain.Reservation, domain.Room, error) {
	logger.EnterMethod("booker.commit", "roomType", d.RoomType, "start", d.StartDate, "end", d.EndDate)

	result, err := b.evaluate(ctx, d.RoomType, d.StartDate, d.EndDate, 0)
	if err != nil {
		logger.ExitMethodWithError("booker.commit", err)
		return nil, domain.Room{}, err
	}
	room, ok := availability.Pick(result, d.PreferredRoomID)
	if !ok {
		logger.ExitMethod("booker.commit", "result", "no room")
		return nil, domain.Room{}, domain.ErrNoRoomAvailable
	}

	cost, err := utils.CalculateStayCost(room, d.StartDate, d.EndDate)
	if err != nil {
		return nil, domain.Room{}, domain.NewValidationError("end_date", err.Error())
	}

	now := b.now().UTC()
	res := d.Reservation
	res.RoomID = room.ID
	res.StartDate = availability.Normalize(d.StartDate)
	res.EndDate = availability.Normalize(d.EndDate)
	res.ReservationCode = utils.NewReservationCode()
	res.TotalPriceCents = cost.TotalPriceCents
	if d.PriceCents > 0 {
		res.TotalPriceCents = d.PriceCents
	}
	if res.Guests <= 0 {
		res.Guests = 1
	}
	if res.PaymentMethod == "" {
		res.PaymentMethod = domain.PaymentMethodCash
	}
	normalizePayment(&res, now)

	if err := b.reservations.Create(ctx, &res); err != nil {
		err = domain.Persistence("create reservation", err)
		logger.ExitMethodWithError("booker.commit", err, "roomID", room.ID)
		return nil, domain.Room{}, err
	}

	invoice := utils.InvoiceNumber(now.Year(), res.ID)
	r := b.effects.run(ctx, "invoice_number", func() error {
		return b.reservations.SetInvoiceNumber(ctx, res.ID, invoice)
	}, "reservationID", res.ID)
	if r.OK() {
		res.InvoiceNumber = &invoice
	}

	logger.ExitMethod("booker.commit", "reservationID", res.ID, "roomID", room.ID)
	return &res, room, nil
}

// normalizePayment makes the paid fields consistent with payment_status.
func normalizePayment(res *domain.Reservation, now time.Time) {
	if res.PaymentStatus == domain.PaymentStatusPaid {
		res.AmountPaidCents = res.TotalPriceCents
		if res.PaidAt == nil {
			paidAt := now
			res.PaidAt = &paidAt
		}
		return
	}
	res.PaymentStatus = domain.PaymentStatusUnpaid
	res.AmountPaidCents = 0
	res.PaidAt = nil
}

// announce records the staff notification and activity entry for a new booking.
func (b *booker) announce(ctx context.Context, actorID *int32, source string, res *domain.Reservation, room domain.Room) {
	b.effects.notify(ctx, &domain.Notification{
		Title: "New reservation",
		Message: fmt.Sprintf("%s booked room %s from %s to %s", res.FullName, room.RoomNumber,
			res.StartDate.Format(availability.DateLayout), res.EndDate.Format(availability.DateLayout)),
		Attributes: map[string]string{
			"type":             "RESERVATION_CREATED",
			"reservation_id":   fmt.Sprintf("%d", res.ID),
			"reservation_code": res.ReservationCode,
			"source":           source,
		},
	})
	b.effects.record(ctx, actorID, "reservation.created", "reservation", res.ID, map[string]string{
		"room":   room.RoomNumber,
		"source": source,
	})
}

func isNoRoom(err error) bool {
	return errors.Is(err, domain.ErrNoRoomAvailable)
}
