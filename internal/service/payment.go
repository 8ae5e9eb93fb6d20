package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/lock"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/payment"
	"hotel-backend/internal/repository"
	"hotel-backend/internal/utils"
)

// Metadata keys attached to a checkout session and read back by the webhook.
const (
	metaRoomType   = "room_type"
	metaStartDate  = "start_date"
	metaEndDate    = "end_date"
	metaTotalPrice = "total_price_cents"
	metaFullName   = "full_name"
	metaPhone      = "phone"
	metaAddress    = "address"
	metaGuests     = "guests"
)

type paymentService struct {
	*booker
	users    repository.UserRepository
	events   repository.PaymentEventRepository
	gateway  payment.Gateway
	locker   lock.Locker
	emailSvc EmailService
}

func NewPaymentService(
	roomRepo repository.RoomRepository,
	resRepo repository.ReservationRepository,
	userRepo repository.UserRepository,
	eventRepo repository.PaymentEventRepository,
	noteRepo repository.NotificationRepository,
	activityRepo repository.ActivityLogRepository,
	gateway payment.Gateway,
	locker lock.Locker,
	emailSvc EmailService,
) PaymentService {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &paymentService{
		booker: &booker{
			rooms:        roomRepo,
			reservations: resRepo,
			effects:      newSideEffects(noteRepo, activityRepo),
			now:          time.Now,
		},
		users:    userRepo,
		events:   eventRepo,
		gateway:  gateway,
		locker:   locker,
		emailSvc: emailSvc,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, actor domain.Principal, in CheckoutInput) (*payment.CheckoutSession, error) {
	logger.EnterMethod("paymentService.CreateCheckout", "actor", actor.UserID, "roomType", in.RoomType)

	if err := requireUser(actor); err != nil {
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

	result, err := s.evaluate(ctx, in.RoomType, start, end, 0)
	if err != nil {
		return nil, err
	}
	room, ok := availability.Pick(result, 0)
	if !ok {
		return nil, domain.ErrNoRoomAvailable
	}
	cost, err := utils.CalculateStayCost(room, start, end)
	if err != nil {
		return nil, domain.NewValidationError("end_date", err.Error())
	}
	guests := in.Guests
	if guests <= 0 {
		guests = 1
	}

	checkout, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		CustomerEmail: actor.Email,
		Description: fmt.Sprintf("%s, %d night(s) from %s", room.Name, cost.Nights,
			start.Format(availability.DateLayout)),
		AmountCents: int64(cost.TotalPriceCents),
		Metadata: map[string]string{
			metaRoomType:   room.Type,
			metaStartDate:  start.Format(availability.DateLayout),
			metaEndDate:    end.Format(availability.DateLayout),
			metaTotalPrice: strconv.Itoa(int(cost.TotalPriceCents)),
			metaFullName:   strings.TrimSpace(in.FullName),
			metaPhone:      strings.TrimSpace(in.Phone),
			metaAddress:    strings.TrimSpace(in.Address),
			metaGuests:     strconv.Itoa(int(guests)),
		},
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateCheckout", err)
		return nil, err
	}
	logger.ExitMethod("paymentService.CreateCheckout", "sessionID", checkout.ID)
	return checkout, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (domain.PaymentOutcome, error) {
	evt, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return "", err
	}
	if evt.Checkout == nil || !evt.Checkout.Paid() {
		logger.Info("Ignoring webhook event", "eventID", evt.ID, "type", evt.Type)
		return domain.PaymentOutcomeIgnored, nil
	}
	return s.confirmCheckout(ctx, evt.Checkout)
}

func (s *paymentService) confirmCheckout(ctx context.Context, cs *payment.CompletedCheckout) (domain.PaymentOutcome, error) {
	logger.EnterMethod("paymentService.confirmCheckout", "sessionID", cs.SessionID)

	release, err := s.locker.Acquire(ctx, cs.SessionID)
	switch {
	case errors.Is(err, lock.ErrLocked):
		logger.Info("Checkout session already being processed", "sessionID", cs.SessionID)
		return domain.PaymentOutcomeDuplicate, nil
	case err != nil:
		// The unique session id still guards against double booking.
		logger.Warn("Proceeding without webhook lock", "sessionID", cs.SessionID, "error", err)
	default:
		defer release()
	}

	existing, err := s.reservations.GetByStripeSessionID(ctx, cs.SessionID)
	if err == nil && existing != nil {
		logger.ExitMethod("paymentService.confirmCheckout", "outcome", domain.PaymentOutcomeDuplicate,
			"reservationID", existing.ID)
		return domain.PaymentOutcomeDuplicate, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		err = domain.Persistence("lookup checkout session", err)
		logger.ExitMethodWithError("paymentService.confirmCheckout", err)
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, cs.CustomerEmail)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Paid checkout without a matching user, manual reconciliation required",
			"sessionID", cs.SessionID, "email", cs.CustomerEmail)
		return s.settle(ctx, cs, domain.PaymentOutcomeUnmatchedUser, nil, "no account for customer email"), nil
	}
	if err != nil {
		return "", domain.Persistence("lookup user", err)
	}

	draft, err := draftFromMetadata(cs)
	if err != nil {
		logger.Warn("Paid checkout with unusable metadata", "sessionID", cs.SessionID, "error", err)
		return s.settle(ctx, cs, domain.PaymentOutcomeInvalidMetadata, nil, err.Error()), nil
	}
	userID := user.ID
	draft.Reservation.UserID = &userID

	res, room, err := s.commit(ctx, draft)
	switch {
	case isNoRoom(err) && s.alreadyBooked(ctx, cs.SessionID):
		logger.Info("Concurrent delivery already booked this session", "sessionID", cs.SessionID)
		return domain.PaymentOutcomeDuplicate, nil
	case isNoRoom(err):
		logger.Warn("Paid checkout could not secure a room, manual refund or reassignment required",
			"sessionID", cs.SessionID, "roomType", draft.RoomType)
		return s.settle(ctx, cs, domain.PaymentOutcomeNoRoom, nil, "no rooms available for selected dates"), nil
	case errors.Is(err, domain.ErrDuplicateEvent):
		logger.Info("Concurrent delivery already booked this session", "sessionID", cs.SessionID)
		return domain.PaymentOutcomeDuplicate, nil
	case domain.IsValidation(err):
		return s.settle(ctx, cs, domain.PaymentOutcomeInvalidMetadata, nil, err.Error()), nil
	case err != nil:
		logger.ExitMethodWithError("paymentService.confirmCheckout", err)
		return "", err
	}

	resID := res.ID
	s.settle(ctx, cs, domain.PaymentOutcomeBooked, &resID, "")
	s.announce(ctx, &userID, "online", res, room)
	s.effects.email(ctx, "booking_confirmation", func() error {
		return s.emailSvc.SendBookingConfirmation(ctx, cs.CustomerEmail, res, room)
	})
	s.effects.email(ctx, "admin_booking_alert", func() error {
		return s.emailSvc.SendAdminBookingAlert(ctx, res, room)
	})

	logger.ExitMethod("paymentService.confirmCheckout", "outcome", domain.PaymentOutcomeBooked, "reservationID", res.ID)
	return domain.PaymentOutcomeBooked, nil
}

// alreadyBooked reports whether a reservation exists for the session. The
// room a concurrent delivery of the same session took looks like a lost race.
func (s *paymentService) alreadyBooked(ctx context.Context, sessionID string) bool {
	res, err := s.reservations.GetByStripeSessionID(ctx, sessionID)
	return err == nil && res != nil
}

// settle records how a paid session was handled so unbooked payments can be reconciled.
func (s *paymentService) settle(ctx context.Context, cs *payment.CompletedCheckout, outcome domain.PaymentOutcome, resID *int32, detail string) domain.PaymentOutcome {
	s.effects.run(ctx, "payment_event", func() error {
		return s.events.Record(ctx, &domain.PaymentEvent{
			SessionID:        cs.SessionID,
			CustomerEmail:    cs.CustomerEmail,
			AmountTotalCents: cs.AmountTotalCents,
			Outcome:          outcome,
			ReservationID:    resID,
			Detail:           detail,
		})
	}, "sessionID", cs.SessionID, "outcome", outcome)
	return outcome
}

// draftFromMetadata rebuilds the booking from checkout metadata. The metadata is
// re-validated here; nothing is taken from client state.
func draftFromMetadata(cs *payment.CompletedCheckout) (bookingDraft, error) {
	md := cs.Metadata
	roomType := strings.TrimSpace(md[metaRoomType])
	if roomType == "" {
		return bookingDraft{}, domain.NewValidationError(metaRoomType, "is required")
	}
	fullName := strings.TrimSpace(md[metaFullName])
	if fullName == "" {
		return bookingDraft{}, domain.NewValidationError(metaFullName, "is required")
	}
	start, end, err := parseRange(md[metaStartDate], md[metaEndDate])
	if err != nil {
		return bookingDraft{}, err
	}
	// A delayed delivery may arrive after check-in; the stay was paid for, so only ordering is enforced.
	if err := availability.ValidateRange(start, end, time.Time{}, true); err != nil {
		return bookingDraft{}, err
	}

	guests := int32(1)
	if g := md[metaGuests]; g != "" {
		n, err := strconv.ParseInt(g, 10, 32)
		if err != nil || n < 1 {
			return bookingDraft{}, domain.NewValidationError(metaGuests, "must be a positive number")
		}
		guests = int32(n)
	}

	var price int32
	if p := md[metaTotalPrice]; p != "" {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil || n < 0 {
			return bookingDraft{}, domain.NewValidationError(metaTotalPrice, "must be a non-negative number")
		}
		price = int32(n)
	}
	if price == 0 && cs.AmountTotalCents > 0 {
		if cs.AmountTotalCents > math.MaxInt32 {
			return bookingDraft{}, domain.NewValidationError("amount_total", "exceeds the supported range")
		}
		price = int32(cs.AmountTotalCents)
	}

	sessionID := cs.SessionID
	return bookingDraft{
		RoomType:   roomType,
		StartDate:  start,
		EndDate:    end,
		PriceCents: price,
		Reservation: domain.Reservation{
			FullName:        fullName,
			Phone:           strings.TrimSpace(md[metaPhone]),
			Address:         strings.TrimSpace(md[metaAddress]),
			Guests:          guests,
			Status:          domain.ReservationStatusConfirmed,
			PaymentMethod:   domain.PaymentMethodCard,
			PaymentStatus:   domain.PaymentStatusPaid,
			StripeSessionID: &sessionID,
		},
	}, nil
}
