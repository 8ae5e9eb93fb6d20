package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleStay() (*domain.Reservation, domain.Room) {
	invoice := "INV-2030-000012"
	res := &domain.Reservation{
		ID:              12,
		ReservationCode: "RES-ABCD1234",
		InvoiceNumber:   &invoice,
		FullName:        `<script>alert("x")</script>`,
		Phone:           "555-0100",
		Guests:          2,
		StartDate:       time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2030, 5, 3, 0, 0, 0, 0, time.UTC),
		TotalPriceCents: 24550,
		PaymentMethod:   domain.PaymentMethodCard,
		PaymentStatus:   domain.PaymentStatusPaid,
	}
	return res, domain.Room{ID: 1, RoomNumber: "101", Name: "Double 101"}
}

func TestEmailService_SendBookingConfirmation(t *testing.T) {
	ctx := context.Background()
	sender := new(MockEmailSender)
	svc := service.NewEmailService(sender, nil)
	res, room := sampleStay()

	var sent domain.EmailMessage
	sender.On("Send", ctx, mock.AnythingOfType("domain.EmailMessage")).Run(func(args mock.Arguments) {
		sent = args.Get(1).(domain.EmailMessage)
	}).Return(nil)

	require.NoError(t, svc.SendBookingConfirmation(ctx, "guest@example.com", res, room))
	assert.Equal(t, "guest@example.com", sent.To)
	assert.Equal(t, "Booking confirmed: RES-ABCD1234", sent.Subject)
	assert.Contains(t, sent.HTML, "INV-2030-000012")
	assert.Contains(t, sent.HTML, "2030-05-01")
	assert.Contains(t, sent.HTML, "2030-05-03")
	assert.Contains(t, sent.HTML, "245.50")
	assert.NotContains(t, sent.HTML, "<script>")
	assert.Contains(t, sent.HTML, "&lt;script&gt;")
}

func TestEmailService_AdminAlert(t *testing.T) {
	ctx := context.Background()
	res, room := sampleStay()

	t.Run("Every Admin", func(t *testing.T) {
		sender := new(MockEmailSender)
		svc := service.NewEmailService(sender, []string{"a@hotel.test", "b@hotel.test"})
		sender.On("Send", ctx, mock.AnythingOfType("domain.EmailMessage")).Return(nil)

		require.NoError(t, svc.SendAdminBookingAlert(ctx, res, room))
		sender.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("Failures Are Joined", func(t *testing.T) {
		sender := new(MockEmailSender)
		svc := service.NewEmailService(sender, []string{"a@hotel.test", "b@hotel.test"})
		failure := errors.New("mailbox full")
		sender.On("Send", ctx, mock.MatchedBy(func(m domain.EmailMessage) bool { return m.To == "a@hotel.test" })).Return(failure)
		sender.On("Send", ctx, mock.MatchedBy(func(m domain.EmailMessage) bool { return m.To == "b@hotel.test" })).Return(nil)

		err := svc.SendAdminBookingAlert(ctx, res, room)
		assert.ErrorIs(t, err, failure)
		sender.AssertNumberOfCalls(t, "Send", 2)
	})
}

func TestEmailService_SendReconciliationReport(t *testing.T) {
	ctx := context.Background()
	sender := new(MockEmailSender)
	svc := service.NewEmailService(sender, []string{"admin@hotel.test"})

	require.NoError(t, svc.SendReconciliationReport(ctx, nil))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	var sent domain.EmailMessage
	sender.On("Send", ctx, mock.AnythingOfType("domain.EmailMessage")).Run(func(args mock.Arguments) {
		sent = args.Get(1).(domain.EmailMessage)
	}).Return(nil)

	err := svc.SendReconciliationReport(ctx, []domain.PaymentEvent{{
		SessionID:        "cs_1",
		CustomerEmail:    "stranger@example.com",
		AmountTotalCents: 15000,
		Outcome:          domain.PaymentOutcomeUnmatchedUser,
		CreatedAt:        time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.Equal(t, "admin@hotel.test", sent.To)
	assert.Contains(t, sent.Subject, "1 payment")
	assert.Contains(t, sent.HTML, "cs_1")
	assert.Contains(t, sent.HTML, "150.00")
	assert.Contains(t, sent.HTML, "unmatched_user")
	assert.Contains(t, sent.HTML, "2030-05-01 09:30")
}
