package http_test

import (
	"context"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/payment"
	"hotel-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) FindAvailability(ctx context.Context, roomType, startDate, endDate string, excludeReservationID int32) (availability.Result, error) {
	args := m.Called(ctx, roomType, startDate, endDate, excludeReservationID)
	return args.Get(0).(availability.Result), args.Error(1)
}
func (m *MockAvailabilityService) RoomStatusOn(ctx context.Context, date string) ([]domain.RoomDayStatus, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.RoomDayStatus), args.Error(1)
}
func (m *MockAvailabilityService) HousekeepingSummary(ctx context.Context, date string) (map[domain.RoomStatus]int, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(map[domain.RoomStatus]int), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) result(args mock.Arguments) (*domain.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, actor domain.Principal, in service.BookingInput) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, in))
}
func (m *MockReservationService) GetReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id))
}
func (m *MockReservationService) ListReservations(ctx context.Context, actor domain.Principal, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationService) ListMyReservations(ctx context.Context, actor domain.Principal) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationService) UpdateReservation(ctx context.Context, actor domain.Principal, id int32, edit service.ReservationEdit) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id, edit))
}
func (m *MockReservationService) UpdateStatus(ctx context.Context, actor domain.Principal, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id, status))
}
func (m *MockReservationService) MarkPaid(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id))
}
func (m *MockReservationService) CancelReservation(ctx context.Context, actor domain.Principal, id int32, reason string) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id, reason))
}
func (m *MockReservationService) ArchiveReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id))
}
func (m *MockReservationService) RestoreReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id))
}
func (m *MockReservationService) HideReservation(ctx context.Context, actor domain.Principal, id int32) (*domain.Reservation, error) {
	return m.result(m.Called(ctx, actor, id))
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckout(ctx context.Context, actor domain.Principal, in service.CheckoutInput) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}
func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, payload, signature)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) room(args mock.Arguments) (*domain.Room, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomService) CreateRoom(ctx context.Context, actor domain.Principal, in service.RoomInput) (*domain.Room, error) {
	return m.room(m.Called(ctx, actor, in))
}
func (m *MockRoomService) GetRoom(ctx context.Context, id int32) (*domain.Room, error) {
	return m.room(m.Called(ctx, id))
}
func (m *MockRoomService) ListRooms(ctx context.Context, roomType string) ([]domain.Room, error) {
	args := m.Called(ctx, roomType)
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *MockRoomService) ListTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRoomService) UpdateRoom(ctx context.Context, actor domain.Principal, id int32, in service.RoomInput) (*domain.Room, error) {
	return m.room(m.Called(ctx, actor, id, in))
}
func (m *MockRoomService) DeleteRoom(ctx context.Context, actor domain.Principal, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}
func (m *MockRoomService) SetStatus(ctx context.Context, actor domain.Principal, id int32, status domain.RoomStatus) (*domain.Room, error) {
	return m.room(m.Called(ctx, actor, id, status))
}
func (m *MockRoomService) GetImageUploadURL(ctx context.Context, actor domain.Principal, roomID int32, filename, contentType string) (*service.ImageUpload, error) {
	args := m.Called(ctx, actor, roomID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageUpload), args.Error(1)
}
func (m *MockRoomService) ConfirmImage(ctx context.Context, actor domain.Principal, roomID int32, key string) (*domain.Room, error) {
	return m.room(m.Called(ctx, actor, roomID, key))
}
func (m *MockRoomService) ListImages(ctx context.Context, roomID int32) ([]service.RoomImage, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]service.RoomImage), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, actor domain.Principal, notificationID int32) error {
	return m.Called(ctx, actor, notificationID).Error(0)
}
func (m *MockNotificationService) UnreadCount(ctx context.Context, actor domain.Principal) (int32, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(int32), args.Error(1)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) ListActivity(ctx context.Context, actor domain.Principal, page, pageSize int32) ([]domain.ActivityLog, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.ActivityLog), args.Get(1).(int32), args.Error(2)
}
