package service_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
)

// memStore keeps rooms, reservations and side-effect rows in memory and
// enforces the reservation constraints the database applies: no overlapping
// active stays per room and one reservation per checkout session.
type memStore struct {
	mu           sync.Mutex
	rooms        map[int32]*domain.Room
	reservations map[int32]*domain.Reservation
	nextID       int32
	notes        []domain.Notification
	activity     []domain.ActivityLog
	events       map[string]domain.PaymentEvent
	failNotes    bool
}

func newMemStore(rooms ...domain.Room) *memStore {
	s := &memStore{
		rooms:        map[int32]*domain.Room{},
		reservations: map[int32]*domain.Reservation{},
		events:       map[string]domain.PaymentEvent{},
	}
	for i := range rooms {
		r := rooms[i]
		if r.Status == "" {
			r.Status = domain.RoomStatusAvailable
		}
		s.rooms[r.ID] = &r
	}
	return s
}

func (s *memStore) Rooms() *memRooms               { return &memRooms{s} }
func (s *memStore) Reservations() *memReservations { return &memReservations{s} }
func (s *memStore) Notes() *memNotes               { return &memNotes{s} }
func (s *memStore) Activity() *memActivity         { return &memActivity{s} }
func (s *memStore) Events() *memEvents             { return &memEvents{s} }

// seed inserts r bypassing the overlap check and returns its id.
func (s *memStore) seed(r domain.Reservation) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.reservations[r.ID] = &r
	return r.ID
}

func (s *memStore) get(id int32) domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.reservations[id]
}

func (s *memStore) active() []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.IsActive() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) noteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *memStore) event(sessionID string) (domain.PaymentEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[sessionID]
	return e, ok
}

type memRooms struct{ *memStore }

func (m *memRooms) Create(ctx context.Context, room *domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room.ID = int32(len(m.rooms) + 1)
	r := *room
	m.rooms[r.ID] = &r
	return nil
}

func (m *memRooms) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRooms) Update(ctx context.Context, room *domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *room
	m.rooms[r.ID] = &r
	return nil
}

func (m *memRooms) UpdateStatus(ctx context.Context, id int32, status domain.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (m *memRooms) Delete(ctx context.Context, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
	return nil
}

func (m *memRooms) List(ctx context.Context, roomType string) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		if roomType == "" || r.Type == roomType {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRooms) ListTypes(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.rooms {
		if !slices.Contains(out, r.Type) {
			out = append(out, r.Type)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRooms) ExistsNumber(ctx context.Context, roomType, roomNumber string, excludeID int32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.Type == roomType && r.RoomNumber == roomNumber && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRooms) AddImage(ctx context.Context, id int32, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.ImageKeys = append(r.ImageKeys, key)
	return nil
}

type memReservations struct{ *memStore }

// checkLocked applies the unique-session and no-overlap constraints to r.
func (m *memReservations) checkLocked(r *domain.Reservation) error {
	for id, other := range m.reservations {
		if id == r.ID {
			continue
		}
		if r.StripeSessionID != nil && other.StripeSessionID != nil && *r.StripeSessionID == *other.StripeSessionID {
			return domain.ErrDuplicateEvent
		}
	}
	if !r.IsActive() {
		return nil
	}
	for id, other := range m.reservations {
		if id == r.ID || !other.IsActive() || other.RoomID != r.RoomID {
			continue
		}
		if availability.Overlaps(r.StartDate, r.EndDate, other.StartDate, other.EndDate) {
			return domain.ErrNoRoomAvailable
		}
	}
	return nil
}

func (m *memReservations) Create(ctx context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkLocked(r); err != nil {
		return err
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *memReservations) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReservations) GetByStripeSessionID(ctx context.Context, sessionID string) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.StripeSessionID != nil && *r.StripeSessionID == sessionID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memReservations) Update(ctx context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[r.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := m.checkLocked(r); err != nil {
		return err
	}
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *memReservations) SetInvoiceNumber(ctx context.Context, id int32, invoice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.InvoiceNumber = &invoice
	return nil
}

func (m *memReservations) ListActiveForRooms(ctx context.Context, roomIDs []int32, from time.Time) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.IsActive() && slices.Contains(roomIDs, r.RoomID) && r.EndDate.After(from) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memReservations) ListByUser(ctx context.Context, userID int32, includeHidden bool) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.OwnedBy(userID) && (includeHidden || !r.ClientHidden) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memReservations) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if (filter.IncludeArchived || !r.AdminHidden) &&
			(filter.Status == "" || r.Status == filter.Status) &&
			(filter.RoomID == 0 || r.RoomID == filter.RoomID) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int32(len(out)), nil
}

func (m *memReservations) CountActiveForRoom(ctx context.Context, roomID int32) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int32
	for _, r := range m.reservations {
		if r.IsActive() && r.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

type memNotes struct{ *memStore }

func (m *memNotes) Create(ctx context.Context, note *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNotes {
		return errors.New("notifications table unavailable")
	}
	note.ID = int32(len(m.notes) + 1)
	m.notes = append(m.notes, *note)
	return nil
}

func (m *memNotes) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.notes), int32(len(m.notes)), nil
}

func (m *memNotes) MarkAsRead(ctx context.Context, id, userID int32) error { return nil }

func (m *memNotes) CountUnread(ctx context.Context, userID int32) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int32(len(m.notes)), nil
}

type memActivity struct{ *memStore }

func (m *memActivity) Create(ctx context.Context, entry *domain.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int32(len(m.activity) + 1)
	m.activity = append(m.activity, *entry)
	return nil
}

func (m *memActivity) List(ctx context.Context, limit, offset int32) ([]domain.ActivityLog, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.activity), int32(len(m.activity)), nil
}

type memEvents struct{ *memStore }

func (m *memEvents) Record(ctx context.Context, event *domain.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.SessionID] = *event
	return nil
}

func (m *memEvents) ListUnreported(ctx context.Context) ([]domain.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PaymentEvent
	for _, e := range m.events {
		if e.ReportedAt == nil && e.Outcome.NeedsReconciliation() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) MarkReported(ctx context.Context, ids []int32, at time.Time) error { return nil }
