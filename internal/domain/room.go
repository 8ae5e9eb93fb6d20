package domain

import "time"

type RoomStatus string

const (
	RoomStatusAvailable     RoomStatus = "available"
	RoomStatusBooked        RoomStatus = "booked"
	RoomStatusNeedsCleaning RoomStatus = "needs_cleaning"
	RoomStatusOutOfOrder    RoomStatus = "out_of_order"
)

// Valid reports whether s is one of the known room statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusBooked, RoomStatusNeedsCleaning, RoomStatusOutOfOrder:
		return true
	}
	return false
}

// StaffSet reports whether the status is an explicit staff-set state that
// persists until changed, as opposed to one derived from reservations.
func (s RoomStatus) StaffSet() bool {
	return s == RoomStatusNeedsCleaning || s == RoomStatusOutOfOrder
}

type Room struct {
	ID          int32      `json:"id"`
	RoomNumber  string     `json:"room_number"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	PriceCents  int32      `json:"price_cents"` // per night
	Status      RoomStatus `json:"status"`
	Description string     `json:"description"`
	ImageKeys   []string   `json:"image_keys"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RoomDayStatus is the status of a room on one calendar day.
type RoomDayStatus struct {
	Room          Room       `json:"room"`
	Status        RoomStatus `json:"status"`
	ReservationID *int32     `json:"reservation_id,omitempty"`
}
