package availability

import (
	"time"

	"hotel-backend/internal/domain"
)

type Reason string

const (
	ReasonOutOfOrder Reason = "Out of order"
	ReasonBooked     Reason = "Booked"
)

// Conflict describes the reservation that blocks a room, the one that frees up first.
type Conflict struct {
	ReservationID   int32     `json:"reservation_id"`
	ReservationCode string    `json:"reservation_code"`
	GuestName       string    `json:"guest_name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

type UnavailableRoom struct {
	RoomID     int32     `json:"room_id"`
	RoomNumber string    `json:"room_number"`
	Name       string    `json:"name"`
	Reason     Reason    `json:"reason"`
	Conflict   *Conflict `json:"conflict,omitempty"`
}

type Query struct {
	RoomType             string
	StartDate            time.Time
	EndDate              time.Time
	ExcludeReservationID int32
}

type Result struct {
	AvailableRooms   []domain.Room     `json:"available_rooms"`
	UnavailableRooms []UnavailableRoom `json:"unavailable_rooms"`
}

func (r Result) Available() bool {
	return len(r.AvailableRooms) > 0
}

// Evaluate partitions rooms into available and unavailable for q. rooms must
// already be in listing order; reservations may include inactive rows and rows
// for other rooms, which are skipped. Rooms of other types are ignored.
func Evaluate(rooms []domain.Room, reservations []domain.Reservation, q Query) Result {
	res := Result{
		AvailableRooms:   []domain.Room{},
		UnavailableRooms: []UnavailableRoom{},
	}
	if q.RoomType == "" || len(rooms) == 0 {
		return res
	}

	byRoom := make(map[int32][]domain.Reservation)
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		if q.ExcludeReservationID != 0 && r.ID == q.ExcludeReservationID {
			continue
		}
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	for _, room := range rooms {
		if room.Type != q.RoomType {
			continue
		}
		if room.Status == domain.RoomStatusOutOfOrder {
			res.UnavailableRooms = append(res.UnavailableRooms, UnavailableRoom{
				RoomID:     room.ID,
				RoomNumber: room.RoomNumber,
				Name:       room.Name,
				Reason:     ReasonOutOfOrder,
			})
			continue
		}

		if c := nearestConflict(byRoom[room.ID], q.StartDate, q.EndDate); c != nil {
			res.UnavailableRooms = append(res.UnavailableRooms, UnavailableRoom{
				RoomID:     room.ID,
				RoomNumber: room.RoomNumber,
				Name:       room.Name,
				Reason:     ReasonBooked,
				Conflict:   c,
			})
			continue
		}
		res.AvailableRooms = append(res.AvailableRooms, room)
	}
	return res
}

// nearestConflict returns the overlapping reservation with the earliest end date.
func nearestConflict(reservations []domain.Reservation, start, end time.Time) *Conflict {
	var best *domain.Reservation
	for i := range reservations {
		r := &reservations[i]
		if !Overlaps(r.StartDate, r.EndDate, start, end) {
			continue
		}
		if best == nil || r.EndDate.Before(best.EndDate) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return &Conflict{
		ReservationID:   best.ID,
		ReservationCode: best.ReservationCode,
		GuestName:       best.FullName,
		StartDate:       best.StartDate,
		EndDate:         best.EndDate,
	}
}

// Pick chooses a room from an evaluation: the preferred room when it is still
// available, otherwise the first available one in listing order.
func Pick(res Result, preferredRoomID int32) (domain.Room, bool) {
	if preferredRoomID != 0 {
		for _, room := range res.AvailableRooms {
			if room.ID == preferredRoomID {
				return room, true
			}
		}
	}
	if len(res.AvailableRooms) == 0 {
		return domain.Room{}, false
	}
	return res.AvailableRooms[0], true
}
