package availability

import (
	"time"

	"hotel-backend/internal/domain"
)

// DayStatuses derives each room's status for a single calendar day. Staff-set
// states win; otherwise a room is booked when an active reservation covers the day.
func DayStatuses(rooms []domain.Room, reservations []domain.Reservation, day time.Time) []domain.RoomDayStatus {
	day = Normalize(day)
	next := day.AddDate(0, 0, 1)

	out := make([]domain.RoomDayStatus, 0, len(rooms))
	for _, room := range rooms {
		st := domain.RoomDayStatus{Room: room, Status: domain.RoomStatusAvailable}
		if room.Status.StaffSet() {
			st.Status = room.Status
			out = append(out, st)
			continue
		}
		for i := range reservations {
			r := &reservations[i]
			if r.RoomID != room.ID || !r.IsActive() {
				continue
			}
			if Overlaps(r.StartDate, r.EndDate, day, next) {
				id := r.ID
				st.Status = domain.RoomStatusBooked
				st.ReservationID = &id
				break
			}
		}
		out = append(out, st)
	}
	return out
}

// Summarize counts rooms per derived status.
func Summarize(statuses []domain.RoomDayStatus) map[domain.RoomStatus]int {
	counts := map[domain.RoomStatus]int{
		domain.RoomStatusAvailable:     0,
		domain.RoomStatusBooked:        0,
		domain.RoomStatusNeedsCleaning: 0,
		domain.RoomStatusOutOfOrder:    0,
	}
	for _, s := range statuses {
		counts[s.Status]++
	}
	return counts
}
