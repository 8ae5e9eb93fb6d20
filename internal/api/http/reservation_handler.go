package http

import (
	"net/http"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/service"
)

// reservationView adds the derived visibility state to the persisted flags.
type reservationView struct {
	*domain.Reservation
	Visibility domain.Visibility `json:"visibility"`
}

func viewOf(res *domain.Reservation) reservationView {
	return reservationView{Reservation: res, Visibility: res.Visibility()}
}

func viewsOf(list []domain.Reservation) []reservationView {
	out := make([]reservationView, 0, len(list))
	for i := range list {
		out = append(out, viewOf(&list[i]))
	}
	return out
}

type availabilityResponse struct {
	Available bool `json:"available"`
	availability.Result
}

type ReservationHandler struct {
	reservations service.ReservationService
	availability service.AvailabilityService
}

func NewReservationHandler(reservations service.ReservationService, avail service.AvailabilityService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, availability: avail}
}

// Availability answers GET /availability?room_type=&start_date=&end_date=&exclude_reservation_id=.
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exclude, err := queryInt32(r, "exclude_reservation_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.availability.FindAvailability(r.Context(), q.Get("room_type"), q.Get("start_date"), q.Get("end_date"), exclude)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: result.Available(), Result: result})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.BookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.CreateReservation(r.Context(), PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(res))
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.GetReservation(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(res))
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ReservationFilter{
		Status:          domain.ReservationStatus(q.Get("status")),
		IncludeArchived: q.Get("include_archived") == "true",
	}
	var err error
	if filter.RoomID, err = queryInt32(r, "room_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Page, err = queryInt32(r, "page"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.PageSize, err = queryInt32(r, "page_size"); err != nil {
		writeError(w, r, err)
		return
	}
	list, total, err := h.reservations.ListReservations(r.Context(), PrincipalFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[reservationView]{Items: viewsOf(list), Total: total})
}

func (h *ReservationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservations.ListMyReservations(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[reservationView]{Items: viewsOf(list), Total: int32(len(list))})
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var edit service.ReservationEdit
	if err := decodeJSON(w, r, &edit); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.UpdateReservation(r.Context(), PrincipalFromContext(r.Context()), id, edit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(res))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.reservations.UpdateStatus(r.Context(), PrincipalFromContext(r.Context()), id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(res))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cancelRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	res, err := h.reservations.CancelReservation(r.Context(), PrincipalFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(res))
}

type reservationAction func(h *ReservationHandler, r *http.Request, id int32) (*domain.Reservation, error)

// action adapts the id-only state transitions (paid, archive, restore, hide).
func (h *ReservationHandler) action(fn reservationAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := fn(h, r, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(res))
	}
}

func (h *ReservationHandler) MarkPaid() http.HandlerFunc {
	return h.action(func(h *ReservationHandler, r *http.Request, id int32) (*domain.Reservation, error) {
		return h.reservations.MarkPaid(r.Context(), PrincipalFromContext(r.Context()), id)
	})
}

func (h *ReservationHandler) Archive() http.HandlerFunc {
	return h.action(func(h *ReservationHandler, r *http.Request, id int32) (*domain.Reservation, error) {
		return h.reservations.ArchiveReservation(r.Context(), PrincipalFromContext(r.Context()), id)
	})
}

func (h *ReservationHandler) Restore() http.HandlerFunc {
	return h.action(func(h *ReservationHandler, r *http.Request, id int32) (*domain.Reservation, error) {
		return h.reservations.RestoreReservation(r.Context(), PrincipalFromContext(r.Context()), id)
	})
}

func (h *ReservationHandler) Hide() http.HandlerFunc {
	return h.action(func(h *ReservationHandler, r *http.Request, id int32) (*domain.Reservation, error) {
		return h.reservations.HideReservation(r.Context(), PrincipalFromContext(r.Context()), id)
	})
}
