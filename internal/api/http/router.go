package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers bundles every HTTP handler the router mounts. Files may be nil
// when the storage backend serves its own URLs.
type Handlers struct {
	Auth          *AuthHandler
	Reservations  *ReservationHandler
	Payments      *PaymentHandler
	Rooms         *RoomHandler
	Notifications *NotificationHandler
	Files         *ImageUploadHandler
	DB            Pinger
}

// NewRouter mounts the API under /api/v1. Every route is named; the name is
// the key AuthMiddleware looks up in the security table.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware)

	root.HandleFunc("/healthz", h.health).Methods(http.MethodGet).Name("health")

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost).Name("auth.register")

	api.HandleFunc("/webhooks/stripe", h.Payments.Webhook).Methods(http.MethodPost).Name("webhooks.stripe")
	api.HandleFunc("/checkout", h.Payments.CreateCheckout).Methods(http.MethodPost).Name("checkout.create")

	api.HandleFunc("/availability", h.Reservations.Availability).Methods(http.MethodGet).Name("availability.get")

	api.HandleFunc("/rooms", h.Rooms.List).Methods(http.MethodGet).Name("rooms.list")
	api.HandleFunc("/rooms", h.Rooms.Create).Methods(http.MethodPost).Name("rooms.create")
	api.HandleFunc("/rooms/types", h.Rooms.Types).Methods(http.MethodGet).Name("rooms.types")
	api.HandleFunc("/rooms/status/daily", h.Rooms.Daily).Methods(http.MethodGet).Name("rooms.daily")
	api.HandleFunc("/rooms/status/housekeeping", h.Rooms.Housekeeping).Methods(http.MethodGet).Name("rooms.housekeeping")
	api.HandleFunc("/rooms/{id:[0-9]+}", h.Rooms.Get).Methods(http.MethodGet).Name("rooms.get")
	api.HandleFunc("/rooms/{id:[0-9]+}", h.Rooms.Update).Methods(http.MethodPut).Name("rooms.update")
	api.HandleFunc("/rooms/{id:[0-9]+}", h.Rooms.Delete).Methods(http.MethodDelete).Name("rooms.delete")
	api.HandleFunc("/rooms/{id:[0-9]+}/status", h.Rooms.SetStatus).Methods(http.MethodPut).Name("rooms.status")
	api.HandleFunc("/rooms/{id:[0-9]+}/images", h.Rooms.Images).Methods(http.MethodGet).Name("rooms.images.list")
	api.HandleFunc("/rooms/{id:[0-9]+}/images/upload-url", h.Rooms.ImageUploadURL).Methods(http.MethodPost).Name("rooms.images.url")
	api.HandleFunc("/rooms/{id:[0-9]+}/images", h.Rooms.ConfirmImage).Methods(http.MethodPost).Name("rooms.images.commit")

	api.HandleFunc("/reservations", h.Reservations.List).Methods(http.MethodGet).Name("reservations.list")
	api.HandleFunc("/reservations", h.Reservations.Create).Methods(http.MethodPost).Name("reservations.create")
	api.HandleFunc("/reservations/mine", h.Reservations.Mine).Methods(http.MethodGet).Name("reservations.mine")
	api.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Get).Methods(http.MethodGet).Name("reservations.get")
	api.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Update).Methods(http.MethodPut).Name("reservations.update")
	api.HandleFunc("/reservations/{id:[0-9]+}/status", h.Reservations.UpdateStatus).Methods(http.MethodPatch, http.MethodPut).Name("reservations.status")
	api.HandleFunc("/reservations/{id:[0-9]+}/paid", h.Reservations.MarkPaid()).Methods(http.MethodPost).Name("reservations.paid")
	api.HandleFunc("/reservations/{id:[0-9]+}/cancel", h.Reservations.Cancel).Methods(http.MethodPatch, http.MethodPost).Name("reservations.cancel")
	api.HandleFunc("/reservations/{id:[0-9]+}/hide", h.Reservations.Hide()).Methods(http.MethodPost).Name("reservations.hide")
	api.HandleFunc("/reservations/{id:[0-9]+}/archive", h.Reservations.Archive()).Methods(http.MethodPost).Name("reservations.archive")
	api.HandleFunc("/reservations/{id:[0-9]+}/restore", h.Reservations.Restore()).Methods(http.MethodPost).Name("reservations.restore")

	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet).Name("notifications.list")
	api.HandleFunc("/notifications/unread-count", h.Notifications.UnreadCount).Methods(http.MethodGet).Name("notifications.unread")
	api.HandleFunc("/notifications/stream", h.Notifications.Stream).Methods(http.MethodGet).Name("notifications.stream")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkAsRead).Methods(http.MethodPost).Name("notifications.read")
	api.HandleFunc("/activity", h.Notifications.Activity).Methods(http.MethodGet).Name("activity.list")

	if h.Files != nil {
		api.HandleFunc("/upload/{token}", h.Files.HandleUpload).Methods(http.MethodPut).Name("storage.upload")
		api.HandleFunc("/download", h.Files.HandleDownload).Methods(http.MethodGet).Name("storage.download")
	}

	return root
}

func (h Handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
