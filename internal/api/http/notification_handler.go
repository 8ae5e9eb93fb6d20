package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
	activity      service.ActivityService
	interval      time.Duration
}

func NewNotificationHandler(notifications service.NotificationService, activity service.ActivityService, streamInterval time.Duration) *NotificationHandler {
	if streamInterval <= 0 {
		streamInterval = 10 * time.Second
	}
	return &NotificationHandler{notifications: notifications, activity: activity, interval: streamInterval}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	pageNum, err := queryInt32(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt32(r, "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, total, err := h.notifications.GetNotifications(r.Context(), PrincipalFromContext(r.Context()), pageNum, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.Notification]{Items: notes, Total: total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type unreadCount struct {
	Count int32 `json:"count"`
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.UnreadCount(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadCount{Count: n})
}

// Stream pushes the unread count as server-sent events until the client
// disconnects. The ticker is stopped when the request context ends.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}
	ctx := r.Context()
	actor := PrincipalFromContext(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	push := func() {
		n, err := h.notifications.UnreadCount(ctx, actor)
		if err != nil {
			logger.Warn("Failed to load unread count for stream", "userID", actor.UserID, "error", err)
			return
		}
		data, _ := json.Marshal(unreadCount{Count: n})
		fmt.Fprintf(w, "event: unread\ndata: %s\n\n", data)
		flusher.Flush()
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	push()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification stream closed", "userID", actor.UserID)
			return
		case <-ticker.C:
			push()
		}
	}
}

func (h *NotificationHandler) Activity(w http.ResponseWriter, r *http.Request) {
	pageNum, err := queryInt32(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt32(r, "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, total, err := h.activity.ListActivity(r.Context(), PrincipalFromContext(r.Context()), pageNum, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.ActivityLog]{Items: entries, Total: total})
}
