package domain

import "time"

// Notification is an in-app message. A nil UserID addresses all staff.
type Notification struct {
	ID         int32             `json:"id"`
	UserID     *int32            `json:"user_id,omitempty"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ActivityLog struct {
	ID         int32             `json:"id"`
	ActorID    *int32            `json:"actor_id,omitempty"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   int32             `json:"entity_id"`
	Details    map[string]string `json:"details"`
	CreatedAt  time.Time         `json:"created_at"`
}

// EmailMessage is what the email sender accepts.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}
