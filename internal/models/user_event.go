package models

import "time"

// UserEventType identifies what happened to a user.
type UserEventType string

const (
	UserCreated UserEventType = "user.created"
	UserUpdated UserEventType = "user.updated"
	UserDeleted UserEventType = "user.deleted"
)

// UserEvent is published to the message broker after a successful mutation.
type UserEvent struct {
	EventID    string        `json:"event_id"`
	Type       UserEventType `json:"type"`
	User       User          `json:"user"`
	OccurredAt time.Time     `json:"occurred_at"`
}
