package models

import "time"

type EventType string

const (
	EventAssignmentCreated EventType = "assignment.created"
	EventProgressUpdated   EventType = "progress.updated"
	EventStatusRefreshed   EventType = "status.refreshed"
)

// ProgressEvent is published after a committed change to an assignment or a
// user roll-up. Either snapshot may be nil.
type ProgressEvent struct {
	ID         string              `json:"event_id"`
	Type       EventType           `json:"type"`
	Assignment *Assignment         `json:"assignment,omitempty"`
	UserStatus *UserTrainingStatus `json:"user_status,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}
