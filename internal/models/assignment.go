package models

import (
	"fmt"
	"time"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
)

func (s AssignmentStatus) String() string {
	return string(s)
}

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusAssigned, AssignmentStatusInProgress, AssignmentStatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the display text shown to end users.
func (s AssignmentStatus) Label() string {
	switch s {
	case AssignmentStatusAssigned:
		return "Assigned"
	case AssignmentStatusInProgress:
		return "In progress"
	case AssignmentStatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	status := AssignmentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown assignment status %q", s)
	}
	return status, nil
}

// Assignment links one user to one training. At most one exists per
// (user, training) pair.
type Assignment struct {
	ID                   int64            `json:"assignment_id" db:"assignment_id"`
	UserID               int64            `json:"user_id" db:"user_id"`
	TrainingID           int64            `json:"training_id" db:"training_id"`
	InstructorID         *int64           `json:"instructor_id,omitempty" db:"instructor_id"`
	Status               AssignmentStatus `json:"assignment_status" db:"assignment_status"`
	CompletionPercentage Percentage       `json:"completion_percentage" db:"completion_percentage"`
	MeetingLink          *string          `json:"instructor_meeting_link,omitempty" db:"instructor_meeting_link"`
	CreatedAt            time.Time        `json:"assignment_created_at" db:"assignment_created_at"`
}
