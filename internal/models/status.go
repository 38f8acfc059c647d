package models

import (
	"fmt"
	"time"
)

type OverallStatus string

const (
	OverallStatusNoTraining   OverallStatus = "no_training"
	OverallStatusAssigned     OverallStatus = "assigned"
	OverallStatusInProgress   OverallStatus = "in_progress"
	OverallStatusAllCompleted OverallStatus = "all_completed"
)

func (s OverallStatus) String() string {
	return string(s)
}

func (s OverallStatus) Valid() bool {
	switch s {
	case OverallStatusNoTraining, OverallStatusAssigned, OverallStatusInProgress, OverallStatusAllCompleted:
		return true
	default:
		return false
	}
}

func (s OverallStatus) Label() string {
	switch s {
	case OverallStatusNoTraining:
		return "No training"
	case OverallStatusAssigned:
		return "Assigned"
	case OverallStatusInProgress:
		return "In progress"
	case OverallStatusAllCompleted:
		return "All completed"
	default:
		return "Unknown"
	}
}

func ParseOverallStatus(s string) (OverallStatus, error) {
	status := OverallStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown overall status %q", s)
	}
	return status, nil
}

// UserTrainingStatus is a per-user roll-up, always recomputed in full from
// the user's assignments.
type UserTrainingStatus struct {
	ID                     int64         `json:"status_id" db:"status_id"`
	UserID                 int64         `json:"user_id" db:"user_id"`
	TotalTrainingsAssigned int           `json:"total_trainings_assigned" db:"total_trainings_assigned"`
	TrainingsCompleted     int           `json:"trainings_completed" db:"trainings_completed"`
	TrainingsInProgress    int           `json:"trainings_in_progress" db:"trainings_in_progress"`
	OverallStatus          OverallStatus `json:"overall_status" db:"overall_status"`
	LastUpdated            time.Time     `json:"last_updated" db:"last_updated"`
	CreatedAt              time.Time     `json:"created_at" db:"created_at"`
}
