// Package aggregator derives assignment completion and per-user roll-ups from
// detail rows. Everything here is a pure function of its input.
package aggregator

import "github.com/RubachokBoss/career-plan-service/internal/models"

type Completion struct {
	Total      int                     `json:"total"`
	Completed  int                     `json:"completed"`
	Percentage models.Percentage       `json:"percentage"`
	Status     models.AssignmentStatus `json:"status"`
}

// AssignmentCompletion computes the percentage over the progress rows that
// exist for an assignment. With no rows the current status is kept.
func AssignmentCompletion(rows []models.TechnologyProgress, current models.AssignmentStatus) Completion {
	c := Completion{Total: len(rows), Status: current}
	for _, row := range rows {
		if row.IsCompleted {
			c.Completed++
		}
	}

	if c.Total == 0 {
		return c
	}

	c.Percentage = models.NewPercentage(c.Completed, c.Total)
	c.Status = StatusFor(c.Percentage)
	return c
}

func StatusFor(p models.Percentage) models.AssignmentStatus {
	switch {
	case p >= models.PercentageFull:
		return models.AssignmentStatusCompleted
	case p > models.PercentageZero:
		return models.AssignmentStatusInProgress
	default:
		return models.AssignmentStatusAssigned
	}
}

type Summary struct {
	Total      int
	Completed  int
	InProgress int
	Overall    models.OverallStatus
}

// Summarize recounts a user's assignments from scratch.
func Summarize(assignments []models.Assignment) Summary {
	s := Summary{Total: len(assignments)}
	for _, a := range assignments {
		switch a.Status {
		case models.AssignmentStatusCompleted:
			s.Completed++
		case models.AssignmentStatusInProgress:
			s.InProgress++
		}
	}
	s.Overall = OverallFor(s.Total, s.Completed, s.InProgress)
	return s
}

func OverallFor(total, completed, inProgress int) models.OverallStatus {
	switch {
	case total == 0:
		return models.OverallStatusNoTraining
	case completed == total:
		return models.OverallStatusAllCompleted
	case inProgress > 0 || completed > 0:
		return models.OverallStatusInProgress
	default:
		return models.OverallStatusAssigned
	}
}

// Apply copies a summary onto a status row.
func (s Summary) Apply(status *models.UserTrainingStatus) {
	status.TotalTrainingsAssigned = s.Total
	status.TrainingsCompleted = s.Completed
	status.TrainingsInProgress = s.InProgress
	status.OverallStatus = s.Overall
}
