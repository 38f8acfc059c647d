package models

import "time"

type TechnologyProgress struct {
	ID           int64      `json:"progress_id" db:"progress_id"`
	AssignmentID int64      `json:"assignment_id" db:"assignment_id"`
	TechnologyID int64      `json:"technology_id" db:"technology_id"`
	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// MarkCompleted sets the flag and keeps CompletedAt present iff the flag is set.
func (p *TechnologyProgress) MarkCompleted(completed bool, now time.Time) {
	p.IsCompleted = completed
	if completed {
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
}

// MaterialProgress is tracked for reporting only and never feeds the
// assignment completion percentage.
type MaterialProgress struct {
	ID           int64      `json:"progress_id" db:"progress_id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	MaterialID   int64      `json:"material_id" db:"material_id"`
	AssignmentID int64      `json:"assignment_id" db:"assignment_id"`
	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (p *MaterialProgress) MarkCompleted(completed bool, now time.Time) {
	p.IsCompleted = completed
	if completed {
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
}
