package models

import "time"

// Идентификаторы ролей совпадают с каталогом roles.
const (
	RoleAdmin      int64 = 1
	RoleSupervisor int64 = 2
	RoleClient     int64 = 3
	RoleInstructor int64 = 4
)

type User struct {
	ID        int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"user_username" db:"user_username"`
	RoleID    int64     `json:"user_role" db:"user_role"`
	Active    bool      `json:"active" db:"user_status"`
	CreatedAt time.Time `json:"user_created_at" db:"user_created_at"`
}

func (u User) IsInstructor() bool {
	return u.Active && u.RoleID == RoleInstructor
}

func (u User) IsSupervisor() bool {
	return u.Active && u.RoleID == RoleSupervisor
}

type Training struct {
	ID          int64     `json:"training_id" db:"training_id"`
	Name        string    `json:"training_name" db:"training_name"`
	Description *string   `json:"training_description,omitempty" db:"training_description"`
	Active      bool      `json:"active" db:"training_status"`
	CreatedAt   time.Time `json:"training_created_at" db:"training_created_at"`
}

type Technology struct {
	ID        int64     `json:"technology_id" db:"technology_id"`
	Name      string    `json:"technology_name" db:"technology_name"`
	CreatedAt time.Time `json:"technology_created_at" db:"technology_created_at"`
}

type MaterialType string

const (
	MaterialTypeLink     MaterialType = "link"
	MaterialTypeDocument MaterialType = "document"
	MaterialTypeVideo    MaterialType = "video"
)

type TrainingMaterial struct {
	ID           int64        `json:"material_id" db:"material_id"`
	TrainingID   int64        `json:"training_id" db:"training_id"`
	InstructorID int64        `json:"instructor_id" db:"instructor_id"`
	Title        string       `json:"material_title" db:"material_title"`
	Description  *string      `json:"material_description,omitempty" db:"material_description"`
	URL          string       `json:"material_url" db:"material_url"`
	Type         MaterialType `json:"material_type" db:"material_type"`
	Active       bool         `json:"active" db:"material_status"`
	CreatedAt    time.Time    `json:"material_created_at" db:"material_created_at"`
}
