package models

// Data Transfer Objects

type CreateAssignmentRequest struct {
	UserID       int64   `json:"user_id"`
	TrainingID   int64   `json:"training_id"`
	InstructorID *int64  `json:"instructor_id,omitempty"`
	MeetingLink  *string `json:"instructor_meeting_link,omitempty"`
}

type UpdateMeetingLinkRequest struct {
	MeetingLink *string `json:"instructor_meeting_link"`
}

type UpdateTrainingInstructorRequest struct {
	InstructorID *int64 `json:"instructor_id"`
}

type UpdateTrainingInstructorResponse struct {
	TrainingID         int64  `json:"training_id"`
	InstructorID       *int64 `json:"instructor_id"`
	UpdatedAssignments int    `json:"updated_assignments"`
}

type RecordTechnologyProgressRequest struct {
	AssignmentID int64 `json:"assignment_id"`
	TechnologyID int64 `json:"technology_id"`
	IsCompleted  bool  `json:"is_completed"`
}

type UpdateTechnologyProgressRequest struct {
	IsCompleted bool `json:"is_completed"`
}

type RecordMaterialProgressRequest struct {
	UserID       int64 `json:"user_id"`
	MaterialID   int64 `json:"material_id"`
	AssignmentID int64 `json:"assignment_id"`
	IsCompleted  bool  `json:"is_completed"`
}

// ProgressUpdateResponse returns the touched row together with the state it
// cascaded into.
type ProgressUpdateResponse struct {
	Progress   *TechnologyProgress `json:"progress"`
	Assignment *Assignment         `json:"assignment"`
	UserStatus *UserTrainingStatus `json:"user_status"`
}

type AssignTrainingRequest struct {
	TrainingID   int64   `json:"training_id"`
	InstructorID *int64  `json:"instructor_id,omitempty"`
	ClientIDs    []int64 `json:"client_ids,omitempty"`
}

type CreatedAssignment struct {
	ClientID     int64 `json:"client_id"`
	AssignmentID int64 `json:"assignment_id"`
	Reassigned   bool  `json:"reassigned,omitempty"`
}

type SkippedClient struct {
	ClientID int64  `json:"client_id"`
	Reason   string `json:"reason"`
}

type BulkAssignmentResult struct {
	TeamID       int64               `json:"team_id"`
	TrainingID   int64               `json:"training_id"`
	TotalClients int                 `json:"total_clients"`
	Created      []CreatedAssignment `json:"created"`
	Skipped      []SkippedClient     `json:"skipped"`
}

type CreateTeamRequest struct {
	Name         string  `json:"team_name"`
	Description  *string `json:"team_description,omitempty"`
	SupervisorID int64   `json:"supervisor_id"`
}

type AddTeamMemberRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"member_role"`
}

type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
