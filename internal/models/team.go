package models

import (
	"fmt"
	"time"
)

type MemberRole string

const (
	MemberRoleInstructor MemberRole = "instructor"
	MemberRoleClient     MemberRole = "client"
)

func (r MemberRole) Valid() bool {
	return r == MemberRoleInstructor || r == MemberRoleClient
}

func ParseMemberRole(s string) (MemberRole, error) {
	role := MemberRole(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown member role %q", s)
	}
	return role, nil
}

type Team struct {
	ID           int64     `json:"team_id" db:"team_id"`
	Name         string    `json:"team_name" db:"team_name"`
	Description  *string   `json:"team_description,omitempty" db:"team_description"`
	SupervisorID int64     `json:"supervisor_id" db:"supervisor_id"`
	Active       bool      `json:"active" db:"team_status"`
	CreatedAt    time.Time `json:"team_created_at" db:"team_created_at"`
}

type TeamMember struct {
	ID       int64      `json:"team_member_id" db:"team_member_id"`
	TeamID   int64      `json:"team_id" db:"team_id"`
	UserID   int64      `json:"user_id" db:"user_id"`
	Role     MemberRole `json:"member_role" db:"member_role"`
	Active   bool       `json:"active" db:"member_status"`
	JoinedAt time.Time  `json:"joined_at" db:"joined_at"`
}

// IsActiveClient reports whether the member may receive bulk assignments.
func (m TeamMember) IsActiveClient() bool {
	return m.Active && m.Role == MemberRoleClient
}

type TeamWithMembers struct {
	Team
	Members []TeamMember `json:"members"`
}
