package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/rs/zerolog"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error)
	GetMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
}

type teamRepository struct {
	*PostgresRepository
}

func NewTeamRepository(db DBTX, logger zerolog.Logger) TeamRepository {
	return &teamRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (team_name, team_description, supervisor_id, team_status, team_created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING team_id
	`

	return r.db.QueryRowContext(ctx, query,
		team.Name,
		nullableString(team.Description),
		team.SupervisorID,
		encodeActive(team.Active),
		team.CreatedAt,
	).Scan(&team.ID)
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, team_description, supervisor_id, team_status, team_created_at
		FROM teams
		WHERE team_id = $1
	`

	var (
		team        models.Team
		description sql.NullString
		status      string
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&description,
		&team.SupervisorID,
		&status,
		&team.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	team.Description = stringPtr(description)
	team.Active = decodeActive(status)

	return &team, nil
}

const teamMemberColumns = `team_member_id, team_id, user_id, member_role, member_status, joined_at`

func scanTeamMember(row rowScanner) (*models.TeamMember, error) {
	var (
		m      models.TeamMember
		role   string
		status string
	)

	if err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &role, &status, &m.JoinedAt); err != nil {
		return nil, err
	}

	m.Role = models.MemberRole(role)
	m.Active = decodeActive(status)

	return &m, nil
}

func (r *teamRepository) GetMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + `
		FROM team_members
		WHERE team_id = $1
		ORDER BY team_member_id
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}

	return members, rows.Err()
}

// GetMember returns the most recent membership of the user in the team.
func (r *teamRepository) GetMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + `
		FROM team_members
		WHERE team_id = $1 AND user_id = $2
		ORDER BY (member_status = 'A') DESC, team_member_id DESC
		LIMIT 1
	`

	member, err := scanTeamMember(r.db.QueryRowContext(ctx, query, teamID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return member, err
}

func (r *teamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, member_role, member_status, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING team_member_id
	`

	return r.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.UserID,
		string(member.Role),
		encodeActive(member.Active),
		member.JoinedAt,
	).Scan(&member.ID)
}
