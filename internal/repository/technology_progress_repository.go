package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type TechnologyProgressRepository interface {
	Create(ctx context.Context, progress *models.TechnologyProgress) error
	GetByID(ctx context.Context, id int64) (*models.TechnologyProgress, error)
	GetByAssignmentAndTechnology(ctx context.Context, assignmentID, technologyID int64) (*models.TechnologyProgress, error)
	GetByAssignmentID(ctx context.Context, assignmentID int64) ([]models.TechnologyProgress, error)
	Update(ctx context.Context, progress *models.TechnologyProgress) error
	ResetByAssignmentID(ctx context.Context, assignmentID int64) error
}

type technologyProgressRepository struct {
	*PostgresRepository
}

func NewTechnologyProgressRepository(db DBTX, logger zerolog.Logger) TechnologyProgressRepository {
	return &technologyProgressRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const technologyProgressColumns = `
	progress_id, assignment_id, technology_id, is_completed, completed_at, created_at`

func scanTechnologyProgress(row rowScanner) (*models.TechnologyProgress, error) {
	var (
		p           models.TechnologyProgress
		completed   string
		completedAt sql.NullTime
	)

	if err := row.Scan(&p.ID, &p.AssignmentID, &p.TechnologyID, &completed, &completedAt, &p.CreatedAt); err != nil {
		return nil, err
	}

	p.IsCompleted = decodeYN(completed)
	p.CompletedAt = timePtr(completedAt)

	return &p, nil
}

func (r *technologyProgressRepository) Create(ctx context.Context, progress *models.TechnologyProgress) error {
	query := `
		INSERT INTO user_technology_progress (assignment_id, technology_id, is_completed, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING progress_id
	`

	err := r.db.QueryRowContext(ctx, query,
		progress.AssignmentID,
		progress.TechnologyID,
		encodeYN(progress.IsCompleted),
		nullableTime(progress.CompletedAt),
		progress.CreatedAt,
	).Scan(&progress.ID)

	if isUniqueViolation(err) {
		return errors.AlreadyExistsf("progress of technology %d in assignment %d", progress.TechnologyID, progress.AssignmentID)
	}

	return err
}

func (r *technologyProgressRepository) GetByID(ctx context.Context, id int64) (*models.TechnologyProgress, error) {
	query := `SELECT` + technologyProgressColumns + `
		FROM user_technology_progress
		WHERE progress_id = $1
	`

	progress, err := scanTechnologyProgress(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return progress, err
}

func (r *technologyProgressRepository) GetByAssignmentAndTechnology(ctx context.Context, assignmentID, technologyID int64) (*models.TechnologyProgress, error) {
	query := `SELECT` + technologyProgressColumns + `
		FROM user_technology_progress
		WHERE assignment_id = $1 AND technology_id = $2
	`

	progress, err := scanTechnologyProgress(r.db.QueryRowContext(ctx, query, assignmentID, technologyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return progress, err
}

func (r *technologyProgressRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) ([]models.TechnologyProgress, error) {
	query := `SELECT` + technologyProgressColumns + `
		FROM user_technology_progress
		WHERE assignment_id = $1
		ORDER BY progress_id
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []models.TechnologyProgress
	for rows.Next() {
		p, err := scanTechnologyProgress(rows)
		if err != nil {
			return nil, err
		}
		progress = append(progress, *p)
	}

	return progress, rows.Err()
}

func (r *technologyProgressRepository) Update(ctx context.Context, progress *models.TechnologyProgress) error {
	query := `
		UPDATE user_technology_progress
		SET is_completed = $1, completed_at = $2
		WHERE progress_id = $3
	`

	_, err := r.db.ExecContext(ctx, query,
		encodeYN(progress.IsCompleted),
		nullableTime(progress.CompletedAt),
		progress.ID,
	)

	return err
}

func (r *technologyProgressRepository) ResetByAssignmentID(ctx context.Context, assignmentID int64) error {
	query := `
		UPDATE user_technology_progress
		SET is_completed = 'N', completed_at = NULL
		WHERE assignment_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, assignmentID)
	return err
}
