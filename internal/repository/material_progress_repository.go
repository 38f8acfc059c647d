package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/rs/zerolog"
)

type MaterialProgressRepository interface {
	Create(ctx context.Context, progress *models.MaterialProgress) error
	Get(ctx context.Context, userID, materialID, assignmentID int64) (*models.MaterialProgress, error)
	GetByAssignmentID(ctx context.Context, assignmentID int64) ([]models.MaterialProgress, error)
	Update(ctx context.Context, progress *models.MaterialProgress) error
}

type materialProgressRepository struct {
	*PostgresRepository
}

func NewMaterialProgressRepository(db DBTX, logger zerolog.Logger) MaterialProgressRepository {
	return &materialProgressRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const materialProgressColumns = `
	progress_id, user_id, material_id, assignment_id, is_completed, completed_at, created_at`

func scanMaterialProgress(row rowScanner) (*models.MaterialProgress, error) {
	var (
		p           models.MaterialProgress
		completed   string
		completedAt sql.NullTime
	)

	err := row.Scan(&p.ID, &p.UserID, &p.MaterialID, &p.AssignmentID, &completed, &completedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.IsCompleted = decodeYN(completed)
	p.CompletedAt = timePtr(completedAt)

	return &p, nil
}

func (r *materialProgressRepository) Create(ctx context.Context, progress *models.MaterialProgress) error {
	query := `
		INSERT INTO user_material_progress (user_id, material_id, assignment_id, is_completed, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING progress_id
	`

	return r.db.QueryRowContext(ctx, query,
		progress.UserID,
		progress.MaterialID,
		progress.AssignmentID,
		encodeYN(progress.IsCompleted),
		nullableTime(progress.CompletedAt),
		progress.CreatedAt,
	).Scan(&progress.ID)
}

func (r *materialProgressRepository) Get(ctx context.Context, userID, materialID, assignmentID int64) (*models.MaterialProgress, error) {
	query := `SELECT` + materialProgressColumns + `
		FROM user_material_progress
		WHERE user_id = $1 AND material_id = $2 AND assignment_id = $3
	`

	progress, err := scanMaterialProgress(r.db.QueryRowContext(ctx, query, userID, materialID, assignmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return progress, err
}

func (r *materialProgressRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) ([]models.MaterialProgress, error) {
	query := `SELECT` + materialProgressColumns + `
		FROM user_material_progress
		WHERE assignment_id = $1
		ORDER BY progress_id
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []models.MaterialProgress
	for rows.Next() {
		p, err := scanMaterialProgress(rows)
		if err != nil {
			return nil, err
		}
		progress = append(progress, *p)
	}

	return progress, rows.Err()
}

func (r *materialProgressRepository) Update(ctx context.Context, progress *models.MaterialProgress) error {
	query := `
		UPDATE user_material_progress
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
