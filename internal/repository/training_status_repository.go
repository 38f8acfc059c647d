package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/rs/zerolog"
)

type TrainingStatusRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserTrainingStatus, error)
	Create(ctx context.Context, status *models.UserTrainingStatus) error
	Update(ctx context.Context, status *models.UserTrainingStatus) error
	GetAll(ctx context.Context, limit, offset int) ([]models.UserTrainingStatus, int, error)
}

type trainingStatusRepository struct {
	*PostgresRepository
}

func NewTrainingStatusRepository(db DBTX, logger zerolog.Logger) TrainingStatusRepository {
	return &trainingStatusRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const trainingStatusColumns = `
	status_id, user_id, total_trainings_assigned, trainings_completed,
	trainings_in_progress, overall_status, last_updated, created_at`

func scanTrainingStatus(row rowScanner) (*models.UserTrainingStatus, error) {
	var (
		s       models.UserTrainingStatus
		overall string
	)

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.TotalTrainingsAssigned,
		&s.TrainingsCompleted,
		&s.TrainingsInProgress,
		&overall,
		&s.LastUpdated,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.OverallStatus = models.OverallStatus(overall)
	return &s, nil
}

func (r *trainingStatusRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserTrainingStatus, error) {
	query := `SELECT` + trainingStatusColumns + `
		FROM user_training_status
		WHERE user_id = $1
	`

	status, err := scanTrainingStatus(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return status, err
}

func (r *trainingStatusRepository) Create(ctx context.Context, status *models.UserTrainingStatus) error {
	query := `
		INSERT INTO user_training_status (
			user_id, total_trainings_assigned, trainings_completed,
			trainings_in_progress, overall_status, last_updated, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING status_id
	`

	return r.db.QueryRowContext(ctx, query,
		status.UserID,
		status.TotalTrainingsAssigned,
		status.TrainingsCompleted,
		status.TrainingsInProgress,
		status.OverallStatus.String(),
		status.LastUpdated,
		status.CreatedAt,
	).Scan(&status.ID)
}

func (r *trainingStatusRepository) Update(ctx context.Context, status *models.UserTrainingStatus) error {
	query := `
		UPDATE user_training_status
		SET total_trainings_assigned = $1,
			trainings_completed = $2,
			trainings_in_progress = $3,
			overall_status = $4,
			last_updated = $5
		WHERE status_id = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		status.TotalTrainingsAssigned,
		status.TrainingsCompleted,
		status.TrainingsInProgress,
		status.OverallStatus.String(),
		status.LastUpdated,
		status.ID,
	)

	return err
}

func (r *trainingStatusRepository) GetAll(ctx context.Context, limit, offset int) ([]models.UserTrainingStatus, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_training_status`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT` + trainingStatusColumns + `
		FROM user_training_status
		ORDER BY user_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var statuses []models.UserTrainingStatus
	for rows.Next() {
		status, err := scanTrainingStatus(rows)
		if err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, *status)
	}

	return statuses, total, rows.Err()
}
