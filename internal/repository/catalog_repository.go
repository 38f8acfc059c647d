package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/rs/zerolog"
)

// CatalogRepository gives read access to users, trainings, technologies and
// materials. Their CRUD lives outside this service.
type CatalogRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetTrainingByID(ctx context.Context, id int64) (*models.Training, error)
	GetTrainingTechnologyIDs(ctx context.Context, trainingID int64) ([]int64, error)
	GetMaterialByID(ctx context.Context, id int64) (*models.TrainingMaterial, error)
	UpdateMaterialDocument(ctx context.Context, id int64, url string) error
}

type catalogRepository struct {
	*PostgresRepository
}

func NewCatalogRepository(db DBTX, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *catalogRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT user_id, user_username, user_role, user_status, user_created_at
		FROM users
		WHERE user_id = $1
	`

	var (
		user   models.User
		status string
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.RoleID,
		&status,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Active = decodeActive(status)
	return &user, nil
}

func (r *catalogRepository) GetTrainingByID(ctx context.Context, id int64) (*models.Training, error) {
	query := `
		SELECT training_id, training_name, training_description, training_status, training_created_at
		FROM trainings
		WHERE training_id = $1
	`

	var (
		training    models.Training
		description sql.NullString
		status      string
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&training.ID,
		&training.Name,
		&description,
		&status,
		&training.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	training.Description = stringPtr(description)
	training.Active = decodeActive(status)
	return &training, nil
}

func (r *catalogRepository) GetTrainingTechnologyIDs(ctx context.Context, trainingID int64) ([]int64, error) {
	query := `
		SELECT technology_id
		FROM training_technologies
		WHERE training_id = $1
		ORDER BY technology_id
	`

	rows, err := r.db.QueryContext(ctx, query, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *catalogRepository) GetMaterialByID(ctx context.Context, id int64) (*models.TrainingMaterial, error) {
	query := `
		SELECT material_id, training_id, instructor_id, material_title, material_description,
			material_url, material_type, material_status, material_created_at
		FROM training_materials
		WHERE material_id = $1
	`

	var (
		material     models.TrainingMaterial
		description  sql.NullString
		materialType string
		status       string
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&material.ID,
		&material.TrainingID,
		&material.InstructorID,
		&material.Title,
		&description,
		&material.URL,
		&materialType,
		&status,
		&material.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	material.Description = stringPtr(description)
	material.Type = models.MaterialType(materialType)
	material.Active = decodeActive(status)
	return &material, nil
}

func (r *catalogRepository) UpdateMaterialDocument(ctx context.Context, id int64, url string) error {
	query := `
		UPDATE training_materials
		SET material_url = $1, material_type = $2
		WHERE material_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, url, string(models.MaterialTypeDocument), id)
	return err
}
