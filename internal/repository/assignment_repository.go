package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	GetByUserAndTraining(ctx context.Context, userID, trainingID int64) (*models.Assignment, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Assignment, error)
	GetByTrainingID(ctx context.Context, trainingID int64) ([]models.Assignment, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Assignment, int, error)
	UpdateProgress(ctx context.Context, id int64, percentage models.Percentage, status models.AssignmentStatus) error
	UpdateMeetingLink(ctx context.Context, id int64, link *string) error
	UpdateInstructorByTraining(ctx context.Context, trainingID int64, instructorID *int64) (int, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db DBTX, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const assignmentColumns = `
	assignment_id, user_id, training_id, instructor_id, assignment_status,
	completion_percentage, instructor_meeting_link, assignment_created_at`

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var (
		a           models.Assignment
		instructor  sql.NullInt64
		meetingLink sql.NullString
		status      string
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.TrainingID,
		&instructor,
		&status,
		&a.CompletionPercentage,
		&meetingLink,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.InstructorID = int64Ptr(instructor)
	a.MeetingLink = stringPtr(meetingLink)
	a.Status = models.AssignmentStatus(status)

	return &a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO user_training_assignments (
			user_id, training_id, instructor_id, assignment_status,
			completion_percentage, instructor_meeting_link, assignment_created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING assignment_id
	`

	err := r.db.QueryRowContext(ctx, query,
		assignment.UserID,
		assignment.TrainingID,
		nullableInt64(assignment.InstructorID),
		assignment.Status.String(),
		assignment.CompletionPercentage,
		nullableString(assignment.MeetingLink),
		assignment.CreatedAt,
	).Scan(&assignment.ID)

	if isUniqueViolation(err) {
		return errors.AlreadyExistsf("assignment of training %d to user %d", assignment.TrainingID, assignment.UserID)
	}

	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `SELECT` + assignmentColumns + `
		FROM user_training_assignments
		WHERE assignment_id = $1
	`

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetByUserAndTraining(ctx context.Context, userID, trainingID int64) (*models.Assignment, error) {
	query := `SELECT` + assignmentColumns + `
		FROM user_training_assignments
		WHERE user_id = $1 AND training_id = $2
	`

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, userID, trainingID))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Assignment, error) {
	query := `SELECT` + assignmentColumns + `
		FROM user_training_assignments
		WHERE user_id = $1
		ORDER BY assignment_created_at DESC, assignment_id DESC
	`

	return r.queryList(ctx, query, userID)
}

func (r *assignmentRepository) GetByTrainingID(ctx context.Context, trainingID int64) ([]models.Assignment, error) {
	query := `SELECT` + assignmentColumns + `
		FROM user_training_assignments
		WHERE training_id = $1
		ORDER BY assignment_id
	`

	return r.queryList(ctx, query, trainingID)
}

func (r *assignmentRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Assignment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_training_assignments`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT` + assignmentColumns + `
		FROM user_training_assignments
		ORDER BY assignment_created_at DESC, assignment_id DESC
		LIMIT $1 OFFSET $2
	`

	assignments, err := r.queryList(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *assignment)
	}

	return assignments, rows.Err()
}

func (r *assignmentRepository) UpdateProgress(ctx context.Context, id int64, percentage models.Percentage, status models.AssignmentStatus) error {
	query := `
		UPDATE user_training_assignments
		SET completion_percentage = $1, assignment_status = $2
		WHERE assignment_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, percentage, status.String(), id)
	return err
}

func (r *assignmentRepository) UpdateMeetingLink(ctx context.Context, id int64, link *string) error {
	query := `
		UPDATE user_training_assignments
		SET instructor_meeting_link = $1
		WHERE assignment_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, nullableString(link), id)
	return err
}

func (r *assignmentRepository) UpdateInstructorByTraining(ctx context.Context, trainingID int64, instructorID *int64) (int, error) {
	query := `
		UPDATE user_training_assignments
		SET instructor_id = $1
		WHERE training_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, nullableInt64(instructorID), trainingID)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	return int(affected), err
}
