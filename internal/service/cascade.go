package service

import (
	"context"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service/aggregator"
	"github.com/juju/errors"
)

// Шаги каскада вызываются внутри одной транзакции:
// прогресс по технологии -> процент назначения -> сводка пользователя.

// recomputeAssignment re-derives percentage and status from the stored
// progress rows and persists them.
func recomputeAssignment(ctx context.Context, repos repository.Repositories, assignment *models.Assignment) error {
	rows, err := repos.TechnologyProgress().GetByAssignmentID(ctx, assignment.ID)
	if err != nil {
		return errors.Annotatef(err, "load progress of assignment %d", assignment.ID)
	}

	completion := aggregator.AssignmentCompletion(rows, assignment.Status)
	if completion.Total == 0 {
		return nil
	}

	if err := repos.Assignments().UpdateProgress(ctx, assignment.ID, completion.Percentage, completion.Status); err != nil {
		return errors.Annotatef(err, "update assignment %d", assignment.ID)
	}

	assignment.CompletionPercentage = completion.Percentage
	assignment.Status = completion.Status
	return nil
}

// refreshUserStatus recounts every assignment of the user and writes the
// roll-up, creating the row on first use.
func refreshUserStatus(ctx context.Context, repos repository.Repositories, userID int64, now time.Time) (*models.UserTrainingStatus, error) {
	assignments, err := repos.Assignments().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Annotatef(err, "load assignments of user %d", userID)
	}

	status, err := repos.TrainingStatus().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Annotatef(err, "load training status of user %d", userID)
	}

	summary := aggregator.Summarize(assignments)

	if status == nil {
		status = &models.UserTrainingStatus{
			UserID:    userID,
			CreatedAt: now,
		}
		summary.Apply(status)
		status.LastUpdated = now

		if err := repos.TrainingStatus().Create(ctx, status); err != nil {
			return nil, errors.Annotatef(err, "create training status of user %d", userID)
		}
		return status, nil
	}

	summary.Apply(status)
	status.LastUpdated = now

	if err := repos.TrainingStatus().Update(ctx, status); err != nil {
		return nil, errors.Annotatef(err, "update training status of user %d", userID)
	}

	return status, nil
}

// materializeProgress creates the missing progress rows so that every
// technology of the training has exactly one row for the assignment.
func materializeProgress(ctx context.Context, repos repository.Repositories, assignmentID int64, technologyIDs []int64, now time.Time) error {
	existing, err := repos.TechnologyProgress().GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return errors.Annotatef(err, "load progress of assignment %d", assignmentID)
	}

	have := make(map[int64]bool, len(existing))
	for _, row := range existing {
		have[row.TechnologyID] = true
	}

	for _, technologyID := range technologyIDs {
		if have[technologyID] {
			continue
		}

		row := &models.TechnologyProgress{
			AssignmentID: assignmentID,
			TechnologyID: technologyID,
			CreatedAt:    now,
		}
		if err := repos.TechnologyProgress().Create(ctx, row); err != nil {
			return errors.Annotatef(err, "create progress of technology %d", technologyID)
		}
		have[technologyID] = true
	}

	return nil
}

type newAssignment struct {
	UserID       int64
	TrainingID   int64
	InstructorID *int64
	MeetingLink  *string
}

// createAssignment inserts a fresh assignment with one progress row per
// training technology.
func createAssignment(ctx context.Context, repos repository.Repositories, req newAssignment, technologyIDs []int64, now time.Time) (*models.Assignment, error) {
	assignment := &models.Assignment{
		UserID:               req.UserID,
		TrainingID:           req.TrainingID,
		InstructorID:         req.InstructorID,
		Status:               models.AssignmentStatusAssigned,
		CompletionPercentage: models.PercentageZero,
		MeetingLink:          req.MeetingLink,
		CreatedAt:            now,
	}

	if err := repos.Assignments().Create(ctx, assignment); err != nil {
		return nil, errors.Trace(err)
	}

	if err := materializeProgress(ctx, repos, assignment.ID, technologyIDs, now); err != nil {
		return nil, errors.Trace(err)
	}

	return assignment, nil
}

// resetAssignment puts a completed assignment back to the start.
func resetAssignment(ctx context.Context, repos repository.Repositories, assignment *models.Assignment, technologyIDs []int64, now time.Time) error {
	if err := repos.TechnologyProgress().ResetByAssignmentID(ctx, assignment.ID); err != nil {
		return errors.Annotatef(err, "reset progress of assignment %d", assignment.ID)
	}

	if err := materializeProgress(ctx, repos, assignment.ID, technologyIDs, now); err != nil {
		return errors.Trace(err)
	}

	if err := repos.Assignments().UpdateProgress(ctx, assignment.ID, models.PercentageZero, models.AssignmentStatusAssigned); err != nil {
		return errors.Annotatef(err, "reset assignment %d", assignment.ID)
	}

	assignment.CompletionPercentage = models.PercentageZero
	assignment.Status = models.AssignmentStatusAssigned
	return nil
}

func requireUser(ctx context.Context, repos repository.Repositories, userID int64) (*models.User, error) {
	user, err := repos.Catalog().GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.Annotatef(err, "load user %d", userID)
	}
	if user == nil {
		return nil, errors.NotFoundf("user %d", userID)
	}
	return user, nil
}

func requireActiveTraining(ctx context.Context, repos repository.Repositories, trainingID int64) (*models.Training, error) {
	training, err := repos.Catalog().GetTrainingByID(ctx, trainingID)
	if err != nil {
		return nil, errors.Annotatef(err, "load training %d", trainingID)
	}
	if training == nil || !training.Active {
		return nil, errors.NotFoundf("training %d", trainingID)
	}
	return training, nil
}

// requireInstructor accepts a nil id.
func requireInstructor(ctx context.Context, repos repository.Repositories, instructorID *int64) error {
	if instructorID == nil {
		return nil
	}

	user, err := repos.Catalog().GetUserByID(ctx, *instructorID)
	if err != nil {
		return errors.Annotatef(err, "load instructor %d", *instructorID)
	}
	if user == nil || !user.IsInstructor() {
		return errors.NotValidf("user %d as instructor", *instructorID)
	}
	return nil
}

func requireAssignment(ctx context.Context, repos repository.Repositories, assignmentID int64) (*models.Assignment, error) {
	assignment, err := repos.Assignments().GetByID(ctx, assignmentID)
	if err != nil {
		return nil, errors.Annotatef(err, "load assignment %d", assignmentID)
	}
	if assignment == nil {
		return nil, errors.NotFoundf("assignment %d", assignmentID)
	}
	return assignment, nil
}
