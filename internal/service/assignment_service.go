package service

import (
	"context"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context, page, limit int) ([]models.Assignment, int, error)
	GetAssignmentsByUser(ctx context.Context, userID int64) ([]models.Assignment, error)
	UpdateMeetingLink(ctx context.Context, id int64, link *string) (*models.Assignment, error)
	UpdateTrainingInstructor(ctx context.Context, trainingID int64, instructorID *int64) (*models.UpdateTrainingInstructorResponse, error)
}

type assignmentService struct {
	store    repository.Store
	notifier notifier
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewAssignmentService(
	store repository.Store,
	publisher integration.EventPublisher,
	clk clock.Clock,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		store:    store,
		notifier: newNotifier(publisher, clk, logger),
		clock:    clk,
		logger:   logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	if req.UserID <= 0 || req.TrainingID <= 0 {
		return nil, errors.NewNotValid(nil, "user_id and training_id are required")
	}

	var (
		assignment *models.Assignment
		status     *models.UserTrainingStatus
	)

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if _, err := requireUser(ctx, tx, req.UserID); err != nil {
			return err
		}
		if _, err := requireActiveTraining(ctx, tx, req.TrainingID); err != nil {
			return err
		}
		if err := requireInstructor(ctx, tx, req.InstructorID); err != nil {
			return err
		}

		// Проверяем, нет ли уже назначения этого тренинга пользователю
		existing, err := tx.Assignments().GetByUserAndTraining(ctx, req.UserID, req.TrainingID)
		if err != nil {
			return errors.Annotate(err, "check existing assignment")
		}
		if existing != nil {
			return errors.AlreadyExistsf("assignment of training %d to user %d", req.TrainingID, req.UserID)
		}

		technologyIDs, err := tx.Catalog().GetTrainingTechnologyIDs(ctx, req.TrainingID)
		if err != nil {
			return errors.Annotatef(err, "load technologies of training %d", req.TrainingID)
		}

		now := s.clock.Now().UTC()

		assignment, err = createAssignment(ctx, tx, newAssignment{
			UserID:       req.UserID,
			TrainingID:   req.TrainingID,
			InstructorID: req.InstructorID,
			MeetingLink:  req.MeetingLink,
		}, technologyIDs, now)
		if err != nil {
			return err
		}

		status, err = refreshUserStatus(ctx, tx, req.UserID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignment_id", assignment.ID).
		Int64("user_id", assignment.UserID).
		Int64("training_id", assignment.TrainingID).
		Msg("Training assigned")

	s.notifier.notify(ctx, models.EventAssignmentCreated, assignment, status)

	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	return requireAssignment(ctx, s.store, id)
}

func (s *assignmentService) ListAssignments(ctx context.Context, page, limit int) ([]models.Assignment, int, error) {
	page, limit = normalizePage(page, limit)

	assignments, total, err := s.store.Assignments().GetAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.Annotate(err, "list assignments")
	}

	return assignments, total, nil
}

func (s *assignmentService) GetAssignmentsByUser(ctx context.Context, userID int64) ([]models.Assignment, error) {
	if _, err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	assignments, err := s.store.Assignments().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Annotatef(err, "load assignments of user %d", userID)
	}

	return assignments, nil
}

// UpdateMeetingLink sets or clears the instructor meeting link.
func (s *assignmentService) UpdateMeetingLink(ctx context.Context, id int64, link *string) (*models.Assignment, error) {
	if link != nil && *link == "" {
		link = nil
	}

	assignment, err := requireAssignment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Assignments().UpdateMeetingLink(ctx, id, link); err != nil {
		return nil, errors.Annotatef(err, "update meeting link of assignment %d", id)
	}

	assignment.MeetingLink = link
	return assignment, nil
}

// UpdateTrainingInstructor moves every assignment of a training to another
// instructor, or detaches the instructor when instructorID is nil.
func (s *assignmentService) UpdateTrainingInstructor(ctx context.Context, trainingID int64, instructorID *int64) (*models.UpdateTrainingInstructorResponse, error) {
	var updated int

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if err := requireInstructor(ctx, tx, instructorID); err != nil {
			return err
		}

		var err error
		updated, err = tx.Assignments().UpdateInstructorByTraining(ctx, trainingID, instructorID)
		if err != nil {
			return errors.Annotatef(err, "update instructor of training %d", trainingID)
		}
		if updated == 0 {
			return errors.NotFoundf("assignments of training %d", trainingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("training_id", trainingID).
		Int("updated", updated).
		Msg("Training instructor updated")

	return &models.UpdateTrainingInstructorResponse{
		TrainingID:         trainingID,
		InstructorID:       instructorID,
		UpdatedAssignments: updated,
	}, nil
}
