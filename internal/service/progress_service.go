package service

import (
	"context"
	"slices"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type ProgressService interface {
	RecordTechnologyCompletion(ctx context.Context, req *models.RecordTechnologyProgressRequest) (*models.ProgressUpdateResponse, error)
	UpdateTechnologyProgress(ctx context.Context, progressID int64, completed bool) (*models.ProgressUpdateResponse, error)
	GetProgressByAssignment(ctx context.Context, assignmentID int64) ([]models.TechnologyProgress, error)
	RecordMaterialCompletion(ctx context.Context, req *models.RecordMaterialProgressRequest) (*models.MaterialProgress, error)
	GetMaterialProgressByAssignment(ctx context.Context, assignmentID int64) ([]models.MaterialProgress, error)
}

type progressService struct {
	store    repository.Store
	notifier notifier
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewProgressService(
	store repository.Store,
	publisher integration.EventPublisher,
	clk clock.Clock,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		store:    store,
		notifier: newNotifier(publisher, clk, logger),
		clock:    clk,
		logger:   logger,
	}
}

func (s *progressService) RecordTechnologyCompletion(ctx context.Context, req *models.RecordTechnologyProgressRequest) (*models.ProgressUpdateResponse, error) {
	if req.AssignmentID <= 0 || req.TechnologyID <= 0 {
		return nil, errors.NewNotValid(nil, "assignment_id and technology_id are required")
	}

	var resp *models.ProgressUpdateResponse

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		assignment, err := requireAssignment(ctx, tx, req.AssignmentID)
		if err != nil {
			return err
		}

		technologyIDs, err := tx.Catalog().GetTrainingTechnologyIDs(ctx, assignment.TrainingID)
		if err != nil {
			return errors.Annotatef(err, "load technologies of training %d", assignment.TrainingID)
		}
		if !slices.Contains(technologyIDs, req.TechnologyID) {
			return errors.NotValidf("technology %d for training %d", req.TechnologyID, assignment.TrainingID)
		}

		now := s.clock.Now().UTC()

		progress, err := tx.TechnologyProgress().GetByAssignmentAndTechnology(ctx, assignment.ID, req.TechnologyID)
		if err != nil {
			return errors.Annotatef(err, "load progress of technology %d", req.TechnologyID)
		}

		if progress == nil {
			progress = &models.TechnologyProgress{
				AssignmentID: assignment.ID,
				TechnologyID: req.TechnologyID,
				CreatedAt:    now,
			}
			progress.MarkCompleted(req.IsCompleted, now)
			if err := tx.TechnologyProgress().Create(ctx, progress); err != nil {
				return errors.Trace(err)
			}
		} else {
			progress.MarkCompleted(req.IsCompleted, now)
			if err := tx.TechnologyProgress().Update(ctx, progress); err != nil {
				return errors.Annotatef(err, "update progress %d", progress.ID)
			}
		}

		resp, err = s.cascade(ctx, tx, assignment, progress, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logUpdate(resp)
	s.notifier.notify(ctx, models.EventProgressUpdated, resp.Assignment, resp.UserStatus)

	return resp, nil
}

func (s *progressService) UpdateTechnologyProgress(ctx context.Context, progressID int64, completed bool) (*models.ProgressUpdateResponse, error) {
	var resp *models.ProgressUpdateResponse

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		progress, err := tx.TechnologyProgress().GetByID(ctx, progressID)
		if err != nil {
			return errors.Annotatef(err, "load progress %d", progressID)
		}
		if progress == nil {
			return errors.NotFoundf("technology progress %d", progressID)
		}

		assignment, err := requireAssignment(ctx, tx, progress.AssignmentID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		progress.MarkCompleted(completed, now)
		if err := tx.TechnologyProgress().Update(ctx, progress); err != nil {
			return errors.Annotatef(err, "update progress %d", progress.ID)
		}

		resp, err = s.cascade(ctx, tx, assignment, progress, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logUpdate(resp)
	s.notifier.notify(ctx, models.EventProgressUpdated, resp.Assignment, resp.UserStatus)

	return resp, nil
}

func (s *progressService) cascade(ctx context.Context, tx repository.Repositories, assignment *models.Assignment, progress *models.TechnologyProgress, now time.Time) (*models.ProgressUpdateResponse, error) {
	if err := recomputeAssignment(ctx, tx, assignment); err != nil {
		return nil, err
	}

	status, err := refreshUserStatus(ctx, tx, assignment.UserID, now)
	if err != nil {
		return nil, err
	}

	return &models.ProgressUpdateResponse{
		Progress:   progress,
		Assignment: assignment,
		UserStatus: status,
	}, nil
}

func (s *progressService) logUpdate(resp *models.ProgressUpdateResponse) {
	s.logger.Info().
		Int64("assignment_id", resp.Assignment.ID).
		Int64("technology_id", resp.Progress.TechnologyID).
		Bool("completed", resp.Progress.IsCompleted).
		Str("percentage", resp.Assignment.CompletionPercentage.String()).
		Str("status", resp.Assignment.Status.String()).
		Msg("Technology progress recorded")
}

func (s *progressService) GetProgressByAssignment(ctx context.Context, assignmentID int64) ([]models.TechnologyProgress, error) {
	if _, err := requireAssignment(ctx, s.store, assignmentID); err != nil {
		return nil, err
	}

	progress, err := s.store.TechnologyProgress().GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, errors.Annotatef(err, "load progress of assignment %d", assignmentID)
	}

	return progress, nil
}

// RecordMaterialCompletion marks a support material as consumed. It does not
// touch the assignment percentage.
func (s *progressService) RecordMaterialCompletion(ctx context.Context, req *models.RecordMaterialProgressRequest) (*models.MaterialProgress, error) {
	if req.UserID <= 0 || req.MaterialID <= 0 || req.AssignmentID <= 0 {
		return nil, errors.NewNotValid(nil, "user_id, material_id and assignment_id are required")
	}

	var progress *models.MaterialProgress

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		assignment, err := requireAssignment(ctx, tx, req.AssignmentID)
		if err != nil {
			return err
		}
		if assignment.UserID != req.UserID {
			return errors.NotValidf("user %d for assignment %d", req.UserID, assignment.ID)
		}

		material, err := tx.Catalog().GetMaterialByID(ctx, req.MaterialID)
		if err != nil {
			return errors.Annotatef(err, "load material %d", req.MaterialID)
		}
		if material == nil || !material.Active {
			return errors.NotFoundf("training material %d", req.MaterialID)
		}
		if material.TrainingID != assignment.TrainingID {
			return errors.NotValidf("material %d for training %d", material.ID, assignment.TrainingID)
		}

		now := s.clock.Now().UTC()

		progress, err = tx.MaterialProgress().Get(ctx, req.UserID, req.MaterialID, req.AssignmentID)
		if err != nil {
			return errors.Annotatef(err, "load material progress")
		}

		if progress == nil {
			progress = &models.MaterialProgress{
				UserID:       req.UserID,
				MaterialID:   req.MaterialID,
				AssignmentID: req.AssignmentID,
				CreatedAt:    now,
			}
			progress.MarkCompleted(req.IsCompleted, now)
			return errors.Annotate(tx.MaterialProgress().Create(ctx, progress), "create material progress")
		}

		progress.MarkCompleted(req.IsCompleted, now)
		return errors.Annotate(tx.MaterialProgress().Update(ctx, progress), "update material progress")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignment_id", progress.AssignmentID).
		Int64("material_id", progress.MaterialID).
		Bool("completed", progress.IsCompleted).
		Msg("Material progress recorded")

	return progress, nil
}

func (s *progressService) GetMaterialProgressByAssignment(ctx context.Context, assignmentID int64) ([]models.MaterialProgress, error) {
	if _, err := requireAssignment(ctx, s.store, assignmentID); err != nil {
		return nil, err
	}

	progress, err := s.store.MaterialProgress().GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, errors.Annotatef(err, "load material progress of assignment %d", assignmentID)
	}

	return progress, nil
}
