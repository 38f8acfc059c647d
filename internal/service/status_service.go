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

type StatusService interface {
	RefreshUserStatus(ctx context.Context, userID int64) (*models.UserTrainingStatus, error)
	GetUserStatus(ctx context.Context, userID int64) (*models.UserTrainingStatus, error)
	ListStatuses(ctx context.Context, page, limit int) ([]models.UserTrainingStatus, int, error)
}

type statusService struct {
	store    repository.Store
	notifier notifier
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewStatusService(
	store repository.Store,
	publisher integration.EventPublisher,
	clk clock.Clock,
	logger zerolog.Logger,
) StatusService {
	return &statusService{
		store:    store,
		notifier: newNotifier(publisher, clk, logger),
		clock:    clk,
		logger:   logger,
	}
}

func (s *statusService) RefreshUserStatus(ctx context.Context, userID int64) (*models.UserTrainingStatus, error) {
	var status *models.UserTrainingStatus

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		status, err = refreshUserStatus(ctx, tx, userID, s.clock.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("overall_status", status.OverallStatus.String()).
		Int("total", status.TotalTrainingsAssigned).
		Msg("User training status refreshed")

	s.notifier.notify(ctx, models.EventStatusRefreshed, nil, status)

	return status, nil
}

// GetUserStatus returns the stored roll-up, building it when the user has none yet.
func (s *statusService) GetUserStatus(ctx context.Context, userID int64) (*models.UserTrainingStatus, error) {
	status, err := s.store.TrainingStatus().GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Annotatef(err, "load training status of user %d", userID)
	}
	if status != nil {
		return status, nil
	}

	return s.RefreshUserStatus(ctx, userID)
}

func (s *statusService) ListStatuses(ctx context.Context, page, limit int) ([]models.UserTrainingStatus, int, error) {
	page, limit = normalizePage(page, limit)

	statuses, total, err := s.store.TrainingStatus().GetAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.Annotate(err, "list training statuses")
	}

	return statuses, total, nil
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
