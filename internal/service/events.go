package service

import (
	"context"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
)

// notifier publishes events after commit. Failures are logged only.
type notifier struct {
	publisher integration.EventPublisher
	clock     clock.Clock
	logger    zerolog.Logger
}

func newNotifier(publisher integration.EventPublisher, clk clock.Clock, logger zerolog.Logger) notifier {
	if publisher == nil {
		publisher = integration.NewNopPublisher()
	}
	return notifier{publisher: publisher, clock: clk, logger: logger}
}

func (n notifier) notify(ctx context.Context, eventType models.EventType, assignment *models.Assignment, status *models.UserTrainingStatus) {
	event := &models.ProgressEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Assignment: assignment,
		UserStatus: status,
		OccurredAt: n.clock.Now().UTC(),
	}

	if err := n.publisher.PublishProgressEvent(ctx, event); err != nil {
		n.logger.Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("type", string(eventType)).
			Msg("Failed to publish progress event")
	}
}
