package worker

import (
	"context"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"

	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

// AsyncPublisher moves event delivery off the request path. Events are
// handed to the pool and published with their own timeout.
type AsyncPublisher struct {
	next    integration.EventPublisher
	pool    *WorkerPool
	timeout time.Duration
	logger  zerolog.Logger
}

func NewAsyncPublisher(next integration.EventPublisher, pool *WorkerPool, timeout time.Duration, logger zerolog.Logger) *AsyncPublisher {
	return &AsyncPublisher{
		next:    next,
		pool:    pool,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *AsyncPublisher) PublishProgressEvent(ctx context.Context, event *models.ProgressEvent) error {
	// запрос может завершиться раньше публикации
	detached := context.WithoutCancel(ctx)

	ok := p.pool.Submit(func() {
		pubCtx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()

		if err := p.next.PublishProgressEvent(pubCtx, event); err != nil {
			p.logger.Warn().
				Err(err).
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Msg("Async event delivery failed")
		}
	})
	if !ok {
		return errors.Errorf("event %s dropped: publish queue unavailable", event.ID)
	}
	return nil
}

// Close drains queued events before closing the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.pool.Stop()
	return p.next.Close()
}
