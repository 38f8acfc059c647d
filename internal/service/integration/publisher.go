package integration

import (
	"context"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
)

// EventPublisher delivers committed progress changes to downstream consumers.
type EventPublisher interface {
	PublishProgressEvent(ctx context.Context, event *models.ProgressEvent) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher is used when no downstream consumer is configured.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishProgressEvent(context.Context, *models.ProgressEvent) error { return nil }
func (nopPublisher) Close() error                                                    { return nil }

type multiPublisher struct {
	publishers []EventPublisher
}

// NewMultiPublisher sends every event to all publishers. A failing publisher
// does not stop the others; the first error is returned.
func NewMultiPublisher(publishers ...EventPublisher) EventPublisher {
	if len(publishers) == 0 {
		return NewNopPublisher()
	}
	if len(publishers) == 1 {
		return publishers[0]
	}
	return &multiPublisher{publishers: publishers}
}

func (m *multiPublisher) PublishProgressEvent(ctx context.Context, event *models.ProgressEvent) error {
	var first error
	for _, p := range m.publishers {
		if err := p.PublishProgressEvent(ctx, event); err != nil && first == nil {
			first = errors.Trace(err)
		}
	}
	return first
}

func (m *multiPublisher) Close() error {
	var first error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
