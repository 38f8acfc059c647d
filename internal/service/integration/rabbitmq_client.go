package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type rabbitMQPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitMQPublisher publishes events to a direct exchange using the event
// type as routing key. Consumers declare and bind their own queues.
func NewRabbitMQPublisher(url, exchange string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, errors.Annotate(err, "failed to connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Annotate(err, "failed to open channel")
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, errors.Annotate(err, "failed to declare exchange")
	}

	logger.Info().
		Str("exchange", exchange).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishProgressEvent(ctx context.Context, event *models.ProgressEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Annotate(err, "failed to marshal event")
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         string(event.Type),
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return errors.Annotate(err, "failed to publish message")
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Msg("Progress event published")

	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
