package services

import (
	"context"
	"fmt"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/entities"
	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpService provides AMQP messaging capabilities: a direct exchange fronting
// durable, dead-lettered queues for the auth and notification event streams.
type AmqpService struct {
	logger     logger.Logger
	cfg        *config.AppConfig
	connection *amqp.Connection
	channel    *amqp.Channel
}

// NewAmqpService creates a new AmqpService instance.
func NewAmqpService(logger logger.Logger, cfg *config.AppConfig) *AmqpService {
	return &AmqpService{logger: logger, cfg: cfg}
}

// Connect dials RabbitMQ and opens a single shared channel for the lifetime of the process.
func (s *AmqpService) Connect() *errors.AppError {
	connection, err := amqp.Dial(s.cfg.AmqpConnection)
	if err != nil {
		appErr := errors.NewAppError(entities.ErrService, err.Error(), map[string]interface{}{"amqp_host": s.cfg.RabbitMQHost}, err)
		s.logger.LogError(context.Background(), "failed to connect to RabbitMQ", appErr)
		return appErr
	}

	channel, err := connection.Channel()
	if err != nil {
		appErr := errors.NewAppError(entities.ErrService, err.Error(), nil, err)
		s.logger.LogError(context.Background(), "failed to open AMQP channel", appErr)
		return appErr
	}

	s.connection = connection
	s.channel = channel
	s.logger.Info(context.Background(), "connected to RabbitMQ", map[string]interface{}{"amqp_host": s.cfg.RabbitMQHost})
	return nil
}

// Channel returns the shared AMQP channel.
func (s *AmqpService) Channel() *amqp.Channel {
	return s.channel
}

// Close tears down the channel and connection.
func (s *AmqpService) Close() {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.connection != nil {
		_ = s.connection.Close()
	}
}

// dlxName derives the dead-letter exchange name from the billing events exchange name.
func (s *AmqpService) dlxName() string {
	return s.cfg.RabbitMQExchangeName + "_dlx"
}

// DeclareTopology declares the billing_events direct exchange, its dead-letter exchange,
// and a durable queue (plus matching DLQ) per routing key, bound with
// x-dead-letter-exchange/x-dead-letter-routing-key so rejected messages land in <queue>_dlq.
func (s *AmqpService) DeclareTopology(queueRoutingKeys map[string]string) *errors.AppError {
	exchange := s.cfg.RabbitMQExchangeName
	dlx := s.dlxName()

	if err := s.channel.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return s.declareErr("declare exchange", err)
	}
	if err := s.channel.ExchangeDeclare(dlx, "direct", true, false, false, false, nil); err != nil {
		return s.declareErr("declare dead-letter exchange", err)
	}

	for queue, routingKey := range queueRoutingKeys {
		dlq := queue + "_dlq"

		if _, err := s.channel.QueueDeclare(queue, true, false, false, false, amqp.Table{
			"x-dead-letter-exchange":    dlx,
			"x-dead-letter-routing-key": dlq,
		}); err != nil {
			return s.declareErr(fmt.Sprintf("declare queue %s", queue), err)
		}
		if err := s.channel.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
			return s.declareErr(fmt.Sprintf("bind queue %s", queue), err)
		}

		if _, err := s.channel.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return s.declareErr(fmt.Sprintf("declare dlq %s", dlq), err)
		}
		if err := s.channel.QueueBind(dlq, dlq, dlx, false, nil); err != nil {
			return s.declareErr(fmt.Sprintf("bind dlq %s", dlq), err)
		}
	}

	return nil
}

func (s *AmqpService) declareErr(action string, err error) *errors.AppError {
	appErr := errors.NewAppError(entities.ErrService, err.Error(), map[string]interface{}{"action": action}, err)
	s.logger.LogError(context.Background(), "failed to "+action, appErr)
	return appErr
}

// PublishEvent publishes a persistent message to the billing_events exchange under routingKey.
func (s *AmqpService) PublishEvent(ctx context.Context, routingKey string, payload []byte) *errors.AppError {
	err := s.channel.PublishWithContext(ctx,
		s.cfg.RabbitMQExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		})
	if err != nil {
		appErr := errors.NewAppError(entities.ErrService, err.Error(), map[string]interface{}{"routing_key": routingKey}, err)
		s.logger.LogError(ctx, "failed to publish event", appErr)
		return appErr
	}
	return nil
}

// ConsumeQueue starts a manual-ack consumer on queue. Handlers must Ack on success, Nack with
// requeue=true on a transient failure, or Nack with requeue=false to dead-letter the message.
func (s *AmqpService) ConsumeQueue(queue string) (<-chan amqp.Delivery, *errors.AppError) {
	if s.channel == nil {
		return nil, errors.NewAppError(entities.ErrService, "broker channel not connected", map[string]interface{}{"queue": queue}, nil)
	}
	if err := s.channel.Qos(10, 0, false); err != nil {
		return nil, s.declareErr("set QoS", err)
	}

	msgs, err := s.channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		appErr := errors.NewAppError(entities.ErrService, err.Error(), map[string]interface{}{"queue": queue}, err)
		s.logger.LogError(context.Background(), "failed to start consuming queue", appErr)
		return nil, appErr
	}

	s.logger.Info(context.Background(), "consuming queue", map[string]interface{}{"queue": queue})
	return msgs, nil
}
