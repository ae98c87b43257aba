// Package queue implements the generic consumer framework: a breaker-gated,
// single-in-flight-message loop over an AMQP queue that classifies a worker's outcome into
// ack, reject, or nack-requeue.
package queue

import (
	"context"
	"encoding/json"

	appErrors "github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/services"
	"github.com/northlane/billingctl/internal/breaker"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker decodes a queue message payload and performs the side effect (an outbound POST to a
// sidecar service). Errors must be appErrors.PermanentWorkerError (dead-letter, no retry) or
// appErrors.TemporaryWorkerError (nack-requeue); any other error is also treated as temporary.
type Worker interface {
	// Name identifies the worker in log lines.
	Name() string
	// Queue is the durable queue this worker consumes.
	Queue() string
	// HandleEvent is invoked once per decoded message.
	HandleEvent(ctx context.Context, payload json.RawMessage) error
}

// Consumer drives a single Worker's single-threaded consume loop, gating every message through
// a dedicated CircuitBreaker (one breaker per consumer).
type Consumer struct {
	worker  Worker
	amqp    *services.AmqpService
	breaker *breaker.CircuitBreaker
	logger  logger.Logger
}

// NewConsumer creates a Consumer for worker, with its own circuit breaker.
func NewConsumer(worker Worker, amqpService *services.AmqpService, log logger.Logger) *Consumer {
	return &Consumer{
		worker:  worker,
		amqp:    amqpService,
		breaker: breaker.New(breaker.DefaultConfig()),
		logger:  log,
	}
}

// Run consumes deliveries from the worker's queue until ctx is cancelled. Each message is fully
// ack'd, rejected, or nack-requeued before the next is read off the channel (QoS(10) lets the
// broker prefetch, but this loop processes one at a time).
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, appErr := c.amqp.ConsumeQueue(c.worker.Queue())
	if appErr != nil {
		return appErr
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.process(ctx, delivery)
		}
	}
}

// process handles one delivery: breaker gate first (an open circuit leaves the message
// un-acked for broker redelivery and touches nothing else), then JSON decode (a malformed
// body dead-letters without involving the breaker), then the worker's side effect, whose
// outcome is classified into ack, reject, or nack-requeue.
func (c *Consumer) process(ctx context.Context, delivery amqp.Delivery) {
	if !c.breaker.CanExecute() {
		c.logger.Warning(ctx, "circuit open, leaving message unacked for redelivery", map[string]interface{}{
			"worker": c.worker.Name(),
		})
		return
	}

	var payload json.RawMessage
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		c.logger.Error(ctx, "failed to decode queue message, dead-lettering", map[string]interface{}{
			"worker": c.worker.Name(),
			"error":  err.Error(),
		})
		_ = delivery.Reject(false)
		return
	}

	handleErr := c.breaker.Call(func() error {
		return c.worker.HandleEvent(ctx, payload)
	})

	switch {
	case handleErr == nil:
		_ = delivery.Ack(false)
	case handleErr == breaker.ErrOpen || handleErr == breaker.ErrTooManyRequests:
		// the circuit shut between the pre-check and the call; same outcome as the gate
		c.logger.Warning(ctx, "circuit open, leaving message unacked for redelivery", map[string]interface{}{
			"worker": c.worker.Name(),
		})
	case appErrors.IsPermanentWorkerError(handleErr):
		c.logger.LogError(ctx, "permanent worker error, dead-lettering", handleErr)
		_ = delivery.Reject(false)
	default:
		c.logger.LogError(ctx, "temporary worker error, requeuing", handleErr)
		_ = delivery.Nack(false, true)
	}
}
