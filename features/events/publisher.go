// Package events publishes the two outbound broker event streams the orchestrator emits on
// subscription transitions: auth role changes and user notifications.
package events

import (
	"context"
	"encoding/json"

	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/services"
	"github.com/google/uuid"
)

// AuthEventsQueue and NotificationEventsQueue are the durable queue/routing-key names shared by
// the publisher and the queue-worker framework.
const (
	AuthEventsQueue         = "auth_events"
	NotificationEventsQueue = "notification_events"
)

// AuthEvent requests an auth-role change for a user, consumed by AuthWorker.
type AuthEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// NotificationEvent requests a user-facing notification, consumed by NotificationWorker.
type NotificationEvent struct {
	UserID           uuid.UUID   `json:"user_id"`
	NotificationData interface{} `json:"notification_data"`
}

// Publisher publishes AuthEvent and NotificationEvent messages onto the broker. Publish
// failures are logged, not returned as fatal: the DB is the source of truth and a background
// re-emitter can replay from it.
type Publisher struct {
	amqp   *services.AmqpService
	logger logger.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(amqp *services.AmqpService, logger logger.Logger) *Publisher {
	return &Publisher{amqp: amqp, logger: logger}
}

// PublishAuthRoleChange publishes an AuthEvent. The bool return reports whether the publish
// succeeded; callers log but never fail the originating command on false.
func (p *Publisher) PublishAuthRoleChange(ctx context.Context, userID uuid.UUID, role string) bool {
	event := AuthEvent{UserID: userID, Role: role}
	return p.publish(ctx, AuthEventsQueue, event)
}

// PublishUserNotification publishes a NotificationEvent.
func (p *Publisher) PublishUserNotification(ctx context.Context, userID uuid.UUID, notificationData interface{}) bool {
	event := NotificationEvent{UserID: userID, NotificationData: notificationData}
	return p.publish(ctx, NotificationEventsQueue, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) bool {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal outbound event", map[string]interface{}{
			"routing_key": routingKey,
			"error":       err.Error(),
		})
		return false
	}

	if appErr := p.amqp.PublishEvent(ctx, routingKey, body); appErr != nil {
		p.logger.LogError(ctx, "failed to publish event, DB state is authoritative and a re-emitter can replay", appErr)
		return false
	}
	return true
}
