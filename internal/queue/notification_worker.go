package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/errors"
	"github.com/google/uuid"
)

// notificationEventPayload mirrors events.NotificationEvent, see authEventPayload for why it is
// duplicated rather than shared.
type notificationEventPayload struct {
	UserID           uuid.UUID   `json:"user_id"`
	NotificationData interface{} `json:"notification_data"`
}

// NotificationWorker consumes notification_events and POSTs to the notification service.
type NotificationWorker struct {
	baseURL string
	sidecar *sidecarClient
}

// NewNotificationWorker creates a NotificationWorker.
func NewNotificationWorker(cfg *config.AppConfig) *NotificationWorker {
	return &NotificationWorker{baseURL: cfg.NotificationServiceURL, sidecar: newSidecarClient(cfg.SecretToken)}
}

// Name identifies this worker in log lines.
func (w *NotificationWorker) Name() string { return "notification_worker" }

// Queue is the durable queue this worker consumes.
func (w *NotificationWorker) Queue() string { return "notification_events" }

// HandleEvent decodes the payload and POSTs to {notification_service_url}/{user_id}/notify/.
func (w *NotificationWorker) HandleEvent(ctx context.Context, raw json.RawMessage) error {
	var event notificationEventPayload
	if err := json.Unmarshal(raw, &event); err != nil {
		return errors.PermanentWorkerError("malformed notification event payload", err)
	}

	url := fmt.Sprintf("%s/%s/notify/", w.baseURL, event.UserID.String())
	body, err := json.Marshal(event.NotificationData)
	if err != nil {
		return errors.PermanentWorkerError("failed to marshal notification data", err)
	}

	return w.sidecar.post(ctx, url, body)
}
