package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/errors"
	"github.com/google/uuid"
)

// authEventPayload mirrors events.AuthEvent; duplicated here (rather than imported) to keep the
// worker framework decoupled from the publisher package — the wire contract, not the Go type, is
// what the two sides agree on.
type authEventPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// AuthWorker consumes auth_events and POSTs the role change to the auth service.
type AuthWorker struct {
	baseURL string
	sidecar *sidecarClient
}

// NewAuthWorker creates an AuthWorker.
func NewAuthWorker(cfg *config.AppConfig) *AuthWorker {
	return &AuthWorker{baseURL: cfg.AuthServiceURL, sidecar: newSidecarClient(cfg.SecretToken)}
}

// Name identifies this worker in log lines.
func (w *AuthWorker) Name() string { return "auth_worker" }

// Queue is the durable queue this worker consumes.
func (w *AuthWorker) Queue() string { return "auth_events" }

// HandleEvent decodes the payload and POSTs to {auth_service_url}/{user_id}/role/.
func (w *AuthWorker) HandleEvent(ctx context.Context, raw json.RawMessage) error {
	var event authEventPayload
	if err := json.Unmarshal(raw, &event); err != nil {
		return errors.PermanentWorkerError("malformed auth event payload", err)
	}

	url := fmt.Sprintf("%s/%s/role/", w.baseURL, event.UserID.String())
	body, err := json.Marshal(map[string]string{"role": event.Role})
	if err != nil {
		return errors.PermanentWorkerError("failed to marshal role update", err)
	}

	return w.sidecar.post(ctx, url, body)
}
