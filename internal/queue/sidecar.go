package queue

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/northlane/billingctl/core/errors"
)

// sidecarClient posts worker payloads to an internal HTTP sidecar and classifies the
// response: 2xx succeeds, 4xx is permanent (dead-letter), 5xx or a network error is temporary
// (nack-requeue).
type sidecarClient struct {
	client      *http.Client
	secretToken string
}

func newSidecarClient(secretToken string) *sidecarClient {
	return &sidecarClient{
		client:      &http.Client{Timeout: 10 * time.Second},
		secretToken: secretToken,
	}
}

func (s *sidecarClient) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.TemporaryWorkerError("failed to build sidecar request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Secret-Token", s.secretToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.TemporaryWorkerError("sidecar request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return errors.PermanentWorkerError("sidecar rejected request", nil)
	default:
		return errors.TemporaryWorkerError("sidecar returned server error", nil)
	}
}
