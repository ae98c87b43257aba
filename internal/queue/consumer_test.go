package queue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/internal/breaker"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAcknowledger struct {
	acks    int
	nacks   int
	rejects int
	requeue bool
}

func (s *stubAcknowledger) Ack(uint64, bool) error { s.acks++; return nil }

func (s *stubAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	s.nacks++
	s.requeue = requeue
	return nil
}

func (s *stubAcknowledger) Reject(_ uint64, requeue bool) error {
	s.rejects++
	s.requeue = requeue
	return nil
}

type stubWorker struct {
	err   error
	calls int
}

func (w *stubWorker) Name() string  { return "stub_worker" }
func (w *stubWorker) Queue() string { return "stub_events" }

func (w *stubWorker) HandleEvent(context.Context, json.RawMessage) error {
	w.calls++
	return w.err
}

func newTestConsumer(worker Worker) *Consumer {
	return NewConsumer(worker, nil, logger.NewLogger())
}

func newDelivery(body string, ack *stubAcknowledger) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body)}
}

func TestMalformedJSONIsDeadLetteredWithoutBreakerChange(t *testing.T) {
	worker := &stubWorker{}
	consumer := newTestConsumer(worker)
	ack := &stubAcknowledger{}

	consumer.process(context.Background(), newDelivery("{not json", ack))

	assert.Equal(t, 1, ack.rejects)
	assert.False(t, ack.requeue)
	assert.Zero(t, ack.acks)
	assert.Zero(t, worker.calls)
	assert.Equal(t, breaker.StateClosed, consumer.breaker.State())
}

func TestSuccessfulHandleAcks(t *testing.T) {
	worker := &stubWorker{}
	consumer := newTestConsumer(worker)
	ack := &stubAcknowledger{}

	consumer.process(context.Background(), newDelivery(`{"user_id":"u1"}`, ack))

	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 1, worker.calls)
	assert.Zero(t, ack.rejects)
	assert.Zero(t, ack.nacks)
}

func TestPermanentErrorIsDeadLettered(t *testing.T) {
	worker := &stubWorker{err: appErrors.PermanentWorkerError("sidecar rejected request", nil)}
	consumer := newTestConsumer(worker)
	ack := &stubAcknowledger{}

	consumer.process(context.Background(), newDelivery(`{}`, ack))

	assert.Equal(t, 1, ack.rejects)
	assert.False(t, ack.requeue)
	assert.Zero(t, ack.acks)
}

func TestTemporaryErrorIsRequeued(t *testing.T) {
	worker := &stubWorker{err: appErrors.TemporaryWorkerError("sidecar returned server error", nil)}
	consumer := newTestConsumer(worker)
	ack := &stubAcknowledger{}

	consumer.process(context.Background(), newDelivery(`{}`, ack))

	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeue)
	assert.Zero(t, ack.acks)
	assert.Zero(t, ack.rejects)
}

func TestOpenBreakerLeavesMessageUnackedAndSkipsDispatch(t *testing.T) {
	worker := &stubWorker{}
	consumer := newTestConsumer(worker)
	for i := 0; i < int(breaker.DefaultConfig().MaxFailures); i++ {
		_ = consumer.breaker.Call(func() error { return errors.New("sidecar down") })
	}
	require.Equal(t, breaker.StateOpen, consumer.breaker.State())

	ack := &stubAcknowledger{}
	consumer.process(context.Background(), newDelivery(`{}`, ack))

	assert.Zero(t, worker.calls)
	assert.Zero(t, ack.acks)
	assert.Zero(t, ack.nacks)
	assert.Zero(t, ack.rejects)
}

func TestAuthWorkerClassifiesSidecarResponses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		permanent  bool
		temporary  bool
	}{
		{name: "2xx succeeds", statusCode: http.StatusNoContent},
		{name: "4xx is permanent", statusCode: http.StatusNotFound, permanent: true},
		{name: "5xx is temporary", statusCode: http.StatusServiceUnavailable, temporary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "s3cret", r.Header.Get("X-Service-Secret-Token"))
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			worker := &AuthWorker{baseURL: server.URL, sidecar: newSidecarClient("s3cret")}
			payload, err := json.Marshal(map[string]string{
				"user_id": uuid.NewString(),
				"role":    "SUBSCRIBER",
			})
			require.NoError(t, err)

			handleErr := worker.HandleEvent(context.Background(), payload)
			switch {
			case tt.permanent:
				assert.True(t, appErrors.IsPermanentWorkerError(handleErr))
			case tt.temporary:
				require.Error(t, handleErr)
				assert.False(t, appErrors.IsPermanentWorkerError(handleErr))
			default:
				assert.NoError(t, handleErr)
			}
		})
	}
}
