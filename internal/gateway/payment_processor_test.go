package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/northlane/billingctl/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(server *httptest.Server) *StripeProcessor {
	return &StripeProcessor{
		apiKey:  "sk_test",
		baseURL: server.URL,
		logger:  logger.NewLogger(),
		client:  server.Client(),
	}
}

func TestCreateCustomerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "cus_123"})
	}))
	defer server.Close()

	id, err := newTestProcessor(server).CreateCustomer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
}

func TestCreatePaymentIntentRejectsInvalidAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gateway should not be called for an invalid request")
	}))
	defer server.Close()

	_, err := newTestProcessor(server).CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{
		AmountCents: 0,
		Currency:    "usd",
		CustomerID:  "cus_123",
	})
	require.Error(t, err)
	var permErr *PermanentError
	assert.ErrorAs(t, err, &permErr)
}

func TestCreatePaymentIntent4xxIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "your card was declined"},
		})
	}))
	defer server.Close()

	_, err := newTestProcessor(server).CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{
		AmountCents:        1000,
		Currency:           "usd",
		CustomerID:         "cus_123",
		PaymentMethodToken: "pm_123",
	})
	require.Error(t, err)
	var permErr *PermanentError
	assert.ErrorAs(t, err, &permErr)
	assert.Contains(t, permErr.Message, "declined")
}

func TestCreatePaymentIntent5xxIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestProcessor(server).CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{
		AmountCents:        1000,
		Currency:           "usd",
		CustomerID:         "cus_123",
		PaymentMethodToken: "pm_123",
	})
	require.Error(t, err)
	var transientErr *TransientError
	assert.ErrorAs(t, err, &transientErr)
}

func TestCreatePaymentIntentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(PaymentIntent{IntentID: "pi_123", ClientSecret: "secret_abc"})
	}))
	defer server.Close()

	intent, err := newTestProcessor(server).CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{
		AmountCents:        1000,
		Currency:           "usd",
		CustomerID:         "cus_123",
		PaymentMethodToken: "pm_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.IntentID)
	assert.Equal(t, "secret_abc", intent.ClientSecret)
}
