// Package gateway adapts the external payment-and-card-vault provider behind a small
// PaymentProcessor port: one HTTP client, one doRequest helper, and a typed method per
// gateway operation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/logger"
)

// PaymentProcessor is the port every payment-gateway adapter implements. Callers distinguish
// PermanentError from TransientError to decide whether to surface a client error or record a
// circuit-breaker failure.
type PaymentProcessor interface {
	CreateCustomer(ctx context.Context) (customerID string, err error)
	CreateCardBindingSession(ctx context.Context, customerID string) (redirectURL string, err error)
	DetachCard(ctx context.Context, paymentMethodToken string) error
	CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) error
}

// CreatePaymentIntentRequest carries the validated inputs for CreatePaymentIntent.
type CreatePaymentIntentRequest struct {
	AmountCents        int64
	Currency           string
	CustomerID         string
	PaymentMethodToken string
	Description        string
	Metadata           map[string]string
}

// Validate enforces the port's input contract: amount must be positive, currency a 3-letter
// code, and every string field valid UTF-8.
func (r CreatePaymentIntentRequest) Validate() error {
	if r.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", r.AmountCents)
	}
	if len(r.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", r.Currency)
	}
	if !utf8.ValidString(r.Description) || !utf8.ValidString(r.CustomerID) || !utf8.ValidString(r.PaymentMethodToken) {
		return fmt.Errorf("request fields must be valid UTF-8")
	}
	return nil
}

// PaymentIntent is the gateway-issued authorization-plus-capture object.
type PaymentIntent struct {
	IntentID     string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// PermanentError wraps a gateway response the caller should surface to the end user as-is
// (e.g. a 4xx rejection). It never triggers circuit-breaker failure recording.
type PermanentError struct {
	StatusCode int
	Message    string
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("gateway rejected request (status %d): %s", e.StatusCode, e.Message)
}

// TransientError wraps a gateway outage or network failure. Callers should record this as a
// circuit-breaker failure and classify the originating command as retryable.
type TransientError struct {
	StatusCode int
	Cause      error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway unavailable (status %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("gateway unavailable (status %d)", e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// StripeProcessor implements PaymentProcessor against a Stripe-shaped HTTP API.
type StripeProcessor struct {
	apiKey  string
	baseURL string
	logger  logger.Logger
	client  *http.Client
}

// NewStripeProcessor creates a PaymentProcessor backed by cfg.StripeAPIKey.
func NewStripeProcessor(cfg *config.AppConfig, log logger.Logger) PaymentProcessor {
	return &StripeProcessor{
		apiKey:  cfg.StripeAPIKey,
		baseURL: "https://api.stripe.com/v1",
		logger:  log,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type stripeErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *StripeProcessor) CreateCustomer(ctx context.Context) (string, error) {
	p.logger.Info(ctx, "creating gateway customer", nil)

	resp, err := p.doRequest(ctx, http.MethodPost, "/customers", nil)
	if err != nil {
		return "", err
	}

	var customer struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &customer); err != nil {
		return "", &TransientError{Cause: err}
	}
	return customer.ID, nil
}

func (p *StripeProcessor) CreateCardBindingSession(ctx context.Context, customerID string) (string, error) {
	p.logger.Info(ctx, "creating card binding session", map[string]interface{}{"customer_id": customerID})

	body, _ := json.Marshal(map[string]string{"customer": customerID})
	resp, err := p.doRequest(ctx, http.MethodPost, "/checkout/sessions", body)
	if err != nil {
		return "", err
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp, &session); err != nil {
		return "", &TransientError{Cause: err}
	}
	return session.URL, nil
}

func (p *StripeProcessor) DetachCard(ctx context.Context, paymentMethodToken string) error {
	p.logger.Info(ctx, "detaching card", map[string]interface{}{"payment_method_token": paymentMethodToken})

	url := fmt.Sprintf("/payment_methods/%s/detach", paymentMethodToken)
	_, err := p.doRequest(ctx, http.MethodPost, url, nil)
	return err
}

func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntent, error) {
	if err := req.Validate(); err != nil {
		return nil, &PermanentError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	p.logger.Info(ctx, "creating payment intent", map[string]interface{}{
		"customer_id": req.CustomerID,
		"amount":      req.AmountCents,
		"currency":    req.Currency,
	})

	payload := map[string]interface{}{
		"amount":         req.AmountCents,
		"currency":       req.Currency,
		"customer":       req.CustomerID,
		"payment_method": req.PaymentMethodToken,
		"confirm":        true,
	}
	if req.Description != "" {
		payload["description"] = req.Description
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransientError{Cause: err}
	}

	resp, err := p.doRequest(ctx, http.MethodPost, "/payment_intents", body)
	if err != nil {
		return nil, err
	}

	var intent PaymentIntent
	if err := json.Unmarshal(resp, &intent); err != nil {
		return nil, &TransientError{Cause: err}
	}
	return &intent, nil
}

func (p *StripeProcessor) CancelPaymentIntent(ctx context.Context, intentID string) error {
	p.logger.Info(ctx, "cancelling payment intent", map[string]interface{}{"intent_id": intentID})

	url := fmt.Sprintf("/payment_intents/%s/cancel", intentID)
	_, err := p.doRequest(ctx, http.MethodPost, url, nil)
	return err
}

// doRequest issues an authenticated request and classifies a non-2xx response into a
// PermanentError (4xx) or TransientError (5xx, timeout, or transport failure).
func (p *StripeProcessor) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := p.baseURL + path

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, &PermanentError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error(ctx, "gateway request failed", map[string]interface{}{
			"error":  err.Error(),
			"method": method,
			"url":    url,
		})
		return nil, &TransientError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	var gatewayErr stripeErrorEnvelope
	message := string(respBody)
	if err := json.Unmarshal(respBody, &gatewayErr); err == nil && gatewayErr.Error.Message != "" {
		message = gatewayErr.Error.Message
	}

	p.logger.Error(ctx, "gateway returned error status", map[string]interface{}{
		"status_code": resp.StatusCode,
		"message":     message,
		"method":      method,
		"url":         url,
	})

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &PermanentError{StatusCode: resp.StatusCode, Message: message}
	}
	return nil, &TransientError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("%s", message)}
}
