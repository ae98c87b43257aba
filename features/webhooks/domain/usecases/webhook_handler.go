// Package usecases implements the webhook router: HMAC signature verification, then a
// stateless dispatch map from gateway event_type to the card service's HandleWebhook or the
// subscription manager's payment handlers. Every recognized or unrecognized event_type
// returns 200 so the gateway never retries; only a failed signature check is rejected.
package usecases

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/services"
	cardEntities "github.com/northlane/billingctl/features/cards/domain/entities"
	cardUsecases "github.com/northlane/billingctl/features/cards/domain/usecases"
	subUsecases "github.com/northlane/billingctl/features/subscriptions/domain/usecases"
	"github.com/northlane/billingctl/features/webhooks/domain/entities"
	"github.com/gin-gonic/gin"
)

// idempotencyTTL bounds how long a gateway event id is remembered before the Redis-backed
// dedup guard forgets it; the DB-level uniqueness on gateway_intent_id is the durable
// idempotence guarantee, this is only a fast path to skip redundant work during a redelivery
// storm.
const idempotencyTTL = 24 * time.Hour

// WebhookHandler receives inbound gateway webhooks and dispatches them by event_type.
type WebhookHandler struct {
	cards         *cardUsecases.CardService
	subscriptions *subUsecases.SubscriptionManager
	redis         *services.RedisService
	logger        logger.Logger
	secret        string
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(cards *cardUsecases.CardService, subscriptions *subUsecases.SubscriptionManager, redis *services.RedisService, cfg *config.AppConfig, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{cards: cards, subscriptions: subscriptions, redis: redis, logger: logger, secret: cfg.StripeWebhookSecret}
}

// Handle processes POST /webhooks/payment.
func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	signature := c.GetHeader("Gateway-Signature")
	if signature == "" || !h.validateSignature(body, signature) {
		h.logger.Warning(ctx, "rejected webhook with invalid signature", nil)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var envelope entities.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Error(ctx, "failed to decode webhook envelope", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusOK, gin.H{"detail": "success"})
		return
	}

	if envelope.ID != "" {
		firstDelivery, appErr := h.redis.SetNX(ctx, "gateway_event:"+envelope.ID, 1, idempotencyTTL)
		if appErr == nil && !firstDelivery {
			h.logger.Debug(ctx, "duplicate webhook delivery short-circuited", map[string]interface{}{"event_id": envelope.ID})
			c.JSON(http.StatusOK, gin.H{"detail": "success"})
			return
		}
	}

	if err := h.dispatch(ctx, envelope); err != nil {
		h.logger.LogError(ctx, "webhook handler returned an error, acknowledging anyway", err)
	}

	c.JSON(http.StatusOK, gin.H{"detail": "success"})
}

func (h *WebhookHandler) validateSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (h *WebhookHandler) dispatch(ctx context.Context, envelope entities.Envelope) error {
	switch envelope.Type {
	case entities.EventPaymentMethodAttached:
		var obj entities.PaymentMethodObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.cards.HandleWebhook(ctx, cardEntities.EventPaymentMethodAttached, cardEntities.WebhookPayload{
			GatewayCustomerID: obj.Customer,
			Last4:             obj.Card.Last4,
			PaymentMethodToken: obj.ID,
		})

	case entities.EventSetupIntentSucceeded:
		var obj entities.SetupIntentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.cards.HandleWebhook(ctx, cardEntities.EventSetupIntentSucceeded, cardEntities.WebhookPayload{
			GatewayCustomerID:  obj.Customer,
			PaymentMethodToken: obj.PaymentMethod,
		})

	case entities.EventSetupIntentFailed:
		var obj entities.SetupIntentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.cards.HandleWebhook(ctx, cardEntities.EventSetupIntentFailed, cardEntities.WebhookPayload{
			GatewayCustomerID: obj.Customer,
		})

	case entities.EventPaymentIntentSucceeded:
		var obj entities.PaymentIntentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.subscriptions.HandlePaymentSucceeded(ctx, obj.ID)

	case entities.EventPaymentIntentFailed:
		var obj entities.PaymentIntentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.subscriptions.HandlePaymentFailed(ctx, obj.ID)

	case entities.EventChargeRefunded:
		var obj entities.PaymentIntentObject
		if err := json.Unmarshal(envelope.Data.Object, &obj); err != nil {
			return err
		}
		return h.subscriptions.HandlePaymentRefunded(ctx, obj.PaymentIntent)

	default:
		h.logger.Warning(ctx, "no handler for webhook event type", map[string]interface{}{"event_type": envelope.Type})
		return nil
	}
}
