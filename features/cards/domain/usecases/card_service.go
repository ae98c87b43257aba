// Package usecases implements the card manager: the card-binding state machine (INIT ->
// SUCCESS or FAIL driven by gateway webhooks) and the default-card invariant.
package usecases

import (
	"context"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/northlane/billingctl/features/cards/domain/repositories"
	"github.com/northlane/billingctl/internal/gateway"
	"github.com/google/uuid"
)

// CardService implements CardsManager.
type CardService struct {
	repo      repositories.CardRepository
	processor gateway.PaymentProcessor
	logger    logger.Logger
}

// NewCardService creates a CardService.
func NewCardService(repo repositories.CardRepository, processor gateway.PaymentProcessor, logger logger.Logger) *CardService {
	return &CardService{repo: repo, processor: processor, logger: logger}
}

// CreateUserCard allocates a gateway_customer_id on a user's first card, creates a new INIT
// row, and returns the gateway's card-binding session URL. Every user gets exactly one
// gateway customer, created on their first bind and reused for every card after.
func (s *CardService) CreateUserCard(ctx context.Context, userID uuid.UUID) (string, error) {
	existing, err := s.repo.GetAnyByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	var gatewayCustomerID string
	if existing != nil {
		gatewayCustomerID = existing.GatewayCustomerID
	} else {
		gatewayCustomerID, err = s.processor.CreateCustomer(ctx)
		if err != nil {
			return "", err
		}
	}

	card := &entities.UserCard{
		ID:                uuid.New(),
		UserID:            userID,
		GatewayCustomerID: gatewayCustomerID,
		Status:            entities.StatusInit,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return "", err
	}

	url, err := s.processor.CreateCardBindingSession(ctx, gatewayCustomerID)
	if err != nil {
		return "", err
	}
	return url, nil
}

// HandleWebhook dispatches a card-related gateway event by type. Missing fields are logged and
// dropped: the webhook caller is not a DLQ producer, so there is nothing to requeue.
func (s *CardService) HandleWebhook(ctx context.Context, eventType string, payload entities.WebhookPayload) error {
	switch eventType {
	case entities.EventPaymentMethodAttached:
		return s.handlePaymentMethodAttached(ctx, payload)
	case entities.EventSetupIntentSucceeded:
		return s.handleSetupIntentSucceeded(ctx, payload)
	case entities.EventSetupIntentFailed:
		return s.handleSetupIntentFailed(ctx, payload)
	default:
		s.logger.Warning(ctx, "no card handler for event type", map[string]interface{}{"event_type": eventType})
		return nil
	}
}

func (s *CardService) handlePaymentMethodAttached(ctx context.Context, payload entities.WebhookPayload) error {
	if payload.GatewayCustomerID == "" || payload.Last4 == "" {
		s.logger.Warning(ctx, "missing customer or last4 in payment_method.attached", nil)
		return nil
	}

	card, err := s.repo.GetLatestInitByCustomer(ctx, payload.GatewayCustomerID)
	if err != nil {
		return err
	}
	if card == nil {
		s.logger.Warning(ctx, "no INIT card found for customer", map[string]interface{}{"gateway_customer_id": payload.GatewayCustomerID})
		return nil
	}

	last4 := payload.Last4
	card.LastDigits = &last4
	return s.repo.Update(ctx, card)
}

func (s *CardService) handleSetupIntentSucceeded(ctx context.Context, payload entities.WebhookPayload) error {
	if payload.GatewayCustomerID == "" || payload.PaymentMethodToken == "" {
		s.logger.Warning(ctx, "missing customer or payment method in setup_intent.succeeded", nil)
		return nil
	}

	card, err := s.repo.GetLatestInitByCustomer(ctx, payload.GatewayCustomerID)
	if err != nil {
		return err
	}
	if card == nil {
		s.logger.Warning(ctx, "no INIT card found for customer", map[string]interface{}{"gateway_customer_id": payload.GatewayCustomerID})
		return nil
	}

	token := payload.PaymentMethodToken
	card.GatewayPaymentMethodToken = &token
	card.Status = entities.StatusSuccess
	card.IsDefault = true

	previousDefault, err := s.repo.GetDefaultByUser(ctx, card.UserID)
	if err != nil {
		return err
	}
	if previousDefault != nil && previousDefault.ID != card.ID {
		previousDefault.IsDefault = false
		if err := s.repo.Update(ctx, previousDefault); err != nil {
			return err
		}
	}

	return s.repo.Update(ctx, card)
}

func (s *CardService) handleSetupIntentFailed(ctx context.Context, payload entities.WebhookPayload) error {
	if payload.GatewayCustomerID == "" {
		s.logger.Warning(ctx, "missing customer in setup_intent.setup_failed", nil)
		return nil
	}

	card, err := s.repo.GetLatestInitByCustomer(ctx, payload.GatewayCustomerID)
	if err != nil {
		return err
	}
	if card == nil {
		s.logger.Warning(ctx, "no INIT card found for customer", map[string]interface{}{"gateway_customer_id": payload.GatewayCustomerID})
		return nil
	}

	card.Status = entities.StatusFail
	return s.repo.Update(ctx, card)
}

// SetDefault makes card_id the user's default card. Returns AlreadyExists if it already is.
func (s *CardService) SetDefault(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil || card.Status != entities.StatusSuccess {
		return errors.NotFound("card not found")
	}
	if card.UserID != userID {
		return errors.AccessDeniedError("not the owner of this card")
	}
	if card.IsDefault {
		return errors.AlreadyExistsError("card is already the default")
	}

	previousDefault, err := s.repo.GetDefaultByUser(ctx, userID)
	if err != nil {
		return err
	}
	if previousDefault != nil && previousDefault.ID != cardID {
		previousDefault.IsDefault = false
		if err := s.repo.Update(ctx, previousDefault); err != nil {
			return err
		}
	}

	card.IsDefault = true
	return s.repo.Update(ctx, card)
}

// ListUserCards returns the user's SUCCESS cards as public summaries.
func (s *CardService) ListUserCards(ctx context.Context, userID uuid.UUID) ([]entities.Summary, error) {
	cards, err := s.repo.ListSuccessByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Summary, len(cards))
	for i := range cards {
		out[i] = cards[i].ToSummary()
	}
	return out, nil
}

// ListAllCards returns full card rows matching filters, across every user. Admin-only
// surface; the per-user ListUserCards is what end users see, stripped of gateway identifiers.
func (s *CardService) ListAllCards(ctx context.Context, filters entities.ListFilters) ([]entities.UserCard, error) {
	return s.repo.GetMany(ctx, filters)
}

// DeleteCard detaches the card at the gateway and removes it. If the deleted card was the
// default and another SUCCESS card remains, the most recently created one is promoted.
func (s *CardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return errors.NotFound("card not found")
	}
	if card.UserID != userID {
		return errors.AccessDeniedError("not the owner of this card")
	}

	if card.GatewayPaymentMethodToken != nil {
		if err := s.processor.DetachCard(ctx, *card.GatewayPaymentMethodToken); err != nil {
			return err
		}
	}

	wasDefault := card.IsDefault
	if err := s.repo.Delete(ctx, cardID); err != nil {
		return err
	}

	if !wasDefault {
		return nil
	}

	remaining, err := s.repo.ListSuccessByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}

	newest := remaining[0]
	for i := 1; i < len(remaining); i++ {
		if remaining[i].CreatedAt.After(newest.CreatedAt) {
			newest = remaining[i]
		}
	}
	newest.IsDefault = true
	return s.repo.Update(ctx, &newest)
}
