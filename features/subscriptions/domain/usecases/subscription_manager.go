package usecases

import (
	"context"
	"time"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	"github.com/northlane/billingctl/core/roles"
	cardRepositories "github.com/northlane/billingctl/features/cards/domain/repositories"
	planRepositories "github.com/northlane/billingctl/features/plans/domain/repositories"
	paymentUsecases "github.com/northlane/billingctl/features/payments/domain/usecases"
	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/google/uuid"
)

// EventPublisher is the outbound broker seam the orchestrator emits side effects through.
// *events.Publisher satisfies it in production; tests substitute a recorder.
type EventPublisher interface {
	PublishAuthRoleChange(ctx context.Context, userID uuid.UUID, role string) bool
	PublishUserNotification(ctx context.Context, userID uuid.UUID, notificationData interface{}) bool
}

// Notification topics, one per entity family a notification can be about.
const (
	topicSubscription = "subscription"
	topicTransaction  = "transaction"
)

// SubscriptionManager is the top-level orchestrator. It composes the subscription state
// machine, the payment manager, the card and plan repositories, and the outbound event
// publisher, and is the only thing the HTTP layer and the sweeper call directly.
type SubscriptionManager struct {
	subscriptions *SubscriptionService
	payments      *paymentUsecases.PaymentService
	cards         cardRepositories.CardRepository
	plans         planRepositories.PlanRepository
	publisher     EventPublisher
	logger        logger.Logger
}

// NewSubscriptionManager creates a SubscriptionManager.
func NewSubscriptionManager(
	subscriptions *SubscriptionService,
	payments *paymentUsecases.PaymentService,
	cards cardRepositories.CardRepository,
	plans planRepositories.PlanRepository,
	publisher EventPublisher,
	logger logger.Logger,
) *SubscriptionManager {
	return &SubscriptionManager{
		subscriptions: subscriptions,
		payments:      payments,
		cards:         cards,
		plans:         plans,
		publisher:     publisher,
		logger:        logger,
	}
}

// CreateSubscription creates a PENDING subscription and notifies the user.
func (m *SubscriptionManager) CreateSubscription(ctx context.Context, userID uuid.UUID, req entities.CreateRequest) (*entities.Subscription, error) {
	sub, err := m.subscriptions.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	m.publisher.PublishUserNotification(ctx, userID, map[string]interface{}{
		"topic":           topicSubscription,
		"subscription_id": sub.ID,
		"status":          sub.Status,
	})
	return sub, nil
}

// InitiateSubscriptionPayment resolves the subscription's plan price and drives PaymentManager
// to charge the given card.
func (m *SubscriptionManager) InitiateSubscriptionPayment(ctx context.Context, userID, cardID, subscriptionID uuid.UUID) error {
	sub, err := m.subscriptions.Get(ctx, userID, subscriptionID)
	if err != nil {
		return err
	}
	plan, err := m.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return errors.NotFound("plan not found")
	}
	_, err = m.payments.ChargeSubscription(ctx, userID, cardID, subscriptionID, plan.PriceCents, defaultCurrency)
	return err
}

// defaultCurrency is charged for every plan; the domain has a single billing currency.
const defaultCurrency = "usd"

// ActivateSubscription is called from PaymentManager's succeeded handler: it flips the
// subscription to ACTIVE, then emits the auth-role upgrade and a notification, DB commit
// preceding both publishes per the ordering rule. A replayed webhook finds the subscription
// already ACTIVE and returns without publishing a second set of broker messages.
func (m *SubscriptionManager) ActivateSubscription(ctx context.Context, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	current, err := m.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if current.Status == entities.StatusActive {
		return current, nil
	}

	sub, err := m.subscriptions.ChangeStatus(ctx, subscriptionID, entities.StatusActive)
	if err != nil {
		return nil, err
	}
	m.publisher.PublishAuthRoleChange(ctx, sub.UserID, roles.Subscriber)
	m.publisher.PublishUserNotification(ctx, sub.UserID, map[string]interface{}{
		"topic":           topicSubscription,
		"subscription_id": sub.ID,
		"status":          sub.Status,
	})
	return sub, nil
}

// CancelSubscription cancels, then downgrades the user's role and notifies.
func (m *SubscriptionManager) CancelSubscription(ctx context.Context, userID, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	sub, err := m.subscriptions.Cancel(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	m.publisher.PublishAuthRoleChange(ctx, sub.UserID, roles.BasicUser)
	m.publisher.PublishUserNotification(ctx, sub.UserID, map[string]interface{}{
		"topic":           topicSubscription,
		"subscription_id": sub.ID,
		"status":          sub.Status,
	})
	return sub, nil
}

// RenewSubscription extends the subscription, then charges the user's default card for the new
// period.
func (m *SubscriptionManager) RenewSubscription(ctx context.Context, userID, subscriptionID uuid.UUID, req entities.RenewRequest) (*entities.Subscription, error) {
	sub, err := m.subscriptions.Renew(ctx, userID, subscriptionID, req)
	if err != nil {
		return nil, err
	}

	card, err := m.cards.GetDefaultByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if card != nil {
		if payErr := m.InitiateSubscriptionPayment(ctx, userID, card.ID, subscriptionID); payErr != nil {
			m.logger.LogError(ctx, "renewal payment failed, subscription end_date already extended", payErr)
		}
	}
	return sub, nil
}

// ToggleAutoRenewal is a pure D passthrough.
func (m *SubscriptionManager) ToggleAutoRenewal(ctx context.Context, userID, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	return m.subscriptions.ToggleAutoRenewal(ctx, userID, subscriptionID)
}

// HandlePaymentSucceeded reconciles a payment_intent.succeeded webhook: marks the transaction
// SUCCESS, then activates the subscription it paid for.
func (m *SubscriptionManager) HandlePaymentSucceeded(ctx context.Context, intentID string) error {
	tx, err := m.payments.HandlePaymentSucceeded(ctx, intentID)
	if err != nil {
		return err
	}
	_, err = m.ActivateSubscription(ctx, tx.SubscriptionID)
	return err
}

// HandlePaymentFailed reconciles a payment_intent.payment_failed webhook.
func (m *SubscriptionManager) HandlePaymentFailed(ctx context.Context, intentID string) error {
	tx, err := m.payments.HandlePaymentFailed(ctx, intentID)
	if err != nil {
		return err
	}
	m.publisher.PublishUserNotification(ctx, tx.UserID, map[string]interface{}{
		"topic":           topicTransaction,
		"subscription_id": tx.SubscriptionID,
		"status":          tx.Status,
	})
	return nil
}

// HandlePaymentRefunded reconciles a charge.refunded webhook by cancelling the subscription.
func (m *SubscriptionManager) HandlePaymentRefunded(ctx context.Context, intentID string) error {
	tx, err := m.payments.HandlePaymentRefunded(ctx, intentID)
	if err != nil {
		return err
	}
	_, err = m.CancelSubscription(ctx, tx.UserID, tx.SubscriptionID)
	return err
}

// ExpiredActiveSubscriptions returns every ACTIVE subscription whose end_date is at or before
// asOf, for the sweeper to process one at a time.
func (m *SubscriptionManager) ExpiredActiveSubscriptions(ctx context.Context, asOf time.Time) ([]entities.Subscription, error) {
	return m.subscriptions.ExpiredActive(ctx, asOf)
}

// ExpireAndMaybeRenew implements the sweeper's per-subscription branch. The expired row is
// marked EXPIRED first, so the one-active-or-pending invariant holds when the auto_renewal
// path creates its replacement: a fresh PENDING subscription on the same plan, charged against
// the user's default card. The renewal keeps the user subscribed, so no role downgrade is
// emitted on that path; everyone else gets the downgrade and an expiry notification.
func (m *SubscriptionManager) ExpireAndMaybeRenew(ctx context.Context, sub entities.Subscription) error {
	if _, err := m.subscriptions.ChangeStatus(ctx, sub.ID, entities.StatusExpired); err != nil {
		return err
	}

	if sub.AutoRenewal {
		renewed, err := m.CreateSubscription(ctx, sub.UserID, entities.CreateRequest{PlanID: sub.PlanID, AutoRenewal: true})
		if err != nil {
			return err
		}

		card, err := m.cards.GetDefaultByUser(ctx, sub.UserID)
		if err != nil {
			return err
		}
		if card == nil {
			m.logger.Warning(ctx, "no default card for auto-renewal, replacement left pending unpaid", map[string]interface{}{
				"user_id":         sub.UserID,
				"subscription_id": renewed.ID,
			})
			return nil
		}
		if payErr := m.InitiateSubscriptionPayment(ctx, sub.UserID, card.ID, renewed.ID); payErr != nil {
			m.logger.LogError(ctx, "auto-renewal payment failed, replacement left pending", payErr)
		}
		return nil
	}

	m.publisher.PublishAuthRoleChange(ctx, sub.UserID, roles.BasicUser)
	m.publisher.PublishUserNotification(ctx, sub.UserID, map[string]interface{}{
		"topic":           topicSubscription,
		"subscription_id": sub.ID,
		"status":          entities.StatusExpired,
	})
	return nil
}
