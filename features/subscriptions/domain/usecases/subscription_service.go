// Package usecases implements SubscriptionService (the subscription status state machine)
// and SubscriptionManager (the orchestrator composing it with transactions, payments, and the
// outbound event publishers).
package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/logger"
	planEntities "github.com/northlane/billingctl/features/plans/domain/entities"
	planRepositories "github.com/northlane/billingctl/features/plans/domain/repositories"
	subRepoImpl "github.com/northlane/billingctl/features/subscriptions/data/repositories"
	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/northlane/billingctl/features/subscriptions/domain/repositories"
	"github.com/google/uuid"
)

func isActiveSubscriptionExists(err error) bool {
	return stderrors.Is(err, subRepoImpl.ErrActiveSubscriptionExists)
}

// SubscriptionService implements the subscription CRUD and status state machine: creation
// with the one-active-or-pending-per-user guard, ownership-checked cancel/renew/toggle, and
// the internal ChangeStatus used by the payment manager and the sweeper.
type SubscriptionService struct {
	repo   repositories.SubscriptionRepository
	plans  planRepositories.PlanRepository
	logger logger.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(repo repositories.SubscriptionRepository, plans planRepositories.PlanRepository, logger logger.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, plans: plans, logger: logger}
}

func (s *SubscriptionService) loadPlan(ctx context.Context, planID uuid.UUID) (*planEntities.Plan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("plan not found")
	}
	return plan, nil
}

// Create writes a new PENDING subscription. Rejects ActiveSubscriptionExists if the user
// already holds one in {PENDING, ACTIVE}; the repository enforces this transactionally so a
// race between two concurrent creates resolves to exactly one winner.
func (s *SubscriptionService) Create(ctx context.Context, userID uuid.UUID, req entities.CreateRequest) (*entities.Subscription, error) {
	plan, err := s.loadPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &entities.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      req.PlanID,
		Status:      entities.StatusPending,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, plan.DurationDays),
		AutoRenewal: req.AutoRenewal,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if isActiveSubscriptionExists(err) {
			return nil, errors.ActiveSubscriptionExistsError("user already has an active or pending subscription")
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) ownedOrDenied(sub *entities.Subscription, userID uuid.UUID) error {
	if sub == nil {
		return errors.NotFound("subscription not found")
	}
	if sub.UserID != userID {
		return errors.AccessDeniedError("not the owner of this subscription")
	}
	return nil
}

// Cancel moves a PENDING or ACTIVE subscription to CANCELLED, clearing auto_renewal and
// setting end_date to now. Any other status fails SubscriptionCancelError.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.ownedOrDenied(sub, userID); err != nil {
		return nil, err
	}
	if sub.Status != entities.StatusPending && sub.Status != entities.StatusActive {
		return nil, errors.SubscriptionCancelError("subscription cannot be cancelled in its current status")
	}

	sub.Status = entities.StatusCancelled
	sub.AutoRenewal = false
	sub.EndDate = time.Now().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew extends a subscription's end_date by the given plan's duration without changing its
// status. Backs the user-facing renew command; the sweeper's auto-renewal path does not use it
// (SubscriptionManager.ExpireAndMaybeRenew creates a new subscription instead).
func (s *SubscriptionService) Renew(ctx context.Context, userID, subscriptionID uuid.UUID, req entities.RenewRequest) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.ownedOrDenied(sub, userID); err != nil {
		return nil, err
	}

	plan, err := s.loadPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	sub.PlanID = req.PlanID
	sub.EndDate = sub.EndDate.AddDate(0, 0, plan.DurationDays)
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ToggleAutoRenewal flips the auto_renewal flag after an ownership check.
func (s *SubscriptionService) ToggleAutoRenewal(ctx context.Context, userID, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.ownedOrDenied(sub, userID); err != nil {
		return nil, err
	}

	sub.AutoRenewal = !sub.AutoRenewal
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ChangeStatus is the internal API PaymentManager's webhook handlers and the expiry sweeper
// use to drive the state machine. It enforces entities.CanTransition; a same-state request is
// a no-op that returns the current row, which is what makes webhook replay idempotent.
func (s *SubscriptionService) ChangeStatus(ctx context.Context, subscriptionID uuid.UUID, newStatus entities.Status) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.NotFound("subscription not found")
	}
	if !entities.CanTransition(sub.Status, newStatus) {
		return nil, errors.ConflictError("illegal subscription status transition")
	}
	if sub.Status == newStatus {
		return sub, nil
	}

	sub.Status = newStatus
	if newStatus == entities.StatusCancelled || newStatus == entities.StatusExpired {
		sub.AutoRenewal = false
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetByID loads a subscription without an ownership check, for internal orchestration paths
// (webhook reconciliation, the sweeper) where the caller is the system itself.
func (s *SubscriptionService) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.NotFound("subscription not found")
	}
	return sub, nil
}

// Get returns a subscription only if owned by userID, else AccessDenied.
func (s *SubscriptionService) Get(ctx context.Context, userID, subscriptionID uuid.UUID) (*entities.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.ownedOrDenied(sub, userID); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns subscriptions matching filters. The handler forces the UserID filter to the
// caller for non-admin requests; admins list across every user.
func (s *SubscriptionService) List(ctx context.Context, filters entities.ListFilters) ([]entities.Subscription, error) {
	return s.repo.GetMany(ctx, filters)
}

// ExpiredActive returns every ACTIVE subscription whose end_date has passed, used by the sweeper.
func (s *SubscriptionService) ExpiredActive(ctx context.Context, asOf time.Time) ([]entities.Subscription, error) {
	return s.repo.GetExpiredActive(ctx, asOf)
}
