package usecases

import (
	"net/http"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/helpers"
	"github.com/northlane/billingctl/features/subscriptions/domain/entities"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriptionHandler adapts SubscriptionManager to gin request handlers.
type SubscriptionHandler struct {
	manager *SubscriptionManager
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(manager *SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{manager: manager}
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(helpers.GetUserID(c))
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// Create handles POST /subscriptions.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}

	var req entities.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError(err.Error()))
		return
	}

	sub, err := h.manager.CreateSubscription(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// List handles GET /subscriptions. Non-admin callers only ever see their own rows; admins see
// every user's, optionally narrowed by user_id and status query params.
func (h *SubscriptionHandler) List(c *gin.Context) {
	filters := entities.ListFilters{}
	if !helpers.IsAdmin(c) {
		userID, err := callerID(c)
		if err != nil {
			respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
			return
		}
		filters.UserID = &userID
	} else {
		if raw := c.Query("user_id"); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				filters.UserID = &userID
			}
		}
		if raw := c.Query("status"); raw != "" {
			status := entities.Status(raw)
			filters.Status = &status
		}
	}

	subs, err := h.manager.subscriptions.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Get handles GET /subscriptions/{id}. 403 if the caller neither owns the row nor is admin.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ValidationError("invalid subscription id"))
		return
	}

	if helpers.IsAdmin(c) {
		sub, err := h.manager.subscriptions.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
		return
	}

	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}

	sub, err := h.manager.subscriptions.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Cancel handles POST /subscriptions/{id}/cancel.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ValidationError("invalid subscription id"))
		return
	}

	sub, err := h.manager.CancelSubscription(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Renew handles POST /subscriptions/{id}/renew.
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ValidationError("invalid subscription id"))
		return
	}

	var req entities.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError(err.Error()))
		return
	}

	sub, err := h.manager.RenewSubscription(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ToggleAutoRenewal handles POST /subscriptions/{id}/toggle_auto_renewal.
func (h *SubscriptionHandler) ToggleAutoRenewal(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ValidationError("invalid subscription id"))
		return
	}

	sub, err := h.manager.ToggleAutoRenewal(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Pay handles POST /subscriptions/{id}/pay?card_id=..., initiating the first charge against a
// PENDING subscription.
func (h *SubscriptionHandler) Pay(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		respondError(c, errors.UnauthorizedError("missing or invalid caller identity"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ValidationError("invalid subscription id"))
		return
	}
	cardID, err := uuid.Parse(c.Query("card_id"))
	if err != nil {
		respondError(c, errors.ValidationError("missing or invalid card_id"))
		return
	}

	if err := h.manager.InitiateSubscriptionPayment(c.Request.Context(), userID, cardID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "payment_initiated"})
}
