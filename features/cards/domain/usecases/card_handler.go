package usecases

import (
	"net/http"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/helpers"
	"github.com/northlane/billingctl/features/cards/domain/entities"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CardHandler adapts CardService to gin request handlers.
type CardHandler struct {
	service *CardService
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(service *CardService) *CardHandler {
	return &CardHandler{service: service}
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(helpers.GetUserID(c))
}

// CreateCheckoutSession handles POST /cards/checkout-session, redirecting the caller to the
// gateway's card-binding form.
func (h *CardHandler) CreateCheckoutSession(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		appErr := errors.UnauthorizedError("missing or invalid caller identity")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	url, err := h.service.CreateUserCard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// List handles GET /cards. End users get their own SUCCESS cards as public summaries; admins
// get full rows across every user, optionally narrowed by user_id and status query params.
func (h *CardHandler) List(c *gin.Context) {
	if helpers.IsAdmin(c) {
		filters := entities.ListFilters{}
		if raw := c.Query("user_id"); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				filters.UserID = &userID
			}
		}
		if raw := c.Query("status"); raw != "" {
			status := entities.Status(raw)
			filters.Status = &status
		}

		cards, err := h.service.ListAllCards(c.Request.Context(), filters)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
		return
	}

	userID, err := callerID(c)
	if err != nil {
		appErr := errors.UnauthorizedError("missing or invalid caller identity")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	cards, err := h.service.ListUserCards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// SetDefault handles POST /cards/set-default?card_id=.
func (h *CardHandler) SetDefault(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		appErr := errors.UnauthorizedError("missing or invalid caller identity")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	cardID, err := uuid.Parse(c.Query("card_id"))
	if err != nil {
		appErr := errors.ValidationError("invalid card_id")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	if err := h.service.SetDefault(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /cards/{id}.
func (h *CardHandler) Delete(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		appErr := errors.UnauthorizedError("missing or invalid caller identity")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		appErr := errors.ValidationError("invalid card id")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
