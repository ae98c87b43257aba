package usecases

import (
	"net/http"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/helpers"
	"github.com/northlane/billingctl/features/transactions/domain/entities"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler adapts TransactionService to gin request handlers.
type TransactionHandler struct {
	service *TransactionService
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(service *TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List handles GET /transactions. Non-admin callers only ever see their own rows.
func (h *TransactionHandler) List(c *gin.Context) {
	filters := entities.ListFilters{}
	if !helpers.IsAdmin(c) {
		userID, err := uuid.Parse(helpers.GetUserID(c))
		if err != nil {
			appErr := errors.UnauthorizedError("missing or invalid caller identity")
			c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
			return
		}
		filters.UserID = &userID
	} else if raw := c.Query("user_id"); raw != "" {
		if userID, err := uuid.Parse(raw); err == nil {
			filters.UserID = &userID
		}
	}

	txs, err := h.service.GetMany(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// Get handles GET /transactions/{id}. 403 if the caller neither owns the row nor is admin.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		appErr := errors.ValidationError("invalid transaction id")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	tx, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if !helpers.IsAdmin(c) {
		userID, err := uuid.Parse(helpers.GetUserID(c))
		if err != nil || tx.UserID != userID {
			appErr := errors.AccessDeniedError("not the owner of this transaction")
			c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
			return
		}
	}

	c.JSON(http.StatusOK, tx)
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
