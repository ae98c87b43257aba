package usecases

import (
	"net/http"
	"strconv"

	"github.com/northlane/billingctl/core/errors"
	"github.com/northlane/billingctl/core/helpers"
	"github.com/northlane/billingctl/features/plans/domain/entities"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlanHandler adapts PlanService to gin request handlers. It does no business logic: it
// deserializes requests, calls one service method, and maps error kinds to status codes.
type PlanHandler struct {
	service *PlanService
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(service *PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// Create handles POST /plans (admin only).
func (h *PlanHandler) Create(c *gin.Context) {
	var req entities.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.ValidationError(err.Error())
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	plan, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// Update handles PATCH /plans/{id} (admin only).
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		appErr := errors.ValidationError("invalid plan id")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	var req entities.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.ValidationError(err.Error())
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	plan, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// List handles GET /plans. Non-admin callers never see archived plans.
func (h *PlanHandler) List(c *gin.Context) {
	filters := entities.ListFilters{}
	if !helpers.IsAdmin(c) {
		notArchived := false
		filters.IsArchive = &notArchived
	} else if raw := c.Query("is_archive"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filters.IsArchive = &v
		}
	}

	plans, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// Get handles GET /plans/{id}.
func (h *PlanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		appErr := errors.ValidationError("invalid plan id")
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}

	plan, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
