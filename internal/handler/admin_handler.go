package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/service"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
	"github.com/noah-isme/college-portal-api/pkg/response"
)

// AdminHandler exposes the account approval workflow.
type AdminHandler struct {
	users      *service.UserService
	dashboards *service.DashboardService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(users *service.UserService, dashboards *service.DashboardService) *AdminHandler {
	return &AdminHandler{users: users, dashboards: dashboards}
}

// ListUsers godoc
// @Summary List accounts by approval state
// @Tags Admin
// @Produce json
// @Param approved query bool false "Approval state, defaults to pending accounts"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	approved := false
	if raw := c.Query("approved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "approved must be a boolean"))
			return
		}
		approved = parsed
	}

	users, err := h.users.ListByApproval(c.Request.Context(), approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// Approve godoc
// @Summary Approve a pending account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	actor := userFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info, err := h.users.Approve(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.dashboards != nil {
		h.dashboards.InvalidateUser(c.Request.Context(), info.ID)
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// Reject godoc
// @Summary Reject and delete a pending account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	actor := userFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.users.Reject(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
