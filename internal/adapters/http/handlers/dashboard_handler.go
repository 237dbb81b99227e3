package handlers

import (
	"github.com/gofiber/fiber/v2"

	"insurehub/internal/core/services"
	"insurehub/internal/pkg/response"
)

// DashboardHandler handles admin dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns portfolio-wide statistics
// @Summary Dashboard overview
// @Description Totals across users, applications, policies and refunds
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.GetOverview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build overview")
	}
	return response.Success(c, "Overview retrieved", overview)
}
