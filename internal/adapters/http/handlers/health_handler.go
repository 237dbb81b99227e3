package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"insurehub/internal/config"
	"insurehub/internal/pkg/response"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root handles the root endpoint
// @Summary API root
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "InsureHub API", fiber.Map{
		"name":    "InsureHub API",
		"version": "1.0",
	})
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	if err := config.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database unreachable")
	}

	return response.Success(c, "OK", fiber.Map{
		"database": "up",
		"uptime":   time.Since(h.startedAt).String(),
	})
}
