package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"insurehub/internal/core/domain"
	"insurehub/internal/core/services"
	"insurehub/internal/pkg/pagination"
	"insurehub/internal/pkg/response"
)

// PolicyHandler handles policy endpoints
type PolicyHandler struct {
	policyService *services.PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policyService *services.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// List lists the user's policies
// @Summary List my policies
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /policies [get]
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	policies, total, err := h.policyService.ListByUser(c.Context(), currentUserID(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list policies")
	}

	items := make([]interface{}, 0, len(policies))
	for _, policy := range policies {
		items = append(items, policy.ToResponse())
	}
	return response.Success(c, "Policies retrieved", pagination.NewResponse(items, params, total))
}

// Get gets one policy
// @Summary Get policy
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [get]
func (h *PolicyHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid policy ID")
	}

	policy, err := h.policyService.GetByID(c.Context(), currentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPolicyNotFound):
			return response.NotFound(c, "Policy not found")
		case errors.Is(err, services.ErrNotPolicyOwner):
			return response.Forbidden(c, "Policy belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to get policy")
		}
	}

	return response.Success(c, "Policy retrieved", fiber.Map{
		"policy": policy.ToResponse(),
	})
}

// CancelPolicyRequest represents cancel policy request
type CancelPolicyRequest struct {
	Reason string `json:"reason"`
}

// Cancel cancels an active policy with a pro-rata refund
// @Summary Cancel policy
// @Description Cancel an active policy; computes the pro-rata refund
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Policy ID"
// @Param body body CancelPolicyRequest true "Cancellation reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /policies/{id}/cancel [post]
func (h *PolicyHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid policy ID")
	}

	var req CancelPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Cancellation reason is required")
	}

	result, err := h.policyService.CancelPolicy(c.Context(), currentUserID(c), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPolicyNotFound):
			return response.NotFound(c, "Policy not found")
		case errors.Is(err, services.ErrNotPolicyOwner):
			return response.Forbidden(c, "Policy belongs to another user")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Only active policies can be cancelled")
		case errors.Is(err, domain.ErrInvariant):
			return response.InternalServerError(c, "Policy has an invalid coverage window")
		default:
			return response.InternalServerError(c, "Failed to cancel policy")
		}
	}

	return response.Success(c, "Policy cancelled", fiber.Map{
		"refund": result,
	})
}
