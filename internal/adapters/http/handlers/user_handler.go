package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"insurehub/internal/core/services"
	"insurehub/internal/pkg/response"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile
// @Summary Get my profile
// @Description Profile including loyalty tier and cashback rate
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}
	return response.Success(c, "Profile retrieved", profile)
}

// List lists all users (admin)
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.userService.ListUsers(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}
	return response.Success(c, "Users retrieved", result)
}
