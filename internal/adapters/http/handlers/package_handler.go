package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"insurehub/internal/core/domain"
	"insurehub/internal/core/services"
	"insurehub/internal/pkg/pagination"
	"insurehub/internal/pkg/response"
)

// PackageHandler handles package endpoints
type PackageHandler struct {
	packageService *services.PackageService
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService *services.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// CreatePackageRequest represents create package request
type CreatePackageRequest struct {
	Name            string                      `json:"name"`
	DiscountPercent decimal.Decimal             `json:"discount_percent"`
	Items           []services.PackageItemInput `json:"items"`
}

// Create creates and prices a package bundle
// @Summary Create package
// @Description Bundle and price multiple applications under one discount
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePackageRequest true "Package data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /packages [post]
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var req CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Package name is required")
	}

	report, err := h.packageService.ProcessPackage(c.Context(), currentUserID(c), &services.CreatePackageInput{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		Items:           req.Items,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyPackage):
			return response.BadRequest(c, "Package needs at least one item")
		case errors.Is(err, services.ErrInvalidDiscount):
			return response.BadRequest(c, "Discount percent must be within [0,100]")
		default:
			return response.InternalServerError(c, "Failed to create package")
		}
	}

	return response.Created(c, "Package created", fiber.Map{
		"package": report.Package.ToResponse(),
		"items":   report.Items,
	})
}

// List lists the user's packages
// @Summary List my packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /packages [get]
func (h *PackageHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	pkgs, total, err := h.packageService.ListByUser(c.Context(), currentUserID(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list packages")
	}

	items := make([]interface{}, 0, len(pkgs))
	for _, pkg := range pkgs {
		items = append(items, pkg.ToResponse())
	}
	return response.Success(c, "Packages retrieved", pagination.NewResponse(items, params, total))
}

// Get gets one package
// @Summary Get package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /packages/{id} [get]
func (h *PackageHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid package ID")
	}

	pkg, err := h.packageService.GetByID(c.Context(), currentUserID(c), id)
	if err != nil {
		return h.packageError(c, err, "Failed to get package")
	}

	return response.Success(c, "Package retrieved", fiber.Map{
		"package": pkg.ToResponse(),
		"links":   pkg.Links,
	})
}

// Pay pays all pending applications in a package
// @Summary Pay package
// @Description Issue policies for every unpaid application in the package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /packages/{id}/pay [post]
func (h *PackageHandler) Pay(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid package ID")
	}

	report, err := h.packageService.PayPackage(c.Context(), currentUserID(c), id)
	if err != nil {
		return h.packageError(c, err, "Failed to pay package")
	}

	message := "Package payment completed"
	if report.HasFailures() {
		message = "Package payment partially completed"
	}
	return response.Success(c, message, fiber.Map{
		"package": report.Package.ToResponse(),
		"items":   report.Items,
	})
}

// Cancel cancels a package
// @Summary Cancel package
// @Description Cancel a package still open for payment
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /packages/{id}/cancel [post]
func (h *PackageHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid package ID")
	}

	pkg, err := h.packageService.CancelPackage(c.Context(), currentUserID(c), id)
	if err != nil {
		return h.packageError(c, err, "Failed to cancel package")
	}

	return response.Success(c, "Package cancelled", fiber.Map{
		"package": pkg.ToResponse(),
	})
}

func (h *PackageHandler) packageError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrPackageNotFound):
		return response.NotFound(c, "Package not found")
	case errors.Is(err, services.ErrNotPackageOwner):
		return response.Forbidden(c, "Package belongs to another user")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
