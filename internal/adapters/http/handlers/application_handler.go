package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"insurehub/internal/core/domain"
	"insurehub/internal/core/pricing"
	"insurehub/internal/core/services"
	"insurehub/internal/pkg/pagination"
	"insurehub/internal/pkg/response"
)

// ApplicationHandler handles application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
	policyService      *services.PolicyService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService, policyService *services.PolicyService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		policyService:      policyService,
	}
}

func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// parseDate parses an optional YYYY-MM-DD date field
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New("invalid date format, use YYYY-MM-DD")
	}
	return &parsed, nil
}

// AutoComprehensiveRequest represents an auto comprehensive application
type AutoComprehensiveRequest struct {
	VIN                   string          `json:"vin"`
	CarValue              decimal.Decimal `json:"car_value"`
	CarAgeYears           int             `json:"car_age_years"`
	DriverExperienceYears int             `json:"driver_experience_years"`
	AntiTheftSystem       bool            `json:"anti_theft_system"`
	GarageParked          bool            `json:"garage_parked"`
	DurationMonths        int             `json:"duration_months"`
	StartDate             string          `json:"start_date,omitempty"`
	EndDate               string          `json:"end_date,omitempty"`
}

// SubmitAutoComprehensive submits an auto comprehensive application
// @Summary Submit auto comprehensive application
// @Description Price and create a full-coverage motor application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AutoComprehensiveRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/auto-comprehensive [post]
func (h *ApplicationHandler) SubmitAutoComprehensive(c *fiber.Ctx) error {
	var req AutoComprehensiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.submit(c, pricing.AutoComprehensive{
		VIN:                   req.VIN,
		CarValue:              req.CarValue,
		CarAgeYears:           req.CarAgeYears,
		DriverExperienceYears: req.DriverExperienceYears,
		AntiTheftSystem:       req.AntiTheftSystem,
		GarageParked:          req.GarageParked,
		DurationMonths:        req.DurationMonths,
		StartDate:             startDate,
		EndDate:               endDate,
	})
}

// AutoLiabilityRequest represents an auto liability application
type AutoLiabilityRequest struct {
	VIN                   string `json:"vin"`
	EnginePowerKW         int    `json:"engine_power_kw"`
	DriverExperienceYears int    `json:"driver_experience_years"`
	UnlimitedDrivers      bool   `json:"unlimited_drivers"`
	DurationMonths        int    `json:"duration_months"`
	StartDate             string `json:"start_date,omitempty"`
	EndDate               string `json:"end_date,omitempty"`
}

// SubmitAutoLiability submits an auto liability application
// @Summary Submit auto liability application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AutoLiabilityRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/auto-liability [post]
func (h *ApplicationHandler) SubmitAutoLiability(c *fiber.Ctx) error {
	var req AutoLiabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.submit(c, pricing.AutoLiability{
		VIN:                   req.VIN,
		EnginePowerKW:         req.EnginePowerKW,
		DriverExperienceYears: req.DriverExperienceYears,
		UnlimitedDrivers:      req.UnlimitedDrivers,
		DurationMonths:        req.DurationMonths,
		StartDate:             startDate,
		EndDate:               endDate,
	})
}

// PropertyRequest represents a property application
type PropertyRequest struct {
	PropertyAddress string          `json:"property_address"`
	PropertyValue   decimal.Decimal `json:"property_value"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
}

// SubmitProperty submits a property application
// @Summary Submit property application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PropertyRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/property [post]
func (h *ApplicationHandler) SubmitProperty(c *fiber.Ctx) error {
	var req PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.submit(c, pricing.Property{
		PropertyAddress: req.PropertyAddress,
		PropertyValue:   req.PropertyValue,
		StartDate:       startDate,
		EndDate:         endDate,
	})
}

// HealthPlanRequest represents a health application
type HealthPlanRequest struct {
	PlanName  string          `json:"plan_name,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	StartDate string          `json:"start_date,omitempty"`
	EndDate   string          `json:"end_date,omitempty"`
}

// SubmitHealth submits a health application
// @Summary Submit health application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body HealthPlanRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/health [post]
func (h *ApplicationHandler) SubmitHealth(c *fiber.Ctx) error {
	var req HealthPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.submit(c, pricing.Health{
		PlanName:  req.PlanName,
		Amount:    req.Amount,
		StartDate: startDate,
		EndDate:   endDate,
	})
}

// TravelRequest represents a travel application
type TravelRequest struct {
	DestinationCountry string          `json:"destination_country"`
	Amount             decimal.Decimal `json:"amount,omitempty"`
	StartDate          string          `json:"start_date,omitempty"`
	EndDate            string          `json:"end_date,omitempty"`
}

// SubmitTravel submits a travel application
// @Summary Submit travel application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TravelRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/travel [post]
func (h *ApplicationHandler) SubmitTravel(c *fiber.Ctx) error {
	var req TravelRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return h.submit(c, pricing.Travel{
		DestinationCountry: req.DestinationCountry,
		Amount:             req.Amount,
		StartDate:          startDate,
		EndDate:            endDate,
	})
}

func (h *ApplicationHandler) submit(c *fiber.Ctx, product pricing.Product) error {
	app, err := h.applicationService.Submit(c.Context(), currentUserID(c), product)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to submit application")
	}

	return response.Created(c, "Application priced and created", fiber.Map{
		"application": app.ToResponse(),
	})
}

// List lists the user's applications
// @Summary List my applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	apps, total, err := h.applicationService.ListByUser(c.Context(), currentUserID(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	items := make([]interface{}, 0, len(apps))
	for _, app := range apps {
		items = append(items, app.ToResponse())
	}
	return response.Success(c, "Applications retrieved", pagination.NewResponse(items, params, total))
}

// Get gets one application
// @Summary Get application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.Context(), currentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNotApplicationOwner):
			return response.Forbidden(c, "Application belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to get application")
		}
	}

	result := fiber.Map{"application": app.ToResponse()}
	if domain.ApplicationStatus(app.Status) == domain.AppStatusPaid {
		policy, err := h.policyService.FindByApplication(c.Context(), domain.PolicyRef{
			ApplicationID: app.ID,
			ProductCode:   domain.ProductCode(app.ProductCode),
		})
		if err != nil {
			log.Printf("⚠️ Policy lookup failed for application %d: %v", app.ID, err)
		} else if policy != nil {
			result["policy"] = policy.ToResponse()
		}
	}
	return response.Success(c, "Application retrieved", result)
}

// Pay pays an application and issues the policy
// @Summary Pay application
// @Description Pay a pending application; issues the policy atomically
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/pay [post]
func (h *ApplicationHandler) Pay(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	policy, err := h.policyService.PayApplication(c.Context(), currentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNotApplicationOwner):
			return response.Forbidden(c, "Application belongs to another user")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to pay application")
		}
	}

	return response.Created(c, "Policy issued", fiber.Map{
		"policy": policy.ToResponse(),
	})
}

// Cancel cancels a pending application
// @Summary Cancel application
// @Description Cancel an application before payment
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/cancel [post]
func (h *ApplicationHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.Cancel(c.Context(), currentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNotApplicationOwner):
			return response.Forbidden(c, "Application belongs to another user")
		case errors.Is(err, services.ErrApplicationNotPending):
			return response.Conflict(c, "Only pending applications can be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel application")
		}
	}

	return response.Success(c, "Application cancelled", fiber.Map{
		"application": app.ToResponse(),
	})
}
