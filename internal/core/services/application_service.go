package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/core/domain"
	"insurehub/internal/core/pricing"
)

// Application service errors
var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrNotApplicationOwner   = errors.New("application belongs to another user")
	ErrApplicationNotPending = errors.New("application is not pending")
)

// ApplicationService owns the application lifecycle. Entry to a
// PENDING state always prices the application first.
type ApplicationService struct {
	db              *gorm.DB
	applicationRepo *repositories.ApplicationRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB, applicationRepo *repositories.ApplicationRepository) *ApplicationService {
	return &ApplicationService{
		db:              db,
		applicationRepo: applicationRepo,
	}
}

// Submit validates and prices a product application and persists it in
// PENDING status
func (s *ApplicationService) Submit(ctx context.Context, userID uint, product pricing.Product) (*models.Application, error) {
	app, err := buildApplication(userID, product, domain.AppStatusPending)
	if err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetByID gets one of the user's applications
func (s *ApplicationService) GetByID(ctx context.Context, userID, id uint) (*models.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.UserID != userID {
		return nil, ErrNotApplicationOwner
	}
	return app, nil
}

// ListByUser lists the user's applications with pagination
func (s *ApplicationService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Application, int64, error) {
	return s.applicationRepo.ListByUser(ctx, userID, offset, limit)
}

// Cancel cancels an application before payment. Paid applications can
// only be unwound by cancelling their policy.
func (s *ApplicationService) Cancel(ctx context.Context, userID, id uint) (*models.Application, error) {
	var app *models.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.applicationRepo.WithTx(tx)

		var err error
		app, err = repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if app.UserID != userID {
			return ErrNotApplicationOwner
		}

		status := domain.ApplicationStatus(app.Status)
		if !status.CanTransitionTo(domain.AppStatusCancelled) {
			return ErrApplicationNotPending
		}

		app.Status = string(domain.AppStatusCancelled)
		return repo.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// buildApplication prices a validated product and maps it onto the
// persistence model in the given entry status
func buildApplication(userID uint, product pricing.Product, status domain.ApplicationStatus) (*models.Application, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	premium := product.Premium()
	app := &models.Application{
		UserID:           userID,
		ProductCode:      string(product.ProductCode()),
		Status:           string(status),
		CalculatedAmount: decimal.NewNullDecimal(premium),
	}

	switch p := product.(type) {
	case pricing.AutoComprehensive:
		app.VIN = &p.VIN
		app.CarValue = &p.CarValue
		app.CarAgeYears = &p.CarAgeYears
		app.DriverExperienceYears = &p.DriverExperienceYears
		app.AntiTheftSystem = &p.AntiTheftSystem
		app.GarageParked = &p.GarageParked
		app.DurationMonths = p.DurationMonths
		app.StartDate = p.StartDate
		app.EndDate = p.EndDate
	case pricing.AutoLiability:
		app.VIN = &p.VIN
		app.EnginePowerKW = &p.EnginePowerKW
		app.DriverExperienceYears = &p.DriverExperienceYears
		app.UnlimitedDrivers = &p.UnlimitedDrivers
		app.DurationMonths = p.DurationMonths
		app.StartDate = p.StartDate
		app.EndDate = p.EndDate
	case pricing.Property:
		app.PropertyAddress = &p.PropertyAddress
		app.PropertyValue = &p.PropertyValue
		app.StartDate = p.StartDate
		app.EndDate = p.EndDate
	case pricing.Health:
		if p.PlanName != "" {
			app.PlanName = &p.PlanName
		}
		if p.Amount.IsPositive() {
			app.Amount = &p.Amount
		}
		app.StartDate = p.StartDate
		app.EndDate = p.EndDate
	case pricing.Travel:
		app.DestinationCountry = &p.DestinationCountry
		if p.Amount.IsPositive() {
			app.Amount = &p.Amount
		}
		// the trip window is fixed at submission, defaults included
		start, end := p.PolicyWindow(time.Now())
		app.StartDate = &start
		app.EndDate = &end
	}

	return app, nil
}
