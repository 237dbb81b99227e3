package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/core/domain"
	"insurehub/internal/core/pricing"
)

// Package service errors
var (
	ErrPackageNotFound       = errors.New("package not found")
	ErrNotPackageOwner       = errors.New("package belongs to another user")
	ErrEmptyPackage          = fmt.Errorf("%w: package needs at least one item", domain.ErrInvalidInput)
	ErrInvalidDiscount       = fmt.Errorf("%w: discount percent must be within [0,100]", domain.ErrInvariant)
	ErrPackageNotPayable     = fmt.Errorf("%w: package cannot be paid in its current status", domain.ErrInvalidTransition)
	ErrPackageNotCancellable = fmt.Errorf("%w: completed packages must be cancelled policy by policy", domain.ErrInvalidTransition)
)

// Per-item outcome codes in package reports
const (
	ItemPriced      = "PRICED"
	ItemSkipped     = "SKIPPED"
	ItemFailed      = "FAILED"
	ItemPaid        = "PAID"
	ItemAlreadyPaid = "ALREADY_PAID"
)

// PackageService bundles applications under one discount and fans the
// package payment out to the policy issuer
type PackageService struct {
	db              *gorm.DB
	packageRepo     *repositories.PackageRepository
	applicationRepo *repositories.ApplicationRepository
	policyService   *PolicyService
	notifyService   *NotificationService
}

// NewPackageService creates a new package service
func NewPackageService(
	db *gorm.DB,
	packageRepo *repositories.PackageRepository,
	applicationRepo *repositories.ApplicationRepository,
	policyService *PolicyService,
	notifyService *NotificationService,
) *PackageService {
	return &PackageService{
		db:              db,
		packageRepo:     packageRepo,
		applicationRepo: applicationRepo,
		policyService:   policyService,
		notifyService:   notifyService,
	}
}

// PackageItemInput is one raw bundle item. ProductCode selects the
// variant; the remaining fields are read per product.
type PackageItemInput struct {
	ProductCode string `json:"product_code"`

	// auto
	VIN                   string          `json:"vin,omitempty"`
	CarValue              decimal.Decimal `json:"car_value,omitempty"`
	CarAgeYears           int             `json:"car_age_years,omitempty"`
	EnginePowerKW         int             `json:"engine_power_kw,omitempty"`
	DriverExperienceYears int             `json:"driver_experience_years,omitempty"`
	UnlimitedDrivers      bool            `json:"unlimited_drivers,omitempty"`
	AntiTheftSystem       bool            `json:"anti_theft_system,omitempty"`
	GarageParked          bool            `json:"garage_parked,omitempty"`
	DurationMonths        int             `json:"duration_months,omitempty"`

	// property
	PropertyAddress string          `json:"property_address,omitempty"`
	PropertyValue   decimal.Decimal `json:"property_value,omitempty"`

	// health / travel
	PlanName           string          `json:"plan_name,omitempty"`
	Amount             decimal.Decimal `json:"amount,omitempty"`
	DestinationCountry string          `json:"destination_country,omitempty"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
}

// CreatePackageInput represents create package input
type CreatePackageInput struct {
	Name            string             `json:"name"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Items           []PackageItemInput `json:"items"`
}

// PackageItemResult reports the outcome of one bundle item
type PackageItemResult struct {
	ProductCode   string              `json:"product_code"`
	Status        string              `json:"status"`
	ApplicationID uint                `json:"application_id,omitempty"`
	Amount        decimal.NullDecimal `json:"amount,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// PackageReport is the caller-facing result of processing or paying a
// package: the package plus a per-item breakdown, so partial failures
// are never masked as full success
type PackageReport struct {
	Package *models.InsurancePackage `json:"package"`
	Items   []PackageItemResult      `json:"items"`
}

// HasFailures reports whether any item failed
func (r *PackageReport) HasFailures() bool {
	for _, item := range r.Items {
		if item.Status == ItemFailed {
			return true
		}
	}
	return false
}

// ProcessPackage prices every bundle item, links the resulting
// applications and computes the discounted aggregate. Unknown product
// codes and unpriceable items are excluded and reported, not fatal.
func (s *PackageService) ProcessPackage(ctx context.Context, userID uint, input *CreatePackageInput) (*PackageReport, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyPackage
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidDiscount
	}

	report := &PackageReport{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		packageRepo := s.packageRepo.WithTx(tx)
		appRepo := s.applicationRepo.WithTx(tx)

		pkg := &models.InsurancePackage{
			RefNo:           uuid.New().String(),
			UserID:          userID,
			Name:            input.Name,
			DiscountPercent: input.DiscountPercent,
			Status:          string(domain.PackageStatusPending),
		}
		if err := packageRepo.Create(ctx, pkg); err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range input.Items {
			product, err := buildProduct(item)
			if err != nil {
				report.Items = append(report.Items, PackageItemResult{
					ProductCode: item.ProductCode,
					Status:      ItemSkipped,
					Message:     err.Error(),
				})
				continue
			}

			app, err := buildApplication(userID, product, domain.AppStatusPendingPackage)
			if err != nil {
				report.Items = append(report.Items, PackageItemResult{
					ProductCode: item.ProductCode,
					Status:      ItemFailed,
					Message:     err.Error(),
				})
				continue
			}
			if err := appRepo.Create(ctx, app); err != nil {
				return err
			}

			link := &models.PackageApplicationLink{
				PackageID:     pkg.ID,
				ApplicationID: app.ID,
				ProductCode:   app.ProductCode,
			}
			if err := packageRepo.CreateLink(ctx, link); err != nil {
				return err
			}

			total = total.Add(app.CalculatedAmount.Decimal)
			report.Items = append(report.Items, PackageItemResult{
				ProductCode:   item.ProductCode,
				Status:        ItemPriced,
				ApplicationID: app.ID,
				Amount:        app.CalculatedAmount,
			})
		}

		pkg.OriginalTotalAmount = total
		pkg.FinalAmount = PackageFinalAmount(total, input.DiscountPercent)
		if err := packageRepo.Update(ctx, pkg); err != nil {
			return err
		}

		report.Package = pkg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// PayPackage invokes the policy issuer for every linked application
// not yet paid. Each issuance runs in its own transaction so one bad
// application cannot block the rest of the package; any failure turns
// the package PARTIALLY_COMPLETED instead of COMPLETED.
func (s *PackageService) PayPackage(ctx context.Context, userID, packageID uint) (*PackageReport, error) {
	pkg, err := s.getOwned(ctx, userID, packageID)
	if err != nil {
		return nil, err
	}

	status := domain.PackageStatus(pkg.Status)
	if status != domain.PackageStatusPending && status != domain.PackageStatusPartiallyCompleted {
		return nil, ErrPackageNotPayable
	}

	links, err := s.packageRepo.GetLinks(ctx, packageID)
	if err != nil {
		return nil, err
	}

	report := &PackageReport{Package: pkg}
	for _, link := range links {
		app, err := s.applicationRepo.GetByID(ctx, link.ApplicationID)
		if err != nil {
			report.Items = append(report.Items, PackageItemResult{
				ProductCode:   link.ProductCode,
				ApplicationID: link.ApplicationID,
				Status:        ItemFailed,
				Message:       "linked application not found",
			})
			continue
		}

		switch domain.ApplicationStatus(app.Status) {
		case domain.AppStatusPaid:
			// already issued, skip idempotently
			report.Items = append(report.Items, PackageItemResult{
				ProductCode:   link.ProductCode,
				ApplicationID: app.ID,
				Status:        ItemAlreadyPaid,
			})
			continue
		case domain.AppStatusCancelled:
			report.Items = append(report.Items, PackageItemResult{
				ProductCode:   link.ProductCode,
				ApplicationID: app.ID,
				Status:        ItemSkipped,
				Message:       "application is cancelled",
			})
			continue
		}

		var policy *models.Policy
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			policy, txErr = s.policyService.issueInTx(ctx, tx, pkg.UserID, app.ID)
			return txErr
		})
		if err != nil {
			if errors.Is(err, ErrApplicationAlreadyPaid) {
				// a concurrent payment won the application row lock
				report.Items = append(report.Items, PackageItemResult{
					ProductCode:   link.ProductCode,
					ApplicationID: app.ID,
					Status:        ItemAlreadyPaid,
				})
				continue
			}
			report.Items = append(report.Items, PackageItemResult{
				ProductCode:   link.ProductCode,
				ApplicationID: app.ID,
				Status:        ItemFailed,
				Message:       err.Error(),
			})
			continue
		}

		report.Items = append(report.Items, PackageItemResult{
			ProductCode:   link.ProductCode,
			ApplicationID: app.ID,
			Status:        ItemPaid,
			Amount:        decimal.NewNullDecimal(policy.Price),
		})
	}

	newStatus := domain.PackageStatusCompleted
	if report.HasFailures() {
		newStatus = domain.PackageStatusPartiallyCompleted
	}
	if err := s.finalizePackageStatus(ctx, pkg, newStatus); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyPackageProcessed(pkg, report.HasFailures())
	}
	return report, nil
}

// finalizePackageStatus commits the payment outcome under a fresh row
// lock. The package may have been cancelled by a concurrent request
// while the per-item fan-out ran; the transition table is re-checked
// against the locked row so a terminal status is never overwritten.
func (s *PackageService) finalizePackageStatus(ctx context.Context, pkg *models.InsurancePackage, newStatus domain.PackageStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		packageRepo := s.packageRepo.WithTx(tx)

		fresh, err := packageRepo.GetByIDForUpdate(ctx, pkg.ID)
		if err != nil {
			return err
		}
		if !domain.PackageStatus(fresh.Status).CanTransitionTo(newStatus) {
			pkg.Status = fresh.Status
			return nil
		}
		if err := packageRepo.UpdateStatus(ctx, pkg.ID, string(newStatus)); err != nil {
			return err
		}
		pkg.Status = string(newStatus)
		return nil
	})
}

// CancelPackage cancels a package still open for payment: every linked
// application still pending is cancelled, already-paid applications
// and their policies are left untouched.
func (s *PackageService) CancelPackage(ctx context.Context, userID, packageID uint) (*models.InsurancePackage, error) {
	var pkg *models.InsurancePackage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		packageRepo := s.packageRepo.WithTx(tx)
		appRepo := s.applicationRepo.WithTx(tx)

		var err error
		pkg, err = packageRepo.GetByIDForUpdate(ctx, packageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}
		if pkg.UserID != userID {
			return ErrNotPackageOwner
		}

		if !domain.PackageStatus(pkg.Status).IsCancellable() {
			return ErrPackageNotCancellable
		}

		links, err := packageRepo.GetLinks(ctx, packageID)
		if err != nil {
			return err
		}
		for _, link := range links {
			app, err := appRepo.GetByIDForUpdate(ctx, link.ApplicationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if domain.ApplicationStatus(app.Status).IsPending() {
				app.Status = string(domain.AppStatusCancelled)
				if err := appRepo.Update(ctx, app); err != nil {
					return err
				}
			}
		}

		pkg.Status = string(domain.PackageStatusCancelled)
		return packageRepo.Update(ctx, pkg)
	})
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// GetByID gets one of the user's packages with its links
func (s *PackageService) GetByID(ctx context.Context, userID, id uint) (*models.InsurancePackage, error) {
	return s.getOwned(ctx, userID, id)
}

// ListByUser lists the user's packages with pagination
func (s *PackageService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.InsurancePackage, int64, error) {
	return s.packageRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *PackageService) getOwned(ctx context.Context, userID, id uint) (*models.InsurancePackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if pkg.UserID != userID {
		return nil, ErrNotPackageOwner
	}
	return pkg, nil
}

// PackageFinalAmount applies the package-level discount to the
// aggregate and rounds half-up to 2 decimals. Per-application
// discounts do not exist; the package discount is the only one.
func PackageFinalAmount(originalTotal, discountPercent decimal.Decimal) decimal.Decimal {
	discount := originalTotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
	return originalTotal.Sub(discount).Round(2)
}

// buildProduct maps a raw bundle item onto its pricing variant.
// Codes outside the product allow-list are rejected.
func buildProduct(item PackageItemInput) (pricing.Product, error) {
	switch domain.ProductCode(item.ProductCode) {
	case domain.ProductAutoComprehensive:
		return pricing.AutoComprehensive{
			VIN:                   item.VIN,
			CarValue:              item.CarValue,
			CarAgeYears:           item.CarAgeYears,
			DriverExperienceYears: item.DriverExperienceYears,
			AntiTheftSystem:       item.AntiTheftSystem,
			GarageParked:          item.GarageParked,
			DurationMonths:        item.DurationMonths,
			StartDate:             item.StartDate,
			EndDate:               item.EndDate,
		}, nil
	case domain.ProductAutoLiability:
		return pricing.AutoLiability{
			VIN:                   item.VIN,
			EnginePowerKW:         item.EnginePowerKW,
			DriverExperienceYears: item.DriverExperienceYears,
			UnlimitedDrivers:      item.UnlimitedDrivers,
			DurationMonths:        item.DurationMonths,
			StartDate:             item.StartDate,
			EndDate:               item.EndDate,
		}, nil
	case domain.ProductProperty:
		return pricing.Property{
			PropertyAddress: item.PropertyAddress,
			PropertyValue:   item.PropertyValue,
			StartDate:       item.StartDate,
			EndDate:         item.EndDate,
		}, nil
	case domain.ProductHealth:
		return pricing.Health{
			PlanName:  item.PlanName,
			Amount:    item.Amount,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
		}, nil
	case domain.ProductTravel:
		return pricing.Travel{
			DestinationCountry: item.DestinationCountry,
			Amount:             item.Amount,
			StartDate:          item.StartDate,
			EndDate:            item.EndDate,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown product code %q", domain.ErrInvalidInput, item.ProductCode)
	}
}
