package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/core/domain"
)

// Policy service errors
var (
	ErrPolicyNotFound         = errors.New("policy not found")
	ErrNotPolicyOwner         = errors.New("policy belongs to another user")
	ErrApplicationAlreadyPaid = fmt.Errorf("%w: application already paid", domain.ErrInvalidTransition)
	ErrApplicationCancelled   = fmt.Errorf("%w: application is cancelled", domain.ErrInvalidTransition)
	ErrPolicyNotActive        = fmt.Errorf("%w: policy is not active", domain.ErrInvalidTransition)
	ErrApplicationNotPriced   = fmt.Errorf("%w: application has no calculated amount", domain.ErrInvariant)
	ErrInvalidPolicyDuration  = fmt.Errorf("%w: policy duration must be positive", domain.ErrInvariant)
)

// Refund rules: full refund inside the grace period, afterwards a
// pro-rata refund of the unused days minus a flat administrative fee.
const refundGracePeriodDays = 14

var adminFeeRetention = decimal.NewFromFloat(0.80)

// dailyRatePrecision is the scale of the intermediate daily rate
// before the final rounding to 2 decimals
const dailyRatePrecision = 10

// PolicyService issues policies from paid applications and unwinds
// them on cancellation. Every public operation is one transaction.
type PolicyService struct {
	db              *gorm.DB
	policyRepo      *repositories.PolicyRepository
	applicationRepo *repositories.ApplicationRepository
	userRepo        *repositories.GormUserRepository
	categoryRepo    *repositories.GormCategoryRepository
	notifyService   *NotificationService
}

// NewPolicyService creates a new policy service
func NewPolicyService(
	db *gorm.DB,
	policyRepo *repositories.PolicyRepository,
	applicationRepo *repositories.ApplicationRepository,
	userRepo *repositories.GormUserRepository,
	categoryRepo *repositories.GormCategoryRepository,
	notifyService *NotificationService,
) *PolicyService {
	return &PolicyService{
		db:              db,
		policyRepo:      policyRepo,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		categoryRepo:    categoryRepo,
		notifyService:   notifyService,
	}
}

// PayApplication issues a policy for a pending application as a single
// atomic unit: category resolution, policy creation, application
// transition to PAID and the owner's tier recompute all commit together.
func (s *PolicyService) PayApplication(ctx context.Context, userID, applicationID uint) (*models.Policy, error) {
	var policy *models.Policy
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		policy, err = s.issueInTx(ctx, tx, userID, applicationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyPolicyIssued(policy)
	}
	return policy, nil
}

// issueInTx performs the issuance inside the caller's transaction.
// The application row is locked first so the same application can
// never be paid twice.
func (s *PolicyService) issueInTx(ctx context.Context, tx *gorm.DB, userID, applicationID uint) (*models.Policy, error) {
	appRepo := s.applicationRepo.WithTx(tx)

	app, err := appRepo.GetByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.UserID != userID {
		return nil, ErrNotApplicationOwner
	}

	switch domain.ApplicationStatus(app.Status) {
	case domain.AppStatusPending, domain.AppStatusPendingPackage:
		// payable
	case domain.AppStatusPaid:
		return nil, ErrApplicationAlreadyPaid
	default:
		return nil, ErrApplicationCancelled
	}

	if !app.CalculatedAmount.Valid {
		return nil, ErrApplicationNotPriced
	}

	code := domain.ProductCode(app.ProductCode)
	category, err := s.categoryRepo.WithTx(tx).GetOrCreate(ctx, string(code), categoryName(code))
	if err != nil {
		return nil, err
	}

	start, end := policyWindow(app, time.Now())

	policy := &models.Policy{
		UserID:             app.UserID,
		CategoryID:         category.ID,
		ApplicationID:      app.ID,
		ApplicationProduct: app.ProductCode,
		Price:              app.CalculatedAmount.Decimal,
		StartDate:          start,
		EndDate:            end,
		Status:             string(domain.PolicyStatusActive),
		IsActive:           true,
	}
	if err := s.policyRepo.WithTx(tx).Create(ctx, policy); err != nil {
		return nil, err
	}

	app.Status = string(domain.AppStatusPaid)
	if err := appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	if err := s.adjustUserPolicyCount(ctx, tx, app.UserID, +1); err != nil {
		return nil, err
	}

	policy.Category = category
	return policy, nil
}

// CancelPolicy cancels an active policy, computes the pro-rata refund
// and reverses the owner's policy count and tier. All effects are one
// atomic unit.
func (s *PolicyService) CancelPolicy(ctx context.Context, userID, policyID uint, reason string) (*domain.RefundResult, error) {
	var result *domain.RefundResult
	var policy *models.Policy

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		policyRepo := s.policyRepo.WithTx(tx)

		var err error
		policy, err = policyRepo.GetByIDForUpdate(ctx, policyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPolicyNotFound
			}
			return err
		}
		if policy.UserID != userID {
			return ErrNotPolicyOwner
		}

		if domain.PolicyStatus(policy.Status) != domain.PolicyStatusActive {
			return ErrPolicyNotActive
		}

		now := time.Now()
		refund, full, err := ComputeRefund(policy.Price, policy.StartDate, policy.EndDate, now)
		if err != nil {
			return err
		}

		policy.Status = string(domain.PolicyStatusCancelled)
		policy.IsActive = false
		policy.RefundAmount = &refund
		policy.CancellationReason = &reason
		policy.CancelledAt = &now
		if err := policyRepo.Update(ctx, policy); err != nil {
			return err
		}

		// policy cancellation retires the originating application
		appRepo := s.applicationRepo.WithTx(tx)
		app, err := appRepo.GetByIDForUpdate(ctx, policy.ApplicationID)
		if err == nil {
			app.Status = string(domain.AppStatusCancelled)
			if err := appRepo.Update(ctx, app); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.adjustUserPolicyCount(ctx, tx, policy.UserID, -1); err != nil {
			return err
		}

		result = &domain.RefundResult{
			PolicyID:           policy.ID,
			RefundAmount:       refund,
			FullRefund:         full,
			CancellationReason: reason,
			CancelledAt:        now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.NotifyPolicyCancelled(policy, result.RefundAmount)
	}
	return result, nil
}

// GetByID gets one of the user's policies
func (s *PolicyService) GetByID(ctx context.Context, userID, id uint) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	if policy.UserID != userID {
		return nil, ErrNotPolicyOwner
	}
	return policy, nil
}

// ListByUser lists the user's policies with pagination
func (s *PolicyService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Policy, int64, error) {
	return s.policyRepo.ListByUser(ctx, userID, offset, limit)
}

// FindByApplication returns the policy issued for an application, or
// nil when none has been issued
func (s *PolicyService) FindByApplication(ctx context.Context, ref domain.PolicyRef) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByApplication(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}

// adjustUserPolicyCount mutates the active policy count under a row
// lock and recomputes the tier from the new count
func (s *PolicyService) adjustUserPolicyCount(ctx context.Context, tx *gorm.DB, userID uint, delta int) error {
	userRepo := s.userRepo.WithTx(tx)

	user, err := userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	user.ActivePolicyCount += delta
	if user.ActivePolicyCount < 0 {
		user.ActivePolicyCount = 0
	}
	user.Tier = string(domain.TierFor(user.ActivePolicyCount))
	return userRepo.Update(ctx, user)
}

// ComputeRefund computes the refund for cancelling a policy priced at
// price with the given coverage window, as of now. Within the grace
// period the refund is the full price. Afterwards the unused days are
// refunded at the daily rate minus the administrative fee, floored at
// zero. The returned amount is rounded half-up to 2 decimals.
func ComputeRefund(price decimal.Decimal, start, end, now time.Time) (decimal.Decimal, bool, error) {
	totalDays := daysBetween(start, end)
	if totalDays <= 0 {
		return decimal.Zero, false, ErrInvalidPolicyDuration
	}

	daysSinceStart := daysBetween(start, now)
	if daysSinceStart < 0 {
		daysSinceStart = 0
	}

	if daysSinceStart <= refundGracePeriodDays {
		return price.Round(2), true, nil
	}

	remainingDays := totalDays - daysSinceStart
	if remainingDays <= 0 {
		return decimal.Zero.Round(2), false, nil
	}

	dailyRate := price.DivRound(decimal.NewFromInt(int64(totalDays)), dailyRatePrecision)
	refund := dailyRate.
		Mul(decimal.NewFromInt(int64(remainingDays))).
		Mul(adminFeeRetention)
	if refund.IsNegative() {
		refund = decimal.Zero
	}
	return refund.Round(2), false, nil
}

// daysBetween counts whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	dayA := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	dayB := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(dayB.Sub(dayA).Hours() / 24)
}

// policyWindow derives the coverage dates stamped on the policy:
// application dates when present, otherwise the application term from
// the payment date, with a one-year generic fallback
func policyWindow(app *models.Application, now time.Time) (time.Time, time.Time) {
	start := now
	if app.StartDate != nil {
		start = *app.StartDate
	}
	if app.EndDate != nil {
		return start, *app.EndDate
	}
	if app.DurationMonths > 0 {
		return start, start.AddDate(0, app.DurationMonths, 0)
	}
	return start, start.AddDate(1, 0, 0)
}

// categoryName is the display name used when a product category is
// first created
func categoryName(code domain.ProductCode) string {
	switch code {
	case domain.ProductAutoComprehensive:
		return "Auto Comprehensive"
	case domain.ProductAutoLiability:
		return "Auto Liability"
	case domain.ProductProperty:
		return "Property"
	case domain.ProductHealth:
		return "Health"
	case domain.ProductTravel:
		return "Travel"
	default:
		return string(code)
	}
}
