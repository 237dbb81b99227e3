package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/core/domain"
)

// DashboardService aggregates portfolio statistics for admins
type DashboardService struct {
	db              *gorm.DB
	applicationRepo *repositories.ApplicationRepository
	policyRepo      *repositories.PolicyRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, applicationRepo *repositories.ApplicationRepository, policyRepo *repositories.PolicyRepository) *DashboardService {
	return &DashboardService{
		db:              db,
		applicationRepo: applicationRepo,
		policyRepo:      policyRepo,
	}
}

// Overview represents portfolio-wide statistics
type Overview struct {
	TotalUsers           int64            `json:"total_users"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	ActivePolicies       int64            `json:"active_policies"`
	TotalRefunded        decimal.Decimal  `json:"total_refunded"`
	UsersByTier          map[string]int64 `json:"users_by_tier"`
}

// GetOverview builds the admin dashboard overview
func (s *DashboardService) GetOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{
		UsersByTier:   make(map[string]int64),
		TotalRefunded: decimal.Zero,
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&overview.TotalUsers).Error; err != nil {
		return nil, err
	}

	byStatus, err := s.applicationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview.ApplicationsByStatus = byStatus

	active, err := s.policyRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	overview.ActivePolicies = active

	var refunded decimal.NullDecimal
	err = s.db.WithContext(ctx).Model(&models.Policy{}).
		Select("COALESCE(SUM(refund_amount), 0)").
		Where("status = ?", string(domain.PolicyStatusCancelled)).
		Scan(&refunded).Error
	if err != nil {
		return nil, err
	}
	if refunded.Valid {
		overview.TotalRefunded = refunded.Decimal
	}

	type tierRow struct {
		Tier  string
		Total int64
	}
	var tiers []tierRow
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Select("tier, COUNT(*) AS total").
		Group("tier").
		Scan(&tiers).Error
	if err != nil {
		return nil, err
	}
	for _, row := range tiers {
		overview.UsersByTier[row.Tier] = row.Total
	}

	return overview, nil
}
