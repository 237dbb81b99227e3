package services

import (
	"log"

	"github.com/shopspring/decimal"

	"insurehub/internal/adapters/persistence/models"
)

// NotificationService publishes lifecycle events. Currently a
// structured log sink; the call sites are the integration points if a
// push channel is added later.
type NotificationService struct {
	enabled bool
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{enabled: true}
}

// NotifyPolicyIssued announces a newly issued policy
func (s *NotificationService) NotifyPolicyIssued(policy *models.Policy) {
	if !s.enabled {
		return
	}
	log.Printf("📋 Policy #%d issued: product=%s price=%s user=%d",
		policy.ID, policy.ApplicationProduct, policy.Price.StringFixed(2), policy.UserID)
}

// NotifyPolicyCancelled announces a policy cancellation and its refund
func (s *NotificationService) NotifyPolicyCancelled(policy *models.Policy, refund decimal.Decimal) {
	if !s.enabled {
		return
	}
	log.Printf("🔕 Policy #%d cancelled: refund=%s user=%d",
		policy.ID, refund.StringFixed(2), policy.UserID)
}

// NotifyPackageProcessed announces the outcome of a package payment
func (s *NotificationService) NotifyPackageProcessed(pkg *models.InsurancePackage, partial bool) {
	if !s.enabled {
		return
	}
	if partial {
		log.Printf("⚠️ Package %s payment partially completed", pkg.RefNo)
		return
	}
	log.Printf("✅ Package %s payment completed: final=%s", pkg.RefNo, pkg.FinalAmount.StringFixed(2))
}
