package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"insurehub/internal/adapters/persistence/repositories"
)

// ExpiryService sweeps active policies past their end date and marks
// them EXPIRED, and purges expired refresh tokens. Runs daily at 03:00.
type ExpiryService struct {
	policyRepo       *repositories.PolicyRepository
	refreshTokenRepo *repositories.GormRefreshTokenRepository
	cron             *cron.Cron
}

// NewExpiryService creates a new expiry service
func NewExpiryService(policyRepo *repositories.PolicyRepository, refreshTokenRepo *repositories.GormRefreshTokenRepository) *ExpiryService {
	return &ExpiryService{
		policyRepo:       policyRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the daily sweep
func (s *ExpiryService) Start() {
	_, err := s.cron.AddFunc("0 3 * * *", s.Sweep)
	if err != nil {
		log.Printf("❌ Failed to schedule policy expiry sweep: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 Policy expiry sweep scheduled (daily 03:00)")
}

// Stop stops the scheduler
func (s *ExpiryService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Policy expiry sweep stopped")
}

// Sweep expires all active policies whose end date has passed
func (s *ExpiryService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := s.policyRepo.ExpireBefore(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Policy expiry sweep failed: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("✅ Policy expiry sweep: %d policies expired", swept)
	}

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Refresh token purge failed: %v", err)
	}
}
