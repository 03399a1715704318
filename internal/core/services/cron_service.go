package services

import (
	"context"
	"log"

	"admingate/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron      *cron.Cron
	codeRepo  repositories.VerificationCodeRepository
	tokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(
	codeRepo repositories.VerificationCodeRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *CronService {
	return &CronService{
		cron:      cron.New(),
		codeRepo:  codeRepo,
		tokenRepo: tokenRepo,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Hourly purge of expired verification codes and refresh tokens
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpired); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs started")
	return nil
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron jobs stopped")
}

func (s *CronService) purgeExpired() {
	ctx := context.Background()

	if err := s.codeRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Failed to purge expired verification codes: %v", err)
	}
	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Failed to purge expired refresh tokens: %v", err)
	}
}
