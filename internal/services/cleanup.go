package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/logger"
)

// usageRetentionDays is how long per-day AI usage counters are kept.
const usageRetentionDays = 90

// CleanupService runs the nightly sweep: expired invitations are removed
// and old AI usage counters are trimmed.
type CleanupService struct {
	invitations *InvitationService
	usage       *AIUsageService
	scheduler   *cron.Cron
}

func NewCleanupService(db *gorm.DB) *CleanupService {
	return &CleanupService{
		invitations: NewInvitationService(db),
		usage:       NewAIUsageService(db),
	}
}

func (s *CleanupService) StartScheduler() {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("0 3 * * *", s.Sweep); err != nil {
		logger.Errorf("[Cleanup] Failed to schedule sweep: %v", err)
		return
	}

	s.scheduler.Start()
	logger.Infof("[Cleanup] Scheduler started (daily at 03:00)")
}

func (s *CleanupService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Sweep runs one cleanup pass. Exported so it can run on demand.
func (s *CleanupService) Sweep() {
	if n, err := s.invitations.PurgeExpired(time.Now()); err != nil {
		logger.Errorf("[Cleanup] Failed to purge expired invitations: %v", err)
	} else if n > 0 {
		logger.Infof("[Cleanup] Removed %d expired invitations", n)
	}

	cutoff := time.Now().AddDate(0, 0, -usageRetentionDays)
	if n, err := s.usage.PurgeOlderThan(cutoff); err != nil {
		logger.Errorf("[Cleanup] Failed to trim AI usage counters: %v", err)
	} else if n > 0 {
		logger.Infof("[Cleanup] Removed %d stale AI usage counters", n)
	}
}
