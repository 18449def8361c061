package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type AIUsageService struct {
	db *gorm.DB
}

func NewAIUsageService(db *gorm.DB) *AIUsageService {
	return &AIUsageService{db: db}
}

// CheckAndRecord consumes one unit of the user's daily AI quota. The
// increment is a single conditional upsert against the unique
// (user_id, usage_date) row, so two concurrent requests can never both
// slip under the limit: the row is incremented first, then the stored
// count is compared. limit <= 0 disables the quota.
func (s *AIUsageService) CheckAndRecord(userID uint, limit int) error {
	today := time.Now().Format("2006-01-02")

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&models.AIUsage{
		UserID:    userID,
		UsageDate: today,
		Count:     1,
	}).Error
	if err != nil {
		return err
	}

	if limit <= 0 {
		return nil
	}

	var usage models.AIUsage
	if err := s.db.Where("user_id = ? AND usage_date = ?", userID, today).First(&usage).Error; err != nil {
		return err
	}
	if usage.Count > limit {
		return response.NewForbidden("daily AI usage limit reached")
	}
	return nil
}

// Remaining reports how many AI calls the user has left today.
func (s *AIUsageService) Remaining(userID uint, limit int) (int, error) {
	if limit <= 0 {
		return -1, nil
	}

	today := time.Now().Format("2006-01-02")
	var usage models.AIUsage
	err := s.db.Where("user_id = ? AND usage_date = ?", userID, today).First(&usage).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return limit, nil
		}
		return 0, err
	}

	remaining := limit - usage.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// PurgeOlderThan removes usage counters before the cutoff date. Called
// by the nightly sweeper.
func (s *AIUsageService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res := s.db.Where("usage_date < ?", cutoff.Format("2006-01-02")).Delete(&models.AIUsage{})
	return res.RowsAffected, res.Error
}
