package models

import (
	"time"
)

// AIUsage is a per-user-per-day call counter. The unique index on
// (user_id, usage_date) lets the quota check run as a single atomic
// upsert-and-increment instead of a racy count-then-insert.
type AIUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_day;not null" json:"user_id"`
	UsageDate string    `gorm:"uniqueIndex:idx_user_day;size:10;not null" json:"usage_date"` // YYYY-MM-DD
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AIUsage) TableName() string { return "ai_usages" }
