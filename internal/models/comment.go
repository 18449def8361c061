package models

import (
	"time"
)

// Comment is a discussion entry on a test case.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TestCaseID uint      `gorm:"index;not null" json:"test_case_id"`
	UserID     uint      `gorm:"not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
