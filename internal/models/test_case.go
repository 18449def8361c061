package models

import (
	"time"

	"gorm.io/gorm"
)

// TestCase belongs to exactly one project and optionally one module.
// Steps is the ordered sequence of actions; Tags is a free-form label set.
// Content is mutable by the project OWNER only.
type TestCase struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ProjectID      uint           `gorm:"index;not null" json:"project_id"`
	ModuleID       *uint          `gorm:"index" json:"module_id"`
	Module         *Module        `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	Title          string         `gorm:"size:300;not null" json:"title"`
	Steps          StringList     `gorm:"type:text" json:"steps"`
	ExpectedResult string         `gorm:"type:text" json:"expected_result"`
	Tags           StringList     `gorm:"type:text" json:"tags"`
	CreatedBy      uint           `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestCase) TableName() string { return "test_cases" }
