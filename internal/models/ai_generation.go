package models

import (
	"time"
)

const (
	GenerationKindDraft    = "draft"
	GenerationKindCritique = "critique"

	GenerationStatusPending   = "pending"
	GenerationStatusCompleted = "completed"
	GenerationStatusFailed    = "failed"
)

// AIGeneration records one AI assist request (draft or critique) and its
// outcome. Pending rows are picked up by the generation queue; the caller
// polls until the row completes or fails.
type AIGeneration struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProjectID    uint       `gorm:"index;not null" json:"project_id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Kind         string     `gorm:"size:20;not null" json:"kind"` // draft, critique
	ModuleID     *uint      `json:"module_id"`
	TestCaseID   *uint      `json:"test_case_id"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	Content      string     `gorm:"type:text" json:"content"`
	ErrorMessage string     `gorm:"size:500" json:"error_message,omitempty"`
	Model        string     `gorm:"size:100" json:"model"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (AIGeneration) TableName() string { return "ai_generations" }
