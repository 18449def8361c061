package models

import (
	"time"
)

// Test run lifecycle: STARTED → IN_PROGRESS → COMPLETED (terminal).
const (
	RunStatusStarted    = "STARTED"
	RunStatusInProgress = "IN_PROGRESS"
	RunStatusCompleted  = "COMPLETED"
)

// TestRun is a frozen snapshot of a project's test cases taken at creation
// time. Cases added to the project afterwards never join an existing run.
//
// Invariant: EndedAt != nil ⇔ Status == COMPLETED. Once EndedAt is set no
// result of the run may be mutated.
type TestRun struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ProjectID    uint         `gorm:"index;not null" json:"project_id"`
	Name         string       `gorm:"size:200;not null" json:"name"`
	Status       string       `gorm:"size:20;not null;default:STARTED" json:"status"`
	CreatedBy    uint         `gorm:"not null" json:"created_by"`
	AssignedToID *uint        `gorm:"index" json:"assigned_to_id"`
	AssignedTo   *User        `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	EndedAt      *time.Time   `json:"ended_at"`
	Results      []TestResult `gorm:"foreignKey:RunID" json:"results,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (TestRun) TableName() string { return "test_runs" }

// Completed reports whether the run is locked.
func (r *TestRun) Completed() bool {
	return r.Status == RunStatusCompleted
}
