package models

import (
	"time"
)

// Per-result outcomes. BLOCKED is the creation default: a non-passing
// state requiring attention, distinct from FAILED.
const (
	ResultStatusPassed  = "PASSED"
	ResultStatusFailed  = "FAILED"
	ResultStatusBlocked = "BLOCKED"
)

// TestResult records the outcome of one test case within one run.
// TestCaseID is nulled if the source case is later deleted; CaseTitle is
// captured at run creation so history stays readable either way.
type TestResult struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      uint      `gorm:"index;not null" json:"run_id"`
	TestCaseID *uint     `gorm:"index" json:"test_case_id"`
	CaseTitle  string    `gorm:"size:300;not null" json:"case_title"`
	Status     string    `gorm:"size:20;not null;default:BLOCKED" json:"status"`
	Notes      string    `gorm:"type:text" json:"notes"`
	UpdatedBy  *uint     `json:"updated_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TestResult) TableName() string { return "test_results" }

// ValidResultStatus reports whether s is a known per-result status.
func ValidResultStatus(s string) bool {
	switch s {
	case ResultStatusPassed, ResultStatusFailed, ResultStatusBlocked:
		return true
	}
	return false
}
