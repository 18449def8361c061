package services

import (
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

// Run-level outcomes derived from per-result statuses.
const (
	OverallFailed     = "FAILED"
	OverallPartial    = "PARTIAL"
	OverallPassed     = "PASSED"
	OverallNotStarted = "NOT_STARTED"
)

// RunSummary aggregates a run's results. It is recomputed on every read
// and never persisted, so it cannot drift from the result rows.
type RunSummary struct {
	Total   int    `json:"total"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Blocked int    `json:"blocked"`
	Overall string `json:"overall"`
}

// Summarize tallies results into a RunSummary. Overall precedence: a
// single FAILED result dominates everything; BLOCKED yields PARTIAL only
// in the absence of failures; an all-PASSED set is PASSED; an empty set
// is NOT_STARTED.
func Summarize(results []models.TestResult) RunSummary {
	summary := RunSummary{Total: len(results)}

	for _, r := range results {
		switch r.Status {
		case models.ResultStatusPassed:
			summary.Passed++
		case models.ResultStatusFailed:
			summary.Failed++
		case models.ResultStatusBlocked:
			summary.Blocked++
		}
	}

	switch {
	case summary.Failed > 0:
		summary.Overall = OverallFailed
	case summary.Blocked > 0:
		summary.Overall = OverallPartial
	case summary.Total > 0:
		summary.Overall = OverallPassed
	default:
		summary.Overall = OverallNotStarted
	}

	return summary
}
