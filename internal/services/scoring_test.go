package services

import (
	"testing"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

func results(statuses ...string) []models.TestResult {
	out := make([]models.TestResult, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, models.TestResult{Status: s})
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		results []models.TestResult
		want    RunSummary
	}{
		{
			name:    "one failure dominates",
			results: results("FAILED", "PASSED", "PASSED", "PASSED", "PASSED", "PASSED"),
			want:    RunSummary{Total: 6, Passed: 5, Failed: 1, Overall: OverallFailed},
		},
		{
			name:    "blocked without failures is partial",
			results: results("BLOCKED", "PASSED", "PASSED", "PASSED", "PASSED", "PASSED"),
			want:    RunSummary{Total: 6, Passed: 5, Blocked: 1, Overall: OverallPartial},
		},
		{
			name:    "all passed",
			results: results("PASSED", "PASSED", "PASSED"),
			want:    RunSummary{Total: 3, Passed: 3, Overall: OverallPassed},
		},
		{
			name:    "empty set",
			results: nil,
			want:    RunSummary{Overall: OverallNotStarted},
		},
		{
			name:    "failed beats blocked",
			results: results("FAILED", "BLOCKED", "BLOCKED"),
			want:    RunSummary{Total: 3, Failed: 1, Blocked: 2, Overall: OverallFailed},
		},
		{
			name:    "all blocked",
			results: results("BLOCKED", "BLOCKED"),
			want:    RunSummary{Total: 2, Blocked: 2, Overall: OverallPartial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.results)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestSummarize_IsPure(t *testing.T) {
	in := results("PASSED", "FAILED")

	first := Summarize(in)
	second := Summarize(in)

	if first != second {
		t.Error("Summarize should be deterministic")
	}
	if in[0].Status != "PASSED" || in[1].Status != "FAILED" {
		t.Error("Summarize must not mutate its input")
	}
}
