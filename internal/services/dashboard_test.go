package services

import (
	"testing"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	mine := seedProject(t, db, alice, "Mine")
	other := seedProject(t, db, bob, "Other")
	seedCase(t, db, mine, "Login works")
	seedCase(t, db, mine, "Logout works")
	seedCase(t, db, other, "Not alice's")

	runSvc := NewRunService(db)
	run, err := runSvc.Create(mine.ID, alice.ID, "Release run")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if _, err := runSvc.Assign(run.ID, alice.ID, alice.ID); err != nil {
		t.Fatalf("assign run: %v", err)
	}

	task := models.Task{
		ProjectID:    mine.ID,
		Title:        "Regression sweep",
		Status:       models.TaskStatusOpen,
		AssignedToID: &alice.ID,
		CreatedBy:    alice.ID,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	resp, err := NewDashboardService(db).GetStats(alice.ID)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}

	if resp.Stats.Projects != 1 {
		t.Errorf("expected 1 project, got %d", resp.Stats.Projects)
	}
	if resp.Stats.TestCases != 2 {
		t.Errorf("expected 2 test cases, got %d", resp.Stats.TestCases)
	}
	if resp.Stats.ActiveRuns != 1 {
		t.Errorf("expected 1 active run, got %d", resp.Stats.ActiveRuns)
	}
	if resp.Stats.AssignedRuns != 1 {
		t.Errorf("expected 1 assigned run, got %d", resp.Stats.AssignedRuns)
	}
	if resp.Stats.OpenTasks != 1 {
		t.Errorf("expected 1 open task, got %d", resp.Stats.OpenTasks)
	}
	if len(resp.RecentRuns) != 1 || resp.RecentRuns[0].ID != run.ID {
		t.Errorf("recent runs mismatch: %+v", resp.RecentRuns)
	}
}

func TestDashboardStatsCompletedRun(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	project := seedProject(t, db, alice, "Mine")
	seedCase(t, db, project, "Login works")

	runSvc := NewRunService(db)
	run, err := runSvc.Create(project.ID, alice.ID, "Release run")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if _, err := runSvc.Complete(run.ID, alice.ID); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	resp, err := NewDashboardService(db).GetStats(alice.ID)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if resp.Stats.ActiveRuns != 0 {
		t.Errorf("expected 0 active runs, got %d", resp.Stats.ActiveRuns)
	}
	if resp.Stats.CompletedRuns != 1 {
		t.Errorf("expected 1 completed run, got %d", resp.Stats.CompletedRuns)
	}
}
