package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

// RunService owns the test run lifecycle: creation as a frozen snapshot,
// assignment, state transitions, result mutation and the completion lock.
type RunService struct {
	db     *gorm.DB
	access *AccessService
}

func NewRunService(db *gorm.DB) *RunService {
	return &RunService{db: db, access: NewAccessService(db)}
}

// RunDetail is a run plus its recomputed summary.
type RunDetail struct {
	Run     *models.TestRun `json:"run"`
	Summary RunSummary      `json:"summary"`
}

// Create constructs a run in state STARTED and atomically snapshots one
// BLOCKED result per test case currently in the project. A project with
// zero test cases cannot host a run.
func (s *RunService) Create(projectID, actorID uint, name string) (*models.TestRun, error) {
	if name == "" {
		return nil, response.NewBadRequest("name is required")
	}
	if _, err := s.access.RequireMember(projectID, actorID); err != nil {
		return nil, err
	}

	var run *models.TestRun
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cases []models.TestCase
		if err := tx.Where("project_id = ?", projectID).Order("id ASC").Find(&cases).Error; err != nil {
			return err
		}
		if len(cases) == 0 {
			return response.NewConflict("project has no test cases to run")
		}

		run = &models.TestRun{
			ProjectID: projectID,
			Name:      name,
			Status:    models.RunStatusStarted,
			CreatedBy: actorID,
			StartedAt: time.Now(),
		}
		if err := tx.Create(run).Error; err != nil {
			return err
		}

		results := make([]models.TestResult, 0, len(cases))
		for _, tc := range cases {
			caseID := tc.ID
			results = append(results, models.TestResult{
				RunID:      run.ID,
				TestCaseID: &caseID,
				CaseTitle:  tc.Title,
				Status:     models.ResultStatusBlocked,
			})
		}
		return tx.Create(&results).Error
	})
	if err != nil {
		return nil, err
	}

	return run, nil
}

// Assign sets or clears the run's assignee. OWNER only. Assigning the
// user who is already assigned clears the assignment (toggle semantics).
// The assignee must be a member of the run's project.
func (s *RunService) Assign(runID, actorID, assigneeID uint) (*models.TestRun, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(run.ProjectID, actorID); err != nil {
		return nil, err
	}

	if run.AssignedToID != nil && *run.AssignedToID == assigneeID {
		// Toggle off
		if err := s.db.Model(run).Update("assigned_to_id", nil).Error; err != nil {
			return nil, err
		}
		run.AssignedToID = nil
		return run, nil
	}

	role, err := s.access.ResolveRole(run.ProjectID, assigneeID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, response.NewBadRequest("assignee is not a member of this project")
	}

	if err := s.db.Model(run).Update("assigned_to_id", assigneeID).Error; err != nil {
		return nil, err
	}
	run.AssignedToID = &assigneeID
	return run, nil
}

// Start transitions STARTED → IN_PROGRESS. Only the current assignee may
// start a run, and only from the STARTED state.
func (s *RunService) Start(runID, actorID uint) (*models.TestRun, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}

	if run.AssignedToID == nil || *run.AssignedToID != actorID {
		return nil, response.NewForbidden("only the assignee can start this run")
	}
	if run.Status != models.RunStatusStarted {
		return nil, response.NewConflict("run is not in STARTED state")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.RunStatusInProgress,
		"started_at": now,
	}
	if err := s.db.Model(run).Updates(updates).Error; err != nil {
		return nil, err
	}
	run.Status = models.RunStatusInProgress
	run.StartedAt = now
	return run, nil
}

// Complete transitions the run to COMPLETED and stamps EndedAt. Any
// project member may complete a run. Completing an already-completed run
// is idempotent and returns the existing EndedAt unchanged.
func (s *RunService) Complete(runID, actorID uint) (*models.TestRun, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(run.ProjectID, actorID); err != nil {
		return nil, err
	}

	if run.Completed() {
		return run, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":   models.RunStatusCompleted,
		"ended_at": now,
	}
	if err := s.db.Model(run).Updates(updates).Error; err != nil {
		return nil, err
	}
	run.Status = models.RunStatusCompleted
	run.EndedAt = &now
	return run, nil
}

// UpdateResult sets a result's status and notes together. Permitted only
// while the parent run is not COMPLETED, and only to the run's assignee
// or creator — OWNER alone is not sufficient.
func (s *RunService) UpdateResult(resultID, actorID uint, status, notes string) (*models.TestResult, error) {
	var result models.TestResult
	if err := s.db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("result not found")
		}
		return nil, err
	}

	run, err := s.getRun(result.RunID)
	if err != nil {
		return nil, err
	}

	if run.Completed() {
		return nil, response.NewForbidden("run is completed and its results are locked")
	}

	isAssignee := run.AssignedToID != nil && *run.AssignedToID == actorID
	if !isAssignee && run.CreatedBy != actorID {
		return nil, response.NewForbidden("only the run assignee or creator can update results")
	}

	if !models.ValidResultStatus(status) {
		return nil, response.NewBadRequest("status must be PASSED, FAILED or BLOCKED")
	}

	updates := map[string]interface{}{
		"status":     status,
		"notes":      notes,
		"updated_by": actorID,
	}
	if err := s.db.Model(&result).Updates(updates).Error; err != nil {
		return nil, err
	}
	result.Status = status
	result.Notes = notes
	result.UpdatedBy = &actorID
	return &result, nil
}

// Get returns a run with its ordered results and recomputed summary.
// Member-only read.
func (s *RunService) Get(runID, actorID uint) (*RunDetail, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(run.ProjectID, actorID); err != nil {
		return nil, err
	}

	var results []models.TestResult
	if err := s.db.Where("run_id = ?", runID).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	run.Results = results

	return &RunDetail{Run: run, Summary: Summarize(results)}, nil
}

// List returns a project's runs, newest first, each with its summary.
func (s *RunService) List(projectID, actorID uint) ([]RunDetail, error) {
	if _, err := s.access.RequireMember(projectID, actorID); err != nil {
		return nil, err
	}

	var runs []models.TestRun
	if err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, err
	}

	details := make([]RunDetail, 0, len(runs))
	for i := range runs {
		var results []models.TestResult
		if err := s.db.Where("run_id = ?", runs[i].ID).Find(&results).Error; err != nil {
			return nil, err
		}
		details = append(details, RunDetail{Run: &runs[i], Summary: Summarize(results)})
	}
	return details, nil
}

// Delete removes a run and all of its results. OWNER only.
func (s *RunService) Delete(runID, actorID uint) error {
	run, err := s.getRun(runID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(run.ProjectID, actorID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", runID).Delete(&models.TestResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TestRun{}, runID).Error
	})
}

func (s *RunService) getRun(runID uint) (*models.TestRun, error) {
	var run models.TestRun
	if err := s.db.First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("run not found")
		}
		return nil, err
	}
	return &run, nil
}
