package services

import (
	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	Projects      int64 `json:"projects"`
	TestCases     int64 `json:"test_cases"`
	ActiveRuns    int64 `json:"active_runs"`
	CompletedRuns int64 `json:"completed_runs"`
	AssignedRuns  int64 `json:"assigned_runs"`
	OpenTasks     int64 `json:"open_tasks"`
}

type DashboardResponse struct {
	Stats      DashboardStats   `json:"stats"`
	RecentRuns []models.TestRun `json:"recent_runs"`
}

// GetStats aggregates counts across all projects the user belongs to.
func (s *DashboardService) GetStats(userID uint) (*DashboardResponse, error) {
	// Fresh subquery per use; gorm query builders are not reusable
	memberProjects := func() *gorm.DB {
		return s.db.Model(&models.ProjectMember{}).
			Select("project_id").
			Where("user_id = ?", userID)
	}

	var stats DashboardStats

	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Count(&stats.Projects).Error; err != nil {
		return nil, err
	}

	s.db.Model(&models.TestCase{}).
		Where("project_id IN (?)", memberProjects()).
		Count(&stats.TestCases)

	s.db.Model(&models.TestRun{}).
		Where("project_id IN (?) AND status <> ?", memberProjects(), models.RunStatusCompleted).
		Count(&stats.ActiveRuns)

	s.db.Model(&models.TestRun{}).
		Where("project_id IN (?) AND status = ?", memberProjects(), models.RunStatusCompleted).
		Count(&stats.CompletedRuns)

	s.db.Model(&models.TestRun{}).
		Where("assigned_to_id = ? AND status <> ?", userID, models.RunStatusCompleted).
		Count(&stats.AssignedRuns)

	s.db.Model(&models.Task{}).
		Where("assigned_to_id = ? AND status <> ?", userID, models.TaskStatusDone).
		Count(&stats.OpenTasks)

	var recent []models.TestRun
	if err := s.db.Where("project_id IN (?)", memberProjects()).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Stats:      stats,
		RecentRuns: recent,
	}, nil
}
