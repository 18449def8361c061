package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type ProjectService struct {
	db     *gorm.DB
	access *AccessService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db, access: NewAccessService(db)}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Create writes the project and its OWNER membership row in one
// transaction.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.RoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the projects the user is a member of, newest first.
func (s *ProjectService) List(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Get returns a project. Member-only read.
func (s *ProjectService) Get(projectID, userID uint) (*models.Project, error) {
	if _, err := s.access.RequireMember(projectID, userID); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// Update changes name/description. OWNER only.
func (s *ProjectService) Update(projectID, userID uint, req *UpdateProjectRequest) (*models.Project, error) {
	if err := s.access.RequireOwner(projectID, userID); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return &project, nil
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and everything under it. OWNER only.
func (s *ProjectService) Delete(projectID, userID uint) error {
	if err := s.access.RequireOwner(projectID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var runIDs []uint
		if err := tx.Model(&models.TestRun{}).Where("project_id = ?", projectID).Pluck("id", &runIDs).Error; err != nil {
			return err
		}
		if len(runIDs) > 0 {
			if err := tx.Where("run_id IN ?", runIDs).Delete(&models.TestResult{}).Error; err != nil {
				return err
			}
		}

		var caseIDs []uint
		if err := tx.Model(&models.TestCase{}).Where("project_id = ?", projectID).Pluck("id", &caseIDs).Error; err != nil {
			return err
		}
		if len(caseIDs) > 0 {
			if err := tx.Where("test_case_id IN ?", caseIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&models.TestRun{}, &models.TestCase{}, &models.Module{},
			&models.Task{}, &models.Invitation{}, &models.ProjectMember{},
			&models.AIGeneration{},
		} {
			if err := tx.Where("project_id = ?", projectID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Project{}, projectID).Error
	})
}

// ListMembers returns the project's membership rows with user info.
// OWNER only, per the access policy.
func (s *ProjectService) ListMembers(projectID, userID uint) ([]models.ProjectMember, error) {
	if err := s.access.RequireOwner(projectID, userID); err != nil {
		return nil, err
	}

	var members []models.ProjectMember
	err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
