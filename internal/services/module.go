package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type ModuleService struct {
	db     *gorm.DB
	access *AccessService
}

func NewModuleService(db *gorm.DB) *ModuleService {
	return &ModuleService{db: db, access: NewAccessService(db)}
}

type ModuleRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

// Create adds a module to a project. OWNER only.
func (s *ModuleService) Create(projectID, actorID uint, req *ModuleRequest) (*models.Module, error) {
	if err := s.access.RequireOwner(projectID, actorID); err != nil {
		return nil, err
	}

	module := &models.Module{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(module).Error; err != nil {
		return nil, err
	}
	return module, nil
}

// List returns a project's modules. Member read.
func (s *ModuleService) List(projectID, actorID uint) ([]models.Module, error) {
	if _, err := s.access.RequireMember(projectID, actorID); err != nil {
		return nil, err
	}

	var modules []models.Module
	if err := s.db.Where("project_id = ?", projectID).Order("name ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// Update renames a module. OWNER only.
func (s *ModuleService) Update(moduleID, actorID uint, req *ModuleRequest) (*models.Module, error) {
	module, err := s.get(moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(module.ProjectID, actorID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	}
	if err := s.db.Model(module).Updates(updates).Error; err != nil {
		return nil, err
	}
	module.Name = req.Name
	module.Description = req.Description
	return module, nil
}

// Delete removes a module and cascades to its test cases. Results
// referencing those cases keep their rows with the live reference
// nulled, same as an explicit case delete. OWNER only.
func (s *ModuleService) Delete(moduleID, actorID uint) error {
	module, err := s.get(moduleID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(module.ProjectID, actorID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var caseIDs []uint
		if err := tx.Model(&models.TestCase{}).
			Where("module_id = ?", moduleID).
			Pluck("id", &caseIDs).Error; err != nil {
			return err
		}
		if len(caseIDs) > 0 {
			if err := tx.Model(&models.TestResult{}).
				Where("test_case_id IN ?", caseIDs).
				Update("test_case_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("test_case_id IN ?", caseIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.TestCase{}, caseIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Module{}, moduleID).Error
	})
}

func (s *ModuleService) get(moduleID uint) (*models.Module, error) {
	var module models.Module
	if err := s.db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("module not found")
		}
		return nil, err
	}
	return &module, nil
}
