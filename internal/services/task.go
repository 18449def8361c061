package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type TaskService struct {
	db     *gorm.DB
	access *AccessService
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, access: NewAccessService(db)}
}

type CreateTaskRequest struct {
	Title        string `json:"title" binding:"required,max=300"`
	Description  string `json:"description"`
	AssignedToID *uint  `json:"assigned_to_id"`
}

type UpdateTaskRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

// Create adds a task. OWNER only. An assignee, when given, must be a
// project member.
func (s *TaskService) Create(projectID, actorID uint, req *CreateTaskRequest) (*models.Task, error) {
	if err := s.access.RequireOwner(projectID, actorID); err != nil {
		return nil, err
	}
	if req.AssignedToID != nil {
		if err := s.checkAssignee(projectID, *req.AssignedToID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ProjectID:    projectID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatusOpen,
		AssignedToID: req.AssignedToID,
		CreatedBy:    actorID,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// List returns a project's tasks. Member read.
func (s *TaskService) List(projectID, actorID uint) ([]models.Task, error) {
	if _, err := s.access.RequireMember(projectID, actorID); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := s.db.Where("project_id = ?", projectID).
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update edits a task. The project OWNER may change anything; the
// task's assignee may change only the status.
func (s *TaskService) Update(taskID, actorID uint, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.get(taskID)
	if err != nil {
		return nil, err
	}

	role, err := s.access.ResolveRole(task.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	isOwner := role == models.RoleOwner
	isAssignee := task.AssignedToID != nil && *task.AssignedToID == actorID
	if !isOwner && !isAssignee {
		return nil, response.NewForbidden("only the project owner or task assignee can update this task")
	}

	updates := make(map[string]interface{})
	if req.Status != "" {
		if !models.ValidTaskStatus(req.Status) {
			return nil, response.NewBadRequest("status must be OPEN, IN_PROGRESS or DONE")
		}
		updates["status"] = req.Status
	}
	if isOwner {
		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.AssignedToID != nil {
			if err := s.checkAssignee(task.ProjectID, *req.AssignedToID); err != nil {
				return nil, err
			}
			updates["assigned_to_id"] = *req.AssignedToID
		}
	} else if req.Title != "" || req.Description != nil || req.AssignedToID != nil {
		return nil, response.NewForbidden("assignee can only update the task status")
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.get(taskID)
}

// Delete removes a task. OWNER only.
func (s *TaskService) Delete(taskID, actorID uint) error {
	task, err := s.get(taskID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(task.ProjectID, actorID); err != nil {
		return err
	}
	return s.db.Delete(&models.Task{}, taskID).Error
}

func (s *TaskService) get(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) checkAssignee(projectID, userID uint) error {
	role, err := s.access.ResolveRole(projectID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return response.NewBadRequest("assignee is not a member of this project")
	}
	return nil
}
