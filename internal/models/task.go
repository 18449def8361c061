package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusOpen       = "OPEN"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task is a project-scoped work item, optionally assigned to a member.
type Task struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"index;not null" json:"project_id"`
	Title        string         `gorm:"size:300;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       string         `gorm:"size:20;not null;default:OPEN" json:"status"`
	AssignedToID *uint          `gorm:"index" json:"assigned_to_id"`
	AssignedTo   *User          `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy    uint           `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
