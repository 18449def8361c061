package models

import (
	"time"
)

// Project roles. There is no hierarchy: OWNER gates project-level
// mutations, CONTRIBUTOR grants execution-level access. Result mutation
// has its own narrower gate on the run (assignee or creator).
const (
	RoleOwner       = "OWNER"
	RoleContributor = "CONTRIBUTOR"
)

// ProjectMember maps a (user, project) pair to a role. Unique per pair;
// created when a project is made (owner) or an invitation is accepted
// (contributor). Never updated in place.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;not null" json:"role"` // OWNER, CONTRIBUTOR
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectMember) TableName() string { return "project_members" }

// ValidRole reports whether s is a known project role.
func ValidRole(s string) bool {
	return s == RoleOwner || s == RoleContributor
}
