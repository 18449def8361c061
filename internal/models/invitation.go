package models

import (
	"time"
)

// Invitation lets an OWNER bring a contributor into a project. The token
// is a UUID handed out once; accepting creates the membership row.
type Invitation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProjectID  uint       `gorm:"index;not null" json:"project_id"`
	Project    *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Email      string     `gorm:"size:255;not null" json:"email"`
	Role       string     `gorm:"size:20;not null" json:"role"`
	Token      string     `gorm:"uniqueIndex;size:64;not null" json:"token"`
	InvitedBy  uint       `gorm:"not null" json:"invited_by"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	AcceptedBy *uint      `json:"accepted_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Invitation) TableName() string { return "invitations" }

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
