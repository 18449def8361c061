package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

// AccessService is the access gate: it resolves a (user, project) pair to
// a role and authorizes actions. Pure lookups, no side effects. Every
// restricted read and every mutation goes through here before touching
// project rows.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ResolveRole returns the member's role in the project, or "" when the
// user is not a member.
func (s *AccessService) ResolveRole(projectID, userID uint) (string, error) {
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// RequireMember returns the caller's role, or a forbidden error when the
// user has no role in the project.
func (s *AccessService) RequireMember(projectID, userID uint) (string, error) {
	role, err := s.ResolveRole(projectID, userID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", response.NewForbidden("not a member of this project")
	}
	return role, nil
}

// RequireOwner rejects unless the caller's role is exactly OWNER.
func (s *AccessService) RequireOwner(projectID, userID uint) error {
	role, err := s.ResolveRole(projectID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleOwner {
		return response.NewForbidden("project owner required")
	}
	return nil
}
