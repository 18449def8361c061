package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

// InvitationTTL is how long an invitation token stays acceptable.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationService struct {
	db     *gorm.DB
	access *AccessService
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	return &InvitationService{db: db, access: NewAccessService(db)}
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// Create issues an invitation token for a project. OWNER only.
func (s *InvitationService) Create(projectID, actorID uint, req *CreateInvitationRequest) (*models.Invitation, error) {
	if err := s.access.RequireOwner(projectID, actorID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleContributor
	}
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("role must be OWNER or CONTRIBUTOR")
	}

	invitation := &models.Invitation{
		ProjectID: projectID,
		Email:     req.Email,
		Role:      role,
		Token:     uuid.NewString(),
		InvitedBy: actorID,
		ExpiresAt: time.Now().Add(InvitationTTL),
	}
	if err := s.db.Create(invitation).Error; err != nil {
		return nil, err
	}
	return invitation, nil
}

// List returns a project's open invitations. OWNER only.
func (s *InvitationService) List(projectID, actorID uint) ([]models.Invitation, error) {
	if err := s.access.RequireOwner(projectID, actorID); err != nil {
		return nil, err
	}

	var invitations []models.Invitation
	err := s.db.Where("project_id = ? AND accepted_at IS NULL", projectID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Accept redeems a token for the calling user, creating the membership
// row. Expired or already-used tokens are rejected; a user who is
// already a member cannot redeem a second membership.
func (s *InvitationService) Accept(token string, userID uint) (*models.ProjectMember, error) {
	var invitation models.Invitation
	if err := s.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invitation not found")
		}
		return nil, err
	}

	if invitation.AcceptedAt != nil {
		return nil, response.NewBadRequest("invitation has already been used")
	}
	if invitation.Expired(time.Now()) {
		return nil, response.NewBadRequest("invitation has expired")
	}

	role, err := s.access.ResolveRole(invitation.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if role != "" {
		return nil, response.NewBadRequest("already a member of this project")
	}

	member := &models.ProjectMember{
		ProjectID: invitation.ProjectID,
		UserID:    userID,
		Role:      invitation.Role,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&invitation).Updates(map[string]interface{}{
			"accepted_at": now,
			"accepted_by": userID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// PurgeExpired removes unaccepted invitations past their expiry. Called
// by the nightly sweeper.
func (s *InvitationService) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Where("accepted_at IS NULL AND expires_at < ?", now).Delete(&models.Invitation{})
	return res.RowsAffected, res.Error
}
