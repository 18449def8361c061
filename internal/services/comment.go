package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type CommentService struct {
	db     *gorm.DB
	access *AccessService
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, access: NewAccessService(db)}
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create adds a comment to a test case. Any project member may comment.
func (s *CommentService) Create(caseID, actorID uint, req *CreateCommentRequest) (*models.Comment, error) {
	var tc models.TestCase
	if err := s.db.First(&tc, caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test case not found")
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(tc.ProjectID, actorID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TestCaseID: caseID,
		UserID:     actorID,
		Body:       req.Body,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a case's comments oldest first. Member read.
func (s *CommentService) List(caseID, actorID uint) ([]models.Comment, error) {
	var tc models.TestCase
	if err := s.db.First(&tc, caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test case not found")
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(tc.ProjectID, actorID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Where("test_case_id = ?", caseID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. Allowed to its author or the project OWNER.
func (s *CommentService) Delete(commentID, actorID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("comment not found")
		}
		return err
	}

	if comment.UserID != actorID {
		var tc models.TestCase
		if err := s.db.First(&tc, comment.TestCaseID).Error; err != nil {
			return err
		}
		if err := s.access.RequireOwner(tc.ProjectID, actorID); err != nil {
			return response.NewForbidden("only the author or project owner can delete a comment")
		}
	}

	return s.db.Delete(&models.Comment{}, commentID).Error
}
