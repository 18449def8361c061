package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedProject creates a project owned by owner, with the OWNER membership row.
func seedProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, CreatedBy: owner.ID}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	member := &models.ProjectMember{ProjectID: project.ID, UserID: owner.ID, Role: models.RoleOwner}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("seed owner membership: %v", err)
	}
	return project
}

func seedMember(t *testing.T, db *gorm.DB, project *models.Project, user *models.User, role string) {
	t.Helper()
	member := &models.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: role}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func seedCase(t *testing.T, db *gorm.DB, project *models.Project, title string) *models.TestCase {
	t.Helper()
	tc := &models.TestCase{
		ProjectID:      project.ID,
		Title:          title,
		Steps:          models.StringList{"open page", "click button"},
		ExpectedResult: "it works",
	}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("seed case %s: %v", title, err)
	}
	return tc
}
