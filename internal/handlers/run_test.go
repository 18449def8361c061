package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/middleware"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/utils"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-handler-testing")
}

// runTestRouter wires the run routes behind real auth against a fresh
// in-memory database, returning the router and a seeded project owner.
func runTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *models.User, *models.Project) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "irrelevant-hash"}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	project := &models.Project{Name: "Web App", CreatedBy: owner.ID}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	member := &models.ProjectMember{ProjectID: project.ID, UserID: owner.ID, Role: models.RoleOwner}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	tc := &models.TestCase{ProjectID: project.ID, Title: "Login works"}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("seed case: %v", err)
	}

	router := gin.New()
	runHandler := NewRunHandler(db)
	api := router.Group("/api", middleware.AuthRequired())
	api.POST("/projects/:id/runs", runHandler.Create)
	api.GET("/projects/:id/runs", runHandler.List)
	return router, db, owner, project
}

func authedRequest(t *testing.T, user *models.User, method, path string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Username, 1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRunCreate_Returns200(t *testing.T) {
	router, db, owner, project := runTestRouter(t)

	w := httptest.NewRecorder()
	req := authedRequest(t, owner, "POST", "/api/projects/1/runs", map[string]string{"name": "Release run"})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp response.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["name"] != "Release run" {
		t.Errorf("run name = %v, expected Release run", data["name"])
	}

	var count int64
	db.Model(&models.TestRun{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 run row, got %d", count)
	}
}

func TestRunCreate_MissingNameRejected(t *testing.T) {
	router, _, owner, _ := runTestRouter(t)

	w := httptest.NewRecorder()
	req := authedRequest(t, owner, "POST", "/api/projects/1/runs", map[string]string{})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRunCreate_Unauthenticated(t *testing.T) {
	router, _, _, _ := runTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/projects/1/runs", bytes.NewBufferString(`{"name":"r1"}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
