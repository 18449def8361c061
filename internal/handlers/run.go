package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/middleware"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/services"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type RunHandler struct {
	runService *services.RunService
}

func NewRunHandler(db *gorm.DB) *RunHandler {
	return &RunHandler{
		runService: services.NewRunService(db),
	}
}

type createRunRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create starts a run, snapshotting the project's current test cases
// POST /api/projects/:id/runs
func (h *RunHandler) Create(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	run, err := h.runService.Create(projectID, middleware.GetUserID(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// List returns a project's runs with their summaries
// GET /api/projects/:id/runs
func (h *RunHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	runs, err := h.runService.List(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, runs)
}

// GetByID returns one run with results and summary
// GET /api/runs/:id
func (h *RunHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.runService.Get(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, detail)
}

type assignRunRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

// Assign sets or toggles off the run's assignee. OWNER only
// POST /api/runs/:id/assign
func (h *RunHandler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req assignRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	run, err := h.runService.Assign(id, middleware.GetUserID(c), req.AssigneeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// Start moves the run to IN_PROGRESS. Assignee only
// POST /api/runs/:id/start
func (h *RunHandler) Start(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	run, err := h.runService.Start(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// Complete locks the run. Any member; idempotent
// POST /api/runs/:id/complete
func (h *RunHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	run, err := h.runService.Complete(id, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}

// Delete removes the run and its results. OWNER only
// DELETE /api/runs/:id
func (h *RunHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.runService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "run deleted"})
}

type updateResultRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateResult records a verdict on one snapshot row
// PATCH /api/results/:id
func (h *RunHandler) UpdateResult(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.runService.UpdateResult(id, middleware.GetUserID(c), req.Status, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
