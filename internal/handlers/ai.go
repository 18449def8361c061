package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/middleware"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/services"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// Draft queues an AI-drafted test case for the project
// POST /api/projects/:id/ai/draft
func (h *AIHandler) Draft(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	gen, err := h.aiService.RequestDraft(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gen)
}

// Critique queues an AI critique of an existing test case
// POST /api/projects/:id/ai/critique
func (h *AIHandler) Critique(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CritiqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	gen, err := h.aiService.RequestCritique(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gen)
}

// GetGeneration returns the state of one generation for polling
// GET /api/ai/generations/:id
func (h *AIHandler) GetGeneration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gen, err := h.aiService.GetGeneration(middleware.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gen)
}

// Quota reports today's remaining AI calls for the caller
// GET /api/ai/quota
func (h *AIHandler) Quota(c *gin.Context) {
	remaining, err := h.aiService.Remaining(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"remaining": remaining})
}
