package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/config"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/logger"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/response"
)

// AIService drafts new test cases and critiques existing ones through a
// configurable text-completion backend. Requests are recorded as
// AIGeneration rows and processed off the request path by the
// generation queue.
type AIService struct {
	db     *gorm.DB
	cfg    *config.AIConfig
	access *AccessService
	usage  *AIUsageService
	queue  TaskQueue
}

func NewAIService(db *gorm.DB, cfg *config.AIConfig, queue TaskQueue) *AIService {
	return &AIService{
		db:     db,
		cfg:    cfg,
		access: NewAccessService(db),
		usage:  NewAIUsageService(db),
		queue:  queue,
	}
}

type DraftRequest struct {
	ModuleID     *uint  `json:"module_id"`
	Instructions string `json:"instructions" binding:"required"`
}

type CritiqueRequest struct {
	TestCaseID uint `json:"test_case_id" binding:"required"`
}

// RequestDraft queues a draft generation for the project and returns the
// pending record. The caller polls GetGeneration until it completes.
func (s *AIService) RequestDraft(userID, projectID uint, req *DraftRequest) (*models.AIGeneration, error) {
	if _, err := s.access.RequireMember(projectID, userID); err != nil {
		return nil, err
	}

	if req.ModuleID != nil {
		var module models.Module
		if err := s.db.Where("id = ? AND project_id = ?", *req.ModuleID, projectID).First(&module).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, response.NewBadRequest("module does not belong to this project")
			}
			return nil, err
		}
	}

	if err := s.usage.CheckAndRecord(userID, s.cfg.DailyLimit); err != nil {
		return nil, err
	}

	gen := models.AIGeneration{
		ProjectID:    projectID,
		UserID:       userID,
		Kind:         models.GenerationKindDraft,
		ModuleID:     req.ModuleID,
		Instructions: req.Instructions,
		Status:       models.GenerationStatusPending,
		Model:        s.cfg.Model,
	}
	if err := s.db.Create(&gen).Error; err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(&GenerationTask{GenerationID: gen.ID}); err != nil {
		logger.Errorf("[AI] Failed to enqueue draft generation %d: %v", gen.ID, err)
		return nil, err
	}
	return &gen, nil
}

// RequestCritique queues a critique of an existing test case.
func (s *AIService) RequestCritique(userID, projectID uint, req *CritiqueRequest) (*models.AIGeneration, error) {
	if _, err := s.access.RequireMember(projectID, userID); err != nil {
		return nil, err
	}

	var testCase models.TestCase
	if err := s.db.Where("id = ? AND project_id = ?", req.TestCaseID, projectID).First(&testCase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("test case not found")
		}
		return nil, err
	}

	if err := s.usage.CheckAndRecord(userID, s.cfg.DailyLimit); err != nil {
		return nil, err
	}

	caseID := testCase.ID
	gen := models.AIGeneration{
		ProjectID:  projectID,
		UserID:     userID,
		Kind:       models.GenerationKindCritique,
		TestCaseID: &caseID,
		Status:     models.GenerationStatusPending,
		Model:      s.cfg.Model,
	}
	if err := s.db.Create(&gen).Error; err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(&GenerationTask{GenerationID: gen.ID}); err != nil {
		logger.Errorf("[AI] Failed to enqueue critique generation %d: %v", gen.ID, err)
		return nil, err
	}
	return &gen, nil
}

// GetGeneration returns one generation record, member-gated through its
// project.
func (s *AIService) GetGeneration(userID, generationID uint) (*models.AIGeneration, error) {
	var gen models.AIGeneration
	if err := s.db.First(&gen, generationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("generation not found")
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(gen.ProjectID, userID); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Remaining reports today's unused AI quota for the user.
func (s *AIService) Remaining(userID uint) (int, error) {
	return s.usage.Remaining(userID, s.cfg.DailyLimit)
}

// ProcessGeneration is the queue processor. It builds the prompt for the
// pending generation, calls the configured provider, and records the
// outcome on the row.
func (s *AIService) ProcessGeneration(ctx context.Context, task *GenerationTask) error {
	var gen models.AIGeneration
	if err := s.db.First(&gen, task.GenerationID).Error; err != nil {
		return fmt.Errorf("generation %d not found: %w", task.GenerationID, err)
	}

	if gen.Status != models.GenerationStatusPending {
		logger.Infof("[AI] Generation %d already %s, skipping", gen.ID, gen.Status)
		return nil
	}

	prompt, err := s.buildPrompt(&gen)
	if err != nil {
		return s.fail(&gen, err)
	}

	logger.Infof("[AI] Processing generation %d (%s), prompt length: %d chars", gen.ID, gen.Kind, len(prompt))

	content, err := s.callLLM(ctx, prompt)
	if err != nil {
		return s.fail(&gen, err)
	}

	now := time.Now()
	return s.db.Model(&gen).Updates(map[string]interface{}{
		"status":       models.GenerationStatusCompleted,
		"content":      content,
		"completed_at": now,
	}).Error
}

func (s *AIService) fail(gen *models.AIGeneration, cause error) error {
	logger.Errorf("[AI] Generation %d failed: %v", gen.ID, cause)

	msg := cause.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	now := time.Now()
	if err := s.db.Model(gen).Updates(map[string]interface{}{
		"status":        models.GenerationStatusFailed,
		"error_message": msg,
		"completed_at":  now,
	}).Error; err != nil {
		return err
	}
	return cause
}

func (s *AIService) buildPrompt(gen *models.AIGeneration) (string, error) {
	switch gen.Kind {
	case models.GenerationKindDraft:
		return s.buildDraftPrompt(gen)
	case models.GenerationKindCritique:
		return s.buildCritiquePrompt(gen)
	default:
		return "", fmt.Errorf("unknown generation kind: %s", gen.Kind)
	}
}

func (s *AIService) buildDraftPrompt(gen *models.AIGeneration) (string, error) {
	var project models.Project
	if err := s.db.First(&project, gen.ProjectID).Error; err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an experienced QA engineer. Draft a test case for the following feature.\n\n")
	fmt.Fprintf(&b, "Project: %s\n", project.Name)
	if project.Description != "" {
		fmt.Fprintf(&b, "Project description: %s\n", project.Description)
	}

	if gen.ModuleID != nil {
		var module models.Module
		if err := s.db.First(&module, *gen.ModuleID).Error; err == nil {
			fmt.Fprintf(&b, "Module: %s\n", module.Name)
			if module.Description != "" {
				fmt.Fprintf(&b, "Module description: %s\n", module.Description)
			}
		}
	}

	fmt.Fprintf(&b, "\nInstructions from the requester:\n%s\n", gen.Instructions)
	b.WriteString(`
Respond with a single test case containing:
- Title (one line)
- Numbered steps, one action per line
- Overall expected result
- Suggested tags (comma-separated)
`)
	return b.String(), nil
}

func (s *AIService) buildCritiquePrompt(gen *models.AIGeneration) (string, error) {
	if gen.TestCaseID == nil {
		return "", fmt.Errorf("critique generation %d has no test case", gen.ID)
	}

	var testCase models.TestCase
	if err := s.db.First(&testCase, *gen.TestCaseID).Error; err != nil {
		return "", fmt.Errorf("test case not found: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an experienced QA engineer. Review the following test case and point out weaknesses: ambiguous steps, untestable expectations, uncovered edge cases.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", testCase.Title)
	if len(testCase.Steps) > 0 {
		b.WriteString("Steps:\n")
		for i, step := range testCase.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if testCase.ExpectedResult != "" {
		fmt.Fprintf(&b, "Expected result: %s\n", testCase.ExpectedResult)
	}
	if len(testCase.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(testCase.Tags, ", "))
	}

	b.WriteString("\nEnd with a short list of concrete improvements.\n")
	return b.String(), nil
}

// callLLM dispatches to the provider-specific function based on the
// configured provider.
func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	logger.Infof("[AI] Using provider: %s, model: %s", s.cfg.Provider, s.cfg.Model)

	switch s.cfg.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt)
	case "ollama":
		return s.callOllama(ctx, prompt)
	case "gemini":
		return s.callGemini(ctx, prompt)
	case "azure":
		return s.callAzure(ctx, prompt)
	default:
		// openai and other OpenAI-compatible services
		return s.callOpenAI(ctx, prompt)
	}
}

func (s *AIService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(s.cfg.APIKey)
	if s.cfg.BaseURL != "" {
		clientConfig.BaseURL = s.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] OpenAI response length: %d chars", len(content))
	return content, nil
}

func (s *AIService) callAnthropic(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(s.cfg.APIKey),
	)

	model := s.cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	logger.Infof("[AI] Anthropic response length: %d chars", len(content))
	return content, nil
}

func (s *AIService) callOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := s.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := s.cfg.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	result := content.String()
	logger.Infof("[AI] Ollama response length: %d chars", len(result))
	return result, nil
}

func (s *AIService) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := s.cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	content := resp.Text()
	logger.Infof("[AI] Gemini response length: %d chars", len(content))
	return content, nil
}

func (s *AIService) callAzure(ctx context.Context, prompt string) (string, error) {
	// Azure requires BaseURL format: https://{resource-name}.openai.azure.com
	// Model field is used as deployment name
	clientConfig := openai.DefaultAzureConfig(s.cfg.APIKey, s.cfg.BaseURL)
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] Azure OpenAI response length: %d chars", len(content))
	return content, nil
}
