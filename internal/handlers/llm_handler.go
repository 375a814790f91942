package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/services"
)

// LLMHandler exposes the model-assisted operations directly: parsing resume
// text into structured fields and rating a single candidate against a job
// description. Both return the raw model output when it cannot be parsed so
// nothing is silently lost.
type LLMHandler struct {
	gateway       *services.CompletionGateway
	promptBuilder *services.PromptBuilder
}

func NewLLMHandler(gateway *services.CompletionGateway) *LLMHandler {
	return &LLMHandler{
		gateway:       gateway,
		promptBuilder: services.NewPromptBuilder(),
	}
}

func (h *LLMHandler) HandleParseResume(c *fiber.Ctx) error {
	var req models.ParseResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	prompt := h.promptBuilder.BuildExtractionPrompt(req.ResumeText)
	response, err := h.gateway.Complete(c.Context(), prompt)
	if err != nil {
		return h.completionError(c, err)
	}

	var parsed map[string]any
	if err := services.DecodeJSONResponse(response, "name", &parsed); err != nil {
		return unparseableResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"parsed": parsed,
	})
}

func (h *LLMHandler) HandleRankCandidate(c *fiber.Ctx) error {
	var req models.RankCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Resume == nil || strings.TrimSpace(req.Resume.RawText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume.raw_text is required",
		})
	}
	if strings.TrimSpace(req.Job) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job is required",
		})
	}

	// Only the skills and experience sections matter for the fit prompt;
	// trimming keeps the prompt small on long resumes.
	candidateText := services.TrimToRelevantSections(req.Resume.RawText)
	if candidateText == "" {
		candidateText = req.Resume.RawText
	}

	prompt := h.promptBuilder.BuildFitPrompt(req.Job, candidateText)
	response, err := h.gateway.Complete(c.Context(), prompt)
	if err != nil {
		return h.completionError(c, err)
	}

	var verdict struct {
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	}
	if err := services.DecodeJSONResponse(response, "score", &verdict); err != nil {
		return unparseableResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"score":     verdict.Score,
		"rationale": verdict.Rationale,
	})
}

func (h *LLMHandler) completionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingCredential):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "LLM features are not configured",
		})
	case errors.Is(err, services.ErrRateLimitExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Rate limit exceeded, try again later",
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func unparseableResponse(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"error": "Model response could not be parsed",
	}
	if raw, ok := services.RawResponse(err); ok {
		body["raw_response"] = raw
	}
	return c.Status(fiber.StatusBadGateway).JSON(body)
}
