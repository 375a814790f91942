package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
	"hrsystem/resume-ranker/internal/services"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type ResumeHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	logger         *zap.Logger
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	logger *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		logger:         logger,
	}
}

func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	page, perPage := paginationParams(c)

	resumes, total, err := h.resumeRepo.List(page, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list resumes",
		})
	}

	// Raw text is large; the list view returns metadata only.
	items := make([]fiber.Map, 0, len(resumes))
	for _, resume := range resumes {
		items = append(items, resumeSummary(resume))
	}

	return c.JSON(fiber.Map{
		"resumes":      items,
		"total":        total,
		"pages":        totalPages(total, perPage),
		"current_page": page,
	})
}

func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	response := resumeSummary(*resume)
	if c.QueryBool("include_text") {
		response["raw_text"] = resume.RawText
	}

	return c.JSON(response)
}

// HandleDelete removes the stored file and the database row. Rankings for the
// resume go with it via the cascade constraint.
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	if err := h.storageService.DeleteFile(resume.FilePath); err != nil {
		// The row is still deleted; an orphaned file beats an undeletable record.
		h.logger.Warn("failed to delete stored resume file",
			zap.String("resume_id", id.String()),
			zap.Error(err),
		)
	}

	if err := h.resumeRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete resume",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Resume deleted successfully",
	})
}

func resumeSummary(resume models.Resume) fiber.Map {
	return fiber.Map{
		"id":                resume.ID.String(),
		"original_filename": resume.OriginalFilename,
		"file_size":         resume.FileSize,
		"candidate_name":    resume.CandidateName,
		"candidate_email":   resume.CandidateEmail,
		"candidate_phone":   resume.CandidatePhone,
		"skills":            resume.Skills,
		"experience_years":  resume.ExperienceYears,
		"education_levels":  resume.EducationLevels,
		"processing_status": resume.ProcessingStatus,
		"error_message":     resume.ErrorMessage,
		"uploaded_at":       resume.UploadedAt,
		"processed_at":      resume.ProcessedAt,
	}
}

func paginationParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
