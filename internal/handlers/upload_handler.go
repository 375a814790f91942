package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
	"hrsystem/resume-ranker/internal/services"
)

type UploadHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	extractor      services.ExtractorService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewUploadHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	extractor services.ExtractorService,
	maxFileSize int64,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		extractor:      extractor,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleUpload accepts one resume document, stores it, and runs decoding and
// field extraction synchronously. The resume row exists before processing
// starts so a failed parse still leaves an auditable failed record.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided. Upload a resume as 'file'.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	format, err := services.FormatForFilename(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Allowed: .pdf, .doc, .docx",
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	resume := models.Resume{
		Filename:         filename,
		OriginalFilename: file.Filename,
		FilePath:         filePath,
		FileSize:         file.Size,
		MimeType:         file.Header.Get("Content-Type"),
		ProcessingStatus: models.StatusProcessing,
	}

	if err := h.resumeRepo.Create(&resume); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume record: %v", err),
		})
	}

	content, err := h.storageService.ReadFile(filePath)
	if err != nil {
		return h.failProcessing(c, resume, fmt.Sprintf("failed to read stored file: %v", err))
	}

	profile, rawText, err := h.extractor.ExtractFromDocument(c.Context(), content, format)
	if err != nil {
		return h.failProcessing(c, resume, err.Error())
	}

	parsed := repositories.ParsedResumeData{
		RawText:         rawText,
		CandidateName:   profile.Name,
		CandidateEmail:  profile.Email,
		CandidatePhone:  profile.Phone,
		Skills:          profile.Skills,
		ExperienceYears: profile.ExperienceYears,
		EducationLevels: profile.EducationLevels,
	}
	if err := h.resumeRepo.MarkCompleted(resume.ID, &parsed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store extraction result: %v", err),
		})
	}

	h.logger.Info("resume processed",
		zap.String("resume_id", resume.ID.String()),
		zap.String("candidate", profile.Name),
		zap.Int("skills", len(profile.Skills)),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Resume uploaded and processed successfully",
		"resume": models.UploadResponse{
			ID:           resume.ID.String(),
			Filename:     resume.Filename,
			OriginalName: resume.OriginalFilename,
			Status:       string(models.StatusCompleted),
		},
		"candidate": profile,
	})
}

func (h *UploadHandler) failProcessing(c *fiber.Ctx, resume models.Resume, reason string) error {
	if err := h.resumeRepo.MarkFailed(resume.ID, reason); err != nil {
		h.logger.Error("failed to record processing failure",
			zap.String("resume_id", resume.ID.String()),
			zap.Error(err),
		)
	}

	h.logger.Warn("resume processing failed",
		zap.String("resume_id", resume.ID.String()),
		zap.String("reason", reason),
	)

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": reason,
		"resume": models.UploadResponse{
			ID:           resume.ID.String(),
			Filename:     resume.Filename,
			OriginalName: resume.OriginalFilename,
			Status:       string(models.StatusFailed),
		},
	})
}
