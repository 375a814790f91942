package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
}

func NewJobHandler(jobRepo repositories.JobRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job title is required",
		})
	}

	job := models.Job{
		Title:                   req.Title,
		Description:             req.Description,
		Company:                 req.Company,
		Location:                req.Location,
		EmploymentType:          req.EmploymentType,
		RequiredSkills:          datatypes.NewJSONSlice(req.RequiredSkills),
		RequiredExperienceYears: req.RequiredExperienceYears,
		RequiredEducation:       req.RequiredEducation,
		SalaryMin:               req.SalaryMin,
		SalaryMax:               req.SalaryMax,
		Status:                  models.JobStatusActive,
		Priority:                req.Priority,
	}
	if req.Currency != "" {
		job.Currency = req.Currency
	}

	if err := h.jobRepo.Create(&job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	page, perPage := paginationParams(c)

	jobs, total, err := h.jobRepo.List(page, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	return c.JSON(fiber.Map{
		"jobs":         jobs,
		"total":        total,
		"pages":        totalPages(total, perPage),
		"current_page": page,
	})
}

func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(job)
}

func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Company != "" {
		job.Company = req.Company
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if req.EmploymentType != "" {
		job.EmploymentType = req.EmploymentType
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = datatypes.NewJSONSlice(req.RequiredSkills)
	}
	if req.RequiredExperienceYears > 0 {
		job.RequiredExperienceYears = req.RequiredExperienceYears
	}
	if req.RequiredEducation != "" {
		job.RequiredEducation = req.RequiredEducation
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.Currency != "" {
		job.Currency = req.Currency
	}
	if req.Priority > 0 {
		job.Priority = req.Priority
	}

	if err := h.jobRepo.Update(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update job",
		})
	}

	return c.JSON(job)
}

func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	if err := h.jobRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted successfully",
	})
}
