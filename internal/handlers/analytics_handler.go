package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
)

type AnalyticsHandler struct {
	resumeRepo  repositories.ResumeRepository
	jobRepo     repositories.JobRepository
	rankingRepo repositories.RankingRepository
}

func NewAnalyticsHandler(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	rankingRepo repositories.RankingRepository,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		resumeRepo:  resumeRepo,
		jobRepo:     jobRepo,
		rankingRepo: rankingRepo,
	}
}

func (h *AnalyticsHandler) HandleStats(c *fiber.Ctx) error {
	stats := models.StatsResponse{}

	var err error
	if stats.Resumes, err = h.resumeRepo.Count(); err != nil {
		return statsError(c, err)
	}
	if stats.Jobs, err = h.jobRepo.Count(); err != nil {
		return statsError(c, err)
	}
	if stats.Rankings, err = h.rankingRepo.Count(); err != nil {
		return statsError(c, err)
	}
	if stats.ActiveJobs, err = h.jobRepo.CountByStatus(models.JobStatusActive); err != nil {
		return statsError(c, err)
	}
	if stats.ProcessedResumes, err = h.resumeRepo.CountByStatus(models.StatusCompleted); err != nil {
		return statsError(c, err)
	}
	if stats.FailedResumes, err = h.resumeRepo.CountByStatus(models.StatusFailed); err != nil {
		return statsError(c, err)
	}

	return c.JSON(stats)
}

func statsError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to compute stats",
	})
}
