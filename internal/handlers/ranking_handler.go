package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
	"hrsystem/resume-ranker/internal/services"
)

type RankingHandler struct {
	rankingRepo repositories.RankingRepository
	resumeRepo  repositories.ResumeRepository
	ranker      services.RankerService
}

func NewRankingHandler(
	rankingRepo repositories.RankingRepository,
	resumeRepo repositories.ResumeRepository,
	ranker services.RankerService,
) *RankingHandler {
	return &RankingHandler{
		rankingRepo: rankingRepo,
		resumeRepo:  resumeRepo,
		ranker:      ranker,
	}
}

// HandleRankJob scores every processed resume against the requested job and
// returns the full batch, best match first. Re-running it refreshes the
// stored rankings in place.
func (h *RankingHandler) HandleRankJob(c *fiber.Ctx) error {
	var req models.RankRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	rankings, err := h.ranker.RankJob(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, services.ErrNoProcessedResumes) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No processed resumes available to rank",
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"job_id":   jobID.String(),
		"ranked":   len(rankings),
		"rankings": rankings,
	})
}

// HandleListByJob returns a job's stored rankings best first, each joined
// with a summary of the ranked candidate.
func (h *RankingHandler) HandleListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	page, perPage := paginationParams(c)

	rankings, total, err := h.rankingRepo.ListByJob(jobID, page, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rankings",
		})
	}

	items := make([]fiber.Map, 0, len(rankings))
	for _, ranking := range rankings {
		item := fiber.Map{
			"ranking": ranking,
		}
		if resume, err := h.resumeRepo.FindByID(ranking.ResumeID); err == nil {
			item["candidate"] = fiber.Map{
				"id":               resume.ID.String(),
				"name":             resume.CandidateName,
				"email":            resume.CandidateEmail,
				"experience_years": resume.ExperienceYears,
				"skills":           resume.Skills,
			}
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{
		"job_id":       jobID.String(),
		"rankings":     items,
		"total":        total,
		"pages":        totalPages(total, perPage),
		"current_page": page,
	})
}

func (h *RankingHandler) HandleListByResume(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	rankings, err := h.rankingRepo.ListByResume(resumeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rankings",
		})
	}

	return c.JSON(fiber.Map{
		"resume_id": resumeID.String(),
		"rankings":  rankings,
	})
}

func (h *RankingHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ranking ID format",
		})
	}

	if err := h.rankingRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ranking not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Ranking deleted successfully",
	})
}
