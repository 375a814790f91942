package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
)

var ErrNoProcessedResumes = errors.New("no processed resumes found")

// RankerService scores every eligible candidate against one job and
// persists one ranking per (resume, job) pair.
type RankerService interface {
	RankJob(ctx context.Context, jobID uuid.UUID) ([]models.Ranking, error)
}

type rankerService struct {
	resumeRepo  repositories.ResumeRepository
	jobRepo     repositories.JobRepository
	rankingRepo repositories.RankingRepository
	concurrency int
	logger      *zap.Logger
}

func NewRankerService(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	rankingRepo repositories.RankingRepository,
	concurrency int,
	logger *zap.Logger,
) RankerService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &rankerService{
		resumeRepo:  resumeRepo,
		jobRepo:     jobRepo,
		rankingRepo: rankingRepo,
		concurrency: concurrency,
		logger:      logger,
	}
}

// RankJob scores all completed resumes against the job, upserting one
// ranking per pair and returning the batch sorted by descending overall
// score. Scoring runs on a bounded worker pool; each candidate is
// independent and a failure to persist one is logged and skipped.
func (s *rankerService) RankJob(ctx context.Context, jobID uuid.UUID) ([]models.Ranking, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	resumes, err := s.resumeRepo.FindCompleted()
	if err != nil {
		return nil, err
	}
	if len(resumes) == 0 {
		return nil, ErrNoProcessedResumes
	}

	requirements := job.Requirements()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		rankings []models.Ranking
	)

	work := make(chan models.Resume)

	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for resume := range work {
				ranking, err := s.rankCandidate(resume, job, requirements)
				if err != nil {
					s.logger.Error("skipping candidate after ranking failure",
						zap.String("resume_id", resume.ID.String()),
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
					continue
				}

				mu.Lock()
				rankings = append(rankings, *ranking)
				mu.Unlock()
			}
		}()
	}

	for _, resume := range resumes {
		work <- resume
	}
	close(work)
	wg.Wait()

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].OverallScore > rankings[j].OverallScore
	})

	s.logger.Info("ranking batch completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("candidates", len(resumes)),
		zap.Int("ranked", len(rankings)),
	)

	return rankings, nil
}

func (s *rankerService) rankCandidate(resume models.Resume, job *models.Job, requirements models.JobRequirements) (*models.Ranking, error) {
	profile := CandidateProfile{
		Name:            resume.CandidateName,
		Email:           resume.CandidateEmail,
		Phone:           resume.CandidatePhone,
		Skills:          resume.Skills,
		ExperienceYears: resume.ExperienceYears,
		EducationLevels: resume.EducationLevels,
	}

	breakdown := Score(profile, resume.RawText, requirements)

	ranking := &models.Ranking{
		ResumeID:         resume.ID,
		JobID:            job.ID,
		OverallScore:     breakdown.Overall,
		SkillsScore:      breakdown.Skills,
		ExperienceScore:  breakdown.Experience,
		EducationScore:   breakdown.Education,
		KeywordsScore:    breakdown.Keywords,
		ConfidenceScore:  breakdown.Confidence,
		AlgorithmVersion: models.AlgorithmVersion,
	}
	if breakdown.Note != "" {
		ranking.ScoringNote = &breakdown.Note
	}

	if err := s.rankingRepo.Upsert(ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}
