package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
)

type fakeResumeRepo struct {
	completed []models.Resume
	err       error
}

func (f *fakeResumeRepo) Create(*models.Resume) error { return nil }
func (f *fakeResumeRepo) FindByID(uuid.UUID) (*models.Resume, error) {
	return nil, errors.New("not found")
}
func (f *fakeResumeRepo) FindCompleted() ([]models.Resume, error)       { return f.completed, f.err }
func (f *fakeResumeRepo) List(int, int) ([]models.Resume, int64, error) { return nil, 0, nil }
func (f *fakeResumeRepo) MarkCompleted(uuid.UUID, *repositories.ParsedResumeData) error {
	return nil
}
func (f *fakeResumeRepo) MarkFailed(uuid.UUID, string) error                   { return nil }
func (f *fakeResumeRepo) Delete(uuid.UUID) error                               { return nil }
func (f *fakeResumeRepo) CountByStatus(models.ProcessingStatus) (int64, error) { return 0, nil }
func (f *fakeResumeRepo) Count() (int64, error)                                { return 0, nil }

type fakeJobRepo struct {
	job *models.Job
	err error
}

func (f *fakeJobRepo) Create(*models.Job) error                      { return nil }
func (f *fakeJobRepo) FindByID(uuid.UUID) (*models.Job, error)       { return f.job, f.err }
func (f *fakeJobRepo) List(int, int) ([]models.Job, int64, error)    { return nil, 0, nil }
func (f *fakeJobRepo) Update(*models.Job) error                      { return nil }
func (f *fakeJobRepo) Delete(uuid.UUID) error                        { return nil }
func (f *fakeJobRepo) CountByStatus(models.JobStatus) (int64, error) { return 0, nil }
func (f *fakeJobRepo) Count() (int64, error)                         { return 0, nil }

// fakeRankingRepo records upserts keyed by (resume, job). Workers upsert
// concurrently so it locks.
type fakeRankingRepo struct {
	mu      sync.Mutex
	upserts map[string]int
	failFor uuid.UUID
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{upserts: make(map[string]int)}
}

func (f *fakeRankingRepo) Upsert(ranking *models.Ranking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ranking.ResumeID == f.failFor {
		return errors.New("constraint violation")
	}
	f.upserts[ranking.ResumeID.String()+"/"+ranking.JobID.String()]++
	return nil
}

func (f *fakeRankingRepo) FindByID(uuid.UUID) (*models.Ranking, error) {
	return nil, errors.New("not found")
}
func (f *fakeRankingRepo) FindByPair(uuid.UUID, uuid.UUID) (*models.Ranking, error) {
	return nil, nil
}
func (f *fakeRankingRepo) ListByJob(uuid.UUID, int, int) ([]models.Ranking, int64, error) {
	return nil, 0, nil
}
func (f *fakeRankingRepo) ListByResume(uuid.UUID) ([]models.Ranking, error) { return nil, nil }
func (f *fakeRankingRepo) Delete(uuid.UUID) error                           { return nil }
func (f *fakeRankingRepo) Count() (int64, error)                            { return 0, nil }

func testJob() *models.Job {
	return &models.Job{
		ID:                      uuid.New(),
		Title:                   "Backend Engineer",
		Description:             "Python Flask services and SQL pipelines",
		RequiredSkills:          datatypes.NewJSONSlice([]string{"Python", "SQL"}),
		RequiredExperienceYears: 3,
		RequiredEducation:       "Bachelor's degree",
	}
}

func completedResume(name string, skills []string, years int) models.Resume {
	return models.Resume{
		ID:               uuid.New(),
		CandidateName:    name,
		RawText:          fmt.Sprintf("%s resume text", name),
		Skills:           datatypes.NewJSONSlice(skills),
		ExperienceYears:  years,
		EducationLevels:  datatypes.NewJSONSlice([]string{"Bachelor of Science"}),
		ProcessingStatus: models.StatusCompleted,
	}
}

func TestRankJob_RanksAllCandidatesBestFirst(t *testing.T) {
	job := testJob()
	resumes := []models.Resume{
		completedResume("Weak Match", nil, 0),
		completedResume("Strong Match", []string{"Python", "SQL"}, 5),
		completedResume("Partial Match", []string{"Python"}, 2),
	}

	rankingRepo := newFakeRankingRepo()
	ranker := NewRankerService(
		&fakeResumeRepo{completed: resumes},
		&fakeJobRepo{job: job},
		rankingRepo,
		2,
		zap.NewNop(),
	)

	rankings, err := ranker.RankJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("RankJob() error = %v", err)
	}
	if len(rankings) != 3 {
		t.Fatalf("len(rankings) = %d, want 3", len(rankings))
	}

	for i := 1; i < len(rankings); i++ {
		if rankings[i-1].OverallScore < rankings[i].OverallScore {
			t.Errorf("rankings not in descending order: %v before %v",
				rankings[i-1].OverallScore, rankings[i].OverallScore)
		}
	}

	if len(rankingRepo.upserts) != 3 {
		t.Errorf("upserted %d pairs, want 3", len(rankingRepo.upserts))
	}
	for pair, count := range rankingRepo.upserts {
		if count != 1 {
			t.Errorf("pair %s upserted %d times, want 1", pair, count)
		}
	}

	for _, ranking := range rankings {
		if ranking.JobID != job.ID {
			t.Errorf("ranking JobID = %v, want %v", ranking.JobID, job.ID)
		}
		if ranking.AlgorithmVersion != models.AlgorithmVersion {
			t.Errorf("AlgorithmVersion = %q, want %q", ranking.AlgorithmVersion, models.AlgorithmVersion)
		}
		if ranking.OverallScore < 0.0 || ranking.OverallScore > 1.0 {
			t.Errorf("OverallScore = %v, out of [0,1]", ranking.OverallScore)
		}
	}
}

func TestRankJob_RerunOverwritesInsteadOfDuplicating(t *testing.T) {
	job := testJob()
	resumes := []models.Resume{
		completedResume("Candidate", []string{"Python"}, 4),
	}

	rankingRepo := newFakeRankingRepo()
	ranker := NewRankerService(
		&fakeResumeRepo{completed: resumes},
		&fakeJobRepo{job: job},
		rankingRepo,
		1,
		zap.NewNop(),
	)

	for i := 0; i < 2; i++ {
		if _, err := ranker.RankJob(context.Background(), job.ID); err != nil {
			t.Fatalf("RankJob() run %d error = %v", i+1, err)
		}
	}

	if len(rankingRepo.upserts) != 1 {
		t.Fatalf("upserted %d pairs, want 1", len(rankingRepo.upserts))
	}
	pair := resumes[0].ID.String() + "/" + job.ID.String()
	if rankingRepo.upserts[pair] != 2 {
		t.Errorf("pair upserted %d times, want 2 (one per run)", rankingRepo.upserts[pair])
	}
}

func TestRankJob_NoProcessedResumes(t *testing.T) {
	ranker := NewRankerService(
		&fakeResumeRepo{},
		&fakeJobRepo{job: testJob()},
		newFakeRankingRepo(),
		2,
		zap.NewNop(),
	)

	_, err := ranker.RankJob(context.Background(), uuid.New())
	if !errors.Is(err, ErrNoProcessedResumes) {
		t.Fatalf("RankJob() error = %v, want ErrNoProcessedResumes", err)
	}
}

func TestRankJob_UnknownJob(t *testing.T) {
	ranker := NewRankerService(
		&fakeResumeRepo{},
		&fakeJobRepo{err: errors.New("job not found")},
		newFakeRankingRepo(),
		2,
		zap.NewNop(),
	)

	if _, err := ranker.RankJob(context.Background(), uuid.New()); err == nil {
		t.Fatal("RankJob() error = nil, want job lookup failure")
	}
}

func TestRankJob_PersistFailureSkipsCandidate(t *testing.T) {
	job := testJob()
	resumes := []models.Resume{
		completedResume("Persisted", []string{"Python"}, 3),
		completedResume("Dropped", []string{"SQL"}, 3),
	}

	rankingRepo := newFakeRankingRepo()
	rankingRepo.failFor = resumes[1].ID

	ranker := NewRankerService(
		&fakeResumeRepo{completed: resumes},
		&fakeJobRepo{job: job},
		rankingRepo,
		2,
		zap.NewNop(),
	)

	rankings, err := ranker.RankJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("RankJob() error = %v", err)
	}
	if len(rankings) != 1 {
		t.Fatalf("len(rankings) = %d, want 1 (failed candidate skipped)", len(rankings))
	}
	if rankings[0].ResumeID != resumes[0].ID {
		t.Errorf("ranked resume = %v, want the persisted one", rankings[0].ResumeID)
	}
}
