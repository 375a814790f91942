package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hrsystem/resume-ranker/internal/models"
)

type RankingRepository interface {
	Upsert(ranking *models.Ranking) error
	FindByID(id uuid.UUID) (*models.Ranking, error)
	FindByPair(resumeID, jobID uuid.UUID) (*models.Ranking, error)
	ListByJob(jobID uuid.UUID, page, perPage int) ([]models.Ranking, int64, error)
	ListByResume(resumeID uuid.UUID) ([]models.Ranking, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Upsert inserts the ranking or, when a row for the (resume, job) pair
// already exists, overwrites its scores in place.
func (r *rankingRepository) Upsert(ranking *models.Ranking) error {
	ranking.UpdatedAt = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_score",
			"skills_score",
			"experience_score",
			"education_score",
			"keywords_score",
			"confidence_score",
			"algorithm_version",
			"scoring_note",
			"updated_at",
		}),
	}).Create(ranking).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ranking: %w", err)
	}
	return nil
}

func (r *rankingRepository) FindByID(id uuid.UUID) (*models.Ranking, error) {
	var ranking models.Ranking
	if err := r.db.Where("id = ?", id).First(&ranking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("ranking not found")
		}
		return nil, fmt.Errorf("failed to find ranking: %w", err)
	}
	return &ranking, nil
}

func (r *rankingRepository) FindByPair(resumeID, jobID uuid.UUID) (*models.Ranking, error) {
	var ranking models.Ranking
	err := r.db.
		Where("resume_id = ? AND job_id = ?", resumeID, jobID).
		First(&ranking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ranking by pair: %w", err)
	}
	return &ranking, nil
}

func (r *rankingRepository) ListByJob(jobID uuid.UUID, page, perPage int) ([]models.Ranking, int64, error) {
	var rankings []models.Ranking
	var total int64

	if err := r.db.Model(&models.Ranking{}).
		Where("job_id = ?", jobID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rankings: %w", err)
	}

	err := r.db.
		Where("job_id = ?", jobID).
		Order("overall_score DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rankings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rankings by job: %w", err)
	}

	return rankings, total, nil
}

func (r *rankingRepository) ListByResume(resumeID uuid.UUID) ([]models.Ranking, error) {
	var rankings []models.Ranking
	err := r.db.
		Where("resume_id = ?", resumeID).
		Order("overall_score DESC").
		Find(&rankings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings by resume: %w", err)
	}
	return rankings, nil
}

func (r *rankingRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Ranking{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ranking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ranking not found")
	}
	return nil
}

func (r *rankingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Ranking{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rankings: %w", err)
	}
	return count, nil
}
