package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hrsystem/resume-ranker/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	FindCompleted() ([]models.Resume, error)
	List(page, perPage int) ([]models.Resume, int64, error)
	MarkCompleted(id uuid.UUID, parsed *ParsedResumeData) error
	MarkFailed(id uuid.UUID, errorMsg string) error
	Delete(id uuid.UUID) error
	CountByStatus(status models.ProcessingStatus) (int64, error)
	Count() (int64, error)
}

// ParsedResumeData carries the extraction output persisted when a resume
// finishes processing.
type ParsedResumeData struct {
	RawText         string
	CandidateName   string
	CandidateEmail  string
	CandidatePhone  string
	Skills          []string
	ExperienceYears int
	EducationLevels []string
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume not found")
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// FindCompleted returns every resume that finished processing. These are the
// candidates eligible for ranking.
func (r *resumeRepository) FindCompleted() ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Where("processing_status = ?", models.StatusCompleted).
		Order("uploaded_at ASC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find completed resumes: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) List(page, perPage int) ([]models.Resume, int64, error) {
	var resumes []models.Resume
	var total int64

	if err := r.db.Model(&models.Resume{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resumes: %w", err)
	}

	err := r.db.
		Order("uploaded_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&resumes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, total, nil
}

func (r *resumeRepository) MarkCompleted(id uuid.UUID, parsed *ParsedResumeData) error {
	now := time.Now()
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": models.StatusCompleted,
			"raw_text":          parsed.RawText,
			"candidate_name":    parsed.CandidateName,
			"candidate_email":   parsed.CandidateEmail,
			"candidate_phone":   parsed.CandidatePhone,
			"skills":            datatypes.NewJSONSlice(parsed.Skills),
			"experience_years":  parsed.ExperienceYears,
			"education_levels":  datatypes.NewJSONSlice(parsed.EducationLevels),
			"error_message":     nil,
			"processed_at":      now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark resume completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}

func (r *resumeRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	now := time.Now()
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": models.StatusFailed,
			"error_message":     errorMsg,
			"processed_at":      now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark resume failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}

func (r *resumeRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Resume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}

func (r *resumeRepository) CountByStatus(status models.ProcessingStatus) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Resume{}).
		Where("processing_status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count resumes by status: %w", err)
	}
	return count, nil
}

func (r *resumeRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Resume{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return count, nil
}
