package models

import (
	"time"

	"github.com/google/uuid"
)

const AlgorithmVersion = "1.0"

// Ranking holds the match scores for one (resume, job) pair. The unique
// index gives the pair upsert semantics: recomputing a ranking overwrites
// the existing row instead of creating a duplicate.
type Ranking struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rankings_resume_job" json:"resume_id"`
	JobID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rankings_resume_job" json:"job_id"`

	OverallScore    float64 `gorm:"not null" json:"overall_score"`
	SkillsScore     float64 `json:"skills_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	KeywordsScore   float64 `json:"keywords_score"`
	ConfidenceScore float64 `json:"confidence_score"`

	AlgorithmVersion string  `gorm:"type:text;default:'1.0'" json:"algorithm_version"`
	ScoringNote      *string `gorm:"type:text" json:"scoring_note,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Ranking) TableName() string {
	return "rankings"
}
