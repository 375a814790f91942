package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

type Job struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Company        string    `gorm:"type:text" json:"company"`
	Location       string    `gorm:"type:text" json:"location"`
	EmploymentType string    `gorm:"type:text" json:"employment_type"`

	RequiredSkills          datatypes.JSONSlice[string] `json:"required_skills"`
	RequiredExperienceYears int                         `json:"required_experience_years"`
	RequiredEducation       string                      `gorm:"type:text" json:"required_education"`

	SalaryMin *float64 `json:"salary_min,omitempty"`
	SalaryMax *float64 `json:"salary_max,omitempty"`
	Currency  string   `gorm:"type:text;default:'USD'" json:"currency"`

	Status   JobStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	Priority int       `gorm:"default:1" json:"priority"`

	CreatedAt time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
	ExpiresAt *time.Time `gorm:"type:timestamp" json:"expires_at,omitempty"`

	Rankings []Ranking `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobRequirements is the read-only scoring input derived from a job record.
type JobRequirements struct {
	Skills          []string
	ExperienceYears int
	Education       string
	Description     string
}

func (j *Job) Requirements() JobRequirements {
	return JobRequirements{
		Skills:          j.RequiredSkills,
		ExperienceYears: j.RequiredExperienceYears,
		Education:       j.RequiredEducation,
		Description:     j.Description,
	}
}
