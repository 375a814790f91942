package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Resume stores one uploaded candidate document together with the text and
// structured fields derived from it. The raw file bytes are not retained
// beyond the stored copy on disk; everything downstream works off RawText
// and the parsed columns.
type Resume struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text;not null" json:"filename"`
	OriginalFilename string    `gorm:"type:text;not null" json:"original_filename"`
	FilePath         string    `gorm:"type:text;not null" json:"-"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `gorm:"type:text" json:"mime_type"`

	RawText string `gorm:"type:text" json:"raw_text,omitempty"`

	CandidateName   string                      `gorm:"type:text" json:"candidate_name"`
	CandidateEmail  string                      `gorm:"type:text" json:"candidate_email"`
	CandidatePhone  string                      `gorm:"type:text" json:"candidate_phone"`
	Skills          datatypes.JSONSlice[string] `json:"skills"`
	ExperienceYears int                         `json:"experience_years"`
	EducationLevels datatypes.JSONSlice[string] `json:"education_levels"`

	ProcessingStatus ProcessingStatus `gorm:"type:text;not null;default:'pending'" json:"processing_status"`
	ErrorMessage     *string          `gorm:"type:text" json:"error_message,omitempty"`

	UploadedAt  time.Time  `gorm:"type:timestamp;default:now()" json:"uploaded_at"`
	ProcessedAt *time.Time `gorm:"type:timestamp" json:"processed_at,omitempty"`

	Rankings []Ranking `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Resume) TableName() string {
	return "resumes"
}
