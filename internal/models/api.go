package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Status       string `json:"status"`
}

type CreateJobRequest struct {
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Company                 string   `json:"company"`
	Location                string   `json:"location"`
	EmploymentType          string   `json:"employment_type"`
	RequiredSkills          []string `json:"required_skills"`
	RequiredExperienceYears int      `json:"required_experience_years"`
	RequiredEducation       string   `json:"required_education"`
	SalaryMin               *float64 `json:"salary_min"`
	SalaryMax               *float64 `json:"salary_max"`
	Currency                string   `json:"currency"`
	Priority                int      `json:"priority"`
}

type RankRequest struct {
	JobID string `json:"job_id"`
}

type ParseResumeRequest struct {
	ResumeText string `json:"resume_text"`
}

type RankCandidateRequest struct {
	Resume *RankCandidateResume `json:"resume"`
	Job    string               `json:"job"`
}

type RankCandidateResume struct {
	RawText string `json:"raw_text"`
}

type PaginatedResponse struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
}

type StatsResponse struct {
	Resumes          int64 `json:"resumes"`
	Jobs             int64 `json:"jobs"`
	Rankings         int64 `json:"rankings"`
	ActiveJobs       int64 `json:"active_jobs"`
	ProcessedResumes int64 `json:"processed_resumes"`
	FailedResumes    int64 `json:"failed_resumes"`
}
