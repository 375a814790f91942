package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt asks the model to pull structured candidate fields
// out of raw resume text as JSON.
func (pb *PromptBuilder) BuildExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract name, email, phone, education, experience, and skills from the following resume and return as JSON with keys: name, email, phone, education, experience_years, skills.

Rules:
- "skills" and "education" are arrays of strings.
- "experience_years" is the candidate's total years of experience as a number.
- Return ONLY the JSON object, no additional text.

Resume:
%s`, resumeText)
}

// BuildFitPrompt asks the model to rate a candidate's fit for a job
// description on a 0-10 scale.
func (pb *PromptBuilder) BuildFitPrompt(jobDescription, candidateText string) string {
	return fmt.Sprintf(`Job description:
%s

Candidate Skills & Experience:
%s

Rate the fit of this candidate for the job on a scale of 0-10 and return a JSON object in this format: {"score": <number>, "rationale": <string>}.`, jobDescription, candidateText)
}

// TrimToRelevantSections keeps only the resume sections that start with
// "skills" or "experience", the parts the fit prompt cares about. Sections
// are blank-line separated.
func TrimToRelevantSections(rawText string) string {
	sections := strings.Split(rawText, "\n\n")
	relevant := make([]string, 0, len(sections))
	for _, section := range sections {
		lower := strings.ToLower(strings.TrimSpace(section))
		if strings.HasPrefix(lower, "skills") || strings.HasPrefix(lower, "experience") {
			relevant = append(relevant, section)
		}
	}
	return strings.Join(relevant, "\n\n")
}
