package services

import (
	"strings"
	"testing"
)

func TestTrimToRelevantSections(t *testing.T) {
	rawText := strings.Join([]string{
		"Jane Doe\njane@example.com",
		"Skills\nGo, SQL, Kubernetes",
		"Hobbies\nHiking and chess",
		"Experience\n5 years at Acme building services",
	}, "\n\n")

	trimmed := TrimToRelevantSections(rawText)

	if !strings.Contains(trimmed, "Go, SQL, Kubernetes") {
		t.Error("skills section missing from trimmed text")
	}
	if !strings.Contains(trimmed, "5 years at Acme") {
		t.Error("experience section missing from trimmed text")
	}
	if strings.Contains(trimmed, "Hobbies") {
		t.Error("irrelevant section kept in trimmed text")
	}
	if strings.Contains(trimmed, "jane@example.com") {
		t.Error("header section kept in trimmed text")
	}
}

func TestTrimToRelevantSections_NoRelevantSections(t *testing.T) {
	if got := TrimToRelevantSections("Jane Doe\n\nHobbies\nChess"); got != "" {
		t.Errorf("TrimToRelevantSections() = %q, want empty", got)
	}
}

func TestBuildExtractionPrompt_ContainsResumeAndKeys(t *testing.T) {
	prompt := NewPromptBuilder().BuildExtractionPrompt("RESUME BODY")

	if !strings.Contains(prompt, "RESUME BODY") {
		t.Error("prompt does not embed the resume text")
	}
	for _, key := range []string{"name", "email", "phone", "education", "experience_years", "skills"} {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing expected key %q", key)
		}
	}
}

func TestBuildFitPrompt_ContainsBothInputs(t *testing.T) {
	prompt := NewPromptBuilder().BuildFitPrompt("JOB DESC", "CANDIDATE TEXT")

	if !strings.Contains(prompt, "JOB DESC") || !strings.Contains(prompt, "CANDIDATE TEXT") {
		t.Error("prompt does not embed both inputs")
	}
	if !strings.Contains(prompt, `"score"`) {
		t.Error("prompt does not pin the response format")
	}
}
