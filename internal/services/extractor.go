package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hrsystem/resume-ranker/internal/config"
)

// Sentinel values for fields the pattern rules could not find. Absence is
// information: the scoring engine penalizes confidence for missing data
// instead of the extractor failing.
const (
	UnknownName  = "Unknown Name"
	UnknownEmail = "Unknown Email"
	UnknownPhone = "Unknown Phone"
)

// CandidateProfile is the structured output of field extraction.
type CandidateProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	EducationLevels []string `json:"education_levels"`
}

var (
	// Capitalized-word run at the start of the text. A known-weak
	// heuristic: letterhead or a headline can match instead of the
	// candidate's name, and that is accepted, not corrected.
	namePattern  = regexp.MustCompile(`^[A-Z][a-z]+(?:\s[A-Z][a-z]+)*`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*years?\s*experience`)
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ExtractorService derives a candidate profile from resume text. Extraction
// never fails; fields the rules cannot find come back as sentinels.
type ExtractorService interface {
	Extract(ctx context.Context, text string) CandidateProfile
	ExtractFromDocument(ctx context.Context, content []byte, format string) (CandidateProfile, string, error)
}

type extractorService struct {
	decoder        DecoderService
	gateway        completer
	promptBuilder  *PromptBuilder
	skillsVocab    []string
	educationVocab []string
	skillPatterns  []*regexp.Regexp
	eduPatterns    []*regexp.Regexp
	useLLM         bool
	logger         *zap.Logger
}

func NewExtractorService(
	decoder DecoderService,
	gateway completer,
	cfg config.ParserConfig,
	logger *zap.Logger,
) ExtractorService {
	return &extractorService{
		decoder:        decoder,
		gateway:        gateway,
		promptBuilder:  NewPromptBuilder(),
		skillsVocab:    cfg.SkillsVocabulary,
		educationVocab: cfg.EducationVocabulary,
		skillPatterns:  compileVocabulary(cfg.SkillsVocabulary),
		eduPatterns:    compileVocabulary(cfg.EducationVocabulary),
		useLLM:         cfg.UseLLMExtraction,
		logger:         logger,
	}
}

func compileVocabulary(vocab []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(vocab))
	for i, term := range vocab {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return patterns
}

// ExtractFromDocument decodes the raw document and extracts a profile from
// its text. This is the unit the upload handler invokes synchronously.
func (e *extractorService) ExtractFromDocument(ctx context.Context, content []byte, format string) (CandidateProfile, string, error) {
	text, err := e.decoder.Decode(content, format)
	if err != nil {
		return CandidateProfile{}, "", err
	}
	return e.Extract(ctx, text), text, nil
}

func (e *extractorService) Extract(ctx context.Context, text string) CandidateProfile {
	if e.useLLM && e.gateway != nil {
		profile, err := e.extractWithLLM(ctx, text)
		if err == nil {
			return profile
		}
		// Non-parseable or failed model responses fail over to the
		// pattern rules instead of propagating.
		e.logger.Warn("LLM extraction failed, falling back to pattern rules",
			zap.Error(err),
		)
	}
	return e.extractWithRules(text)
}

func (e *extractorService) extractWithRules(text string) CandidateProfile {
	return CandidateProfile{
		Name:            firstMatchOr(namePattern, text, UnknownName),
		Email:           firstMatchOr(emailPattern, text, UnknownEmail),
		Phone:           firstMatchOr(phonePattern, text, UnknownPhone),
		Skills:          e.matchVocabulary(e.skillPatterns, e.skillsVocab, text),
		ExperienceYears: extractExperienceYears(text),
		EducationLevels: e.matchVocabulary(e.eduPatterns, e.educationVocab, text),
	}
}

func firstMatchOr(pattern *regexp.Regexp, text, sentinel string) string {
	if match := pattern.FindString(text); match != "" {
		return match
	}
	return sentinel
}

// matchVocabulary returns the subset of the vocabulary present in the text
// as whole words, in vocabulary order rather than text order.
func (e *extractorService) matchVocabulary(patterns []*regexp.Regexp, vocab []string, text string) []string {
	found := make([]string, 0, len(vocab))
	for i, pattern := range patterns {
		if pattern.MatchString(text) {
			found = append(found, vocab[i])
		}
	}
	return found
}

func extractExperienceYears(text string) int {
	match := yearsPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	years, err := strconv.Atoi(match[1])
	if err != nil || years < 0 {
		return 0
	}
	return years
}

// llmProfile is the shape the extraction prompt asks the model to return.
// Numbers come back as strings often enough that experience is coerced.
type llmProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Skills          []string `json:"skills"`
	ExperienceYears any      `json:"experience_years"`
	Education       []string `json:"education"`
}

func (e *extractorService) extractWithLLM(ctx context.Context, text string) (CandidateProfile, error) {
	prompt := e.promptBuilder.BuildExtractionPrompt(text)

	response, err := e.gateway.Complete(ctx, prompt)
	if err != nil {
		return CandidateProfile{}, err
	}

	var parsed llmProfile
	if err := DecodeJSONResponse(response, "name", &parsed); err != nil {
		return CandidateProfile{}, err
	}

	profile := CandidateProfile{
		Name:            valueOr(parsed.Name, UnknownName),
		Email:           valueOr(parsed.Email, UnknownEmail),
		Phone:           valueOr(parsed.Phone, UnknownPhone),
		Skills:          parsed.Skills,
		ExperienceYears: coerceYears(parsed.ExperienceYears),
		EducationLevels: parsed.Education,
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.EducationLevels == nil {
		profile.EducationLevels = []string{}
	}
	return profile, nil
}

func valueOr(value, sentinel string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return sentinel
}

func coerceYears(value any) int {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if years, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && years > 0 {
			return years
		}
	}
	return 0
}
