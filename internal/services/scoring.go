package services

import (
	"fmt"
	"strings"

	"hrsystem/resume-ranker/internal/models"
)

// ScoreBreakdown holds the four component scores plus the combined overall
// and confidence scores for one candidate-job pair. All values live in
// [0,1]; Overall == weighted(breakdown) * Confidence, clamped.
type ScoreBreakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Keywords   float64 `json:"keywords"`
	Overall    float64 `json:"overall_score"`
	Confidence float64 `json:"confidence_score"`

	// Note is set only when scoring faulted and the minimum-score
	// breakdown was substituted.
	Note string `json:"note,omitempty"`
}

// Component weights of the ranking formula. Fixed and auditable; replacing
// them with a learned model is out of scope.
const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightEducation  = 0.2
	weightKeywords   = 0.1

	componentCount = 4

	// Overall score substituted when scoring faults internally.
	faultedOverallScore = 0.1
)

// Ordinal ranking of recognized education levels, matched by case-insensitive
// substring containment.
var educationOrdinals = map[string]int{
	"high school": 1,
	"associate":   2,
	"bachelor":    3,
	"master":      4,
	"phd":         5,
	"doctorate":   5,
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {}, "must": {},
	"shall": {}, "a": {}, "an": {}, "this": {}, "that": {}, "these": {},
	"those": {},
}

// Score computes the match breakdown for one candidate against one job.
// It never fails: an internal fault is absorbed into a minimum-score
// breakdown with the fault recorded in Note.
func Score(profile CandidateProfile, resumeText string, job models.JobRequirements) (breakdown ScoreBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			breakdown = ScoreBreakdown{
				Overall: faultedOverallScore,
				Note:    fmt.Sprintf("scoring fault: %v", r),
			}
		}
	}()

	breakdown = ScoreBreakdown{
		Skills:     skillMatchScore(profile.Skills, job.Skills),
		Experience: experienceScore(profile.ExperienceYears, job.ExperienceYears),
		Education:  educationScore(profile.EducationLevels, job.Education),
		Keywords:   keywordDensityScore(resumeText, job.Description),
	}

	weighted := (breakdown.Skills*weightSkills +
		breakdown.Experience*weightExperience +
		breakdown.Education*weightEducation +
		breakdown.Keywords*weightKeywords) /
		(weightSkills + weightExperience + weightEducation + weightKeywords)

	breakdown.Confidence = confidenceScore(breakdown)
	breakdown.Overall = clamp01(weighted * breakdown.Confidence)
	return breakdown
}

// skillMatchScore is the case-insensitive fraction of required skills the
// candidate has. Zero when either side has no skills.
func skillMatchScore(candidateSkills, requiredSkills []string) float64 {
	if len(candidateSkills) == 0 || len(requiredSkills) == 0 {
		return 0.0
	}

	candidate := make(map[string]struct{}, len(candidateSkills))
	for _, skill := range candidateSkills {
		candidate[strings.ToLower(skill)] = struct{}{}
	}

	required := make(map[string]struct{}, len(requiredSkills))
	for _, skill := range requiredSkills {
		required[strings.ToLower(skill)] = struct{}{}
	}

	matched := 0
	for skill := range required {
		if _, ok := candidate[skill]; ok {
			matched++
		}
	}

	return min01(float64(matched) / float64(len(required)))
}

// experienceScore compares years of experience against the requirement.
// Missing data on either side scores a neutral 0.5 rather than a penalty.
//
// The bonus for excess experience is added to 1.0 and then capped at 1.0,
// so experience beyond the requirement never raises the score above an
// exact match. Preserved as-is; flagged for product review, not fixed.
func experienceScore(candidateYears, requiredYears int) float64 {
	if candidateYears == 0 || requiredYears == 0 {
		return 0.5
	}

	if candidateYears >= requiredYears {
		excess := float64(candidateYears - requiredYears)
		bonus := excess * 0.1
		if bonus > 0.3 {
			bonus = 0.3
		}
		return min01(1.0 + bonus)
	}

	ratio := float64(candidateYears) / float64(requiredYears)
	if ratio < 0.1 {
		return 0.1
	}
	return ratio
}

// educationScore maps both sides onto the ordinal scale and compares the
// highest recognized level on each. Unrecognized candidate levels score
// 0.3; an unrecognized requirement scores 0.7.
func educationScore(candidateLevels []string, requiredEducation string) float64 {
	if len(candidateLevels) == 0 {
		return 0.3
	}
	if requiredEducation == "" {
		return 0.7
	}

	candidateOrdinal := 0
	for _, level := range candidateLevels {
		if ordinal := educationOrdinal(level); ordinal > candidateOrdinal {
			candidateOrdinal = ordinal
		}
	}

	requiredOrdinal := educationOrdinal(requiredEducation)

	if candidateOrdinal >= requiredOrdinal {
		return 1.0
	}
	if candidateOrdinal > 0 {
		return float64(candidateOrdinal) / float64(requiredOrdinal)
	}
	return 0.3
}

func educationOrdinal(text string) int {
	lower := strings.ToLower(text)
	highest := 0
	for level, ordinal := range educationOrdinals {
		if strings.Contains(lower, level) && ordinal > highest {
			highest = ordinal
		}
	}
	return highest
}

// keywordDensityScore is the fraction of the job description's distinct
// non-stop-word tokens that also appear in the resume text.
func keywordDensityScore(resumeText, jobDescription string) float64 {
	if resumeText == "" || jobDescription == "" {
		return 0.0
	}

	jobKeywords := keywordSet(jobDescription)
	if len(jobKeywords) == 0 {
		return 0.0
	}

	resumeKeywords := keywordSet(resumeText)

	matched := 0
	for keyword := range jobKeywords {
		if _, ok := resumeKeywords[keyword]; ok {
			matched++
		}
	}

	return min01(float64(matched) / float64(len(jobKeywords)))
}

func keywordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	keywords := make(map[string]struct{}, len(words))
	for _, word := range words {
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords[word] = struct{}{}
	}
	return keywords
}

// confidenceScore is the exact fraction of component scores strictly
// greater than zero. A missing component drags the final score down even
// when the other components are strong; that coupling models uncertainty
// from missing data and is intentional.
func confidenceScore(breakdown ScoreBreakdown) float64 {
	available := 0
	for _, score := range []float64{
		breakdown.Skills,
		breakdown.Experience,
		breakdown.Education,
		breakdown.Keywords,
	} {
		if score > 0 {
			available++
		}
	}
	return float64(available) / componentCount
}

func clamp01(value float64) float64 {
	if value < 0.0 {
		return 0.0
	}
	return min01(value)
}

func min01(value float64) float64 {
	if value > 1.0 {
		return 1.0
	}
	return value
}
