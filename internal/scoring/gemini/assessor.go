package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-match/internal/domain/match"
	"career-match/internal/scoring"
)

const maxDescriptionChars = 1000

// textGenerator is what Assessor needs from the underlying client.
type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Assessor scores student/vacancy pairs with Gemini.
type Assessor struct {
	gen textGenerator
}

func NewAssessor(gen *Generator) *Assessor {
	return &Assessor{gen: gen}
}

func (a *Assessor) Assess(ctx context.Context, snap scoring.PairSnapshot) (match.Assessment, error) {
	if a == nil || a.gen == nil {
		return match.Assessment{}, scoring.ErrUnavailable
	}

	raw, err := a.gen.GenerateContent(ctx, buildMatchPrompt(snap))
	if err != nil {
		return match.Assessment{}, classifyTransportError(err)
	}

	assessment, err := parseAssessment(raw)
	if err != nil {
		return match.Assessment{}, fmt.Errorf("%w: %v", scoring.ErrMalformedResponse, err)
	}
	return assessment, nil
}

func buildMatchPrompt(snap scoring.PairSnapshot) string {
	experience := strings.TrimSpace(snap.StudentExperience)
	if experience == "" {
		experience = "not specified"
	}

	description := snap.VacancyDescription
	if len(description) > maxDescriptionChars {
		description = description[:maxDescriptionChars]
	}

	return fmt.Sprintf(`You are an AI recruiter. Assess how well the student fits the vacancy.

STUDENT PROFILE:
Name: %s
Skills: %s
Technologies: %s
Experience: %s

VACANCY:
Position: %s
Company: %s
Description: %s
Required skills: %s
Required technologies: %s
Years of experience: %d

Return ONLY valid JSON, no explanations outside of it:
{
  "match_percent": 75,
  "strong_skills": ["Python", "FastAPI"],
  "missing_skills": ["Docker", "Kubernetes"],
  "explanation": "Short explanation of the result (2-3 sentences)"
}

match_percent must be an integer from 0 to 100.
strong_skills must only contain entries from the student profile.
missing_skills must only contain entries from the vacancy requirements.`,
		snap.StudentName,
		strings.Join(snap.StudentSkills, ", "),
		strings.Join(snap.StudentTechnologies, ", "),
		experience,
		snap.VacancyTitle,
		snap.VacancyCompany,
		description,
		strings.Join(snap.RequiredSkills, ", "),
		strings.Join(snap.RequiredTechnologies, ", "),
		snap.ExperienceYears,
	)
}

type rawAssessment struct {
	MatchPercent  json.Number `json:"match_percent"`
	StrongSkills  []string    `json:"strong_skills"`
	MissingSkills []string    `json:"missing_skills"`
	Explanation   string      `json:"explanation"`
}

func parseAssessment(raw string) (match.Assessment, error) {
	cleaned := stripCodeFences(raw)

	var parsed rawAssessment
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return match.Assessment{}, err
	}

	percent, err := numberToInt(parsed.MatchPercent)
	if err != nil {
		return match.Assessment{}, fmt.Errorf("match_percent: %w", err)
	}

	return match.Assessment{
		MatchPercent:  percent,
		StrongSkills:  parsed.StrongSkills,
		MissingSkills: parsed.MissingSkills,
		Explanation:   strings.TrimSpace(parsed.Explanation),
	}, nil
}

// stripCodeFences removes markdown code fences models wrap JSON in
// despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// numberToInt tolerates models emitting percent as a float.
func numberToInt(n json.Number) (int, error) {
	if n.String() == "" {
		return 0, errors.New("missing")
	}
	if v, err := n.Int64(); err == nil {
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", scoring.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", scoring.ErrUnavailable, err)
}
