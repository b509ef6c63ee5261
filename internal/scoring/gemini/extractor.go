package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-match/internal/domain/student"
	"career-match/internal/domain/vacancy"
	"career-match/internal/scoring"
)

// Extractor pulls skill/technology sets out of free text (resume text,
// project descriptions) with Gemini.
type Extractor struct {
	gen textGenerator
}

func NewExtractor(gen *Generator) *Extractor {
	return &Extractor{gen: gen}
}

func (e *Extractor) ExtractSkills(ctx context.Context, text string) ([]string, []string, error) {
	if e == nil || e.gen == nil {
		return nil, nil, scoring.ErrUnavailable
	}

	prompt := fmt.Sprintf(`Extract professional skills and technologies from the text below.

Return ONLY valid JSON:
{
  "skills": ["Communication", "Team leadership"],
  "technologies": ["Go", "PostgreSQL", "Docker"]
}

skills are soft or general professional skills; technologies are concrete
tools, languages and platforms. Do not invent entries absent from the text.

TEXT:
%s`, text)

	raw, err := e.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, classifyTransportError(err)
	}

	var parsed struct {
		Skills       []string `json:"skills"`
		Technologies []string `json:"technologies"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", scoring.ErrMalformedResponse, err)
	}

	return student.NormalizeSet(parsed.Skills), student.NormalizeSet(parsed.Technologies), nil
}

// Recommender generates career-development advice for a student against
// current market vacancies.
type Recommender struct {
	gen textGenerator
}

func NewRecommender(gen *Generator) *Recommender {
	return &Recommender{gen: gen}
}

func (r *Recommender) Recommend(ctx context.Context, p student.Profile, market []vacancy.Vacancy) (string, []scoring.Recommendation, error) {
	if r == nil || r.gen == nil {
		return "", nil, scoring.ErrUnavailable
	}

	var marketLines []string
	for i, v := range market {
		if i >= 5 {
			break
		}
		techs := v.RequiredTechnologies
		if len(techs) > 5 {
			techs = techs[:5]
		}
		marketLines = append(marketLines, fmt.Sprintf("- %s at %s: %s", v.Title, v.Company, strings.Join(techs, ", ")))
	}

	prompt := fmt.Sprintf(`You are an AI career advisor. Produce personalized recommendations.

STUDENT PROFILE:
Specialty: %s
Skills: %s
Technologies: %s
Career interests: %s

CURRENT MARKET VACANCIES:
%s

Return ONLY valid JSON:
{
  "summary": "Overall career potential assessment (2-3 sentences)",
  "recommendations": [
    {
      "priority": "high",
      "category": "skill",
      "title": "Learn Docker and containerization",
      "description": "Why this matters",
      "action_items": ["Take a course", "Build a containerized project"]
    }
  ]
}

priority: high, medium or low. category: skill, project, course or networking.
Give 4-6 concrete recommendations.`,
		p.Specialty,
		strings.Join(p.Skills, ", "),
		strings.Join(p.Technologies, ", "),
		strings.Join(p.CareerInterests, ", "),
		strings.Join(marketLines, "\n"),
	)

	raw, err := r.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", nil, classifyTransportError(err)
	}

	var parsed struct {
		Summary         string `json:"summary"`
		Recommendations []struct {
			Priority    string   `json:"priority"`
			Category    string   `json:"category"`
			Title       string   `json:"title"`
			Description string   `json:"description"`
			ActionItems []string `json:"action_items"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return "", nil, fmt.Errorf("%w: %v", scoring.ErrMalformedResponse, err)
	}

	recs := make([]scoring.Recommendation, 0, len(parsed.Recommendations))
	for _, rec := range parsed.Recommendations {
		recs = append(recs, scoring.Recommendation{
			Priority:    rec.Priority,
			Category:    rec.Category,
			Title:       rec.Title,
			Description: rec.Description,
			ActionItems: rec.ActionItems,
		})
	}
	return strings.TrimSpace(parsed.Summary), recs, nil
}
