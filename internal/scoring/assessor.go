package scoring

import (
	"context"
	"errors"

	"career-match/internal/domain/match"
	"career-match/internal/domain/student"
	"career-match/internal/domain/vacancy"
)

var (
	// ErrUnavailable covers transport or provider failures.
	ErrUnavailable = errors.New("scoring backend unavailable")
	// ErrTimeout means the model call exceeded its deadline.
	ErrTimeout = errors.New("scoring backend timed out")
	// ErrMalformedResponse means the model output could not be parsed
	// into the expected shape.
	ErrMalformedResponse = errors.New("scoring backend returned malformed response")
)

// PairSnapshot is the point-in-time input to one scoring call. It is
// assembled from current store state so a recompute never scores stale
// attributes.
type PairSnapshot struct {
	StudentName         string
	StudentSkills       []string
	StudentTechnologies []string
	StudentExperience   string

	VacancyTitle         string
	VacancyCompany       string
	VacancyDescription   string
	RequiredSkills       []string
	RequiredTechnologies []string
	ExperienceYears      int
}

// Assessor produces a compatibility assessment for one pair.
type Assessor interface {
	Assess(ctx context.Context, snap PairSnapshot) (match.Assessment, error)
}

// Extractor maps free text to skill/technology sets. It stands in for
// the ingestion sources (resume text, project descriptions); the core
// never parses documents itself.
type Extractor interface {
	ExtractSkills(ctx context.Context, text string) (skills, technologies []string, err error)
}

// Recommendation is one career-development suggestion.
type Recommendation struct {
	Priority    string
	Category    string
	Title       string
	Description string
	ActionItems []string
}

// Recommender generates career advice for a student given current
// market context.
type Recommender interface {
	Recommend(ctx context.Context, profile student.Profile, market []vacancy.Vacancy) (summary string, recs []Recommendation, err error)
}

// NewPairSnapshot assembles the scoring input from current entities.
func NewPairSnapshot(p student.Profile, v vacancy.Vacancy) PairSnapshot {
	return PairSnapshot{
		StudentName:          p.Name,
		StudentSkills:        p.Skills,
		StudentTechnologies:  p.Technologies,
		StudentExperience:    p.ExperienceText,
		VacancyTitle:         v.Title,
		VacancyCompany:       v.Company,
		VacancyDescription:   v.Description,
		RequiredSkills:       v.RequiredSkills,
		RequiredTechnologies: v.RequiredTechnologies,
		ExperienceYears:      v.ExperienceYears,
	}
}
