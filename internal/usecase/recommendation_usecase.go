package usecase

import (
	"context"
	"errors"
	"time"

	"career-match/internal/repository"
	"career-match/internal/scoring"

	"github.com/google/uuid"
)

const (
	recommendationMarketSize = 10
	recommendationTimeout    = 10 * time.Second
)

type Recommendations struct {
	Summary         string
	Recommendations []scoring.Recommendation
	GeneratedAt     time.Time
}

type RecommendationUsecase interface {
	ForStudent(ctx context.Context, studentID uuid.UUID) (Recommendations, error)
}

type Recommendation struct {
	students    repository.StudentRepository
	vacancies   repository.VacancyRepository
	recommender scoring.Recommender

	now func() time.Time
}

func NewRecommendationUsecase(
	students repository.StudentRepository,
	vacancies repository.VacancyRepository,
	recommender scoring.Recommender,
) *Recommendation {
	return &Recommendation{
		students:    students,
		vacancies:   vacancies,
		recommender: recommender,
		now:         time.Now,
	}
}

func (u *Recommendation) ForStudent(ctx context.Context, studentID uuid.UUID) (Recommendations, error) {
	p, err := u.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return Recommendations{}, ErrStudentNotFound
		}
		return Recommendations{}, ErrInternal
	}

	// Market context only; an empty market still yields advice.
	market, err := u.vacancies.ListActive(ctx, recommendationMarketSize)
	if err != nil {
		return Recommendations{}, ErrInternal
	}

	// Recommendation results are never cached, so every call hits the
	// model; the deadline keeps a hung call from pinning the request.
	recCtx, cancel := context.WithTimeout(ctx, recommendationTimeout)
	defer cancel()

	summary, recs, err := u.recommender.Recommend(recCtx, p, market)
	if err != nil {
		return Recommendations{}, ErrScoringFailed
	}

	return Recommendations{
		Summary:         summary,
		Recommendations: recs,
		GeneratedAt:     u.now().UTC(),
	}, nil
}
