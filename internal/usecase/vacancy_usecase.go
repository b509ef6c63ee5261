package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"career-match/internal/domain/student"
	"career-match/internal/domain/vacancy"
	"career-match/internal/repository"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("forbidden")

type VacancyInput struct {
	Title                string
	Company              string
	Description          string
	RequiredSkills       []string
	RequiredTechnologies []string
	ExperienceYears      int
	SoftSkills           []string
}

type VacancyUsecase interface {
	Create(ctx context.Context, employerID uuid.UUID, in VacancyInput) (vacancy.Vacancy, error)
	Update(ctx context.Context, employerID, vacancyID uuid.UUID, upd vacancy.Update) (vacancy.Vacancy, error)
	Get(ctx context.Context, vacancyID uuid.UUID) (vacancy.Vacancy, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]vacancy.Vacancy, error)
}

type VacancyService struct {
	vacancies  repository.VacancyRepository
	matches    repository.MatchRepository
	aggregates AggregateFlusher
	logger     *log.Logger
}

func NewVacancyUsecase(
	vacancies repository.VacancyRepository,
	matches repository.MatchRepository,
	aggregates AggregateFlusher,
	logger *log.Logger,
) *VacancyService {
	if logger == nil {
		logger = log.Default()
	}
	return &VacancyService{vacancies: vacancies, matches: matches, aggregates: aggregates, logger: logger}
}

// flushAggregates drops cached analytics reports after a vacancy
// write. Failures only delay the reports until TTL expiry.
func (u *VacancyService) flushAggregates(ctx context.Context, vacancyID uuid.UUID) {
	if u.aggregates == nil {
		return
	}
	if err := u.aggregates.DeleteByPattern(ctx, analyticsKeyPattern); err != nil {
		u.logger.Printf("[Vacancy] analytics flush failed vacancy=%s err=%v", vacancyID, err)
	}
}

func (u *VacancyService) Create(ctx context.Context, employerID uuid.UUID, in VacancyInput) (vacancy.Vacancy, error) {
	if employerID == uuid.Nil {
		return vacancy.Vacancy{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" {
		return vacancy.Vacancy{}, ErrInvalidInput
	}
	if in.ExperienceYears < 0 || in.ExperienceYears > 20 {
		return vacancy.Vacancy{}, ErrInvalidInput
	}

	v := vacancy.Vacancy{
		EmployerID:           employerID,
		Title:                strings.TrimSpace(in.Title),
		Company:              strings.TrimSpace(in.Company),
		Description:          strings.TrimSpace(in.Description),
		RequiredSkills:       student.NormalizeSet(in.RequiredSkills),
		RequiredTechnologies: student.NormalizeSet(in.RequiredTechnologies),
		ExperienceYears:      in.ExperienceYears,
		SoftSkills:           student.NormalizeSet(in.SoftSkills),
		IsActive:             true,
	}

	created, err := u.vacancies.Create(ctx, v)
	if err != nil {
		return vacancy.Vacancy{}, ErrInternal
	}

	u.flushAggregates(ctx, created.ID)
	return created, nil
}

func (u *VacancyService) Update(ctx context.Context, employerID, vacancyID uuid.UUID, upd vacancy.Update) (vacancy.Vacancy, error) {
	if upd.Empty() {
		return vacancy.Vacancy{}, ErrInvalidInput
	}

	existing, err := u.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, repository.ErrVacancyNotFound) {
			return vacancy.Vacancy{}, ErrVacancyNotFound
		}
		return vacancy.Vacancy{}, ErrInternal
	}
	if existing.EmployerID != employerID {
		return vacancy.Vacancy{}, ErrForbidden
	}

	if upd.RequiredSkills != nil {
		upd.RequiredSkills = student.NormalizeSet(upd.RequiredSkills)
	}
	if upd.RequiredTechnologies != nil {
		upd.RequiredTechnologies = student.NormalizeSet(upd.RequiredTechnologies)
	}
	if upd.SoftSkills != nil {
		upd.SoftSkills = student.NormalizeSet(upd.SoftSkills)
	}

	affectsMatching := upd.Apply(&existing)

	updated, err := u.vacancies.Update(ctx, existing)
	if err != nil {
		return vacancy.Vacancy{}, ErrInternal
	}

	// Requirement changes orphan every cached score for this vacancy.
	if affectsMatching {
		if err := u.matches.InvalidateForVacancy(ctx, updated.ID); err != nil {
			u.logger.Printf("[Vacancy] match invalidation failed vacancy=%s err=%v", updated.ID, err)
			return vacancy.Vacancy{}, ErrInternal
		}
	}

	u.flushAggregates(ctx, updated.ID)
	return updated, nil
}

func (u *VacancyService) Get(ctx context.Context, vacancyID uuid.UUID) (vacancy.Vacancy, error) {
	v, err := u.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, repository.ErrVacancyNotFound) {
			return vacancy.Vacancy{}, ErrVacancyNotFound
		}
		return vacancy.Vacancy{}, ErrInternal
	}
	return v, nil
}

func (u *VacancyService) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]vacancy.Vacancy, error) {
	items, err := u.vacancies.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}
