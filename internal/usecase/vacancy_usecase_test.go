package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-match/internal/domain/match"
	"career-match/internal/domain/vacancy"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestVacancyCreate_NormalizesAndActivates(t *testing.T) {
	u := NewVacancyUsecase(newMemVacancyRepo(), newMemMatchRepo(), nil, nil)
	employerID := uuid.New()

	created, err := u.Create(context.Background(), employerID, VacancyInput{
		Title:                "  Backend Intern ",
		Company:              "Acme",
		RequiredSkills:       []string{"Teamwork", "teamwork"},
		RequiredTechnologies: []string{"Go", "go", "Docker"},
		ExperienceYears:      2,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Title != "Backend Intern" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if !created.IsActive {
		t.Fatal("new vacancy must be active")
	}
	if len(created.RequiredSkills) != 1 || len(created.RequiredTechnologies) != 2 {
		t.Fatalf("requirement sets not deduplicated: %v %v",
			created.RequiredSkills, created.RequiredTechnologies)
	}
}

func TestVacancyCreate_Validation(t *testing.T) {
	u := NewVacancyUsecase(newMemVacancyRepo(), newMemMatchRepo(), nil, nil)
	employerID := uuid.New()

	cases := []VacancyInput{
		{Title: "", Company: "Acme"},
		{Title: "Intern", Company: "  "},
		{Title: "Intern", Company: "Acme", ExperienceYears: -1},
		{Title: "Intern", Company: "Acme", ExperienceYears: 21},
	}
	for i, in := range cases {
		if _, err := u.Create(context.Background(), employerID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestVacancyUpdate_OwnerCheck(t *testing.T) {
	owner := uuid.New()
	v := vacancy.Vacancy{ID: uuid.New(), EmployerID: owner, Title: "Intern", Company: "Acme", IsActive: true}
	u := NewVacancyUsecase(newMemVacancyRepo(v), newMemMatchRepo(), nil, nil)

	_, err := u.Update(context.Background(), uuid.New(), v.ID, vacancy.Update{Title: strPtr("Renamed")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	if _, err := u.Update(context.Background(), owner, v.ID, vacancy.Update{Title: strPtr("Renamed")}); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
}

func TestVacancyUpdate_RequirementChangeInvalidatesCache(t *testing.T) {
	owner := uuid.New()
	v := vacancy.Vacancy{ID: uuid.New(), EmployerID: owner, Title: "Intern", Company: "Acme", IsActive: true}
	matches := newMemMatchRepo()
	_ = matches.Upsert(context.Background(), match.Record{
		StudentID: uuid.New(), VacancyID: v.ID, MatchPercent: 65, CachedAt: time.Now(),
	})
	otherVacancy := uuid.New()
	_ = matches.Upsert(context.Background(), match.Record{
		StudentID: uuid.New(), VacancyID: otherVacancy, MatchPercent: 80, CachedAt: time.Now(),
	})

	u := NewVacancyUsecase(newMemVacancyRepo(v), matches, nil, nil)

	updated, err := u.Update(context.Background(), owner, v.ID, vacancy.Update{
		RequiredTechnologies: []string{"Rust"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(updated.RequiredTechnologies) != 1 || updated.RequiredTechnologies[0] != "Rust" {
		t.Fatalf("requirements not applied: %v", updated.RequiredTechnologies)
	}
	if matches.liveRecords() != 1 {
		t.Fatalf("expected only the other vacancy's record to survive, got %d", matches.liveRecords())
	}
}

func TestVacancyUpdate_CosmeticChangeKeepsCache(t *testing.T) {
	owner := uuid.New()
	v := vacancy.Vacancy{ID: uuid.New(), EmployerID: owner, Title: "Intern", Company: "Acme", IsActive: true}
	matches := newMemMatchRepo()
	_ = matches.Upsert(context.Background(), match.Record{
		StudentID: uuid.New(), VacancyID: v.ID, MatchPercent: 65, CachedAt: time.Now(),
	})

	u := NewVacancyUsecase(newMemVacancyRepo(v), matches, nil, nil)

	if _, err := u.Update(context.Background(), owner, v.ID, vacancy.Update{
		Title:   strPtr("Junior Backend Engineer"),
		Company: strPtr("Acme GmbH"),
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if matches.liveRecords() != 1 {
		t.Fatalf("cosmetic rename must not invalidate scores, got %d records", matches.liveRecords())
	}
}

func TestVacancyWrites_FlushAnalyticsAggregates(t *testing.T) {
	owner := uuid.New()
	flusher := &fakeFlusher{}
	u := NewVacancyUsecase(newMemVacancyRepo(), newMemMatchRepo(), flusher, nil)

	created, err := u.Create(context.Background(), owner, VacancyInput{Title: "Intern", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(flusher.patterns) != 1 || flusher.patterns[0] != analyticsKeyPattern {
		t.Fatalf("expected create to flush %q, got %v", analyticsKeyPattern, flusher.patterns)
	}

	if _, err := u.Update(context.Background(), owner, created.ID, vacancy.Update{Title: strPtr("Renamed")}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(flusher.patterns) != 2 {
		t.Fatalf("expected update to flush as well, got %v", flusher.patterns)
	}

	// Rejected writes must not flush.
	flusher.patterns = nil
	if _, err := u.Create(context.Background(), owner, VacancyInput{Title: "", Company: "Acme"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(flusher.patterns) != 0 {
		t.Fatalf("rejected write must not flush, got %v", flusher.patterns)
	}
}

func TestVacancyUpdate_EmptyUpdateRejected(t *testing.T) {
	owner := uuid.New()
	v := vacancy.Vacancy{ID: uuid.New(), EmployerID: owner, Title: "Intern", Company: "Acme"}
	u := NewVacancyUsecase(newMemVacancyRepo(v), newMemMatchRepo(), nil, nil)

	if _, err := u.Update(context.Background(), owner, v.ID, vacancy.Update{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
}

func TestVacancyUpdate_UnknownVacancy(t *testing.T) {
	u := NewVacancyUsecase(newMemVacancyRepo(), newMemMatchRepo(), nil, nil)

	if _, err := u.Update(context.Background(), uuid.New(), uuid.New(), vacancy.Update{Title: strPtr("x")}); !errors.Is(err, ErrVacancyNotFound) {
		t.Fatalf("expected ErrVacancyNotFound, got %v", err)
	}
}
