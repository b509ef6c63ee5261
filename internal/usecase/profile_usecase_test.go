package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"career-match/internal/domain/match"
	"career-match/internal/domain/student"

	"github.com/google/uuid"
)

func seededProfile(t *testing.T, students *memStudentRepo) student.Profile {
	t.Helper()
	p := student.Profile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Name:         "Ada",
		University:   "ITMO",
		Skills:       []string{"Teamwork"},
		Technologies: []string{"Go", "PostgreSQL"},
	}
	p.ProfileCompletion = student.CompletionScore(p)
	students.byID[p.ID] = p
	return p
}

func TestMergeSkills_DeduplicatesCaseInsensitively(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	got, err := u.MergeSkills(context.Background(), p.ID,
		[]string{"teamwork", "Communication"},
		[]string{"GO", "Docker", "docker"},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(got.Skills) != 2 {
		t.Fatalf("expected [Teamwork Communication], got %v", got.Skills)
	}
	// The stored casing wins over the incoming duplicate.
	if got.Skills[0] != "Teamwork" {
		t.Fatalf("existing casing lost: %v", got.Skills)
	}
	if len(got.Technologies) != 3 {
		t.Fatalf("expected [Go PostgreSQL Docker], got %v", got.Technologies)
	}
	if got.Technologies[0] != "Go" {
		t.Fatalf("existing casing lost: %v", got.Technologies)
	}
}

func TestMergeSkills_RecomputesCompletion(t *testing.T) {
	students := newMemStudentRepo()
	p := student.Profile{ID: uuid.New(), UserID: uuid.New(), Name: "Ada"}
	p.ProfileCompletion = student.CompletionScore(p)
	students.byID[p.ID] = p

	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	got, err := u.MergeSkills(context.Background(), p.ID, []string{"Teamwork"}, []string{"Go"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := student.CompletionScore(got)
	if got.ProfileCompletion != want || got.ProfileCompletion <= p.ProfileCompletion {
		t.Fatalf("completion not recomputed: before=%d after=%d want=%d",
			p.ProfileCompletion, got.ProfileCompletion, want)
	}
}

func TestCommit_InvalidatesCachedMatches(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	matches := newMemMatchRepo()
	_ = matches.Upsert(context.Background(), match.Record{
		StudentID: p.ID, VacancyID: uuid.New(), MatchPercent: 70, CachedAt: time.Now(),
	})
	other := uuid.New()
	_ = matches.Upsert(context.Background(), match.Record{
		StudentID: other, VacancyID: uuid.New(), MatchPercent: 40, CachedAt: time.Now(),
	})

	u := NewProfileUsecase(students, matches, nil, nil, nil)

	if _, err := u.MergeSkills(context.Background(), p.ID, []string{"Linux"}, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if recs, _ := matches.ListForStudent(context.Background(), p.ID); len(recs) != 0 {
		t.Fatalf("expected student's cached assessments dropped, got %d", len(recs))
	}
	if recs, _ := matches.ListForStudent(context.Background(), other); len(recs) != 1 {
		t.Fatalf("other student's records must survive, got %d", len(recs))
	}
}

func TestCommit_InvalidationFailureIsAnError(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	matches := newMemMatchRepo()
	matches.err = errors.New("connection reset")

	u := NewProfileUsecase(students, matches, nil, nil, nil)

	if _, err := u.MergeSkills(context.Background(), p.ID, []string{"Linux"}, nil); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal when invalidation fails, got %v", err)
	}
}

func TestCommit_AppendsSkillSnapshot(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	if _, err := u.MergeSkills(context.Background(), p.ID, []string{"Communication"}, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(students.snapshots) != 1 {
		t.Fatalf("expected one skill snapshot, got %d", len(students.snapshots))
	}
	snap := students.snapshots[0]
	if snap.StudentID != p.ID {
		t.Fatalf("snapshot for wrong student: %s", snap.StudentID)
	}
	found := false
	for _, s := range snap.Skills {
		if s == "Communication" {
			found = true
		}
	}
	if !found {
		t.Fatalf("snapshot missing merged skill: %v", snap.Skills)
	}
}

func TestUpsertProfile_PreservesResumeURL(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	p.ResumeURL = "https://files.example/resume.pdf"
	students.byID[p.ID] = p

	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	got, err := u.UpsertProfile(context.Background(), p.UserID, ProfileInput{
		Name:       "Ada Lovelace",
		University: "ITMO",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("expected existing row updated, got new id %s", got.ID)
	}
	if got.ResumeURL != p.ResumeURL {
		t.Fatalf("resume reference dropped on edit: %q", got.ResumeURL)
	}
}

func TestUpsertProfile_RequiresName(t *testing.T) {
	u := NewProfileUsecase(newMemStudentRepo(), newMemMatchRepo(), nil, nil, nil)

	if _, err := u.UpsertProfile(context.Background(), uuid.New(), ProfileInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConnectGitHub_MergesDetectedTechnologies(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	got, err := u.ConnectGitHub(context.Background(), p.ID, "https://github.com/ada", []string{"go", "Redis"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.GitHubURL != "https://github.com/ada" {
		t.Fatalf("github url not stored: %q", got.GitHubURL)
	}
	if len(got.Technologies) != 3 {
		t.Fatalf("expected [Go PostgreSQL Redis], got %v", got.Technologies)
	}
}

func TestAttachResume_KeepsExistingExperienceText(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	p.ExperienceText = "Two internships at a fintech."
	students.byID[p.ID] = p

	u := NewProfileUsecase(students, newMemMatchRepo(), nil, nil, nil)

	got, err := u.AttachResume(context.Background(), p.ID, "https://files.example/cv.pdf",
		[]string{"Leadership"}, []string{"Kafka"}, "Freshly parsed text")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ExperienceText != p.ExperienceText {
		t.Fatalf("manually written experience overwritten: %q", got.ExperienceText)
	}
	if got.ResumeURL != "https://files.example/cv.pdf" {
		t.Fatalf("resume url not stored: %q", got.ResumeURL)
	}
}

func TestCommit_FlushesAnalyticsAggregates(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	flusher := &fakeFlusher{}
	u := NewProfileUsecase(students, newMemMatchRepo(), nil, flusher, nil)

	if _, err := u.MergeSkills(context.Background(), p.ID, []string{"Linux"}, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(flusher.patterns) != 1 || flusher.patterns[0] != analyticsKeyPattern {
		t.Fatalf("expected one flush of %q, got %v", analyticsKeyPattern, flusher.patterns)
	}
}

func TestCommit_FlushFailureDoesNotFail(t *testing.T) {
	students := newMemStudentRepo()
	p := seededProfile(t, students)
	flusher := &fakeFlusher{err: errors.New("connection reset")}
	u := NewProfileUsecase(students, newMemMatchRepo(), nil, flusher, nil)

	if _, err := u.MergeSkills(context.Background(), p.ID, []string{"Linux"}, nil); err != nil {
		t.Fatalf("flush failure must not fail the commit: %v", err)
	}
}

func TestAnalyzeText_Validation(t *testing.T) {
	u := NewProfileUsecase(newMemStudentRepo(), newMemMatchRepo(), &fakeExtractor{}, nil, nil)

	if _, _, err := u.AnalyzeText(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty text, got %v", err)
	}
	long := strings.Repeat("x", maxAnalyzeTextChars+1)
	if _, _, err := u.AnalyzeText(context.Background(), long); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized text, got %v", err)
	}
}

func TestAnalyzeText_DelegatesToExtractor(t *testing.T) {
	ex := &fakeExtractor{skills: []string{"Teamwork"}, technologies: []string{"Go"}}
	u := NewProfileUsecase(newMemStudentRepo(), newMemMatchRepo(), ex, nil, nil)

	skills, techs, err := u.AnalyzeText(context.Background(), "I write Go services in a team.")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 1 || len(techs) != 1 {
		t.Fatalf("unexpected extraction: %v %v", skills, techs)
	}

	ex.err = errors.New("quota exhausted")
	if _, _, err := u.AnalyzeText(context.Background(), "text"); !errors.Is(err, ErrScoringFailed) {
		t.Fatalf("expected ErrScoringFailed, got %v", err)
	}
}

func TestAnalyzeText_BoundsModelCall(t *testing.T) {
	ex := &fakeExtractor{}
	u := NewProfileUsecase(newMemStudentRepo(), newMemMatchRepo(), ex, nil, nil)

	if _, _, err := u.AnalyzeText(context.Background(), "I write Go services."); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ex.gotDeadline {
		t.Fatalf("expected extractor call to carry a deadline")
	}
}
