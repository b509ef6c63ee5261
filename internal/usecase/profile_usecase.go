package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"career-match/internal/domain/student"
	"career-match/internal/repository"
	"career-match/internal/scoring"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	maxAnalyzeTextChars = 3000
	extractionTimeout   = 10 * time.Second
)

type ProfileInput struct {
	Name            string
	University      string
	Specialty       string
	Skills          []string
	Technologies    []string
	ExperienceText  string
	GitHubURL       string
	CareerInterests []string
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (student.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (student.Profile, error)
	MergeSkills(ctx context.Context, studentID uuid.UUID, extractedSkills, extractedTechnologies []string) (student.Profile, error)
	ConnectGitHub(ctx context.Context, studentID uuid.UUID, githubURL string, detectedTechnologies []string) (student.Profile, error)
	AttachResume(ctx context.Context, studentID uuid.UUID, resumeURL string, skills, technologies []string, experienceText string) (student.Profile, error)
	AnalyzeText(ctx context.Context, text string) (skills, technologies []string, err error)
}

// Profile is the ingestion merger: every committed change recomputes the
// completion score, appends a skill-history snapshot and invalidates the
// student's cached assessments. A changed profile must never keep
// serving scores computed on its previous attributes.
type Profile struct {
	students   repository.StudentRepository
	matches    repository.MatchRepository
	extractor  scoring.Extractor
	aggregates AggregateFlusher
	logger     *log.Logger
}

func NewProfileUsecase(
	students repository.StudentRepository,
	matches repository.MatchRepository,
	extractor scoring.Extractor,
	aggregates AggregateFlusher,
	logger *log.Logger,
) *Profile {
	if logger == nil {
		logger = log.Default()
	}
	return &Profile{
		students:   students,
		matches:    matches,
		extractor:  extractor,
		aggregates: aggregates,
		logger:     logger,
	}
}

func (u *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (student.Profile, error) {
	if userID == uuid.Nil {
		return student.Profile{}, ErrStudentNotFound
	}
	p, err := u.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return student.Profile{}, ErrStudentNotFound
		}
		return student.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Profile) UpsertProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (student.Profile, error) {
	if userID == uuid.Nil {
		return student.Profile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return student.Profile{}, ErrInvalidInput
	}

	p := student.Profile{
		UserID:          userID,
		Name:            strings.TrimSpace(in.Name),
		University:      strings.TrimSpace(in.University),
		Specialty:       strings.TrimSpace(in.Specialty),
		Skills:          student.NormalizeSet(in.Skills),
		Technologies:    student.NormalizeSet(in.Technologies),
		ExperienceText:  strings.TrimSpace(in.ExperienceText),
		GitHubURL:       strings.TrimSpace(in.GitHubURL),
		CareerInterests: student.NormalizeSet(in.CareerInterests),
	}

	// A direct edit must not drop the stored resume reference.
	if existing, err := u.students.GetByUserID(ctx, userID); err == nil {
		p.ID = existing.ID
		p.ResumeURL = existing.ResumeURL
	} else if !errors.Is(err, repository.ErrStudentNotFound) {
		return student.Profile{}, ErrInternal
	}

	return u.commit(ctx, p)
}

func (u *Profile) MergeSkills(ctx context.Context, studentID uuid.UUID, extractedSkills, extractedTechnologies []string) (student.Profile, error) {
	p, err := u.loadByID(ctx, studentID)
	if err != nil {
		return student.Profile{}, err
	}

	p.Skills = student.MergeSets(p.Skills, extractedSkills)
	p.Technologies = student.MergeSets(p.Technologies, extractedTechnologies)

	return u.commit(ctx, p)
}

func (u *Profile) ConnectGitHub(ctx context.Context, studentID uuid.UUID, githubURL string, detectedTechnologies []string) (student.Profile, error) {
	githubURL = strings.TrimSpace(githubURL)
	if githubURL == "" {
		return student.Profile{}, ErrInvalidInput
	}

	p, err := u.loadByID(ctx, studentID)
	if err != nil {
		return student.Profile{}, err
	}

	p.GitHubURL = githubURL
	p.Technologies = student.MergeSets(p.Technologies, detectedTechnologies)

	return u.commit(ctx, p)
}

func (u *Profile) AttachResume(ctx context.Context, studentID uuid.UUID, resumeURL string, skills, technologies []string, experienceText string) (student.Profile, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return student.Profile{}, ErrInvalidInput
	}

	p, err := u.loadByID(ctx, studentID)
	if err != nil {
		return student.Profile{}, err
	}

	p.ResumeURL = resumeURL
	p.Skills = student.MergeSets(p.Skills, skills)
	p.Technologies = student.MergeSets(p.Technologies, technologies)
	if exp := strings.TrimSpace(experienceText); exp != "" && p.ExperienceText == "" {
		p.ExperienceText = exp
	}

	return u.commit(ctx, p)
}

func (u *Profile) AnalyzeText(ctx context.Context, text string) ([]string, []string, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxAnalyzeTextChars {
		return nil, nil, ErrInvalidInput
	}
	if u.extractor == nil {
		return nil, nil, ErrInternal
	}

	extractCtx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	skills, technologies, err := u.extractor.ExtractSkills(extractCtx, text)
	if err != nil {
		return nil, nil, ErrScoringFailed
	}
	return skills, technologies, nil
}

func (u *Profile) loadByID(ctx context.Context, studentID uuid.UUID) (student.Profile, error) {
	if studentID == uuid.Nil {
		return student.Profile{}, ErrStudentNotFound
	}
	p, err := u.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return student.Profile{}, ErrStudentNotFound
		}
		return student.Profile{}, ErrInternal
	}
	return p, nil
}

// commit is the single write path: completion recompute, upsert,
// history snapshot, cache invalidation, in that order. Snapshot failure
// only degrades analytics and is logged; invalidation failure is
// returned because skipping it would leave pre-change scores live.
func (u *Profile) commit(ctx context.Context, p student.Profile) (student.Profile, error) {
	p.ProfileCompletion = student.CompletionScore(p)

	saved, err := u.students.Upsert(ctx, p)
	if err != nil {
		return student.Profile{}, ErrInternal
	}

	snapshot := append(append([]string{}, saved.Technologies...), saved.Skills...)
	if err := u.students.AppendSkillSnapshot(ctx, saved.ID, snapshot); err != nil {
		u.logger.Printf("[Profile] skill snapshot failed student=%s err=%v", saved.ID, err)
	}

	if err := u.matches.InvalidateForStudent(ctx, saved.ID); err != nil {
		u.logger.Printf("[Profile] match invalidation failed student=%s err=%v", saved.ID, err)
		return student.Profile{}, ErrInternal
	}

	// Cached analytics aggregates were computed over the pre-change
	// profile set. A failed flush only delays them until TTL expiry.
	if u.aggregates != nil {
		if err := u.aggregates.DeleteByPattern(ctx, analyticsKeyPattern); err != nil {
			u.logger.Printf("[Profile] analytics flush failed student=%s err=%v", saved.ID, err)
		}
	}

	return saved, nil
}
