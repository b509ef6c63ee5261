package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"career-match/internal/domain/match"
	"career-match/internal/domain/student"
	"career-match/internal/domain/vacancy"
	"career-match/internal/pkg/workpool"
	"career-match/internal/repository"
	"career-match/internal/scoring"

	"github.com/google/uuid"
)

var (
	ErrInternal        = errors.New("internal error")
	ErrStudentNotFound = errors.New("student profile not found")
	ErrVacancyNotFound = errors.New("vacancy not found")
	ErrScoringFailed   = errors.New("scoring failed")
)

// Employer candidate views require at least this much of the profile
// filled in.
const minCandidateCompletion = 30

const pairLockTTL = 30 * time.Second

// PairLocker is a best-effort single-flight guard for concurrent
// recomputes of the same pair. Correctness does not depend on it: the
// store's upsert resolves racing writers last-writer-wins.
type PairLocker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type StudentMatch struct {
	Vacancy    vacancy.Vacancy
	Assessment match.Assessment
	CachedAt   time.Time
	Stale      bool
}

type VacancyCandidate struct {
	Student    student.Profile
	Assessment match.Assessment
	CachedAt   time.Time
	Stale      bool
}

type MatchingUsecase interface {
	ScorePair(ctx context.Context, studentID, vacancyID uuid.UUID, forceRefresh bool) (match.Record, error)
	GetMatches(ctx context.Context, studentID uuid.UUID, limit int) ([]StudentMatch, error)
	GetCandidates(ctx context.Context, vacancyID uuid.UUID, limit int) ([]VacancyCandidate, error)
}

type MatchingConfig struct {
	CacheTTL           time.Duration
	ScoringConcurrency int
	ScoringTimeout     time.Duration
}

type Matching struct {
	students  repository.StudentRepository
	vacancies repository.VacancyRepository
	matches   repository.MatchRepository
	assessor  scoring.Assessor
	locks     PairLocker
	logger    *log.Logger

	ttl            time.Duration
	concurrency    int
	scoringTimeout time.Duration

	now func() time.Time
}

func NewMatchingUsecase(
	students repository.StudentRepository,
	vacancies repository.VacancyRepository,
	matches repository.MatchRepository,
	assessor scoring.Assessor,
	locks PairLocker,
	logger *log.Logger,
	cfg MatchingConfig,
) *Matching {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.ScoringConcurrency <= 0 {
		cfg.ScoringConcurrency = 5
	}
	if cfg.ScoringTimeout <= 0 {
		cfg.ScoringTimeout = 10 * time.Second
	}
	return &Matching{
		students:       students,
		vacancies:      vacancies,
		matches:        matches,
		assessor:       assessor,
		locks:          locks,
		logger:         logger,
		ttl:            cfg.CacheTTL,
		concurrency:    cfg.ScoringConcurrency,
		scoringTimeout: cfg.ScoringTimeout,
		now:            time.Now,
	}
}

func (m *Matching) ScorePair(ctx context.Context, studentID, vacancyID uuid.UUID, forceRefresh bool) (match.Record, error) {
	if studentID == uuid.Nil {
		return match.Record{}, ErrStudentNotFound
	}
	if vacancyID == uuid.Nil {
		return match.Record{}, ErrVacancyNotFound
	}

	p, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return match.Record{}, ErrStudentNotFound
		}
		return match.Record{}, ErrInternal
	}
	v, err := m.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, repository.ErrVacancyNotFound) {
			return match.Record{}, ErrVacancyNotFound
		}
		return match.Record{}, ErrInternal
	}

	rec, stale, err := m.scoreKnownPair(ctx, p, v, forceRefresh)
	if err != nil {
		return match.Record{}, err
	}
	if stale && forceRefresh {
		// A forced rescore has no batch to degrade into; surface the
		// failure instead of quietly handing back the old record.
		return match.Record{}, ErrScoringFailed
	}
	return rec, nil
}

func (m *Matching) GetMatches(ctx context.Context, studentID uuid.UUID, limit int) ([]StudentMatch, error) {
	p, err := m.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, ErrInternal
	}

	vacancies, err := m.vacancies.ListActive(ctx, 50)
	if err != nil {
		return nil, ErrInternal
	}
	if len(vacancies) == 0 {
		return []StudentMatch{}, nil
	}

	var mu sync.Mutex
	results := make([]StudentMatch, 0, len(vacancies))

	pool := workpool.New(m.concurrency, len(vacancies))
	for _, v := range vacancies {
		v := v
		pool.Submit(func(taskCtx context.Context) {
			rec, stale, err := m.scoreKnownPair(taskCtx, p, v, false)
			if err != nil {
				m.logger.Printf("[Matching] pair skipped student=%s vacancy=%s err=%v", p.ID, v.ID, err)
				return
			}
			mu.Lock()
			results = append(results, StudentMatch{
				Vacancy:    v,
				Assessment: rec.Assessment(),
				CachedAt:   rec.CachedAt,
				Stale:      stale,
			})
			mu.Unlock()
		})
	}
	pool.Close()
	pool.Run(ctx)

	ranked := Rank(results, limit, func(sm StudentMatch) RankKey {
		return RankKey{
			Percent:     sm.Assessment.MatchPercent,
			StrongCount: len(sm.Assessment.StrongSkills),
			ID:          sm.Vacancy.ID.String(),
		}
	})
	return ranked, nil
}

func (m *Matching) GetCandidates(ctx context.Context, vacancyID uuid.UUID, limit int) ([]VacancyCandidate, error) {
	// The employer view includes the employer's own inactive vacancies,
	// so the vacancy is fetched without an is_active filter.
	v, err := m.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, repository.ErrVacancyNotFound) {
			return nil, ErrVacancyNotFound
		}
		return nil, ErrInternal
	}

	students, err := m.students.ListWithMinCompletion(ctx, minCandidateCompletion)
	if err != nil {
		return nil, ErrInternal
	}
	if len(students) == 0 {
		return []VacancyCandidate{}, nil
	}

	var mu sync.Mutex
	results := make([]VacancyCandidate, 0, len(students))

	pool := workpool.New(m.concurrency, len(students))
	for _, p := range students {
		p := p
		pool.Submit(func(taskCtx context.Context) {
			rec, stale, err := m.scoreKnownPair(taskCtx, p, v, false)
			if err != nil {
				m.logger.Printf("[Matching] pair skipped student=%s vacancy=%s err=%v", p.ID, v.ID, err)
				return
			}
			mu.Lock()
			results = append(results, VacancyCandidate{
				Student:    p,
				Assessment: rec.Assessment(),
				CachedAt:   rec.CachedAt,
				Stale:      stale,
			})
			mu.Unlock()
		})
	}
	pool.Close()
	pool.Run(ctx)

	ranked := Rank(results, limit, func(vc VacancyCandidate) RankKey {
		return RankKey{
			Percent:     vc.Assessment.MatchPercent,
			StrongCount: len(vc.Assessment.StrongSkills),
			ID:          vc.Student.ID.String(),
		}
	})
	return ranked, nil
}

// scoreKnownPair runs the cache-hit/recompute decision for already
// loaded entities. The returned stale flag marks a degraded fallback:
// scoring failed but an expired record was available.
func (m *Matching) scoreKnownPair(ctx context.Context, p student.Profile, v vacancy.Vacancy, forceRefresh bool) (match.Record, bool, error) {
	cached, err := m.matches.GetByPair(ctx, p.ID, v.ID)
	found := err == nil
	if err != nil && !errors.Is(err, repository.ErrMatchNotFound) {
		return match.Record{}, false, ErrInternal
	}

	if found && !forceRefresh && cached.Fresh(m.now(), m.ttl) {
		return cached, false, nil
	}

	if m.locks != nil {
		lockKey := pairLockKey(p.ID, v.ID)
		acquired, lockErr := m.locks.SetIfNotExists(ctx, lockKey, "1", pairLockTTL)
		if lockErr == nil && !acquired {
			// Another request is already recomputing this pair. Re-read
			// once in case it finished; otherwise compute anyway, the
			// upsert resolves the race.
			if rec, rereadErr := m.matches.GetByPair(ctx, p.ID, v.ID); rereadErr == nil && rec.Fresh(m.now(), m.ttl) {
				return rec, false, nil
			}
		} else if lockErr == nil {
			defer func() { _ = m.locks.Delete(ctx, lockKey) }()
		}
	}

	scoreCtx, cancel := context.WithTimeout(ctx, m.scoringTimeout)
	defer cancel()

	assessment, err := m.assessor.Assess(scoreCtx, scoring.NewPairSnapshot(p, v))
	if err != nil {
		if found {
			return cached, true, nil
		}
		return match.Record{}, false, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}

	rec := m.normalize(p, v, assessment)
	if err := m.matches.Upsert(ctx, rec); err != nil {
		m.logger.Printf("[Matching] cache upsert failed student=%s vacancy=%s err=%v", p.ID, v.ID, err)
		return match.Record{}, false, ErrInternal
	}
	return rec, false, nil
}

// normalize enforces the output contract: percent is clamped into
// [0,100], and skill lists are restricted to the input sets they must
// be subsets of.
func (m *Matching) normalize(p student.Profile, v vacancy.Vacancy, a match.Assessment) match.Record {
	percent, clamped := match.ClampPercent(a.MatchPercent)
	if clamped {
		m.logger.Printf("[Matching] data-quality: match_percent %d out of range, clamped to %d (student=%s vacancy=%s)",
			a.MatchPercent, percent, p.ID, v.ID)
	}

	studentSet := append(append([]string{}, p.Skills...), p.Technologies...)
	vacancySet := append(append([]string{}, v.RequiredSkills...), v.RequiredTechnologies...)

	return match.Record{
		StudentID:     p.ID,
		VacancyID:     v.ID,
		MatchPercent:  percent,
		StrongSkills:  match.FilterSubset(a.StrongSkills, studentSet),
		MissingSkills: match.FilterSubset(a.MissingSkills, vacancySet),
		Explanation:   a.Explanation,
		CachedAt:      m.now().UTC(),
	}
}

func pairLockKey(studentID, vacancyID uuid.UUID) string {
	return "match:lock:" + studentID.String() + ":" + vacancyID.String()
}
