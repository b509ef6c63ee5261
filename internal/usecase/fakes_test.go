package usecase

import (
	"context"
	"sync"
	"time"

	"career-match/internal/domain/match"
	"career-match/internal/domain/student"
	"career-match/internal/domain/vacancy"
	"career-match/internal/scoring"

	"github.com/google/uuid"

	"career-match/internal/repository"
)

type memStudentRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]student.Profile
	snapshots []student.SkillSnapshot
	err       error
}

func newMemStudentRepo(profiles ...student.Profile) *memStudentRepo {
	r := &memStudentRepo{byID: map[uuid.UUID]student.Profile{}}
	for _, p := range profiles {
		r.byID[p.ID] = p
	}
	return r
}

func (r *memStudentRepo) GetByID(_ context.Context, id uuid.UUID) (student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return student.Profile{}, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return student.Profile{}, repository.ErrStudentNotFound
	}
	return p, nil
}

func (r *memStudentRepo) GetByUserID(_ context.Context, userID uuid.UUID) (student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return student.Profile{}, r.err
	}
	for _, p := range r.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return student.Profile{}, repository.ErrStudentNotFound
}

func (r *memStudentRepo) Upsert(_ context.Context, p student.Profile) (student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return student.Profile{}, r.err
	}
	if p.ID == uuid.Nil {
		for _, existing := range r.byID {
			if existing.UserID == p.UserID {
				p.ID = existing.ID
				break
			}
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.UpdatedAt = time.Now().UTC()
	r.byID[p.ID] = p
	return p, nil
}

func (r *memStudentRepo) ListWithMinCompletion(_ context.Context, minCompletion int) ([]student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]student.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		if p.ProfileCompletion >= minCompletion {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memStudentRepo) AppendSkillSnapshot(_ context.Context, studentID uuid.UUID, skills []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, student.SkillSnapshot{
		ID:         uuid.New(),
		StudentID:  studentID,
		Skills:     skills,
		SnapshotAt: time.Now().UTC(),
	})
	return nil
}

type memVacancyRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]vacancy.Vacancy
	err   error
}

func newMemVacancyRepo(items ...vacancy.Vacancy) *memVacancyRepo {
	r := &memVacancyRepo{items: map[uuid.UUID]vacancy.Vacancy{}}
	for _, v := range items {
		r.items[v.ID] = v
	}
	return r
}

func (r *memVacancyRepo) GetByID(_ context.Context, id uuid.UUID) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	v, ok := r.items[id]
	if !ok {
		return vacancy.Vacancy{}, repository.ErrVacancyNotFound
	}
	return v, nil
}

func (r *memVacancyRepo) ListActive(_ context.Context, limit int) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]vacancy.Vacancy, 0, len(r.items))
	for _, v := range r.items {
		if v.IsActive {
			out = append(out, v)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memVacancyRepo) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]vacancy.Vacancy, 0)
	for _, v := range r.items {
		if v.EmployerID == employerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVacancyRepo) Create(_ context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	r.items[v.ID] = v
	return v, nil
}

func (r *memVacancyRepo) Update(_ context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	if _, ok := r.items[v.ID]; !ok {
		return vacancy.Vacancy{}, repository.ErrVacancyNotFound
	}
	v.UpdatedAt = time.Now().UTC()
	r.items[v.ID] = v
	return v, nil
}

type pairKey struct {
	studentID uuid.UUID
	vacancyID uuid.UUID
}

// memMatchRepo mimics the durable cache table: one live record per
// pair, replace-on-conflict.
type memMatchRepo struct {
	mu      sync.Mutex
	records map[pairKey]match.Record
	upserts int
	err     error
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{records: map[pairKey]match.Record{}}
}

func (r *memMatchRepo) GetByPair(_ context.Context, studentID, vacancyID uuid.UUID) (match.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return match.Record{}, r.err
	}
	rec, ok := r.records[pairKey{studentID, vacancyID}]
	if !ok {
		return match.Record{}, repository.ErrMatchNotFound
	}
	return rec, nil
}

func (r *memMatchRepo) Upsert(_ context.Context, rec match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.upserts++
	r.records[pairKey{rec.StudentID, rec.VacancyID}] = rec
	return nil
}

func (r *memMatchRepo) InvalidateForStudent(_ context.Context, studentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for k := range r.records {
		if k.studentID == studentID {
			delete(r.records, k)
		}
	}
	return nil
}

func (r *memMatchRepo) InvalidateForVacancy(_ context.Context, vacancyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for k := range r.records {
		if k.vacancyID == vacancyID {
			delete(r.records, k)
		}
	}
	return nil
}

func (r *memMatchRepo) ListForStudent(_ context.Context, studentID uuid.UUID) ([]match.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Record, 0)
	for k, rec := range r.records {
		if k.studentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memMatchRepo) liveRecords() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *memMatchRepo) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

// fakeAssessor counts calls and delegates to a per-test function.
type fakeAssessor struct {
	mu    sync.Mutex
	calls int
	fn    func(snap scoring.PairSnapshot) (match.Assessment, error)
}

func (a *fakeAssessor) Assess(_ context.Context, snap scoring.PairSnapshot) (match.Assessment, error) {
	a.mu.Lock()
	a.calls++
	fn := a.fn
	a.mu.Unlock()
	if fn == nil {
		return match.Assessment{MatchPercent: 50}, nil
	}
	return fn(snap)
}

func (a *fakeAssessor) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type fakeExtractor struct {
	skills       []string
	technologies []string
	err          error

	gotDeadline bool
}

func (e *fakeExtractor) ExtractSkills(ctx context.Context, _ string) ([]string, []string, error) {
	_, e.gotDeadline = ctx.Deadline()
	return e.skills, e.technologies, e.err
}

type fakeFlusher struct {
	patterns []string
	err      error
}

func (f *fakeFlusher) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
