package match

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assessment is a validated scoring result for one student/vacancy pair.
type Assessment struct {
	MatchPercent  int
	StrongSkills  []string
	MissingSkills []string
	Explanation   string
}

// Record is the cached assessment for a pair. At most one live record
// exists per (StudentID, VacancyID); recomputation replaces it.
type Record struct {
	StudentID     uuid.UUID
	VacancyID     uuid.UUID
	MatchPercent  int
	StrongSkills  []string
	MissingSkills []string
	Explanation   string
	CachedAt      time.Time
}

func (r Record) Assessment() Assessment {
	return Assessment{
		MatchPercent:  r.MatchPercent,
		StrongSkills:  r.StrongSkills,
		MissingSkills: r.MissingSkills,
		Explanation:   r.Explanation,
	}
}

// Fresh reports whether the record is still within ttl as of now.
func (r Record) Fresh(now time.Time, ttl time.Duration) bool {
	if r.CachedAt.IsZero() {
		return false
	}
	return now.Sub(r.CachedAt) < ttl
}

// ClampPercent forces v into [0,100] and reports whether clamping happened.
func ClampPercent(v int) (int, bool) {
	if v < 0 {
		return 0, true
	}
	if v > 100 {
		return 100, true
	}
	return v, false
}

// FilterSubset drops entries of candidates that are not present
// (case-insensitively) in source. Model output is not trusted to stay
// within the input sets.
func FilterSubset(candidates, source []string) []string {
	idx := make(map[string]struct{}, len(source))
	for _, s := range source {
		idx[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		if _, ok := idx[strings.ToLower(trimmed)]; ok {
			out = append(out, trimmed)
		}
	}
	return out
}
