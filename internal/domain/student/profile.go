package student

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	University      string
	Specialty       string
	Skills          []string
	Technologies    []string
	ExperienceText  string
	GitHubURL       string
	ResumeURL       string
	CareerInterests []string
	// ProfileCompletion is derived, 0-100. Recomputed on every commit.
	ProfileCompletion int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SkillSnapshot struct {
	ID         uuid.UUID
	StudentID  uuid.UUID
	Skills     []string
	SnapshotAt time.Time
}

// NormalizeSet deduplicates case-insensitively, keeping the casing and
// position of the first occurrence. Blank entries are dropped.
func NormalizeSet(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		key := strings.ToLower(it)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// MergeSets unions existing and extracted entries. Existing entries keep
// their order and casing; new entries follow in extraction order.
func MergeSets(existing, extracted []string) []string {
	return NormalizeSet(append(NormalizeSet(existing), extracted...))
}

// ContainsFold reports case-insensitive membership.
func ContainsFold(set []string, item string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(item)) {
			return true
		}
	}
	return false
}

// CompletionScore derives the profile completion percentage. Weights follow
// the product definition: identity fields and skill sets dominate, attached
// sources (github, resume) round it out.
func CompletionScore(p Profile) int {
	score := 0
	checks := []struct {
		filled bool
		points int
	}{
		{p.Name != "", 15},
		{p.University != "", 15},
		{p.Specialty != "", 15},
		{len(p.Skills) > 0, 15},
		{len(p.Technologies) > 0, 15},
		{p.ExperienceText != "", 10},
		{p.GitHubURL != "", 10},
		{p.ResumeURL != "", 5},
	}
	for _, c := range checks {
		if c.filled {
			score += c.points
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}
