package usecase

import "sort"

// RankKey is the ordering key for a ranked result: match percent
// descending, strong-skill overlap descending, then the identity string
// ascending so equal scores order deterministically across runs.
type RankKey struct {
	Percent     int
	StrongCount int
	ID          string
}

func (a RankKey) less(b RankKey) bool {
	if a.Percent != b.Percent {
		return a.Percent > b.Percent
	}
	if a.StrongCount != b.StrongCount {
		return a.StrongCount > b.StrongCount
	}
	return a.ID < b.ID
}

// Rank orders items by key and truncates to limit. limit <= 0 means
// all. The input slice is not mutated.
func Rank[T any](items []T, limit int, key func(T) RankKey) []T {
	out := make([]T, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]).less(key(out[j]))
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
