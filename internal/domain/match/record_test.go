package match

import (
	"reflect"
	"testing"
	"time"
)

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		clamped bool
	}{
		{-5, 0, true},
		{0, 0, false},
		{50, 50, false},
		{100, 100, false},
		{140, 100, true},
	}
	for _, tt := range tests {
		got, clamped := ClampPercent(tt.in)
		if got != tt.want || clamped != tt.clamped {
			t.Fatalf("ClampPercent(%d) = (%d, %v), want (%d, %v)", tt.in, got, clamped, tt.want, tt.clamped)
		}
	}
}

func TestFilterSubset_DropsHallucinated(t *testing.T) {
	got := FilterSubset(
		[]string{"Go", "kubernetes", "Quantum Computing", "  docker  ", ""},
		[]string{"go", "Docker", "Kubernetes"},
	)
	want := []string{"Go", "kubernetes", "docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterSubset_EmptySource(t *testing.T) {
	if got := FilterSubset([]string{"Go"}, nil); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestRecordFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	r := Record{CachedAt: now.Add(-23 * time.Hour)}
	if !r.Fresh(now, ttl) {
		t.Fatalf("expected record 23h old to be fresh")
	}

	r = Record{CachedAt: now.Add(-25 * time.Hour)}
	if r.Fresh(now, ttl) {
		t.Fatalf("expected record 25h old to be expired")
	}

	r = Record{}
	if r.Fresh(now, ttl) {
		t.Fatalf("expected zero CachedAt to be expired")
	}
}
