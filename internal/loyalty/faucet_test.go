package loyalty

import (
	"testing"
	"time"
)

func TestCanClaim(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	halfHourAgo := now.Add(-30 * time.Minute)
	twoHoursAgo := now.Add(-2 * time.Hour)
	exactlyHourAgo := now.Add(-time.Hour)

	cases := []struct {
		name      string
		interval  int
		last      *time.Time
		eligible  bool
		remaining time.Duration
	}{
		{"never claimed", 60, nil, true, 0},
		{"cooldown running", 60, &halfHourAgo, false, 30 * time.Minute},
		{"cooldown elapsed", 60, &twoHoursAgo, true, 0},
		{"boundary", 60, &exactlyHourAgo, true, 0},
		{"no interval", 0, &halfHourAgo, true, 0},
		{"no interval just claimed", 0, &now, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanClaim(tc.interval, tc.last, now)
			if got.Eligible != tc.eligible {
				t.Fatalf("eligible = %v; want %v", got.Eligible, tc.eligible)
			}
			if got.Remaining != tc.remaining {
				t.Fatalf("remaining = %v; want %v", got.Remaining, tc.remaining)
			}
			if got.Eligible && got.NextClaimAt != nil {
				t.Fatalf("eligible result carries next claim time")
			}
		})
	}
}

func TestCanClaimRemainingMs(t *testing.T) {
	now := time.Now()
	last := now.Add(-30 * time.Minute)
	got := CanClaim(60, &last, now)
	if got.RemainingMs() != 30*60000 {
		t.Fatalf("remaining ms = %d; want %d", got.RemainingMs(), 30*60000)
	}
	if got.NextClaimAt == nil || !got.NextClaimAt.Equal(last.Add(time.Hour)) {
		t.Fatalf("next claim at = %v; want %v", got.NextClaimAt, last.Add(time.Hour))
	}
}

func TestClaimCutoff(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := ClaimCutoff(60, now); !got.Equal(now.Add(-time.Hour)) {
		t.Fatalf("cutoff = %v", got)
	}
	// without a cooldown a stored claim from the future must not block
	later := now.Add(time.Millisecond)
	for _, minutes := range []int{0, -5} {
		if got := ClaimCutoff(minutes, now); got.Before(later) {
			t.Fatalf("cutoff(%d) = %v; blocks a claim stored at %v", minutes, got, later)
		}
	}
}
