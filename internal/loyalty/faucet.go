package loyalty

import "time"

// Eligibility describes whether a faucet claim is allowed at a given instant.
type Eligibility struct {
	Eligible    bool          `json:"eligible"`
	Remaining   time.Duration `json:"-"`
	NextClaimAt *time.Time    `json:"next_claim_at,omitempty"`
}

// RemainingMs is the remaining cooldown in milliseconds.
func (e Eligibility) RemainingMs() int64 {
	return e.Remaining.Milliseconds()
}

// Interval converts the configured minutes into a cooldown. Non-positive means none.
func Interval(intervalMinutes int) time.Duration {
	if intervalMinutes <= 0 {
		return 0
	}
	return time.Duration(intervalMinutes) * time.Minute
}

// CanClaim checks the cooldown since lastClaimedAt. A nil lastClaimedAt means never claimed.
func CanClaim(intervalMinutes int, lastClaimedAt *time.Time, now time.Time) Eligibility {
	interval := Interval(intervalMinutes)
	if interval == 0 || lastClaimedAt == nil {
		return Eligibility{Eligible: true}
	}

	next := lastClaimedAt.Add(interval)
	remaining := next.Sub(now)
	if remaining <= 0 {
		return Eligibility{Eligible: true}
	}
	return Eligibility{Eligible: false, Remaining: remaining, NextClaimAt: &next}
}

// NoCutoff accepts any stored claim time, including one later than the
// current claim (commits of concurrent claims land out of order).
var NoCutoff = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// ClaimCutoff is the latest previous-claim time that still allows a claim at now.
// Storage uses it as the condition of the atomic claim upsert.
func ClaimCutoff(intervalMinutes int, now time.Time) time.Time {
	interval := Interval(intervalMinutes)
	if interval == 0 {
		return NoCutoff
	}
	return now.Add(-interval)
}
