// Package loyalty evaluates a player's standing on the tier/level ladder and
// the faucet cooldown for that standing. Everything here is pure: callers load
// the catalog and player state, validate them, and pass plain values in.
package loyalty

import (
	"errors"
	"math"
	"sort"

	"casino_loyalty/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrInvalidXP = errors.New("xp must be a non-negative number")

// LevelInfo is the flat view of one rung of the ladder.
type LevelInfo struct {
	TierID                 int64           `json:"tier_id"`
	TierName               string          `json:"tier_name"`
	TierIcon               string          `json:"tier_icon"`
	TierOrder              int             `json:"tier_order"`
	LevelID                int64           `json:"level_id"`
	LevelNumber            int             `json:"level_number"`
	XPThreshold            float64         `json:"xp_threshold"`
	FaucetIntervalMinutes  int             `json:"faucet_interval_minutes"`
	WeeklyRakebackPercent  decimal.Decimal `json:"weekly_rakeback_percent"`
	MonthlyRakebackPercent decimal.Decimal `json:"monthly_rakeback_percent"`
	LevelUpBonus           []domain.Reward `json:"level_up_bonus"`
	FaucetRewards          []domain.Reward `json:"faucet_rewards"`
}

// FaucetReward returns the configured faucet amount for currencyID, zero if absent.
func (l LevelInfo) FaucetReward(currencyID string) decimal.Decimal {
	for _, r := range l.FaucetRewards {
		if r.CurrencyID == currencyID {
			return r.Amount
		}
	}
	return decimal.Zero
}

// Progress is the result of evaluating xp against the ladder.
type Progress struct {
	CurrentLevel       *LevelInfo `json:"current_level"`
	NextLevel          *LevelInfo `json:"next_level"`
	ProgressPercentage float64    `json:"progress_percentage"`
	XPToNextLevel      float64    `json:"xp_to_next_level"`
	MaxLevel           bool       `json:"max_level"`
}

// ValidateXP rejects values the evaluator does not accept.
func ValidateXP(xp float64) error {
	if math.IsNaN(xp) || math.IsInf(xp, 0) || xp < 0 {
		return ErrInvalidXP
	}
	return nil
}

// Flatten orders tiers by Order and each tier's levels by XPThreshold.
// Sorting is stable, so equal keys keep catalog order. The input is not modified.
func Flatten(tiers []domain.Tier) []LevelInfo {
	ordered := make([]domain.Tier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var ladder []LevelInfo
	for _, t := range ordered {
		levels := make([]domain.Level, len(t.Levels))
		copy(levels, t.Levels)
		sort.SliceStable(levels, func(i, j int) bool { return levels[i].XPThreshold < levels[j].XPThreshold })

		for _, l := range levels {
			ladder = append(ladder, newLevelInfo(t, l))
		}
	}
	return ladder
}

func newLevelInfo(t domain.Tier, l domain.Level) LevelInfo {
	return LevelInfo{
		TierID:                 t.ID,
		TierName:               t.Name,
		TierIcon:               t.Icon,
		TierOrder:              t.Order,
		LevelID:                l.ID,
		LevelNumber:            l.LevelNumber,
		XPThreshold:            l.XPThreshold,
		FaucetIntervalMinutes:  l.FaucetIntervalMinutes,
		WeeklyRakebackPercent:  l.WeeklyRakebackPercent,
		MonthlyRakebackPercent: l.MonthlyRakebackPercent,
		LevelUpBonus:           append([]domain.Reward(nil), l.LevelUpBonus...),
		FaucetRewards:          append([]domain.Reward(nil), l.FaucetRewards...),
	}
}

// currentIndex returns the position of the last ladder entry with threshold <= xp, or -1.
func currentIndex(ladder []LevelInfo, xp float64) int {
	idx := -1
	for i := range ladder {
		if ladder[i].XPThreshold <= xp {
			idx = i
		}
	}
	return idx
}

// nextIndex returns the entry with the smallest threshold above xp across all tiers.
// On equal thresholds the first one in ladder order wins.
func nextIndex(ladder []LevelInfo, xp float64) int {
	idx := -1
	for i := range ladder {
		th := ladder[i].XPThreshold
		if th <= xp {
			continue
		}
		if idx == -1 || th < ladder[idx].XPThreshold {
			idx = i
		}
	}
	return idx
}

// CurrentLevel returns the highest level attained with xp, nil if none qualifies.
func CurrentLevel(tiers []domain.Tier, xp float64) *LevelInfo {
	ladder := Flatten(tiers)
	if i := currentIndex(ladder, xp); i >= 0 {
		return &ladder[i]
	}
	return nil
}

// NextLevel returns the closest level above xp, nil once the top threshold is reached.
func NextLevel(tiers []domain.Tier, xp float64) *LevelInfo {
	ladder := Flatten(tiers)
	if i := nextIndex(ladder, xp); i >= 0 {
		return &ladder[i]
	}
	return nil
}

// Evaluate computes current/next level and the progress between them.
func Evaluate(tiers []domain.Tier, xp float64) Progress {
	ladder := Flatten(tiers)

	var p Progress
	if i := currentIndex(ladder, xp); i >= 0 {
		p.CurrentLevel = &ladder[i]
	}
	if i := nextIndex(ladder, xp); i >= 0 {
		p.NextLevel = &ladder[i]
	}

	switch {
	case p.NextLevel == nil:
		p.ProgressPercentage = 100
		p.XPToNextLevel = 0
		p.MaxLevel = p.CurrentLevel != nil
	case p.CurrentLevel == nil:
		p.ProgressPercentage = 0
		p.XPToNextLevel = p.NextLevel.XPThreshold - xp
	default:
		p.XPToNextLevel = p.NextLevel.XPThreshold - xp
		span := p.NextLevel.XPThreshold - p.CurrentLevel.XPThreshold
		if span <= 0 {
			p.ProgressPercentage = 100
		} else {
			p.ProgressPercentage = clamp(100*(xp-p.CurrentLevel.XPThreshold)/span, 0, 100)
		}
	}
	return p
}

// LevelsGained lists the levels newly attained when xp grows from oldXP to newXP, in ladder order.
func LevelsGained(tiers []domain.Tier, oldXP, newXP float64) []LevelInfo {
	ladder := Flatten(tiers)
	from := currentIndex(ladder, oldXP)
	to := currentIndex(ladder, newXP)
	if to <= from {
		return nil
	}
	return ladder[from+1 : to+1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
