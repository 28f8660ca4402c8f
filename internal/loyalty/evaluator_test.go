package loyalty

import (
	"math"
	"reflect"
	"testing"

	"casino_loyalty/internal/domain"

	"github.com/shopspring/decimal"
)

// sampleCatalog: tier A (order 0) levels 0/100, tier B (order 1) levels 150/500.
// Tiers and levels are deliberately out of order.
func sampleCatalog() []domain.Tier {
	return []domain.Tier{
		{
			ID: 2, Name: "B", Order: 1,
			Levels: []domain.Level{
				{ID: 22, TierID: 2, LevelNumber: 2, XPThreshold: 500},
				{ID: 21, TierID: 2, LevelNumber: 1, XPThreshold: 150},
			},
		},
		{
			ID: 1, Name: "A", Order: 0,
			Levels: []domain.Level{
				{ID: 12, TierID: 1, LevelNumber: 2, XPThreshold: 100},
				{ID: 11, TierID: 1, LevelNumber: 1, XPThreshold: 0, FaucetIntervalMinutes: 60,
					FaucetRewards: []domain.Reward{{CurrencyID: "btc", Amount: decimal.RequireFromString("0.0001")}}},
			},
		},
	}
}

func levelKey(l *LevelInfo) string {
	if l == nil {
		return "<nil>"
	}
	return l.TierName + "/" + string(rune('0'+l.LevelNumber))
}

func TestFlattenOrdersByTierThenThreshold(t *testing.T) {
	ladder := Flatten(sampleCatalog())
	var got []float64
	for _, l := range ladder {
		got = append(got, l.XPThreshold)
	}
	want := []float64{0, 100, 150, 500}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ladder thresholds = %v; want %v", got, want)
	}
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	tiers := sampleCatalog()
	_ = Flatten(tiers)
	if tiers[0].Name != "B" || tiers[0].Levels[0].XPThreshold != 500 {
		t.Fatalf("input catalog was reordered")
	}
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name     string
		xp       float64
		current  string
		next     string
		percent  float64
		xpToNext float64
		maxLevel bool
	}{
		{"start", 0, "A/1", "A/2", 0, 100, false},
		{"mid tier boundary", 120, "A/2", "B/1", 40, 30, false},
		{"exact threshold", 150, "B/1", "B/2", 0, 350, false},
		{"max level", 500, "B/2", "<nil>", 100, 0, true},
		{"beyond max", 9000, "B/2", "<nil>", 100, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Evaluate(sampleCatalog(), tc.xp)
			if got := levelKey(p.CurrentLevel); got != tc.current {
				t.Fatalf("current = %s; want %s", got, tc.current)
			}
			if got := levelKey(p.NextLevel); got != tc.next {
				t.Fatalf("next = %s; want %s", got, tc.next)
			}
			if math.Abs(p.ProgressPercentage-tc.percent) > 1e-9 {
				t.Fatalf("progress = %v; want %v", p.ProgressPercentage, tc.percent)
			}
			if p.XPToNextLevel != tc.xpToNext {
				t.Fatalf("xp to next = %v; want %v", p.XPToNextLevel, tc.xpToNext)
			}
			if p.MaxLevel != tc.maxLevel {
				t.Fatalf("max level = %v; want %v", p.MaxLevel, tc.maxLevel)
			}
		})
	}
}

func TestCurrentAndNextMatchEvaluate(t *testing.T) {
	for _, xp := range []float64{0, 50, 100, 149.5, 150, 499, 500} {
		p := Evaluate(sampleCatalog(), xp)
		if levelKey(CurrentLevel(sampleCatalog(), xp)) != levelKey(p.CurrentLevel) {
			t.Fatalf("xp=%v: CurrentLevel disagrees with Evaluate", xp)
		}
		if levelKey(NextLevel(sampleCatalog(), xp)) != levelKey(p.NextLevel) {
			t.Fatalf("xp=%v: NextLevel disagrees with Evaluate", xp)
		}
	}
}

func TestNoQualifyingLevel(t *testing.T) {
	tiers := []domain.Tier{{ID: 1, Name: "A", Levels: []domain.Level{
		{LevelNumber: 1, XPThreshold: 10},
		{LevelNumber: 2, XPThreshold: 20},
	}}}

	p := Evaluate(tiers, 5)
	if p.CurrentLevel != nil {
		t.Fatalf("expected no current level, got %s", levelKey(p.CurrentLevel))
	}
	if levelKey(p.NextLevel) != "A/1" {
		t.Fatalf("next = %s; want A/1", levelKey(p.NextLevel))
	}
	if p.ProgressPercentage != 0 || p.XPToNextLevel != 5 {
		t.Fatalf("got %v%% / %v to next; want 0%% / 5", p.ProgressPercentage, p.XPToNextLevel)
	}
}

func TestEmptyCatalog(t *testing.T) {
	if CurrentLevel(nil, 10) != nil || NextLevel(nil, 10) != nil {
		t.Fatalf("expected nil levels for empty catalog")
	}
	p := Evaluate(nil, 10)
	if p.ProgressPercentage != 100 || p.XPToNextLevel != 0 || p.MaxLevel {
		t.Fatalf("unexpected empty catalog progress: %+v", p)
	}
}

func TestNextLevelTieKeepsLadderOrder(t *testing.T) {
	tiers := []domain.Tier{
		{ID: 1, Name: "A", Order: 0, Levels: []domain.Level{{LevelNumber: 1, XPThreshold: 0}}},
		{ID: 2, Name: "B", Order: 1, Levels: []domain.Level{{LevelNumber: 1, XPThreshold: 100}}},
		{ID: 3, Name: "C", Order: 2, Levels: []domain.Level{{LevelNumber: 1, XPThreshold: 100}}},
	}
	if got := levelKey(NextLevel(tiers, 50)); got != "B/1" {
		t.Fatalf("next = %s; want B/1", got)
	}
}

func TestNextLevelIsGlobalMinimum(t *testing.T) {
	// tier order and thresholds disagree: the next level is searched over every tier
	tiers := []domain.Tier{
		{ID: 1, Name: "A", Order: 0, Levels: []domain.Level{{LevelNumber: 1, XPThreshold: 0}, {LevelNumber: 2, XPThreshold: 300}}},
		{ID: 2, Name: "B", Order: 1, Levels: []domain.Level{{LevelNumber: 1, XPThreshold: 200}}},
	}
	if got := levelKey(NextLevel(tiers, 10)); got != "B/1" {
		t.Fatalf("next = %s; want B/1", got)
	}
	// current is the last ladder entry at or below xp
	if got := levelKey(CurrentLevel(tiers, 350)); got != "B/1" {
		t.Fatalf("current = %s; want B/1", got)
	}
}

func TestDegenerateEqualThresholds(t *testing.T) {
	tiers := []domain.Tier{{ID: 1, Name: "A", Levels: []domain.Level{
		{LevelNumber: 1, XPThreshold: 100},
		{LevelNumber: 2, XPThreshold: 100},
	}}}
	p := Evaluate(tiers, 100)
	if levelKey(p.CurrentLevel) != "A/2" {
		t.Fatalf("current = %s; want A/2", levelKey(p.CurrentLevel))
	}
	if p.ProgressPercentage != 100 || math.IsNaN(p.ProgressPercentage) {
		t.Fatalf("progress = %v; want 100", p.ProgressPercentage)
	}
}

func TestProgressMonotonicAndBounded(t *testing.T) {
	tiers := sampleCatalog()
	prev := -1.0
	prevNext := ""
	for xp := 0.0; xp <= 600; xp += 0.5 {
		p := Evaluate(tiers, xp)
		if p.ProgressPercentage < 0 || p.ProgressPercentage > 100 {
			t.Fatalf("xp=%v: progress %v out of range", xp, p.ProgressPercentage)
		}
		if p.XPToNextLevel < 0 {
			t.Fatalf("xp=%v: negative xp to next", xp)
		}
		key := levelKey(p.CurrentLevel) + ">" + levelKey(p.NextLevel)
		if key == prevNext && p.ProgressPercentage < prev {
			t.Fatalf("xp=%v: progress decreased from %v to %v", xp, prev, p.ProgressPercentage)
		}
		prev, prevNext = p.ProgressPercentage, key
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	tiers := sampleCatalog()
	a := Evaluate(tiers, 120)
	b := Evaluate(tiers, 120)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated evaluation differs: %+v vs %+v", a, b)
	}
}

func TestLevelsGained(t *testing.T) {
	tiers := sampleCatalog()
	cases := []struct {
		from, to float64
		want     []string
	}{
		{0, 0, nil},
		{0, 99, nil},
		{0, 120, []string{"A/2"}},
		{50, 600, []string{"A/2", "B/1", "B/2"}},
		{600, 0, nil},
	}
	for _, tc := range cases {
		var got []string
		for _, l := range LevelsGained(tiers, tc.from, tc.to) {
			l := l
			got = append(got, levelKey(&l))
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("LevelsGained(%v, %v) = %v; want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFaucetReward(t *testing.T) {
	lvl := CurrentLevel(sampleCatalog(), 0)
	if !lvl.FaucetReward("btc").Equal(decimal.RequireFromString("0.0001")) {
		t.Fatalf("unexpected btc reward %s", lvl.FaucetReward("btc"))
	}
	if !lvl.FaucetReward("eth").IsZero() {
		t.Fatalf("expected zero reward for unconfigured currency")
	}
}

func TestValidateXP(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		if ValidateXP(v) == nil {
			t.Fatalf("ValidateXP(%v) accepted invalid value", v)
		}
	}
	if err := ValidateXP(0); err != nil {
		t.Fatalf("ValidateXP(0) = %v", err)
	}
}
