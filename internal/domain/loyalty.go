package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward is an amount of a single currency (level-up bonus, faucet payout)
type Reward struct {
	CurrencyID string          `json:"currency_id" yaml:"currency_id"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
}

// Tier - ступень лояльности, владеет упорядоченным списком уровней
type Tier struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Icon      string    `db:"icon" json:"icon"`
	Order     int       `db:"sort_order" json:"order"`
	Levels    []Level   `json:"levels"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Level belongs to exactly one tier
type Level struct {
	ID                     int64           `db:"id" json:"id"`
	TierID                 int64           `db:"tier_id" json:"tier_id"`
	LevelNumber            int             `db:"level_number" json:"level_number"`
	XPThreshold            float64         `db:"xp_threshold" json:"xp_threshold"`
	FaucetIntervalMinutes  int             `db:"faucet_interval_minutes" json:"faucet_interval_minutes"`
	WeeklyRakebackPercent  decimal.Decimal `db:"weekly_rakeback_percent" json:"weekly_rakeback_percent"`
	MonthlyRakebackPercent decimal.Decimal `db:"monthly_rakeback_percent" json:"monthly_rakeback_percent"`
	LevelUpBonus           []Reward        `db:"level_up_bonus" json:"level_up_bonus"`
	FaucetRewards          []Reward        `db:"faucet_rewards" json:"faucet_rewards"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
}

// PlayerXP is created lazily with xp = 0
type PlayerXP struct {
	PlayerID  int64     `db:"player_id" json:"player_id"`
	XP        float64   `db:"xp" json:"xp"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FaucetClaim - единственная запись о последнем клейме игрока (не по валютам)
type FaucetClaim struct {
	PlayerID      int64     `db:"player_id" json:"player_id"`
	CurrencyID    string    `db:"currency_id" json:"currency_id"`
	LastClaimedAt time.Time `db:"last_claimed_at" json:"last_claimed_at"`
	ClaimCount    int64     `db:"claim_count" json:"claim_count"`
}

// FaucetClaimRequest is applied by storage only if the previous claim is at or before Cutoff
type FaucetClaimRequest struct {
	PlayerID   int64
	CurrencyID string
	Amount     decimal.Decimal
	ClaimedAt  time.Time
	Cutoff     time.Time
}
