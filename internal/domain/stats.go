package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyStats is the admin dashboard snapshot
type LoyaltyStats struct {
	Players            int64          `json:"players"`
	ActivePlayers      int64          `json:"active_players"` // xp > 0
	TotalXP            float64        `json:"total_xp"`
	FaucetClaims       int64          `json:"faucet_claims"` // all time
	FaucetClaimsSince  int64          `json:"faucet_claims_since"`
	FaucetPayoutsSince []FaucetPayout `json:"faucet_payouts_since"`
	Since              time.Time      `json:"since"`
}

type FaucetPayout struct {
	CurrencyID   string          `json:"currency_id"`
	CurrencyCode string          `json:"currency_code,omitempty"`
	Claims       int64           `json:"claims"`
	Amount       decimal.Decimal `json:"amount"`
}
