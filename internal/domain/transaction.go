package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TxTypeFaucet       = "faucet"
	TxTypeLevelUpBonus = "level_up_bonus"
)

type Transaction struct {
	ID         int64                  `db:"id" json:"id"`
	PlayerID   int64                  `db:"player_id" json:"player_id"`
	CurrencyID string                 `db:"currency_id" json:"currency_id"`
	Type       string                 `db:"type" json:"type"`
	Amount     decimal.Decimal        `db:"amount" json:"amount"`
	Meta       map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}
