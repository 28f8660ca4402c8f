package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Icon      string    `db:"icon" json:"icon"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Balance is a player's holding of one currency
type Balance struct {
	PlayerID   int64           `db:"player_id" json:"player_id"`
	CurrencyID string          `db:"currency_id" json:"currency_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}
