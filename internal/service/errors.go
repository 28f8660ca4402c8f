package service

import (
	"errors"
	"fmt"
	"time"

	"casino_loyalty/internal/loyalty"
)

var (
	ErrInvalidXP           = loyalty.ErrInvalidXP
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrCurrencyRequired    = errors.New("currency_id is required")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrRewardNotConfigured = errors.New("faucet reward is not configured for this currency at the current level")
	ErrNoLevel             = errors.New("player has not reached any loyalty level")
	ErrTierNotFound        = errors.New("tier not found")
	ErrLevelNotFound       = errors.New("level not found")
	ErrClaimNotFound       = errors.New("no faucet claim recorded")
	ErrDuplicateTierOrder  = errors.New("tier order already in use")
	ErrDuplicateLevel      = errors.New("level number already exists in tier")
	ErrDuplicateCurrency   = errors.New("currency code already exists")
)

// ValidationError reports bad input on a specific field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CooldownError is returned when a faucet claim arrives before the interval elapsed
type CooldownError struct {
	Remaining   time.Duration
	NextClaimAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("faucet cooldown: next claim in %s", e.Remaining.Round(time.Second))
}

func (e *CooldownError) RemainingMs() int64 {
	return e.Remaining.Milliseconds()
}
