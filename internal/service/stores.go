package service

import (
	"context"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/repository"

	"github.com/shopspring/decimal"
)

// Storage contracts. Implemented by the pgx repositories and by memstore.

type CatalogStore interface {
	ListTiers(ctx context.Context) ([]domain.Tier, error)
	GetTier(ctx context.Context, id int64) (*domain.Tier, error)
	CreateTier(ctx context.Context, t *domain.Tier) error
	UpdateTier(ctx context.Context, t *domain.Tier) error
	UpsertTier(ctx context.Context, t *domain.Tier) error
	DeleteTier(ctx context.Context, id int64) error
	GetLevel(ctx context.Context, id int64) (*domain.Level, error)
	CreateLevel(ctx context.Context, l *domain.Level) error
	UpdateLevel(ctx context.Context, l *domain.Level) error
	UpsertLevel(ctx context.Context, l *domain.Level) error
	DeleteLevel(ctx context.Context, id int64) error
}

type CurrencyStore interface {
	List(ctx context.Context) ([]domain.Currency, error)
	Get(ctx context.Context, id string) (*domain.Currency, error)
	Create(ctx context.Context, c *domain.Currency) error
	Upsert(ctx context.Context, c *domain.Currency) error
	Update(ctx context.Context, c *domain.Currency) error
	Delete(ctx context.Context, id string) error
}

// XPStore creates the record with xp = 0 on first access.
type XPStore interface {
	Get(ctx context.Context, playerID int64) (*domain.PlayerXP, error)
	Add(ctx context.Context, playerID int64, delta float64) (before float64, after *domain.PlayerXP, err error)
	Set(ctx context.Context, playerID int64, value float64) (*domain.PlayerXP, error)
	ResetAll(ctx context.Context) (int64, error)
}

// FaucetStore keeps one claim record per player. Claim must apply the record
// update and the balance credit atomically, and only when the stored claim is
// at or before req.Cutoff; otherwise it returns repository.ErrClaimNotReady.
type FaucetStore interface {
	GetLast(ctx context.Context, playerID int64) (*domain.FaucetClaim, error)
	Claim(ctx context.Context, req domain.FaucetClaimRequest) (*domain.FaucetClaim, decimal.Decimal, error)
}

type BalanceStore interface {
	List(ctx context.Context, playerID int64) ([]domain.Balance, error)
	Credit(ctx context.Context, t *domain.Transaction) (decimal.Decimal, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, f repository.AuditFilter) ([]*domain.AuditLog, error)
}

type StatsStore interface {
	Snapshot(ctx context.Context, since time.Time) (*domain.LoyaltyStats, error)
	TopPlayers(ctx context.Context, limit int) ([]domain.PlayerXP, error)
}
