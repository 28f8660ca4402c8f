package integration

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"casino_loyalty/internal/db"
	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(context.Background(), pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

// tests share the database, so every fixture gets fresh ids
func uniquePlayer() int64 {
	return time.Now().UnixNano()/1000 + rand.Int63n(1000)
}

func uniqueOrder() int {
	return 1_000_000 + rand.Intn(1_000_000_000)
}

type fixture struct {
	currency *domain.Currency
	tier     *domain.Tier
	level    *domain.Level
}

// seedCatalog creates one currency and one tier with a single level at xp 0
func seedCatalog(t *testing.T, pool *pgxpool.Pool, interval int, reward string) fixture {
	t.Helper()
	ctx := context.Background()

	cur := &domain.Currency{ID: uuid.NewString(), Code: "T" + uuid.NewString()[:8], Name: "Test coin"}
	if err := repository.NewCurrencyRepository(pool).Create(ctx, cur); err != nil {
		t.Fatalf("create currency: %v", err)
	}

	catalog := repository.NewCatalogRepository(pool)
	tier := &domain.Tier{Name: "itest", Order: uniqueOrder()}
	if err := catalog.CreateTier(ctx, tier); err != nil {
		t.Fatalf("create tier: %v", err)
	}
	lvl := &domain.Level{
		TierID:                tier.ID,
		LevelNumber:           1,
		XPThreshold:           0,
		FaucetIntervalMinutes: interval,
		FaucetRewards:         []domain.Reward{{CurrencyID: cur.ID, Amount: decimal.RequireFromString(reward)}},
	}
	if err := catalog.CreateLevel(ctx, lvl); err != nil {
		t.Fatalf("create level: %v", err)
	}

	t.Cleanup(func() {
		_ = catalog.DeleteTier(context.Background(), tier.ID)
	})
	return fixture{currency: cur, tier: tier, level: lvl}
}
