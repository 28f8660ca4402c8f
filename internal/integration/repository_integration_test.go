package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/loyalty"
	"casino_loyalty/internal/repository"

	"github.com/shopspring/decimal"
)

func TestFaucetRepository_ConcurrentClaimsSingleWinner(t *testing.T) {
	pool := openDB(t)
	fx := seedCatalog(t, pool, 60, "0.25")
	repo := repository.NewFaucetRepository(pool)
	ctx := context.Background()

	player := uniquePlayer()
	now := time.Now().UTC().Truncate(time.Microsecond)
	req := domain.FaucetClaimRequest{
		PlayerID:   player,
		CurrencyID: fx.currency.ID,
		Amount:     decimal.RequireFromString("0.25"),
		ClaimedAt:  now,
		Cutoff:     now.Add(-time.Hour),
	}

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		notReady int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.Claim(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrClaimNotReady):
				notReady++
			default:
				t.Errorf("claim: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || notReady != workers-1 {
		t.Fatalf("expected 1 success and %d rejections, got %d / %d", workers-1, ok, notReady)
	}

	last, err := repo.GetLast(ctx, player)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if last.ClaimCount != 1 || !last.LastClaimedAt.Equal(now) {
		t.Fatalf("unexpected claim record: %+v", last)
	}

	bals, err := repository.NewBalanceRepository(pool).List(ctx, player)
	if err != nil {
		t.Fatalf("list balances: %v", err)
	}
	if len(bals) != 1 || !bals[0].Amount.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("balance credited more than once: %+v", bals)
	}

	txs, err := repository.NewTransactionRepository(pool).GetByPlayerID(ctx, player, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TxTypeFaucet {
		t.Fatalf("expected one faucet ledger row, got %d", len(txs))
	}
}

func TestFaucetRepository_ClaimAfterCooldown(t *testing.T) {
	pool := openDB(t)
	fx := seedCatalog(t, pool, 60, "1")
	repo := repository.NewFaucetRepository(pool)
	ctx := context.Background()

	player := uniquePlayer()
	first := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Microsecond)
	claim := func(at time.Time) error {
		_, _, err := repo.Claim(ctx, domain.FaucetClaimRequest{
			PlayerID: player, CurrencyID: fx.currency.ID, Amount: decimal.NewFromInt(1),
			ClaimedAt: at, Cutoff: at.Add(-time.Hour),
		})
		return err
	}

	if err := claim(first); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := claim(first.Add(30 * time.Minute)); !errors.Is(err, repository.ErrClaimNotReady) {
		t.Fatalf("expected ErrClaimNotReady, got %v", err)
	}
	// exactly one interval later is allowed
	if err := claim(first.Add(time.Hour)); err != nil {
		t.Fatalf("claim at cooldown boundary: %v", err)
	}

	last, err := repo.GetLast(ctx, player)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if last.ClaimCount != 2 {
		t.Fatalf("claim count = %d; want 2", last.ClaimCount)
	}
}

func TestFaucetRepository_NoCooldownOutOfOrderCommits(t *testing.T) {
	pool := openDB(t)
	fx := seedCatalog(t, pool, 0, "1")
	repo := repository.NewFaucetRepository(pool)
	ctx := context.Background()

	player := uniquePlayer()
	t2 := time.Now().UTC().Truncate(time.Microsecond)
	t1 := t2.Add(-time.Millisecond)
	for _, at := range []time.Time{t2, t1} {
		_, _, err := repo.Claim(ctx, domain.FaucetClaimRequest{
			PlayerID: player, CurrencyID: fx.currency.ID, Amount: decimal.NewFromInt(1),
			ClaimedAt: at, Cutoff: loyalty.ClaimCutoff(fx.level.FaucetIntervalMinutes, at),
		})
		if err != nil {
			t.Fatalf("claim at %v: %v", at, err)
		}
	}

	last, err := repo.GetLast(ctx, player)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if last.ClaimCount != 2 || !last.LastClaimedAt.Equal(t2) {
		t.Fatalf("unexpected claim record %+v", last)
	}
}

func TestXPRepository_AddSetReset(t *testing.T) {
	pool := openDB(t)
	repo := repository.NewXPRepository(pool)
	ctx := context.Background()
	player := uniquePlayer()

	rec, err := repo.Get(ctx, player)
	if err != nil || rec.XP != 0 {
		t.Fatalf("lazy create: %+v %v", rec, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.Add(ctx, player, 1.5); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err = repo.Get(ctx, player)
	if err != nil || rec.XP != 15 {
		t.Fatalf("xp after concurrent adds = %+v (%v); want 15", rec, err)
	}

	before, rec, err := repo.Add(ctx, player, 5)
	if err != nil || before != 15 || rec.XP != 20 {
		t.Fatalf("add returned before=%v after=%+v err=%v", before, rec, err)
	}

	if rec, err = repo.Set(ctx, player, 3); err != nil || rec.XP != 3 {
		t.Fatalf("set: %+v %v", rec, err)
	}

	if _, err := repo.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if rec, _ = repo.Get(ctx, player); rec.XP != 0 {
		t.Fatalf("xp after reset = %v", rec.XP)
	}
}

func TestXPRepository_GetIsReadOnlyForExistingRows(t *testing.T) {
	pool := openDB(t)
	repo := repository.NewXPRepository(pool)
	ctx := context.Background()
	player := uniquePlayer()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := repo.Get(ctx, player)
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			if rec.XP != 0 {
				t.Errorf("xp = %v; want 0", rec.XP)
			}
		}()
	}
	wg.Wait()

	version := func() string {
		var xmin string
		if err := pool.QueryRow(ctx, `SELECT xmin::text FROM player_xp WHERE player_id = $1`, player).Scan(&xmin); err != nil {
			t.Fatalf("xmin: %v", err)
		}
		return xmin
	}
	before := version()
	if _, err := repo.Get(ctx, player); err != nil {
		t.Fatalf("get: %v", err)
	}
	if after := version(); after != before {
		t.Fatalf("row rewritten by read: xmin %s -> %s", before, after)
	}
}

func TestCatalogRepository_Constraints(t *testing.T) {
	pool := openDB(t)
	fx := seedCatalog(t, pool, 0, "1")
	repo := repository.NewCatalogRepository(pool)
	ctx := context.Background()

	if err := repo.CreateTier(ctx, &domain.Tier{Name: "dup", Order: fx.tier.Order}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate order: expected ErrConflict, got %v", err)
	}
	if err := repo.CreateLevel(ctx, &domain.Level{TierID: fx.tier.ID, LevelNumber: 1, XPThreshold: 10}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate level number: expected ErrConflict, got %v", err)
	}
	if err := repo.CreateLevel(ctx, &domain.Level{TierID: -1, LevelNumber: 1}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown tier: expected ErrNotFound, got %v", err)
	}

	tier, err := repo.GetTier(ctx, fx.tier.ID)
	if err != nil {
		t.Fatalf("get tier: %v", err)
	}
	if len(tier.Levels) != 1 || len(tier.Levels[0].FaucetRewards) != 1 {
		t.Fatalf("levels not loaded with rewards: %+v", tier.Levels)
	}
	if !tier.Levels[0].FaucetRewards[0].Amount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("reward amount = %s", tier.Levels[0].FaucetRewards[0].Amount)
	}

	if err := repo.DeleteTier(ctx, fx.tier.ID); err != nil {
		t.Fatalf("delete tier: %v", err)
	}
	if _, err := repo.GetLevel(ctx, fx.level.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("level survived tier delete: %v", err)
	}
}
