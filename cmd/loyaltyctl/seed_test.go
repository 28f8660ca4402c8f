package main

import (
	"context"
	"strings"
	"testing"

	"casino_loyalty/internal/catalogfile"
	"casino_loyalty/internal/repository/memstore"
	"casino_loyalty/internal/service"
)

const catalogYAML = `
currencies:
  - code: usdt
    name: Tether
tiers:
  - name: Bronze
    order: 0
    levels:
      - level: 1
        xp: 0
        faucet_interval_minutes: 60
        faucet_rewards:
          - currency: usdt
            amount: "0.05"
      - level: 2
        xp: 250
  - name: Silver
    order: 1
    levels:
      - level: 1
        xp: 1000
        level_up_bonus:
          - currency: USDT
            amount: "5"
`

func TestSeedIsRepeatable(t *testing.T) {
	currencies := memstore.NewCurrencies()
	audit := service.NewAuditService(nil)
	svc := services{
		catalog:    service.NewCatalogService(memstore.NewCatalog(), currencies, audit, nil),
		currencies: service.NewCurrencyService(currencies, audit),
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		f, err := catalogfile.Parse(strings.NewReader(catalogYAML))
		if err != nil {
			t.Fatal(err)
		}
		n, err := seed(ctx, svc, f)
		if err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
		if n != 2 {
			t.Fatalf("seeded %d tiers; want 2", n)
		}
	}

	list, _ := svc.currencies.List(ctx)
	if len(list) != 1 || list[0].Code != "USDT" {
		t.Fatalf("currencies after reseed: %+v", list)
	}

	tiers, err := svc.catalog.Tiers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 2 || len(tiers[0].Levels)+len(tiers[1].Levels) != 3 {
		t.Fatalf("catalog after reseed: %+v", tiers)
	}
	for _, tier := range tiers {
		for _, l := range tier.Levels {
			for _, r := range append(l.FaucetRewards, l.LevelUpBonus...) {
				if r.CurrencyID != list[0].ID {
					t.Fatalf("reward points at %q, want %q", r.CurrencyID, list[0].ID)
				}
			}
		}
	}
}
