package service

import (
	"context"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/loyalty"
)

// StatsService provides admin statistics
type StatsService struct {
	store      StatsStore
	catalog    *CatalogService
	currencies CurrencyStore
}

func NewStatsService(store StatsStore, catalog *CatalogService, currencies CurrencyStore) *StatsService {
	return &StatsService{store: store, catalog: catalog, currencies: currencies}
}

// GetStats returns totals plus faucet activity since the start of now's UTC day
func (s *StatsService) GetStats(ctx context.Context, now time.Time) (*domain.LoyaltyStats, error) {
	today := now.UTC().Truncate(24 * time.Hour)

	stats, err := s.store.Snapshot(ctx, today)
	if err != nil {
		return nil, err
	}
	for i := range stats.FaucetPayoutsSince {
		p := &stats.FaucetPayoutsSince[i]
		// удалённая валюта остаётся в истории без кода
		if cur, err := s.currencies.Get(ctx, p.CurrencyID); err == nil {
			p.CurrencyCode = cur.Code
		}
	}
	return stats, nil
}

type TopPlayer struct {
	PlayerID int64              `json:"player_id"`
	XP       float64            `json:"xp"`
	Level    *loyalty.LevelInfo `json:"level"`
}

// TopPlayers lists the players with the most xp and their current level. limit is clamped to [1, 100].
func (s *StatsService) TopPlayers(ctx context.Context, limit int) ([]TopPlayer, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	players, err := s.store.TopPlayers(ctx, limit)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}

	top := make([]TopPlayer, 0, len(players))
	for _, p := range players {
		top = append(top, TopPlayer{
			PlayerID: p.PlayerID,
			XP:       p.XP,
			Level:    loyalty.CurrentLevel(tiers, p.XP),
		})
	}
	return top, nil
}
