package service

import (
	"context"

	"casino_loyalty/internal/loyalty"
)

// LoyaltyService evaluates XP against the current catalog
type LoyaltyService struct {
	catalog *CatalogService
	xp      XPStore
}

func NewLoyaltyService(catalog *CatalogService, xp XPStore) *LoyaltyService {
	return &LoyaltyService{catalog: catalog, xp: xp}
}

// Level returns the level reached with xp, nil if none
func (s *LoyaltyService) Level(ctx context.Context, xp float64) (*loyalty.LevelInfo, error) {
	if err := loyalty.ValidateXP(xp); err != nil {
		return nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}
	return loyalty.CurrentLevel(tiers, xp), nil
}

// NextLevel returns the next level above xp, nil at max level
func (s *LoyaltyService) NextLevel(ctx context.Context, xp float64) (*loyalty.LevelInfo, error) {
	if err := loyalty.ValidateXP(xp); err != nil {
		return nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}
	return loyalty.NextLevel(tiers, xp), nil
}

func (s *LoyaltyService) Progress(ctx context.Context, xp float64) (loyalty.Progress, error) {
	if err := loyalty.ValidateXP(xp); err != nil {
		return loyalty.Progress{}, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return loyalty.Progress{}, err
	}
	return loyalty.Evaluate(tiers, xp), nil
}

// PlayerLoyalty is a player's XP with its evaluation
type PlayerLoyalty struct {
	PlayerID int64   `json:"player_id"`
	XP       float64 `json:"xp"`
	loyalty.Progress
}

// PlayerProgress loads (or lazily creates) the player's XP and evaluates it
func (s *LoyaltyService) PlayerProgress(ctx context.Context, playerID int64) (*PlayerLoyalty, error) {
	rec, err := s.xp.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}
	return &PlayerLoyalty{
		PlayerID: playerID,
		XP:       rec.XP,
		Progress: loyalty.Evaluate(tiers, rec.XP),
	}, nil
}
