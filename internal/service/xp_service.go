package service

import (
	"context"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/events"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/loyalty"
)

// XPService changes player XP and grants level-up bonuses
type XPService struct {
	xp       XPStore
	catalog  *CatalogService
	balances *BalanceService
	audit    *AuditService
	pub      events.Publisher
}

func NewXPService(xp XPStore, catalog *CatalogService, balances *BalanceService, audit *AuditService, pub events.Publisher) *XPService {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &XPService{xp: xp, catalog: catalog, balances: balances, audit: audit, pub: pub}
}

// XPChange is the outcome of an XP mutation
type XPChange struct {
	PlayerID     int64               `json:"player_id"`
	PreviousXP   float64             `json:"previous_xp"`
	XP           float64             `json:"xp"`
	LevelsGained []loyalty.LevelInfo `json:"levels_gained"`
	Progress     loyalty.Progress    `json:"progress"`
}

func (s *XPService) Get(ctx context.Context, playerID int64) (*domain.PlayerXP, error) {
	return s.xp.Get(ctx, playerID)
}

// Add grants delta XP. Every level crossed pays its level-up bonus, in ladder order.
func (s *XPService) Add(ctx context.Context, actorID, playerID int64, delta float64) (*XPChange, error) {
	if err := loyalty.ValidateXP(delta); err != nil || delta == 0 {
		return nil, invalid("xp", "delta must be a positive number")
	}

	// каталог читаем до записи: при ошибке XP не должен измениться
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}

	before, rec, err := s.xp.Add(ctx, playerID, delta)
	if err != nil {
		return nil, err
	}
	XPGranted.Add(delta)

	change := &XPChange{
		PlayerID:     playerID,
		PreviousXP:   before,
		XP:           rec.XP,
		LevelsGained: loyalty.LevelsGained(tiers, before, rec.XP),
		Progress:     loyalty.Evaluate(tiers, rec.XP),
	}
	if change.LevelsGained == nil {
		change.LevelsGained = []loyalty.LevelInfo{}
	}

	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionXPAdd, domain.AuditCategoryXP, playerID, map[string]interface{}{
		"delta": delta, "previous_xp": before, "xp": rec.XP,
	})

	for _, lvl := range change.LevelsGained {
		s.grantLevelUp(ctx, playerID, lvl)
	}

	s.publish(ctx, events.New(events.TypeXPChanged, playerID, map[string]interface{}{
		"previous_xp": before, "xp": rec.XP,
	}))
	return change, nil
}

// grantLevelUp credits the level's bonus. The XP change is already stored,
// so a failed credit is logged and does not fail the request.
func (s *XPService) grantLevelUp(ctx context.Context, playerID int64, lvl loyalty.LevelInfo) {
	LevelUps.WithLabelValues(lvl.TierName).Inc()

	credited := []map[string]interface{}{}
	for _, r := range lvl.LevelUpBonus {
		if !r.Amount.IsPositive() {
			continue
		}
		_, err := s.balances.Credit(ctx, playerID, r.CurrencyID, r.Amount, domain.TxTypeLevelUpBonus, map[string]interface{}{
			"tier":  lvl.TierName,
			"level": lvl.LevelNumber,
		})
		if err != nil {
			logger.Error("level-up bonus credit failed",
				"player_id", playerID, "tier", lvl.TierName, "level", lvl.LevelNumber,
				"currency_id", r.CurrencyID, "error", err)
			continue
		}
		credited = append(credited, map[string]interface{}{"currency_id": r.CurrencyID, "amount": r.Amount.String()})
	}

	s.audit.Log(ctx, playerID, domain.AuditActionLevelUpBonus, domain.AuditCategoryXP, map[string]interface{}{
		"tier": lvl.TierName, "level": lvl.LevelNumber, "bonus": credited,
	})
	s.publish(ctx, events.New(events.TypeLevelUp, playerID, map[string]interface{}{
		"tier":         lvl.TierName,
		"tier_icon":    lvl.TierIcon,
		"level":        lvl.LevelNumber,
		"xp_threshold": lvl.XPThreshold,
		"bonus":        credited,
	}))
}

// Set overwrites XP. No bonuses are granted.
func (s *XPService) Set(ctx context.Context, actorID, playerID int64, value float64) (*XPChange, error) {
	if err := loyalty.ValidateXP(value); err != nil {
		return nil, err
	}
	before, err := s.xp.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	rec, err := s.xp.Set(ctx, playerID, value)
	if err != nil {
		return nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionXPSet, domain.AuditCategoryXP, playerID, map[string]interface{}{
		"previous_xp": before.XP, "xp": rec.XP,
	})
	s.publish(ctx, events.New(events.TypeXPChanged, playerID, map[string]interface{}{
		"previous_xp": before.XP, "xp": rec.XP,
	}))

	return &XPChange{
		PlayerID:     playerID,
		PreviousXP:   before.XP,
		XP:           rec.XP,
		LevelsGained: []loyalty.LevelInfo{},
		Progress:     loyalty.Evaluate(tiers, rec.XP),
	}, nil
}

// ResetAll zeroes every player's XP and returns how many records changed
func (s *XPService) ResetAll(ctx context.Context, actorID int64) (int64, error) {
	n, err := s.xp.ResetAll(ctx)
	if err != nil {
		return 0, err
	}
	s.audit.LogAdminAction(ctx, actorID, domain.AuditActionXPReset, domain.AuditCategoryXP, 0, map[string]interface{}{
		"players": n,
	})
	logger.Info("xp reset", "players", n, "admin_id", actorID)
	return n, nil
}

func (s *XPService) publish(ctx context.Context, evt events.Event) {
	if err := s.pub.Publish(ctx, evt); err != nil {
		logger.Warn("publish event failed", "type", evt.Type, "player_id", evt.PlayerID, "error", err)
	}
}
