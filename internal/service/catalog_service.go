package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/events"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const catalogCacheKey = "loyalty:catalog:v1"

var hundred = decimal.NewFromInt(100)

// CatalogService manages tiers and levels and serves the catalog to the evaluator.
// With a redis client and positive ttl the full catalog is cached; every write drops the key.
type CatalogService struct {
	store      CatalogStore
	currencies CurrencyStore
	audit      *AuditService
	pub        events.Publisher

	cache *redis.Client
	ttl   time.Duration
}

func NewCatalogService(store CatalogStore, currencies CurrencyStore, audit *AuditService, pub events.Publisher) *CatalogService {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &CatalogService{store: store, currencies: currencies, audit: audit, pub: pub}
}

// WithCache enables the redis catalog cache
func (s *CatalogService) WithCache(cli *redis.Client, ttl time.Duration) *CatalogService {
	s.cache = cli
	s.ttl = ttl
	return s
}

// Tiers returns the whole catalog, tiers with nested levels
func (s *CatalogService) Tiers(ctx context.Context) ([]domain.Tier, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.store.ListTiers(ctx)
	}

	if raw, err := s.cache.Get(ctx, catalogCacheKey).Bytes(); err == nil {
		var tiers []domain.Tier
		if err := json.Unmarshal(raw, &tiers); err == nil {
			return tiers, nil
		}
		logger.Warn("catalog cache entry is corrupt", "key", catalogCacheKey)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("catalog cache read failed", "error", err)
	}

	tiers, err := s.store.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(tiers); err == nil {
		if err := s.cache.Set(ctx, catalogCacheKey, raw, s.ttl).Err(); err != nil {
			logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return tiers, nil
}

func (s *CatalogService) invalidate(ctx context.Context, actorID int64, action string, details map[string]interface{}) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, catalogCacheKey).Err(); err != nil {
			logger.Warn("catalog cache invalidation failed", "error", err)
		}
	}
	s.audit.LogAdminAction(ctx, actorID, action, domain.AuditCategoryCatalog, 0, details)
	if err := s.pub.Publish(ctx, events.New(events.TypeCatalogChanged, 0, map[string]interface{}{"action": action})); err != nil {
		logger.Warn("publish catalog event failed", "error", err)
	}
}

func (s *CatalogService) GetTier(ctx context.Context, id int64) (*domain.Tier, error) {
	t, err := s.store.GetTier(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTierNotFound
	}
	return t, err
}

func validateTier(t *domain.Tier) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("name", "required")
	}
	if t.Order < 0 {
		return invalid("order", "must be non-negative")
	}
	return nil
}

func (s *CatalogService) CreateTier(ctx context.Context, actorID int64, t *domain.Tier) error {
	if err := validateTier(t); err != nil {
		return err
	}
	if err := s.store.CreateTier(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateTierOrder
		}
		return err
	}
	s.invalidate(ctx, actorID, domain.AuditActionTierCreate, map[string]interface{}{"tier_id": t.ID, "name": t.Name, "order": t.Order})
	return nil
}

func (s *CatalogService) UpdateTier(ctx context.Context, actorID int64, t *domain.Tier) error {
	if err := validateTier(t); err != nil {
		return err
	}
	if err := s.store.UpdateTier(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrTierNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrDuplicateTierOrder
		}
		return err
	}
	s.invalidate(ctx, actorID, domain.AuditActionTierUpdate, map[string]interface{}{"tier_id": t.ID, "name": t.Name, "order": t.Order})
	return nil
}

// DeleteTier removes the tier together with its levels
func (s *CatalogService) DeleteTier(ctx context.Context, actorID, id int64) error {
	if err := s.store.DeleteTier(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTierNotFound
		}
		return err
	}
	s.invalidate(ctx, actorID, domain.AuditActionTierDelete, map[string]interface{}{"tier_id": id})
	return nil
}

func (s *CatalogService) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	l, err := s.store.GetLevel(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLevelNotFound
	}
	return l, err
}

func (s *CatalogService) validateLevel(ctx context.Context, l *domain.Level) error {
	if l.LevelNumber < 1 {
		return invalid("level_number", "must be at least 1")
	}
	if math.IsNaN(l.XPThreshold) || math.IsInf(l.XPThreshold, 0) || l.XPThreshold < 0 {
		return invalid("xp_threshold", "must be a non-negative number")
	}
	if l.FaucetIntervalMinutes < 0 {
		return invalid("faucet_interval_minutes", "must be non-negative")
	}
	for field, p := range map[string]decimal.Decimal{
		"weekly_rakeback_percent":  l.WeeklyRakebackPercent,
		"monthly_rakeback_percent": l.MonthlyRakebackPercent,
	} {
		if p.IsNegative() || p.GreaterThan(hundred) {
			return invalid(field, "must be between 0 and 100")
		}
	}
	if err := s.validateRewards(ctx, "level_up_bonus", l.LevelUpBonus); err != nil {
		return err
	}
	return s.validateRewards(ctx, "faucet_rewards", l.FaucetRewards)
}

func (s *CatalogService) validateRewards(ctx context.Context, field string, rewards []domain.Reward) error {
	seen := make(map[string]bool, len(rewards))
	for _, r := range rewards {
		if r.CurrencyID == "" {
			return invalid(field, "currency_id is required")
		}
		if seen[r.CurrencyID] {
			return invalid(field, "duplicate currency "+r.CurrencyID)
		}
		seen[r.CurrencyID] = true
		if r.Amount.IsNegative() {
			return invalid(field, "amount must be non-negative")
		}
		if s.currencies == nil {
			continue
		}
		if _, err := s.currencies.Get(ctx, r.CurrencyID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid(field, "unknown currency "+r.CurrencyID)
			}
			return err
		}
	}
	return nil
}

func mapLevelErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrLevelNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicateLevel
	}
	return err
}

// CreateLevel adds a level under l.TierID
func (s *CatalogService) CreateLevel(ctx context.Context, actorID int64, l *domain.Level) error {
	if err := s.validateLevel(ctx, l); err != nil {
		return err
	}
	if _, err := s.GetTier(ctx, l.TierID); err != nil {
		return err
	}
	if err := s.store.CreateLevel(ctx, l); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTierNotFound
		}
		return mapLevelErr(err)
	}
	s.invalidate(ctx, actorID, domain.AuditActionLevelCreate, map[string]interface{}{"level_id": l.ID, "tier_id": l.TierID, "level_number": l.LevelNumber})
	return nil
}

func (s *CatalogService) UpdateLevel(ctx context.Context, actorID int64, l *domain.Level) error {
	if err := s.validateLevel(ctx, l); err != nil {
		return err
	}
	if err := s.store.UpdateLevel(ctx, l); err != nil {
		return mapLevelErr(err)
	}
	s.invalidate(ctx, actorID, domain.AuditActionLevelUpdate, map[string]interface{}{"level_id": l.ID, "tier_id": l.TierID, "level_number": l.LevelNumber})
	return nil
}

func (s *CatalogService) DeleteLevel(ctx context.Context, actorID, id int64) error {
	if err := s.store.DeleteLevel(ctx, id); err != nil {
		return mapLevelErr(err)
	}
	s.invalidate(ctx, actorID, domain.AuditActionLevelDelete, map[string]interface{}{"level_id": id})
	return nil
}

// Import upserts tiers by order and their levels by number; existing entries not in tiers stay untouched.
func (s *CatalogService) Import(ctx context.Context, actorID int64, tiers []domain.Tier) error {
	for i := range tiers {
		t := tiers[i]
		if err := validateTier(&t); err != nil {
			return err
		}
		for j := range t.Levels {
			if err := s.validateLevel(ctx, &t.Levels[j]); err != nil {
				return err
			}
		}
		if err := s.store.UpsertTier(ctx, &t); err != nil {
			return err
		}
		for j := range t.Levels {
			l := t.Levels[j]
			l.TierID = t.ID
			if err := s.store.UpsertLevel(ctx, &l); err != nil {
				return mapLevelErr(err)
			}
		}
	}
	s.invalidate(ctx, actorID, domain.AuditActionCatalogImport, map[string]interface{}{"tiers": len(tiers)})
	return nil
}
