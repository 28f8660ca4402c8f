package service

import (
	"context"
	"errors"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/events"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/loyalty"
	"casino_loyalty/internal/repository"

	"github.com/shopspring/decimal"
)

// FaucetService decides and performs faucet claims. The cooldown is shared by
// all currencies: a player has one claim record, whatever currency they took.
type FaucetService struct {
	catalog    *CatalogService
	xp         XPStore
	claims     FaucetStore
	currencies CurrencyStore
	audit      *AuditService
	pub        events.Publisher
}

func NewFaucetService(catalog *CatalogService, xp XPStore, claims FaucetStore, currencies CurrencyStore, audit *AuditService, pub events.Publisher) *FaucetService {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &FaucetService{
		catalog:    catalog,
		xp:         xp,
		claims:     claims,
		currencies: currencies,
		audit:      audit,
		pub:        pub,
	}
}

// FaucetReward is one configured reward decorated with currency metadata and eligibility
type FaucetReward struct {
	CurrencyID   string          `json:"currency_id"`
	CurrencyCode string          `json:"currency_code"`
	CurrencyName string          `json:"currency_name"`
	CurrencyIcon string          `json:"currency_icon"`
	Amount       decimal.Decimal `json:"amount"`
	Eligible     bool            `json:"eligible"`
	RemainingMs  int64           `json:"remaining_ms"`
	NextClaimAt  *time.Time      `json:"next_claim_at,omitempty"`
}

type FaucetStatus struct {
	PlayerID        int64               `json:"player_id"`
	XP              float64             `json:"xp"`
	Level           *loyalty.LevelInfo  `json:"level"`
	IntervalMinutes int                 `json:"interval_minutes"`
	LastClaim       *domain.FaucetClaim `json:"last_claim"`
	Eligible        bool                `json:"eligible"`
	RemainingMs     int64               `json:"remaining_ms"`
	NextClaimAt     *time.Time          `json:"next_claim_at,omitempty"`
	Rewards         []FaucetReward      `json:"rewards"`
}

type ClaimResult struct {
	CurrencyID  string          `json:"currency_id"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	ClaimedAt   time.Time       `json:"claimed_at"`
	NextClaimAt *time.Time      `json:"next_claim_at"`
	ClaimCount  int64           `json:"claim_count"`
}

func (s *FaucetService) currentLevel(ctx context.Context, playerID int64) (float64, *loyalty.LevelInfo, error) {
	rec, err := s.xp.Get(ctx, playerID)
	if err != nil {
		return 0, nil, err
	}
	tiers, err := s.catalog.Tiers(ctx)
	if err != nil {
		return 0, nil, err
	}
	return rec.XP, loyalty.CurrentLevel(tiers, rec.XP), nil
}

func (s *FaucetService) lastClaim(ctx context.Context, playerID int64) (*domain.FaucetClaim, error) {
	c, err := s.claims.GetLast(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func claimedAt(c *domain.FaucetClaim) *time.Time {
	if c == nil {
		return nil
	}
	t := c.LastClaimedAt
	return &t
}

// Status lists the current level's faucet rewards with eligibility at now
func (s *FaucetService) Status(ctx context.Context, playerID int64, now time.Time) (*FaucetStatus, error) {
	xp, lvl, err := s.currentLevel(ctx, playerID)
	if err != nil {
		return nil, err
	}
	last, err := s.lastClaim(ctx, playerID)
	if err != nil {
		return nil, err
	}

	st := &FaucetStatus{
		PlayerID:  playerID,
		XP:        xp,
		Level:     lvl,
		LastClaim: last,
		Rewards:   []FaucetReward{},
	}
	if lvl == nil {
		return st, nil
	}

	elig := loyalty.CanClaim(lvl.FaucetIntervalMinutes, claimedAt(last), now)
	st.IntervalMinutes = lvl.FaucetIntervalMinutes
	st.Eligible = elig.Eligible
	st.RemainingMs = elig.RemainingMs()
	st.NextClaimAt = elig.NextClaimAt

	for _, r := range lvl.FaucetRewards {
		if !r.Amount.IsPositive() {
			continue
		}
		fr := FaucetReward{
			CurrencyID:  r.CurrencyID,
			Amount:      r.Amount,
			Eligible:    elig.Eligible,
			RemainingMs: elig.RemainingMs(),
			NextClaimAt: elig.NextClaimAt,
		}
		cur, err := s.currencies.Get(ctx, r.CurrencyID)
		switch {
		case err == nil:
			fr.CurrencyCode, fr.CurrencyName, fr.CurrencyIcon = cur.Code, cur.Name, cur.Icon
		case errors.Is(err, repository.ErrNotFound):
			logger.Warn("faucet reward references unknown currency", "currency_id", r.CurrencyID, "level_id", lvl.LevelID)
		default:
			return nil, err
		}
		st.Rewards = append(st.Rewards, fr)
	}
	return st, nil
}

// Claim pays the current level's reward for currencyID. Eligibility is checked
// against the stored claim record and enforced again by the store's conditional update.
func (s *FaucetService) Claim(ctx context.Context, playerID int64, currencyID string, now time.Time) (*ClaimResult, error) {
	res, err := s.claim(ctx, playerID, currencyID, now)

	var cd *CooldownError
	switch {
	case err == nil:
		FaucetClaims.WithLabelValues("ok").Inc()
	case errors.As(err, &cd):
		FaucetClaims.WithLabelValues("cooldown").Inc()
	case errors.Is(err, ErrRewardNotConfigured), errors.Is(err, ErrNoLevel):
		FaucetClaims.WithLabelValues("not_configured").Inc()
	case errors.Is(err, ErrCurrencyRequired), errors.Is(err, ErrCurrencyNotFound):
		FaucetClaims.WithLabelValues("invalid").Inc()
	default:
		FaucetClaims.WithLabelValues("error").Inc()
	}
	return res, err
}

func (s *FaucetService) claim(ctx context.Context, playerID int64, currencyID string, now time.Time) (*ClaimResult, error) {
	if currencyID == "" {
		return nil, ErrCurrencyRequired
	}
	if _, err := s.currencies.Get(ctx, currencyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}

	_, lvl, err := s.currentLevel(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		return nil, ErrNoLevel
	}
	amount := lvl.FaucetReward(currencyID)
	if !amount.IsPositive() {
		return nil, ErrRewardNotConfigured
	}

	last, err := s.lastClaim(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if elig := loyalty.CanClaim(lvl.FaucetIntervalMinutes, claimedAt(last), now); !elig.Eligible {
		return nil, &CooldownError{Remaining: elig.Remaining, NextClaimAt: *elig.NextClaimAt}
	}

	rec, balance, err := s.claims.Claim(ctx, domain.FaucetClaimRequest{
		PlayerID:   playerID,
		CurrencyID: currencyID,
		Amount:     amount,
		ClaimedAt:  now,
		Cutoff:     loyalty.ClaimCutoff(lvl.FaucetIntervalMinutes, now),
	})
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotReady) {
			// проиграли гонку: другая заявка успела раньше
			return nil, s.cooldownAfterRace(ctx, playerID, lvl.FaucetIntervalMinutes, now)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}

	res := &ClaimResult{
		CurrencyID: currencyID,
		Amount:     amount,
		Balance:    balance,
		ClaimedAt:  now,
		ClaimCount: rec.ClaimCount,
	}
	if interval := loyalty.Interval(lvl.FaucetIntervalMinutes); interval > 0 {
		next := now.Add(interval)
		res.NextClaimAt = &next
	}

	s.audit.Log(ctx, playerID, domain.AuditActionFaucetClaim, domain.AuditCategoryFaucet, map[string]interface{}{
		"currency_id": currencyID,
		"amount":      amount.String(),
		"tier":        lvl.TierName,
		"level":       lvl.LevelNumber,
	})
	evt := events.New(events.TypeFaucetClaimed, playerID, map[string]interface{}{
		"currency_id": currencyID,
		"amount":      amount.String(),
		"balance":     balance.String(),
	})
	if err := s.pub.Publish(ctx, evt); err != nil {
		logger.Warn("publish event failed", "type", evt.Type, "player_id", playerID, "error", err)
	}
	return res, nil
}

func (s *FaucetService) cooldownAfterRace(ctx context.Context, playerID int64, intervalMinutes int, now time.Time) error {
	last, err := s.lastClaim(ctx, playerID)
	if err != nil {
		return err
	}
	elig := loyalty.CanClaim(intervalMinutes, claimedAt(last), now)
	if elig.NextClaimAt == nil {
		// the winning claim used an older timestamp than now; report the full interval
		next := now.Add(loyalty.Interval(intervalMinutes))
		return &CooldownError{Remaining: next.Sub(now), NextClaimAt: next}
	}
	return &CooldownError{Remaining: elig.Remaining, NextClaimAt: *elig.NextClaimAt}
}
