// Package memstore holds in-memory stores with the same contracts as the
// Postgres repositories. Each store is safe for concurrent use.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"casino_loyalty/internal/domain"
	"casino_loyalty/internal/repository"

	"github.com/shopspring/decimal"
)

// Catalog keeps tiers and levels
type Catalog struct {
	mu        sync.RWMutex
	tiers     map[int64]domain.Tier
	levels    map[int64]domain.Level
	nextTier  int64
	nextLevel int64
}

func NewCatalog() *Catalog {
	return &Catalog{
		tiers:  make(map[int64]domain.Tier),
		levels: make(map[int64]domain.Level),
	}
}

func (c *Catalog) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tiers := make([]domain.Tier, 0, len(c.tiers))
	for _, t := range c.tiers {
		t.Levels = c.levelsOf(t.ID)
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Order < tiers[j].Order })
	return tiers, nil
}

func (c *Catalog) levelsOf(tierID int64) []domain.Level {
	levels := []domain.Level{}
	for _, l := range c.levels {
		if l.TierID == tierID {
			levels = append(levels, l)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].XPThreshold != levels[j].XPThreshold {
			return levels[i].XPThreshold < levels[j].XPThreshold
		}
		return levels[i].LevelNumber < levels[j].LevelNumber
	})
	return levels
}

func (c *Catalog) GetTier(ctx context.Context, id int64) (*domain.Tier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tiers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Levels = c.levelsOf(id)
	return &t, nil
}

func (c *Catalog) orderTaken(order int, exceptID int64) bool {
	for _, t := range c.tiers {
		if t.Order == order && t.ID != exceptID {
			return true
		}
	}
	return false
}

func (c *Catalog) CreateTier(ctx context.Context, t *domain.Tier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.orderTaken(t.Order, 0) {
		return repository.ErrConflict
	}
	c.nextTier++
	now := time.Now().UTC()
	t.ID, t.CreatedAt, t.UpdatedAt = c.nextTier, now, now
	stored := *t
	stored.Levels = nil
	c.tiers[t.ID] = stored
	return nil
}

func (c *Catalog) UpdateTier(ctx context.Context, t *domain.Tier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.tiers[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if c.orderTaken(t.Order, t.ID) {
		return repository.ErrConflict
	}
	t.CreatedAt, t.UpdatedAt = old.CreatedAt, time.Now().UTC()
	stored := *t
	stored.Levels = nil
	c.tiers[t.ID] = stored
	return nil
}

// UpsertTier matches by order
func (c *Catalog) UpsertTier(ctx context.Context, t *domain.Tier) error {
	c.mu.Lock()
	for id, existing := range c.tiers {
		if existing.Order == t.Order {
			t.ID = id
			c.mu.Unlock()
			return c.UpdateTier(ctx, t)
		}
	}
	c.mu.Unlock()
	return c.CreateTier(ctx, t)
}

func (c *Catalog) DeleteTier(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tiers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.tiers, id)
	for lid, l := range c.levels {
		if l.TierID == id {
			delete(c.levels, lid)
		}
	}
	return nil
}

func (c *Catalog) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	l, ok := c.levels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (c *Catalog) numberTaken(tierID int64, number int, exceptID int64) bool {
	for _, l := range c.levels {
		if l.TierID == tierID && l.LevelNumber == number && l.ID != exceptID {
			return true
		}
	}
	return false
}

func (c *Catalog) CreateLevel(ctx context.Context, l *domain.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tiers[l.TierID]; !ok {
		return repository.ErrNotFound
	}
	if c.numberTaken(l.TierID, l.LevelNumber, 0) {
		return repository.ErrConflict
	}
	c.nextLevel++
	now := time.Now().UTC()
	l.ID, l.CreatedAt, l.UpdatedAt = c.nextLevel, now, now
	c.levels[l.ID] = *l
	return nil
}

func (c *Catalog) UpdateLevel(ctx context.Context, l *domain.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.levels[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := c.tiers[l.TierID]; !ok {
		return repository.ErrNotFound
	}
	if c.numberTaken(l.TierID, l.LevelNumber, l.ID) {
		return repository.ErrConflict
	}
	l.CreatedAt, l.UpdatedAt = old.CreatedAt, time.Now().UTC()
	c.levels[l.ID] = *l
	return nil
}

// UpsertLevel matches by (tier, level number)
func (c *Catalog) UpsertLevel(ctx context.Context, l *domain.Level) error {
	c.mu.Lock()
	for id, existing := range c.levels {
		if existing.TierID == l.TierID && existing.LevelNumber == l.LevelNumber {
			l.ID = id
			c.mu.Unlock()
			return c.UpdateLevel(ctx, l)
		}
	}
	c.mu.Unlock()
	return c.CreateLevel(ctx, l)
}

func (c *Catalog) DeleteLevel(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.levels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.levels, id)
	return nil
}

// Currencies keeps currencies by id
type Currencies struct {
	mu   sync.RWMutex
	byID map[string]domain.Currency
}

func NewCurrencies() *Currencies {
	return &Currencies{byID: make(map[string]domain.Currency)}
}

func (s *Currencies) List(ctx context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Currency, 0, len(s.byID))
	for _, c := range s.byID {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (s *Currencies) Get(ctx context.Context, id string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Currencies) codeTaken(code, exceptID string) bool {
	for _, c := range s.byID {
		if c.Code == code && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Currencies) Create(ctx context.Context, c *domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.ID]; ok || s.codeTaken(c.Code, "") {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.byID[c.ID] = *c
	return nil
}

// Upsert matches by code and keeps the existing id
func (s *Currencies) Upsert(ctx context.Context, c *domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range s.byID {
		if existing.Code == c.Code {
			c.ID, c.CreatedAt, c.UpdatedAt = id, existing.CreatedAt, now
			s.byID[id] = *c
			return nil
		}
	}
	c.CreatedAt, c.UpdatedAt = now, now
	s.byID[c.ID] = *c
	return nil
}

func (s *Currencies) Update(ctx context.Context, c *domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.codeTaken(c.Code, c.ID) {
		return repository.ErrConflict
	}
	c.CreatedAt, c.UpdatedAt = old.CreatedAt, time.Now().UTC()
	s.byID[c.ID] = *c
	return nil
}

func (s *Currencies) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// XP keeps player experience
type XP struct {
	mu      sync.Mutex
	players map[int64]domain.PlayerXP
}

func NewXP() *XP {
	return &XP{players: make(map[int64]domain.PlayerXP)}
}

func (s *XP) getLocked(playerID int64) domain.PlayerXP {
	p, ok := s.players[playerID]
	if !ok {
		p = domain.PlayerXP{PlayerID: playerID, UpdatedAt: time.Now().UTC()}
		s.players[playerID] = p
	}
	return p
}

func (s *XP) Get(ctx context.Context, playerID int64) (*domain.PlayerXP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getLocked(playerID)
	return &p, nil
}

func (s *XP) Add(ctx context.Context, playerID int64, delta float64) (float64, *domain.PlayerXP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getLocked(playerID)
	before := p.XP
	p.XP += delta
	p.UpdatedAt = time.Now().UTC()
	s.players[playerID] = p
	return before, &p, nil
}

func (s *XP) Set(ctx context.Context, playerID int64, value float64) (*domain.PlayerXP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.PlayerXP{PlayerID: playerID, XP: value, UpdatedAt: time.Now().UTC()}
	s.players[playerID] = p
	return &p, nil
}

func (s *XP) ResetAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := time.Now().UTC()
	for id, p := range s.players {
		if p.XP != 0 {
			p.XP, p.UpdatedAt = 0, now
			s.players[id] = p
			n++
		}
	}
	return n, nil
}

// Ledger keeps balances, ledger entries and faucet claims under one lock,
// so a claim and its credit are applied together.
type Ledger struct {
	mu           sync.Mutex
	balances     map[int64]map[string]domain.Balance
	transactions []domain.Transaction
	claims       map[int64]domain.FaucetClaim
	currencies   *Currencies
}

// NewLedger creates a ledger. When currencies is non-nil, credits to unknown currencies fail with ErrNotFound.
func NewLedger(currencies *Currencies) *Ledger {
	return &Ledger{
		balances:   make(map[int64]map[string]domain.Balance),
		claims:     make(map[int64]domain.FaucetClaim),
		currencies: currencies,
	}
}

func (s *Ledger) List(ctx context.Context, playerID int64) ([]domain.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Balance{}
	for _, b := range s.balances[playerID] {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CurrencyID < result[j].CurrencyID })
	return result, nil
}

func (s *Ledger) Credit(ctx context.Context, t *domain.Transaction) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creditLocked(ctx, t)
}

func (s *Ledger) creditLocked(ctx context.Context, t *domain.Transaction) (decimal.Decimal, error) {
	if s.currencies != nil {
		if _, err := s.currencies.Get(ctx, t.CurrencyID); err != nil {
			return decimal.Zero, err
		}
	}

	byCurrency, ok := s.balances[t.PlayerID]
	if !ok {
		byCurrency = make(map[string]domain.Balance)
		s.balances[t.PlayerID] = byCurrency
	}
	now := time.Now().UTC()
	b := byCurrency[t.CurrencyID]
	b.PlayerID, b.CurrencyID = t.PlayerID, t.CurrencyID
	b.Amount = b.Amount.Add(t.Amount)
	b.UpdatedAt = now
	byCurrency[t.CurrencyID] = b

	t.ID = int64(len(s.transactions) + 1)
	t.CreatedAt = now
	s.transactions = append(s.transactions, *t)
	return b.Amount, nil
}

// Transactions returns a copy of the ledger entries of a player, oldest first
func (s *Ledger) Transactions(playerID int64) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.Transaction
	for _, t := range s.transactions {
		if t.PlayerID == playerID {
			result = append(result, t)
		}
	}
	return result
}

func (s *Ledger) GetLast(ctx context.Context, playerID int64) (*domain.FaucetClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[playerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Ledger) Claim(ctx context.Context, req domain.FaucetClaimRequest) (*domain.FaucetClaim, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.claims[req.PlayerID]
	if exists && c.LastClaimedAt.After(req.Cutoff) {
		return nil, decimal.Zero, repository.ErrClaimNotReady
	}

	balance, err := s.creditLocked(ctx, &domain.Transaction{
		PlayerID:   req.PlayerID,
		CurrencyID: req.CurrencyID,
		Type:       domain.TxTypeFaucet,
		Amount:     req.Amount,
		Meta:       map[string]interface{}{"claim_count": c.ClaimCount + 1},
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	last := req.ClaimedAt
	if c.LastClaimedAt.After(last) {
		last = c.LastClaimedAt
	}
	c = domain.FaucetClaim{
		PlayerID:      req.PlayerID,
		CurrencyID:    req.CurrencyID,
		LastClaimedAt: last,
		ClaimCount:    c.ClaimCount + 1,
	}
	s.claims[req.PlayerID] = c
	return &c, balance, nil
}

// Audit keeps audit entries, newest last
type Audit struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func NewAudit() *Audit {
	return &Audit{}
}

func (s *Audit) Create(ctx context.Context, log *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = int64(len(s.logs) + 1)
	log.CreatedAt = time.Now().UTC()
	s.logs = append(s.logs, *log)
	return nil
}

func (s *Audit) List(ctx context.Context, f repository.AuditFilter) ([]*domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	result := []*domain.AuditLog{}
	for i := len(s.logs) - 1; i >= 0 && len(result) < limit; i-- {
		l := s.logs[i]
		if f.UserID != 0 && l.UserID != f.UserID {
			continue
		}
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		result = append(result, &l)
	}
	return result, nil
}

// Stats aggregates over the XP store and the ledger
type Stats struct {
	xp     *XP
	ledger *Ledger
}

func NewStats(xp *XP, ledger *Ledger) *Stats {
	return &Stats{xp: xp, ledger: ledger}
}

func (s *Stats) Snapshot(ctx context.Context, since time.Time) (*domain.LoyaltyStats, error) {
	stats := &domain.LoyaltyStats{Since: since, FaucetPayoutsSince: []domain.FaucetPayout{}}

	s.xp.mu.Lock()
	for _, p := range s.xp.players {
		stats.Players++
		if p.XP > 0 {
			stats.ActivePlayers++
		}
		stats.TotalXP += p.XP
	}
	s.xp.mu.Unlock()

	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	for _, c := range s.ledger.claims {
		stats.FaucetClaims += c.ClaimCount
	}
	byCurrency := map[string]*domain.FaucetPayout{}
	for _, t := range s.ledger.transactions {
		if t.Type != domain.TxTypeFaucet || t.CreatedAt.Before(since) {
			continue
		}
		p, ok := byCurrency[t.CurrencyID]
		if !ok {
			p = &domain.FaucetPayout{CurrencyID: t.CurrencyID}
			byCurrency[t.CurrencyID] = p
		}
		p.Claims++
		p.Amount = p.Amount.Add(t.Amount)
		stats.FaucetClaimsSince++
	}
	for _, p := range byCurrency {
		stats.FaucetPayoutsSince = append(stats.FaucetPayoutsSince, *p)
	}
	sort.Slice(stats.FaucetPayoutsSince, func(i, j int) bool {
		return stats.FaucetPayoutsSince[i].CurrencyID < stats.FaucetPayoutsSince[j].CurrencyID
	})
	return stats, nil
}

func (s *Stats) TopPlayers(ctx context.Context, limit int) ([]domain.PlayerXP, error) {
	s.xp.mu.Lock()
	defer s.xp.mu.Unlock()

	players := []domain.PlayerXP{}
	for _, p := range s.xp.players {
		if p.XP > 0 {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].XP != players[j].XP {
			return players[i].XP > players[j].XP
		}
		return players[i].PlayerID < players[j].PlayerID
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}
