package repository

import (
	"context"
	"errors"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type FaucetRepository struct {
	db       *pgxpool.Pool
	balances *BalanceRepository
}

func NewFaucetRepository(db *pgxpool.Pool) *FaucetRepository {
	return &FaucetRepository{
		db:       db,
		balances: NewBalanceRepository(db),
	}
}

// GetLast returns the player's single claim record
func (r *FaucetRepository) GetLast(ctx context.Context, playerID int64) (*domain.FaucetClaim, error) {
	var c domain.FaucetClaim
	err := r.db.QueryRow(ctx,
		`SELECT player_id, currency_id, last_claimed_at, claim_count
		 FROM faucet_claims
		 WHERE player_id = $1`,
		playerID,
	).Scan(&c.PlayerID, &c.CurrencyID, &c.LastClaimedAt, &c.ClaimCount)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Claim overwrites the claim record only if the previous claim is at or before req.Cutoff,
// then credits the reward. Both happen in one transaction; the conditional upsert makes
// concurrent claims for the same player serialize on the row and all but one fail.
func (r *FaucetRepository) Claim(ctx context.Context, req domain.FaucetClaimRequest) (*domain.FaucetClaim, decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var c domain.FaucetClaim
	err = tx.QueryRow(ctx,
		`INSERT INTO faucet_claims (player_id, currency_id, last_claimed_at, claim_count)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (player_id) DO UPDATE
		 SET currency_id = EXCLUDED.currency_id,
			 last_claimed_at = GREATEST(faucet_claims.last_claimed_at, EXCLUDED.last_claimed_at),
			 claim_count = faucet_claims.claim_count + 1
		 WHERE faucet_claims.last_claimed_at <= $4
		 RETURNING player_id, currency_id, last_claimed_at, claim_count`,
		req.PlayerID, req.CurrencyID, req.ClaimedAt, req.Cutoff,
	).Scan(&c.PlayerID, &c.CurrencyID, &c.LastClaimedAt, &c.ClaimCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, decimal.Zero, ErrClaimNotReady
		}
		return nil, decimal.Zero, err
	}

	balance, err := r.balances.CreditWithTx(ctx, tx, &domain.Transaction{
		PlayerID:   req.PlayerID,
		CurrencyID: req.CurrencyID,
		Type:       domain.TxTypeFaucet,
		Amount:     req.Amount,
		Meta:       map[string]interface{}{"claim_count": c.ClaimCount},
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, decimal.Zero, err
	}
	return &c, balance, nil
}
