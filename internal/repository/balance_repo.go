package repository

import (
	"context"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type BalanceRepository struct {
	db           *pgxpool.Pool
	transactions *TransactionRepository
}

func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{
		db:           db,
		transactions: NewTransactionRepository(db),
	}
}

// List returns every non-empty balance of a player
func (r *BalanceRepository) List(ctx context.Context, playerID int64) ([]domain.Balance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT player_id, currency_id, amount, updated_at
		 FROM player_balances
		 WHERE player_id = $1
		 ORDER BY currency_id`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Balance{}
	for rows.Next() {
		var b domain.Balance
		if err := rows.Scan(&b.PlayerID, &b.CurrencyID, &b.Amount, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Credit adds amount to the balance and records a ledger entry in one transaction
func (r *BalanceRepository) Credit(ctx context.Context, t *domain.Transaction) (decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balance, err := r.CreditWithTx(ctx, tx, t)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// CreditWithTx credits within an existing transaction
func (r *BalanceRepository) CreditWithTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx,
		`INSERT INTO player_balances (player_id, currency_id, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, currency_id) DO UPDATE
		 SET amount = player_balances.amount + EXCLUDED.amount, updated_at = NOW()
		 RETURNING amount`,
		t.PlayerID, t.CurrencyID, t.Amount,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, translate(err)
	}

	if err := r.transactions.CreateWithTx(ctx, tx, t); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
