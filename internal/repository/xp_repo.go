package repository

import (
	"context"
	"errors"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type XPRepository struct {
	db *pgxpool.Pool
}

func NewXPRepository(db *pgxpool.Pool) *XPRepository {
	return &XPRepository{db: db}
}

// Get returns the player's XP record, creating it with xp = 0 on first access.
// Existing rows are only read, never rewritten.
func (r *XPRepository) Get(ctx context.Context, playerID int64) (*domain.PlayerXP, error) {
	p, err := r.selectXP(ctx, playerID)
	if !errors.Is(err, pgx.ErrNoRows) {
		return p, err
	}

	var created domain.PlayerXP
	err = r.db.QueryRow(ctx,
		`INSERT INTO player_xp (player_id) VALUES ($1)
		 ON CONFLICT (player_id) DO NOTHING
		 RETURNING player_id, xp, updated_at`,
		playerID,
	).Scan(&created.PlayerID, &created.XP, &created.UpdatedAt)
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// вставил параллельный запрос
	return r.selectXP(ctx, playerID)
}

func (r *XPRepository) selectXP(ctx context.Context, playerID int64) (*domain.PlayerXP, error) {
	var p domain.PlayerXP
	err := r.db.QueryRow(ctx,
		`SELECT player_id, xp, updated_at FROM player_xp WHERE player_id = $1`,
		playerID,
	).Scan(&p.PlayerID, &p.XP, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Add increments xp and returns the value before the increment together with the new record.
// The row is locked for the duration so concurrent grants see each other's results.
func (r *XPRepository) Add(ctx context.Context, playerID int64, delta float64) (float64, *domain.PlayerXP, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO player_xp (player_id) VALUES ($1) ON CONFLICT (player_id) DO NOTHING`,
		playerID,
	); err != nil {
		return 0, nil, err
	}

	var before float64
	if err := tx.QueryRow(ctx,
		`SELECT xp FROM player_xp WHERE player_id = $1 FOR UPDATE`, playerID,
	).Scan(&before); err != nil {
		return 0, nil, err
	}

	var p domain.PlayerXP
	if err := tx.QueryRow(ctx,
		`UPDATE player_xp SET xp = $1, updated_at = NOW()
		 WHERE player_id = $2
		 RETURNING player_id, xp, updated_at`,
		before+delta, playerID,
	).Scan(&p.PlayerID, &p.XP, &p.UpdatedAt); err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, err
	}
	return before, &p, nil
}

// Set overwrites xp
func (r *XPRepository) Set(ctx context.Context, playerID int64, value float64) (*domain.PlayerXP, error) {
	var p domain.PlayerXP
	err := r.db.QueryRow(ctx,
		`INSERT INTO player_xp (player_id, xp) VALUES ($1, $2)
		 ON CONFLICT (player_id) DO UPDATE SET xp = EXCLUDED.xp, updated_at = NOW()
		 RETURNING player_id, xp, updated_at`,
		playerID, value,
	).Scan(&p.PlayerID, &p.XP, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ResetAll sets every player's xp to zero and returns the number of records changed
func (r *XPRepository) ResetAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE player_xp SET xp = 0, updated_at = NOW() WHERE xp <> 0`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
