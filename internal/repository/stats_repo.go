package repository

import (
	"context"
	"time"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository runs the aggregate queries behind the admin dashboard
type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Snapshot(ctx context.Context, since time.Time) (*domain.LoyaltyStats, error) {
	stats := &domain.LoyaltyStats{Since: since, FaucetPayoutsSince: []domain.FaucetPayout{}}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE xp > 0), COALESCE(SUM(xp), 0)
		FROM player_xp
	`).Scan(&stats.Players, &stats.ActivePlayers, &stats.TotalXP)
	if err != nil {
		return nil, err
	}

	// claim_count накапливается в единственной записи игрока
	err = r.db.QueryRow(ctx, `SELECT COALESCE(SUM(claim_count), 0) FROM faucet_claims`).Scan(&stats.FaucetClaims)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT currency_id, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND created_at >= $2
		GROUP BY currency_id
		ORDER BY currency_id
	`, domain.TxTypeFaucet, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.FaucetPayout
		if err := rows.Scan(&p.CurrencyID, &p.Claims, &p.Amount); err != nil {
			return nil, err
		}
		stats.FaucetClaimsSince += p.Claims
		stats.FaucetPayoutsSince = append(stats.FaucetPayoutsSince, p)
	}
	return stats, rows.Err()
}

// TopPlayers returns players ordered by xp, highest first
func (r *StatsRepository) TopPlayers(ctx context.Context, limit int) ([]domain.PlayerXP, error) {
	rows, err := r.db.Query(ctx, `
		SELECT player_id, xp, updated_at
		FROM player_xp
		WHERE xp > 0
		ORDER BY xp DESC, player_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []domain.PlayerXP{}
	for rows.Next() {
		var p domain.PlayerXP
		if err := rows.Scan(&p.PlayerID, &p.XP, &p.UpdatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
