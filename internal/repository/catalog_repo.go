package repository

import (
	"context"
	"encoding/json"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository stores tiers and their levels
type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const levelColumns = `id, tier_id, level_number, xp_threshold, faucet_interval_minutes,
	weekly_rakeback_percent, monthly_rakeback_percent, level_up_bonus, faucet_rewards,
	created_at, updated_at`

// ListTiers возвращает все тиры с уровнями
func (r *CatalogRepository) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, icon, sort_order, created_at, updated_at
		 FROM tiers
		 ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []domain.Tier
	byID := make(map[int64]int)
	for rows.Next() {
		var t domain.Tier
		if err := rows.Scan(&t.ID, &t.Name, &t.Icon, &t.Order, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Levels = []domain.Level{}
		byID[t.ID] = len(tiers)
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	levelRows, err := r.db.Query(ctx,
		`SELECT `+levelColumns+`
		 FROM levels
		 ORDER BY tier_id, xp_threshold, level_number`,
	)
	if err != nil {
		return nil, err
	}
	defer levelRows.Close()

	for levelRows.Next() {
		l, err := scanLevel(levelRows)
		if err != nil {
			return nil, err
		}
		if i, ok := byID[l.TierID]; ok {
			tiers[i].Levels = append(tiers[i].Levels, l)
		}
	}
	return tiers, levelRows.Err()
}

// GetTier returns a tier with its levels
func (r *CatalogRepository) GetTier(ctx context.Context, id int64) (*domain.Tier, error) {
	var t domain.Tier
	err := r.db.QueryRow(ctx,
		`SELECT id, name, icon, sort_order, created_at, updated_at FROM tiers WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Icon, &t.Order, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+levelColumns+` FROM levels WHERE tier_id = $1 ORDER BY xp_threshold, level_number`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t.Levels = []domain.Level{}
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		t.Levels = append(t.Levels, l)
	}
	return &t, rows.Err()
}

// CreateTier inserts a tier; a duplicate order yields ErrConflict
func (r *CatalogRepository) CreateTier(ctx context.Context, t *domain.Tier) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tiers (name, icon, sort_order)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Icon, t.Order,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

func (r *CatalogRepository) UpdateTier(ctx context.Context, t *domain.Tier) error {
	err := r.db.QueryRow(ctx,
		`UPDATE tiers SET name = $1, icon = $2, sort_order = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		t.Name, t.Icon, t.Order, t.ID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// DeleteTier removes a tier and (cascade) its levels
func (r *CatalogRepository) DeleteTier(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tiers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	l, err := scanLevel(r.db.QueryRow(ctx, `SELECT `+levelColumns+` FROM levels WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// CreateLevel inserts a level; unknown tier yields ErrNotFound, duplicate number ErrConflict
func (r *CatalogRepository) CreateLevel(ctx context.Context, l *domain.Level) error {
	bonus, rewards, err := encodeRewards(l)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO levels (tier_id, level_number, xp_threshold, faucet_interval_minutes,
			weekly_rakeback_percent, monthly_rakeback_percent, level_up_bonus, faucet_rewards)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		l.TierID, l.LevelNumber, l.XPThreshold, l.FaucetIntervalMinutes,
		l.WeeklyRakebackPercent, l.MonthlyRakebackPercent, bonus, rewards,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}

func (r *CatalogRepository) UpdateLevel(ctx context.Context, l *domain.Level) error {
	bonus, rewards, err := encodeRewards(l)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		`UPDATE levels
		 SET tier_id = $1, level_number = $2, xp_threshold = $3, faucet_interval_minutes = $4,
			 weekly_rakeback_percent = $5, monthly_rakeback_percent = $6,
			 level_up_bonus = $7, faucet_rewards = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING created_at, updated_at`,
		l.TierID, l.LevelNumber, l.XPThreshold, l.FaucetIntervalMinutes,
		l.WeeklyRakebackPercent, l.MonthlyRakebackPercent, bonus, rewards, l.ID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}

func (r *CatalogRepository) DeleteLevel(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM levels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeRewards(l *domain.Level) ([]byte, []byte, error) {
	bonus := l.LevelUpBonus
	if bonus == nil {
		bonus = []domain.Reward{}
	}
	rewards := l.FaucetRewards
	if rewards == nil {
		rewards = []domain.Reward{}
	}
	bonusJSON, err := json.Marshal(bonus)
	if err != nil {
		return nil, nil, err
	}
	rewardsJSON, err := json.Marshal(rewards)
	if err != nil {
		return nil, nil, err
	}
	return bonusJSON, rewardsJSON, nil
}

func scanLevel(row pgx.Row) (domain.Level, error) {
	var (
		l           domain.Level
		bonusJSON   []byte
		rewardsJSON []byte
	)
	err := row.Scan(&l.ID, &l.TierID, &l.LevelNumber, &l.XPThreshold, &l.FaucetIntervalMinutes,
		&l.WeeklyRakebackPercent, &l.MonthlyRakebackPercent, &bonusJSON, &rewardsJSON,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	l.LevelUpBonus = []domain.Reward{}
	l.FaucetRewards = []domain.Reward{}
	if len(bonusJSON) > 0 {
		if err := json.Unmarshal(bonusJSON, &l.LevelUpBonus); err != nil {
			return l, err
		}
	}
	if len(rewardsJSON) > 0 {
		if err := json.Unmarshal(rewardsJSON, &l.FaucetRewards); err != nil {
			return l, err
		}
	}
	return l, nil
}

// UpsertTier creates or updates a tier keyed by its order
func (r *CatalogRepository) UpsertTier(ctx context.Context, t *domain.Tier) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tiers (name, icon, sort_order)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (sort_order) DO UPDATE
		 SET name = EXCLUDED.name, icon = EXCLUDED.icon, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Icon, t.Order,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// UpsertLevel creates or updates a level keyed by (tier, level number)
func (r *CatalogRepository) UpsertLevel(ctx context.Context, l *domain.Level) error {
	bonus, rewards, err := encodeRewards(l)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO levels (tier_id, level_number, xp_threshold, faucet_interval_minutes,
			weekly_rakeback_percent, monthly_rakeback_percent, level_up_bonus, faucet_rewards)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tier_id, level_number) DO UPDATE
		 SET xp_threshold = EXCLUDED.xp_threshold,
			 faucet_interval_minutes = EXCLUDED.faucet_interval_minutes,
			 weekly_rakeback_percent = EXCLUDED.weekly_rakeback_percent,
			 monthly_rakeback_percent = EXCLUDED.monthly_rakeback_percent,
			 level_up_bonus = EXCLUDED.level_up_bonus,
			 faucet_rewards = EXCLUDED.faucet_rewards,
			 updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		l.TierID, l.LevelNumber, l.XPThreshold, l.FaucetIntervalMinutes,
		l.WeeklyRakebackPercent, l.MonthlyRakebackPercent, bonus, rewards,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}
