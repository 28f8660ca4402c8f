package repository

import (
	"context"

	"casino_loyalty/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CurrencyRepository struct {
	db *pgxpool.Pool
}

func NewCurrencyRepository(db *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, name, icon, created_at, updated_at FROM currencies ORDER BY code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Currency{}
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CurrencyRepository) Get(ctx context.Context, id string) (*domain.Currency, error) {
	var c domain.Currency
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name, icon, created_at, updated_at FROM currencies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Create inserts a currency with a caller-assigned id; duplicate code yields ErrConflict
func (r *CurrencyRepository) Create(ctx context.Context, c *domain.Currency) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO currencies (id, code, name, icon)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		c.ID, c.Code, c.Name, c.Icon,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

// Upsert creates or updates a currency by code, used by catalog seeding
func (r *CurrencyRepository) Upsert(ctx context.Context, c *domain.Currency) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO currencies (id, code, name, icon)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (code) DO UPDATE
		 SET name = EXCLUDED.name, icon = EXCLUDED.icon, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		c.ID, c.Code, c.Name, c.Icon,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *CurrencyRepository) Update(ctx context.Context, c *domain.Currency) error {
	err := r.db.QueryRow(ctx,
		`UPDATE currencies SET code = $1, name = $2, icon = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		c.Code, c.Name, c.Icon, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *CurrencyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM currencies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
