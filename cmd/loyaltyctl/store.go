package main

import (
	"context"
	"time"

	"casino_loyalty/internal/repository"
	"casino_loyalty/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn, err := requireSetting("database_url", "DATABASE_URL")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// services builds the subset of the backend the CLI drives. Events are not published from here.
type services struct {
	catalog    *service.CatalogService
	currencies *service.CurrencyService
	xp         *service.XPService
}

func newServices(pool *pgxpool.Pool) services {
	currencies := repository.NewCurrencyRepository(pool)
	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	catalog := service.NewCatalogService(repository.NewCatalogRepository(pool), currencies, audit, nil)
	balances := service.NewBalanceService(repository.NewBalanceRepository(pool), audit)

	return services{
		catalog:    catalog,
		currencies: service.NewCurrencyService(currencies, audit),
		xp:         service.NewXPService(repository.NewXPRepository(pool), catalog, balances, audit, nil),
	}
}
