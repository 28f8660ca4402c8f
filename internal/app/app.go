// Package app wires configuration, storage and services shared by both backends.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino_loyalty/internal/config"
	"casino_loyalty/internal/db"
	"casino_loyalty/internal/events"
	"casino_loyalty/internal/http/handlers"
	"casino_loyalty/internal/http/middleware"
	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/repository"
	"casino_loyalty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Events  events.Publisher
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
}

// New loads config, sets up logging and connects storage. Exits on fatal misconfiguration.
// local, if set, receives events in-process when redis is not configured.
func New(local func(events.Event)) *App {
	cfg := config.Load()
	logger.InitWithFile(cfg.LogLevel, cfg.LogJSON, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Compress:   true,
	})
	service.InitJWT(cfg.JWTSecret)

	pool := db.Connect(cfg.DatabaseURL)
	rdb := middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// redis feeds the player websocket hub, kafka is for downstream consumers
	pub := events.Multi{
		events.NewRedis(rdb, cfg.EventsChannel),
		events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic),
	}
	if rdb == nil && local != nil {
		pub = append(pub, events.Func(local))
	}

	currencies := repository.NewCurrencyRepository(pool)
	xp := repository.NewXPRepository(pool)
	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	balances := service.NewBalanceService(repository.NewBalanceRepository(pool), audit)
	catalog := service.NewCatalogService(repository.NewCatalogRepository(pool), currencies, audit, pub).
		WithCache(rdb, cfg.CatalogCacheTTL)

	h := &handlers.Handler{
		Loyalty:    service.NewLoyaltyService(catalog, xp),
		Faucet:     service.NewFaucetService(catalog, xp, repository.NewFaucetRepository(pool), currencies, audit, pub),
		XP:         service.NewXPService(xp, catalog, balances, audit, pub),
		Catalog:    catalog,
		Currencies: service.NewCurrencyService(currencies, audit),
		Balances:   balances,
		Audit:      audit,
		Stats:      service.NewStatsService(repository.NewStatsRepository(pool), catalog, currencies),
		Now:        time.Now,
	}

	return &App{
		Config:  cfg,
		DB:      pool,
		Redis:   rdb,
		Events:  pub,
		Handler: h,
		Health:  handlers.NewHealthHandler(pool, rdb, cfg.Version),
	}
}

// Engine returns a gin engine with panic recovery, in release mode unless GIN_MODE says otherwise
func Engine() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// Serve runs handler on port until SIGINT/SIGTERM, then shuts down gracefully
func (a *App) Serve(name, port string, handler http.Handler) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "service", name, "port", port, "version", a.Config.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "service", name, "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...", "service", name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "service", name, "error", err)
	}
	a.Close()
	logger.Info("server exited", "service", name)
}

func (a *App) Close() {
	if err := a.Events.Close(); err != nil {
		logger.Warn("close event publishers", "error", err)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.DB.Close()
}
