package http

import (
	"casino_loyalty/internal/config"
	"casino_loyalty/internal/http/handlers"
	"casino_loyalty/internal/http/middleware"
	"casino_loyalty/internal/service"
	"casino_loyalty/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerCommon(r *gin.Engine, name string, health *handlers.HealthHandler, cfg *config.Config) {
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(name))
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerLoyaltyReads(g *gin.RouterGroup, h *handlers.Handler) {
	g.GET("/loyalty/tiers", h.Tiers)
	g.GET("/loyalty/level", h.Level)
	g.GET("/loyalty/next-level", h.NextLevel)
	g.GET("/loyalty/progress", h.Progress)
}

// RegisterPlayerRoutes mounts the player-facing API
func RegisterPlayerRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg *config.Config) {
	registerCommon(r, "player", health, cfg)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerLoyaltyReads(v1, h)

	auth := v1.Group("")
	auth.Use(middleware.JWT())
	{
		auth.GET("/me/loyalty", h.MyLoyalty)
		auth.GET("/me/balances", h.MyBalances)
		auth.GET("/faucet/status", h.FaucetStatus)
		auth.POST("/faucet/claim", middleware.UserRateLimit("faucet_claim", cfg.ClaimRateLimit, cfg.ClaimRateWindow), h.FaucetClaim)
	}

	// notifications: level-ups, faucet claims
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}

// RegisterAdminRoutes mounts the admin API; every /api/v1/admin route needs the admin role
func RegisterAdminRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, cfg *config.Config) {
	registerCommon(r, "admin", health, cfg)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerLoyaltyReads(v1, h)

	admin := v1.Group("/admin")
	admin.Use(middleware.JWT(), middleware.RequireRole(service.RoleAdmin))
	{
		admin.GET("/tiers", h.Tiers)
		admin.POST("/tiers", h.CreateTier)
		admin.GET("/tiers/:id", h.GetTier)
		admin.PUT("/tiers/:id", h.UpdateTier)
		admin.DELETE("/tiers/:id", h.DeleteTier)
		admin.POST("/tiers/:id/levels", h.CreateLevel)

		admin.GET("/levels/:id", h.GetLevel)
		admin.PUT("/levels/:id", h.UpdateLevel)
		admin.DELETE("/levels/:id", h.DeleteLevel)

		admin.GET("/currencies", h.ListCurrencies)
		admin.POST("/currencies", h.CreateCurrency)
		admin.GET("/currencies/:id", h.GetCurrency)
		admin.PUT("/currencies/:id", h.UpdateCurrency)
		admin.DELETE("/currencies/:id", h.DeleteCurrency)

		admin.GET("/players/:id/xp", h.PlayerXP)
		admin.PUT("/players/:id/xp", h.SetPlayerXP)
		admin.POST("/players/:id/xp/add", h.AddPlayerXP)
		admin.GET("/players/:id/faucet", h.PlayerFaucet)
		admin.GET("/players/:id/balances", h.PlayerBalances)
		admin.POST("/xp/reset", h.ResetXP)

		admin.GET("/audit", h.AuditLogs)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/top-players", h.TopPlayers)
	}
}
