package handlers

import (
	"strconv"
	"time"

	"casino_loyalty/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves both the player and the admin API; each router mounts the subset it needs.
type Handler struct {
	Loyalty    *service.LoyaltyService
	Faucet     *service.FaucetService
	XP         *service.XPService
	Catalog    *service.CatalogService
	Currencies *service.CurrencyService
	Balances   *service.BalanceService
	Audit      *service.AuditService
	Stats      *service.StatsService

	// Now is the clock used for faucet decisions
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryXP parses ?xp=; missing or non-numeric values are rejected
func queryXP(c *gin.Context) (float64, error) {
	raw := c.Query("xp")
	if raw == "" {
		return 0, service.ErrInvalidXP
	}
	xp, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, service.ErrInvalidXP
	}
	return xp, nil
}
