package handlers

import (
	"errors"
	"net/http"

	"casino_loyalty/internal/logger"
	"casino_loyalty/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	var (
		cd *service.CooldownError
		ve *service.ValidationError
	)
	switch {
	case errors.As(err, &cd):
		c.JSON(http.StatusConflict, gin.H{
			"error":         "faucet cooldown has not elapsed",
			"remaining_ms":  cd.RemainingMs(),
			"next_claim_at": cd.NextClaimAt,
		})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, service.ErrInvalidXP),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrCurrencyRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCurrencyNotFound),
		errors.Is(err, service.ErrRewardNotConfigured),
		errors.Is(err, service.ErrNoLevel),
		errors.Is(err, service.ErrTierNotFound),
		errors.Is(err, service.ErrLevelNotFound),
		errors.Is(err, service.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateTierOrder),
		errors.Is(err, service.ErrDuplicateLevel),
		errors.Is(err, service.ErrDuplicateCurrency):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
