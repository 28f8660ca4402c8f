package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tiers returns the catalog
func (h *Handler) Tiers(c *gin.Context) {
	tiers, err := h.Catalog.Tiers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

// Level handles GET /loyalty/level?xp=
func (h *Handler) Level(c *gin.Context) {
	xp, err := queryXP(c)
	if err != nil {
		respondError(c, err)
		return
	}
	lvl, err := h.Loyalty.Level(c.Request.Context(), xp)
	if err != nil {
		respondError(c, err)
		return
	}
	if lvl == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no level reached", "xp": xp})
		return
	}
	c.JSON(http.StatusOK, gin.H{"xp": xp, "level": lvl})
}

// NextLevel handles GET /loyalty/next-level?xp=
func (h *Handler) NextLevel(c *gin.Context) {
	xp, err := queryXP(c)
	if err != nil {
		respondError(c, err)
		return
	}
	next, err := h.Loyalty.NextLevel(c.Request.Context(), xp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"xp": xp, "next_level": next, "max_level": next == nil})
}

// Progress handles GET /loyalty/progress?xp=
func (h *Handler) Progress(c *gin.Context) {
	xp, err := queryXP(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.Loyalty.Progress(c.Request.Context(), xp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// MyLoyalty returns the caller's XP and progress
func (h *Handler) MyLoyalty(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	pl, err := h.Loyalty.PlayerProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

// MyBalances returns the caller's balances
func (h *Handler) MyBalances(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	bals, err := h.Balances.Balances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": bals})
}
