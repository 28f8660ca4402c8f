package handlers

import (
	"net/http"
	"strconv"

	"casino_loyalty/internal/repository"

	"github.com/gin-gonic/gin"
)

type setXPRequest struct {
	XP *float64 `json:"xp" binding:"required"`
}

type addXPRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// PlayerXP returns a player's XP with progress
func (h *Handler) PlayerXP(c *gin.Context) {
	playerID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid player id")
		return
	}
	pl, err := h.Loyalty.PlayerProgress(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

func (h *Handler) SetPlayerXP(c *gin.Context) {
	playerID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid player id")
		return
	}
	var req setXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	change, err := h.XP.Set(c.Request.Context(), adminID, playerID, *req.XP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

func (h *Handler) AddPlayerXP(c *gin.Context) {
	playerID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid player id")
		return
	}
	var req addXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	change, err := h.XP.Add(c.Request.Context(), adminID, playerID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

// ResetXP zeroes XP of every player
func (h *Handler) ResetXP(c *gin.Context) {
	adminID, _ := getUserID(c)
	n, err := h.XP.ResetAll(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": n})
}

func (h *Handler) PlayerFaucet(c *gin.Context) {
	playerID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid player id")
		return
	}
	st, err := h.Faucet.Status(c.Request.Context(), playerID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) PlayerBalances(c *gin.Context) {
	playerID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid player id")
		return
	}
	bals, err := h.Balances.Balances(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": bals})
}

// AuditLogs handles GET /audit?user_id=&category=&action=&limit=
func (h *Handler) AuditLogs(c *gin.Context) {
	f := repository.AuditFilter{
		Category: c.Query("category"),
		Action:   c.Query("action"),
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, "invalid user_id")
			return
		}
		f.UserID = id
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid limit")
			return
		}
		f.Limit = n
	}

	logs, err := h.Audit.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
