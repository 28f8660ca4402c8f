package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type claimRequest struct {
	CurrencyID string `json:"currency_id"`
}

// FaucetStatus returns the caller's faucet rewards with eligibility
func (h *Handler) FaucetStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	st, err := h.Faucet.Status(c.Request.Context(), userID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// FaucetClaim handles POST /faucet/claim {"currency_id": "..."}
func (h *Handler) FaucetClaim(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.Faucet.Claim(c.Request.Context(), userID, req.CurrencyID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
