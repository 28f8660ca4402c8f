package handlers

import (
	"net/http"

	"casino_loyalty/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type tierRequest struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Order *int   `json:"order" binding:"required"`
}

type levelRequest struct {
	TierID                 int64           `json:"tier_id"`
	LevelNumber            int             `json:"level_number" binding:"required"`
	XPThreshold            *float64        `json:"xp_threshold" binding:"required"`
	FaucetIntervalMinutes  int             `json:"faucet_interval_minutes"`
	WeeklyRakebackPercent  decimal.Decimal `json:"weekly_rakeback_percent"`
	MonthlyRakebackPercent decimal.Decimal `json:"monthly_rakeback_percent"`
	LevelUpBonus           []domain.Reward `json:"level_up_bonus"`
	FaucetRewards          []domain.Reward `json:"faucet_rewards"`
}

func (r levelRequest) level() *domain.Level {
	return &domain.Level{
		TierID:                 r.TierID,
		LevelNumber:            r.LevelNumber,
		XPThreshold:            *r.XPThreshold,
		FaucetIntervalMinutes:  r.FaucetIntervalMinutes,
		WeeklyRakebackPercent:  r.WeeklyRakebackPercent,
		MonthlyRakebackPercent: r.MonthlyRakebackPercent,
		LevelUpBonus:           r.LevelUpBonus,
		FaucetRewards:          r.FaucetRewards,
	}
}

func (h *Handler) GetTier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid tier id")
		return
	}
	t, err := h.Catalog.GetTier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTier(c *gin.Context) {
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	t := &domain.Tier{Name: req.Name, Icon: req.Icon, Order: *req.Order}
	if err := h.Catalog.CreateTier(c.Request.Context(), adminID, t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid tier id")
		return
	}
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	t := &domain.Tier{ID: id, Name: req.Name, Icon: req.Icon, Order: *req.Order}
	if err := h.Catalog.UpdateTier(c.Request.Context(), adminID, t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid tier id")
		return
	}
	adminID, _ := getUserID(c)
	if err := h.Catalog.DeleteTier(c.Request.Context(), adminID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateLevel handles POST /tiers/:id/levels
func (h *Handler) CreateLevel(c *gin.Context) {
	tierID, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid tier id")
		return
	}
	var req levelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	l := req.level()
	l.TierID = tierID
	if err := h.Catalog.CreateLevel(c.Request.Context(), adminID, l); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) GetLevel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid level id")
		return
	}
	l, err := h.Catalog.GetLevel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// UpdateLevel replaces a level; tier_id may move it to another tier
func (h *Handler) UpdateLevel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid level id")
		return
	}
	var req levelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	adminID, _ := getUserID(c)

	if req.TierID == 0 {
		existing, err := h.Catalog.GetLevel(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		req.TierID = existing.TierID
	}

	l := req.level()
	l.ID = id
	if err := h.Catalog.UpdateLevel(ctx, adminID, l); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteLevel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		badRequest(c, "invalid level id")
		return
	}
	adminID, _ := getUserID(c)
	if err := h.Catalog.DeleteLevel(c.Request.Context(), adminID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
