package handlers

import (
	"net/http"

	"casino_loyalty/internal/domain"

	"github.com/gin-gonic/gin"
)

type currencyRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (h *Handler) ListCurrencies(c *gin.Context) {
	list, err := h.Currencies.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": list})
}

func (h *Handler) GetCurrency(c *gin.Context) {
	cur, err := h.Currencies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *Handler) CreateCurrency(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	cur := &domain.Currency{Code: req.Code, Name: req.Name, Icon: req.Icon}
	if err := h.Currencies.Create(c.Request.Context(), adminID, cur); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cur)
}

func (h *Handler) UpdateCurrency(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	adminID, _ := getUserID(c)

	cur := &domain.Currency{ID: c.Param("id"), Code: req.Code, Name: req.Name, Icon: req.Icon}
	if err := h.Currencies.Update(c.Request.Context(), adminID, cur); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *Handler) DeleteCurrency(c *gin.Context) {
	adminID, _ := getUserID(c)
	if err := h.Currencies.Delete(c.Request.Context(), adminID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
