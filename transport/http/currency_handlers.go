package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

// CurrencyHandlers contains HTTP handlers for the currency catalogue.
// List is open to authenticated callers; the write endpoints are mounted
// under the admin group.
type CurrencyHandlers struct {
	currencies *service.CurrencyService
}

// NewCurrencyHandlers creates new currency handlers
func NewCurrencyHandlers(currencies *service.CurrencyService) *CurrencyHandlers {
	return &CurrencyHandlers{currencies: currencies}
}

// List returns every provisionable currency
func (h *CurrencyHandlers) List(c *gin.Context) {
	currencies, err := h.currencies.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]currencyResponse, len(currencies))
	for i := range currencies {
		out[i] = newCurrencyResponse(&currencies[i])
	}
	c.JSON(http.StatusOK, gin.H{"currencies": out})
}

type currencyRequest struct {
	Symbol  string `json:"symbol" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Details string `json:"details"`
}

// Create adds a currency to the catalogue
func (h *CurrencyHandlers) Create(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currency, err := h.currencies.Create(c.Request.Context(), req.Symbol, req.Name, req.Details)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCurrencyResponse(currency))
}

// Update replaces a currency definition
func (h *CurrencyHandlers) Update(c *gin.Context) {
	id, err := currencyID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currency, err := h.currencies.Update(c.Request.Context(), id, req.Symbol, req.Name, req.Details)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCurrencyResponse(currency))
}

// Delete removes a currency from the catalogue
func (h *CurrencyHandlers) Delete(c *gin.Context) {
	id, err := currencyID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.currencies.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Currency deleted"})
}

func currencyID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, core.ErrUnknownCurrency
	}
	return id, nil
}
