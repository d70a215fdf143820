package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
)

// SettlementHandler exposes payee info, payment preparation and settlement
// reporting endpoints.
type SettlementHandler struct {
	settlementService services.SettlementServiceInterface
}

func NewSettlementHandler(settlementService services.SettlementServiceInterface) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// GetPayeeInfoHandler handles GET /v1/users/:id/payment-info. Pass ?full=true
// to request the unmasked IBAN; reveals are rate limited per viewer.
func (h *SettlementHandler) GetPayeeInfoHandler(c *gin.Context) {
	viewerID, ok := requireUserID(c)
	if !ok {
		return
	}
	payeeID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}
	fullReveal := c.Query("full") == "true"

	info, err := h.settlementService.GetPayeeInfo(c.Request.Context(), viewerID, payeeID, fullReveal)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// preparePaymentRequest is the payload for resolving a settlement channel.
type preparePaymentRequest struct {
	Amount    decimal.Decimal     `json:"amount" binding:"required"`
	Method    types.PaymentMethod `json:"method" binding:"required"`
	Reference string              `json:"reference"`
}

// PreparePaymentHandler handles POST /v1/users/:id/payment-info/prepare.
// It resolves the payee's channel into a deep link or transfer details.
func (h *SettlementHandler) PreparePaymentHandler(c *gin.Context) {
	payerID, ok := requireUserID(c)
	if !ok {
		return
	}
	payeeID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req preparePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid request body", err.Error()))
		return
	}

	amount, err := valueobjects.NewMoney(req.Amount, valueobjects.EUR)
	if err != nil {
		_ = c.Error(err)
		return
	}

	instruction, err := h.settlementService.PreparePayment(
		c.Request.Context(), payerID, payeeID, *amount, req.Method, req.Reference)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, instruction)
}

// ReportPaymentHandler handles POST /v1/properties/:id/settlements.
func (h *SettlementHandler) ReportPaymentHandler(c *gin.Context) {
	payerID, ok := requireUserID(c)
	if !ok {
		return
	}
	propertyID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req types.ReportPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid request body", err.Error()))
		return
	}

	settlement, err := h.settlementService.ReportPayment(c.Request.Context(), propertyID, payerID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}
