package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
)

// BankInfoHandler exposes the caller's own payout configuration endpoints.
type BankInfoHandler struct {
	bankInfoService services.BankInfoServiceInterface
}

func NewBankInfoHandler(bankInfoService services.BankInfoServiceInterface) *BankInfoHandler {
	return &BankInfoHandler{bankInfoService: bankInfoService}
}

// GetBankInfoHandler handles GET /v1/me/bank-info.
func (h *BankInfoHandler) GetBankInfoHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	info, err := h.bankInfoService.GetBankInfo(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// UpdateBankInfoHandler handles PUT /v1/me/bank-info.
func (h *BankInfoHandler) UpdateBankInfoHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.UpdateBankInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid request body", err.Error()))
		return
	}

	info, err := h.bankInfoService.UpdateBankInfo(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// VerifyBankInfoHandler handles POST /v1/me/bank-info/verify.
func (h *BankInfoHandler) VerifyBankInfoHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.bankInfoService.MarkVerified(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// ModificationAllowedHandler handles GET /v1/me/bank-info/modification-allowed.
func (h *BankInfoHandler) ModificationAllowedHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	allowed, remaining, err := h.bankInfoService.ModificationAllowed(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := gin.H{"allowed": allowed}
	if !allowed {
		response["retry_after"] = int(remaining.Seconds())
	}
	c.JSON(http.StatusOK, response)
}
