package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
)

// ExpenseHandler exposes expense, balance and export endpoints.
type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
	exportService  services.ExportServiceInterface
}

func NewExpenseHandler(expenseService services.ExpenseServiceInterface, exportService services.ExportServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		exportService:  exportService,
	}
}

// CreateExpenseHandler handles POST /v1/properties/:id/expenses.
func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	propertyID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req types.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid request body", err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), propertyID, userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// ListExpensesHandler handles GET /v1/properties/:id/expenses.
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	propertyID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = c.Error(errors.ValidationFailed("invalid limit", raw))
			return
		}
		limit = parsed
	}

	expenses, err := h.expenseService.ListPropertyExpenses(c.Request.Context(), propertyID, userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetBalancesHandler handles GET /v1/properties/:id/balances.
func (h *ExpenseHandler) GetBalancesHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	propertyID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	balances, err := h.expenseService.CalculateBalances(c.Request.Context(), propertyID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// GetExpenseHandler handles GET /v1/expenses/:expenseId.
func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenseID, ok := requireUUIDParam(c, "expenseId")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// MarkSplitPaidHandler handles POST /v1/expenses/:expenseId/splits/:userId/paid.
func (h *ExpenseHandler) MarkSplitPaidHandler(c *gin.Context) {
	callerID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenseID, ok := requireUUIDParam(c, "expenseId")
	if !ok {
		return
	}
	splitUserID, ok := requireUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.expenseService.MarkSplitAsPaid(c.Request.Context(), expenseID, callerID, splitUserID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

// ExportExpensesHandler handles GET /v1/properties/:id/expenses/export.
func (h *ExpenseHandler) ExportExpensesHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	propertyID, ok := requireUUIDParam(c, "id")
	if !ok {
		return
	}

	pdf, err := h.exportService.ExportExpensesToPDF(c.Request.Context(), propertyID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
