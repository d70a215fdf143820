package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus tracks the lifecycle of a shared expense.
type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "pending"
	ExpenseStatusSettled ExpenseStatus = "settled"
)

// ExpenseCategory is the enumerated tag attached to an expense.
type ExpenseCategory string

const (
	CategoryGroceries ExpenseCategory = "groceries"
	CategoryUtilities ExpenseCategory = "utilities"
	CategoryHousehold ExpenseCategory = "household"
	CategoryInternet  ExpenseCategory = "internet"
	CategoryCleaning  ExpenseCategory = "cleaning"
	CategoryOther     ExpenseCategory = "other"
)

// ValidExpenseCategories is the set of accepted category tags.
var ValidExpenseCategories = map[ExpenseCategory]bool{
	CategoryGroceries: true,
	CategoryUtilities: true,
	CategoryHousehold: true,
	CategoryInternet:  true,
	CategoryCleaning:  true,
	CategoryOther:     true,
}

// Expense represents a shared expense within a property.
type Expense struct {
	ID              string          `json:"id"`
	PropertyID      string          `json:"propertyId"`
	PaidByID        string          `json:"paidById"`
	CreatedBy       string          `json:"createdBy"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Category        ExpenseCategory `json:"category"`
	Date            time.Time       `json:"date"`
	Status          ExpenseStatus   `json:"status"`
	SplitMethod     SplitMethod     `json:"splitMethod"`
	ReceiptImageURL string          `json:"receiptImageUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ExpenseSplit is one participant's share of an expense. One row per
// participant per expense, created atomically with the expense itself.
type ExpenseSplit struct {
	ID         string          `json:"id"`
	ExpenseID  string          `json:"expenseId"`
	UserID     string          `json:"userId"`
	AmountOwed decimal.Decimal `json:"amountOwed"`
	Paid       bool            `json:"paid"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
}

// ExpenseWithDetails is an expense enriched for list views: payer name, split
// count and the requesting user's own share.
type ExpenseWithDetails struct {
	Expense
	PaidByName string          `json:"paidByName"`
	SplitCount int             `json:"splitCount"`
	YourShare  decimal.Decimal `json:"yourShare"`
	Splits     []ExpenseSplit  `json:"splits"`
}

// SplitMethod selects how an expense is divided among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// SplitAllocation is one participant's entry in a SplitConfig. Percentage is
// used by the percentage method, Amount by the custom method; both are zero
// for equal splits.
type SplitAllocation struct {
	UserID     string          `json:"userId"`
	Percentage decimal.Decimal `json:"percentage,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
}

// SplitConfig describes how to divide an expense among participants.
type SplitConfig struct {
	Method       SplitMethod       `json:"method"`
	Participants []SplitAllocation `json:"participants"`
}

// CreateExpenseRequest is the payload for creating an expense with its splits.
type CreateExpenseRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Category        ExpenseCategory `json:"category" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	ReceiptImageURL string          `json:"receiptImageUrl"`
	Split           SplitConfig     `json:"split" binding:"required"`
}

// Balance is the derived net position of one counterparty relative to the
// requesting user. Positive means they owe the requesting user.
type Balance struct {
	UserID   string          `json:"userId"`
	UserName string          `json:"userName"`
	Amount   decimal.Decimal `json:"amount"`
}

// PaymentMethod is the settlement channel a payer used.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPayconiq     PaymentMethod = "payconiq"
	PaymentMethodRevolut      PaymentMethod = "revolut"
)

// ValidPaymentMethods is the set of accepted settlement channels.
var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodBankTransfer: true,
	PaymentMethodPayconiq:     true,
	PaymentMethodRevolut:      true,
}

// PaymentSettlement is a payer's attestation that money was sent outside the
// platform. It does not itself move money; both parties reconcile separately.
type PaymentSettlement struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"propertyId"`
	PayerID     string          `json:"payerId"`
	PayeeID     string          `json:"payeeId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`

	// AppliedAmount is the portion of the settlement already reflected by
	// split paid-flags flipped in the same transaction. The residual still
	// reduces the outstanding balance until the payee reconciles.
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}

// ReportPaymentRequest is the payload for reporting a settlement.
type ReportPaymentRequest struct {
	PayeeID     string          `json:"payeeId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      PaymentMethod   `json:"method" binding:"required"`
	Description string          `json:"description"`
}

// PaymentInstruction is the resolved channel for a settlement attempt:
// a deep link for payconiq/revolut, or copyable transfer details for a
// manual bank transfer.
type PaymentInstruction struct {
	Method            PaymentMethod `json:"method"`
	DeepLink          string        `json:"deepLink,omitempty"`
	IBAN              string        `json:"iban,omitempty"`
	IBANMasked        string        `json:"ibanMasked,omitempty"`
	AccountHolderName string        `json:"accountHolderName,omitempty"`
	BankName          string        `json:"bankName,omitempty"`
	AmountFormatted   string        `json:"amountFormatted,omitempty"`
	Reference         string        `json:"reference,omitempty"`
}
