// Package store defines the persistence interfaces the finance services
// depend on. Concrete implementations live in store/postgres; tests use
// pgxmock-backed instances of the same interfaces.
package store

import (
	"context"
	"time"

	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
)

// ExpenseStore handles expense and split persistence.
type ExpenseStore interface {
	// CreateExpenseWithSplits inserts the expense and its split rows in a
	// single transaction and returns the new expense ID.
	CreateExpenseWithSplits(ctx context.Context, expense *types.Expense, splits []types.ExpenseSplit) (string, error)

	GetExpense(ctx context.Context, id string) (*types.Expense, error)

	// ListPropertyExpenses returns the property's expenses, newest first.
	ListPropertyExpenses(ctx context.Context, propertyID string, limit int) ([]types.Expense, error)

	// ListSplitsByExpense returns the split rows for the given expenses,
	// keyed by expense ID.
	ListSplitsByExpense(ctx context.Context, expenseIDs []string) (map[string][]types.ExpenseSplit, error)

	// MarkSplitPaid flips a split's paid flag. The update is guarded on
	// paid = FALSE; it returns ErrAlreadyPaid when the flag was already set
	// and ErrNotFound when no such split exists.
	MarkSplitPaid(ctx context.Context, expenseID, userID string, paidAt time.Time) error
}

// SettlementStore handles reported payment settlements.
type SettlementStore interface {
	// CreateSettlement inserts the settlement and, in the same transaction,
	// flips the payer's unpaid splits toward the payee oldest-first until
	// the settlement amount is exhausted. It returns the settlement ID and
	// the amount covered by flipped splits.
	CreateSettlement(ctx context.Context, settlement *types.PaymentSettlement) (string, decimal.Decimal, error)

	ListPropertySettlements(ctx context.Context, propertyID string) ([]types.PaymentSettlement, error)
}

// BankInfoStore handles payout configuration and IBAN reveal audit rows.
type BankInfoStore interface {
	GetBankInfo(ctx context.Context, userID string) (*types.BankInfo, error)
	UpsertBankInfo(ctx context.Context, info *types.BankInfo) error
	MarkVerified(ctx context.Context, userID string, at time.Time) error

	// RecordIBANReveal appends an audit row for a (masked or full) payment
	// info read of targetID by viewerID.
	RecordIBANReveal(ctx context.Context, viewerID, targetID string, fullReveal bool) error
}

// PropertyStore handles property membership lookups.
type PropertyStore interface {
	GetProperty(ctx context.Context, id string) (*types.Property, error)
	ListResidents(ctx context.Context, propertyID string) ([]types.Resident, error)
	IsResident(ctx context.Context, propertyID, userID string) (bool, error)
}

// UserStore resolves profile rows for display names.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]types.User, error)
}
