package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/types"
	"github.com/jackc/pgx/v5"
)

// Ensure ExpenseStore implements store.ExpenseStore.
var _ store.ExpenseStore = (*ExpenseStore)(nil)

// ExpenseStore implements the store.ExpenseStore interface for PostgreSQL.
type ExpenseStore struct {
	db DB
}

// NewExpenseStore creates a new ExpenseStore instance.
func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// CreateExpenseWithSplits inserts the expense and its splits atomically.
// Split rows are never trusted from the client; the caller passes the output
// of the share calculator.
func (s *ExpenseStore) CreateExpenseWithSplits(ctx context.Context, expense *types.Expense, splits []types.ExpenseSplit) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO expenses (property_id, paid_by_id, created_by, title, description,
			amount, currency, category, date, status, split_method, receipt_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id string
	err = tx.QueryRow(ctx, query,
		expense.PropertyID,
		expense.PaidByID,
		expense.CreatedBy,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.Currency,
		expense.Category,
		expense.Date,
		expense.Status,
		expense.SplitMethod,
		expense.ReceiptImageURL,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("error inserting expense: %w", err)
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, amount_owed, paid)
		VALUES ($1, $2, $3, FALSE)`

	for _, split := range splits {
		if _, err := tx.Exec(ctx, splitQuery, id, split.UserID, split.AmountOwed); err != nil {
			return "", fmt.Errorf("error inserting expense split: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// GetExpense retrieves an expense by its ID.
func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	query := `
		SELECT id, property_id, paid_by_id, created_by, title, description,
			amount, currency, category, date, status, split_method,
			COALESCE(receipt_image_url, ''), created_at, updated_at
		FROM expenses
		WHERE id = $1 AND deleted_at IS NULL`

	expense := &types.Expense{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.PropertyID,
		&expense.PaidByID,
		&expense.CreatedBy,
		&expense.Title,
		&expense.Description,
		&expense.Amount,
		&expense.Currency,
		&expense.Category,
		&expense.Date,
		&expense.Status,
		&expense.SplitMethod,
		&expense.ReceiptImageURL,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	return expense, nil
}

// ListPropertyExpenses retrieves a property's expenses, newest first.
func (s *ExpenseStore) ListPropertyExpenses(ctx context.Context, propertyID string, limit int) ([]types.Expense, error) {
	query := `
		SELECT id, property_id, paid_by_id, created_by, title, description,
			amount, currency, category, date, status, split_method,
			COALESCE(receipt_image_url, ''), created_at, updated_at
		FROM expenses
		WHERE property_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, propertyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []types.Expense
	for rows.Next() {
		var expense types.Expense
		err := rows.Scan(
			&expense.ID,
			&expense.PropertyID,
			&expense.PaidByID,
			&expense.CreatedBy,
			&expense.Title,
			&expense.Description,
			&expense.Amount,
			&expense.Currency,
			&expense.Category,
			&expense.Date,
			&expense.Status,
			&expense.SplitMethod,
			&expense.ReceiptImageURL,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return expenses, nil
}

// ListSplitsByExpense retrieves split rows for the given expenses, keyed by
// expense ID.
func (s *ExpenseStore) ListSplitsByExpense(ctx context.Context, expenseIDs []string) (map[string][]types.ExpenseSplit, error) {
	result := make(map[string][]types.ExpenseSplit, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, expense_id, user_id, amount_owed, paid, paid_at
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, user_id`

	rows, err := s.db.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var split types.ExpenseSplit
		err := rows.Scan(
			&split.ID,
			&split.ExpenseID,
			&split.UserID,
			&split.AmountOwed,
			&split.Paid,
			&split.PaidAt,
		)
		if err != nil {
			return nil, err
		}
		result[split.ExpenseID] = append(result[split.ExpenseID], split)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// MarkSplitPaid flips a split's paid flag. The WHERE clause guards on
// paid = FALSE so concurrent marks cannot both succeed.
func (s *ExpenseStore) MarkSplitPaid(ctx context.Context, expenseID, userID string, paidAt time.Time) error {
	query := `
		UPDATE expense_splits
		SET paid = TRUE, paid_at = $3
		WHERE expense_id = $1 AND user_id = $2 AND paid = FALSE`

	tag, err := s.db.Exec(ctx, query, expenseID, userID, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing split from one that was already paid.
	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM expense_splits WHERE expense_id = $1 AND user_id = $2)`,
		expenseID, userID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return store.ErrAlreadyPaid
	}
	return store.ErrNotFound
}
