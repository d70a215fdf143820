package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
)

// Ensure SettlementStore implements store.SettlementStore.
var _ store.SettlementStore = (*SettlementStore)(nil)

// SettlementStore implements the store.SettlementStore interface for PostgreSQL.
type SettlementStore struct {
	db DB
}

// NewSettlementStore creates a new SettlementStore instance.
func NewSettlementStore(db DB) *SettlementStore {
	return &SettlementStore{db: db}
}

// coveredSplit is an unpaid split row considered for settlement application.
type coveredSplit struct {
	id     string
	amount decimal.Decimal
}

// CreateSettlement inserts the settlement and flips the payer's unpaid splits
// toward the payee in the same transaction, oldest expense first, until the
// settlement amount is exhausted. Flipping here closes the window where a
// reported payment and the lagging paid-flags would otherwise double-count.
func (s *SettlementStore) CreateSettlement(ctx context.Context, settlement *types.PaymentSettlement) (string, decimal.Decimal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", decimal.Zero, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Splits the payer owes the payee, oldest first. FOR UPDATE keeps a
	// concurrent markSplitAsPaid from racing the application.
	rows, err := tx.Query(ctx, `
		SELECT es.id, es.amount_owed
		FROM expense_splits es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.property_id = $1
		  AND e.paid_by_id = $2
		  AND es.user_id = $3
		  AND es.paid = FALSE
		  AND e.deleted_at IS NULL
		ORDER BY e.created_at
		FOR UPDATE OF es`,
		settlement.PropertyID, settlement.PayeeID, settlement.PayerID,
	)
	if err != nil {
		return "", decimal.Zero, err
	}

	var candidates []coveredSplit
	for rows.Next() {
		var c coveredSplit
		if err := rows.Scan(&c.id, &c.amount); err != nil {
			rows.Close()
			return "", decimal.Zero, err
		}
		candidates = append(candidates, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", decimal.Zero, err
	}

	applied := decimal.Zero
	now := time.Now().UTC()
	for _, c := range candidates {
		if applied.Add(c.amount).GreaterThan(settlement.Amount) {
			break
		}
		if _, err := tx.Exec(ctx,
			`UPDATE expense_splits SET paid = TRUE, paid_at = $2 WHERE id = $1`,
			c.id, now,
		); err != nil {
			return "", decimal.Zero, fmt.Errorf("error applying settlement to split: %w", err)
		}
		applied = applied.Add(c.amount)
	}

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO payment_settlements (property_id, payer_id, payee_id, amount,
			applied_amount, method, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		settlement.PropertyID,
		settlement.PayerID,
		settlement.PayeeID,
		settlement.Amount,
		applied,
		settlement.Method,
		settlement.Description,
	).Scan(&id)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("error inserting settlement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", decimal.Zero, err
	}
	return id, applied, nil
}

// ListPropertySettlements retrieves all reported settlements for a property.
func (s *SettlementStore) ListPropertySettlements(ctx context.Context, propertyID string) ([]types.PaymentSettlement, error) {
	query := `
		SELECT id, property_id, payer_id, payee_id, amount, applied_amount,
			method, COALESCE(description, ''), created_at
		FROM payment_settlements
		WHERE property_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []types.PaymentSettlement
	for rows.Next() {
		var settlement types.PaymentSettlement
		err := rows.Scan(
			&settlement.ID,
			&settlement.PropertyID,
			&settlement.PayerID,
			&settlement.PayeeID,
			&settlement.Amount,
			&settlement.AppliedAmount,
			&settlement.Method,
			&settlement.Description,
			&settlement.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return settlements, nil
}
