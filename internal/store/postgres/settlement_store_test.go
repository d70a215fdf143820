package postgres

import (
	"context"
	"testing"

	"github.com/izzico/izzico-backend/types"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSettlement_FlipsCoveredSplitsOldestFirst(t *testing.T) {
	mock := newMockPool(t)
	s := NewSettlementStore(mock)

	settlement := &types.PaymentSettlement{
		PropertyID: "prop-1",
		PayerID:    "bob",
		PayeeID:    "alice",
		Amount:     decimal.RequireFromString("50.00"),
		Method:     types.PaymentMethodBankTransfer,
	}

	mock.ExpectBegin()
	// bob owes alice 20.00, 25.00 and 10.00, oldest first. 50.00 covers the
	// first two (45.00); the third would overshoot and stays unpaid.
	mock.ExpectQuery("SELECT es.id, es.amount_owed").
		WithArgs("prop-1", "alice", "bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount_owed"}).
			AddRow("s1", decimal.RequireFromString("20.00")).
			AddRow("s2", decimal.RequireFromString("25.00")).
			AddRow("s3", decimal.RequireFromString("10.00")))
	mock.ExpectExec("UPDATE expense_splits").
		WithArgs("s1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE expense_splits").
		WithArgs("s2", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO payment_settlements").
		WithArgs("prop-1", "bob", "alice", settlement.Amount,
			decimal.RequireFromString("45.00"), settlement.Method, settlement.Description).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("set-1"))
	mock.ExpectCommit()
	mock.ExpectRollback()

	id, applied, err := s.CreateSettlement(context.Background(), settlement)
	require.NoError(t, err)
	assert.Equal(t, "set-1", id)
	assert.True(t, applied.Equal(decimal.RequireFromString("45.00")), "applied %s", applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSettlement_NoCoverableSplits(t *testing.T) {
	mock := newMockPool(t)
	s := NewSettlementStore(mock)

	settlement := &types.PaymentSettlement{
		PropertyID: "prop-1",
		PayerID:    "bob",
		PayeeID:    "alice",
		Amount:     decimal.RequireFromString("5.00"),
		Method:     types.PaymentMethodRevolut,
	}

	mock.ExpectBegin()
	// The only unpaid split is larger than the settlement; nothing flips.
	mock.ExpectQuery("SELECT es.id, es.amount_owed").
		WithArgs("prop-1", "alice", "bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount_owed"}).
			AddRow("s1", decimal.RequireFromString("30.00")))
	mock.ExpectQuery("INSERT INTO payment_settlements").
		WithArgs("prop-1", "bob", "alice", settlement.Amount,
			decimal.Zero, settlement.Method, settlement.Description).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("set-2"))
	mock.ExpectCommit()
	mock.ExpectRollback()

	id, applied, err := s.CreateSettlement(context.Background(), settlement)
	require.NoError(t, err)
	assert.Equal(t, "set-2", id)
	assert.True(t, applied.IsZero())
}

func TestListPropertySettlements(t *testing.T) {
	mock := newMockPool(t)
	s := NewSettlementStore(mock)

	mock.ExpectQuery("SELECT (.+) FROM payment_settlements").
		WithArgs("prop-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "property_id", "payer_id", "payee_id", "amount",
			"applied_amount", "method", "description", "created_at"}).
			AddRow("set-1", "prop-1", "bob", "alice",
				decimal.RequireFromString("30.00"), decimal.RequireFromString("20.00"),
				types.PaymentMethodPayconiq, "march rent", testTime(t)))

	settlements, err := s.ListPropertySettlements(context.Background(), "prop-1")
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, "bob", settlements[0].PayerID)
	assert.True(t, settlements[0].AppliedAmount.Equal(decimal.RequireFromString("20.00")))
}
