package handlers

import (
	"context"
	"time"

	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
	"github.com/stretchr/testify/mock"
)

// MockExpenseService implements ExpenseServiceInterface for handler tests.
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, propertyID, creatorID string, req types.CreateExpenseRequest) (*types.Expense, error) {
	args := m.Called(ctx, propertyID, creatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseService) GetExpense(ctx context.Context, expenseID, userID string) (*types.ExpenseWithDetails, error) {
	args := m.Called(ctx, expenseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExpenseWithDetails), args.Error(1)
}

func (m *MockExpenseService) ListPropertyExpenses(ctx context.Context, propertyID, userID string, limit int) ([]types.ExpenseWithDetails, error) {
	args := m.Called(ctx, propertyID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ExpenseWithDetails), args.Error(1)
}

func (m *MockExpenseService) MarkSplitAsPaid(ctx context.Context, expenseID, callerID, splitUserID string) error {
	args := m.Called(ctx, expenseID, callerID, splitUserID)
	return args.Error(0)
}

func (m *MockExpenseService) CalculateBalances(ctx context.Context, propertyID, userID string) ([]types.Balance, error) {
	args := m.Called(ctx, propertyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Balance), args.Error(1)
}

var _ services.ExpenseServiceInterface = (*MockExpenseService)(nil)

// MockExportService implements ExportServiceInterface for handler tests.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportExpensesToPDF(ctx context.Context, propertyID, userID string) ([]byte, error) {
	args := m.Called(ctx, propertyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ services.ExportServiceInterface = (*MockExportService)(nil)

// MockSettlementService implements SettlementServiceInterface for handler tests.
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) GetPayeeInfo(ctx context.Context, viewerID, payeeID string, fullReveal bool) (*types.PayeeInfo, error) {
	args := m.Called(ctx, viewerID, payeeID, fullReveal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PayeeInfo), args.Error(1)
}

func (m *MockSettlementService) PreparePayment(ctx context.Context, payerID, payeeID string, amount valueobjects.Money, method types.PaymentMethod, reference string) (*types.PaymentInstruction, error) {
	args := m.Called(ctx, payerID, payeeID, amount, method, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PaymentInstruction), args.Error(1)
}

func (m *MockSettlementService) ReportPayment(ctx context.Context, propertyID, payerID string, req types.ReportPaymentRequest) (*types.PaymentSettlement, error) {
	args := m.Called(ctx, propertyID, payerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PaymentSettlement), args.Error(1)
}

var _ services.SettlementServiceInterface = (*MockSettlementService)(nil)

// MockBankInfoService implements BankInfoServiceInterface for handler tests.
type MockBankInfoService struct {
	mock.Mock
}

func (m *MockBankInfoService) GetBankInfo(ctx context.Context, userID string) (*types.BankInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BankInfo), args.Error(1)
}

func (m *MockBankInfoService) UpdateBankInfo(ctx context.Context, userID string, req types.UpdateBankInfoRequest) (*types.BankInfo, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BankInfo), args.Error(1)
}

func (m *MockBankInfoService) MarkVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockBankInfoService) ModificationAllowed(ctx context.Context, userID string) (bool, time.Duration, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

var _ services.BankInfoServiceInterface = (*MockBankInfoService)(nil)
