package services

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/internal/calculator"
	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// defaultExpenseListLimit bounds list responses.
	defaultExpenseListLimit = 50

	// balanceFetchLimit bounds how many expenses feed a balance computation.
	// Settled properties keep their history; the limit keeps the netting pass
	// from scanning years of rows on every request.
	balanceFetchLimit = 1000
)

// ExpenseServiceInterface is the expense and balance contract the handlers use.
type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, propertyID, creatorID string, req types.CreateExpenseRequest) (*types.Expense, error)
	GetExpense(ctx context.Context, expenseID, userID string) (*types.ExpenseWithDetails, error)
	ListPropertyExpenses(ctx context.Context, propertyID, userID string, limit int) ([]types.ExpenseWithDetails, error)
	MarkSplitAsPaid(ctx context.Context, expenseID, callerID, splitUserID string) error
	CalculateBalances(ctx context.Context, propertyID, userID string) ([]types.Balance, error)
}

type ExpenseMetrics struct {
	expensesCreated  prometheus.Counter
	balancesComputed prometheus.Counter
}

// ExpenseService owns expense creation, listing, split reconciliation and
// balance computation for a property.
type ExpenseService struct {
	expenseStore    store.ExpenseStore
	settlementStore store.SettlementStore
	propertyStore   store.PropertyStore
	userStore       store.UserStore
	metrics         *ExpenseMetrics
}

func NewExpenseService(
	expenseStore store.ExpenseStore,
	settlementStore store.SettlementStore,
	propertyStore store.PropertyStore,
	userStore store.UserStore,
) *ExpenseService {
	return NewExpenseServiceWithRegistry(expenseStore, settlementStore, propertyStore, userStore, prometheus.DefaultRegisterer)
}

func NewExpenseServiceWithRegistry(
	expenseStore store.ExpenseStore,
	settlementStore store.SettlementStore,
	propertyStore store.PropertyStore,
	userStore store.UserStore,
	reg prometheus.Registerer,
) *ExpenseService {
	metrics := &ExpenseMetrics{
		expensesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		balancesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_balances_computed_total",
			Help: "Total number of balance computations served",
		}),
	}
	reg.MustRegister(metrics.expensesCreated)
	reg.MustRegister(metrics.balancesComputed)

	return &ExpenseService{
		expenseStore:    expenseStore,
		settlementStore: settlementStore,
		propertyStore:   propertyStore,
		userStore:       userStore,
		metrics:         metrics,
	}
}

// CreateExpense validates the request, computes the splits server-side and
// persists expense and splits atomically. Client-provided shares are only
// ever treated as input to the calculator, never stored as-is.
func (s *ExpenseService) CreateExpense(ctx context.Context, propertyID, creatorID string, req types.CreateExpenseRequest) (*types.Expense, error) {
	log := logger.GetLogger()

	if err := s.requireResident(ctx, propertyID, creatorID); err != nil {
		return nil, err
	}
	if !types.ValidExpenseCategories[req.Category] {
		return nil, errors.ValidationFailed("invalid expense category", string(req.Category))
	}

	amount, err := valueobjects.NewMoney(req.Amount, valueobjects.EUR)
	if err != nil {
		return nil, errors.ValidationFailed("invalid expense amount", err.Error())
	}

	// Every split participant must live in the property.
	residents, err := s.propertyStore.ListResidents(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	residentSet := make(map[string]bool, len(residents))
	for _, r := range residents {
		residentSet[r.UserID] = true
	}
	for _, p := range req.Split.Participants {
		if !residentSet[p.UserID] {
			return nil, errors.InvalidSplit("participant is not a resident of the property", p.UserID)
		}
	}

	splits, err := calculator.ComputeShares(*amount, req.Split)
	if err != nil {
		return nil, err
	}

	expense := &types.Expense{
		PropertyID:      propertyID,
		PaidByID:        creatorID,
		CreatedBy:       creatorID,
		Title:           req.Title,
		Description:     req.Description,
		Amount:          amount.Amount(),
		Currency:        string(amount.Currency()),
		Category:        req.Category,
		Date:            req.Date,
		Status:          types.ExpenseStatusPending,
		SplitMethod:     req.Split.Method,
		ReceiptImageURL: req.ReceiptImageURL,
	}

	id, err := s.expenseStore.CreateExpenseWithSplits(ctx, expense, splits)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	expense.ID = id

	s.metrics.expensesCreated.Inc()
	log.Infow("Expense created",
		"expense_id", id,
		"property_id", propertyID,
		"amount", amount.String(),
		"split_method", req.Split.Method,
		"participants", len(req.Split.Participants),
	)
	return expense, nil
}

// GetExpense returns a single expense enriched with splits and payer name.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID, userID string) (*types.ExpenseWithDetails, error) {
	expense, err := s.expenseStore.GetExpense(ctx, expenseID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Expense", expenseID)
		}
		return nil, errors.NewDatabaseError(err)
	}
	if err := s.requireResident(ctx, expense.PropertyID, userID); err != nil {
		return nil, err
	}

	details, err := s.enrichExpenses(ctx, []types.Expense{*expense}, userID)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListPropertyExpenses returns the property's expenses newest first, enriched
// with payer names and the requesting user's own share.
func (s *ExpenseService) ListPropertyExpenses(ctx context.Context, propertyID, userID string, limit int) ([]types.ExpenseWithDetails, error) {
	if err := s.requireResident(ctx, propertyID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultExpenseListLimit
	}
	if limit > balanceFetchLimit {
		limit = balanceFetchLimit
	}

	expenses, err := s.expenseStore.ListPropertyExpenses(ctx, propertyID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return s.enrichExpenses(ctx, expenses, userID)
}

// MarkSplitAsPaid records that the payer received a participant's share.
// Only the user who paid the expense may confirm receipt.
func (s *ExpenseService) MarkSplitAsPaid(ctx context.Context, expenseID, callerID, splitUserID string) error {
	expense, err := s.expenseStore.GetExpense(ctx, expenseID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.NotFound("Expense", expenseID)
		}
		return errors.NewDatabaseError(err)
	}
	if expense.PaidByID != callerID {
		return errors.Forbidden("only the expense payer can mark a split as paid", "")
	}

	err = s.expenseStore.MarkSplitPaid(ctx, expenseID, splitUserID, time.Now().UTC())
	switch {
	case err == nil:
		logger.GetLogger().Infow("Split marked as paid",
			"expense_id", expenseID, "user_id", splitUserID)
		return nil
	case goerrors.Is(err, store.ErrAlreadyPaid):
		return errors.NewConflictError("split is already marked as paid", splitUserID)
	case goerrors.Is(err, store.ErrNotFound):
		return errors.NotFound("Expense split", splitUserID)
	default:
		return errors.NewDatabaseError(err)
	}
}

// CalculateBalances nets all unpaid splits and settlement residuals into one
// signed amount per counterparty, from the requesting user's perspective.
func (s *ExpenseService) CalculateBalances(ctx context.Context, propertyID, userID string) ([]types.Balance, error) {
	if err := s.requireResident(ctx, propertyID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.expenseStore.ListPropertyExpenses(ctx, propertyID, balanceFetchLimit)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	splitsByExpense, err := s.expenseStore.ListSplitsByExpense(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	settlements, err := s.settlementStore.ListPropertySettlements(ctx, propertyID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	expenseInputs := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		expenseInputs[i] = calculator.ExpenseForBalance{
			PaidByID: e.PaidByID,
			Splits:   splitsByExpense[e.ID],
		}
	}
	settlementInputs := make([]calculator.SettlementForBalance, len(settlements))
	for i, st := range settlements {
		settlementInputs[i] = calculator.SettlementForBalance{
			PayerID: st.PayerID,
			PayeeID: st.PayeeID,
			Amount:  st.Amount,
			Applied: st.AppliedAmount,
		}
	}

	balances := calculator.NetBalances(userID, expenseInputs, settlementInputs)

	counterpartyIDs := make([]string, len(balances))
	for i, b := range balances {
		counterpartyIDs[i] = b.UserID
	}
	users, err := s.userStore.GetUsersByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	for i := range balances {
		if u, ok := users[balances[i].UserID]; ok {
			balances[i].UserName = u.FullName
		}
	}

	s.metrics.balancesComputed.Inc()
	return balances, nil
}

// enrichExpenses attaches splits, payer names and the viewer's share.
func (s *ExpenseService) enrichExpenses(ctx context.Context, expenses []types.Expense, viewerID string) ([]types.ExpenseWithDetails, error) {
	ids := make([]string, len(expenses))
	payerIDs := make([]string, 0, len(expenses))
	seen := make(map[string]bool)
	for i, e := range expenses {
		ids[i] = e.ID
		if !seen[e.PaidByID] {
			seen[e.PaidByID] = true
			payerIDs = append(payerIDs, e.PaidByID)
		}
	}

	splitsByExpense, err := s.expenseStore.ListSplitsByExpense(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	users, err := s.userStore.GetUsersByIDs(ctx, payerIDs)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	details := make([]types.ExpenseWithDetails, len(expenses))
	for i, e := range expenses {
		splits := splitsByExpense[e.ID]
		d := types.ExpenseWithDetails{
			Expense:    e,
			SplitCount: len(splits),
			Splits:     splits,
		}
		if u, ok := users[e.PaidByID]; ok {
			d.PaidByName = u.FullName
		}
		for _, split := range splits {
			if split.UserID == viewerID {
				d.YourShare = split.AmountOwed
				break
			}
		}
		details[i] = d
	}
	return details, nil
}

// requireResident maps non-membership to a forbidden error.
func (s *ExpenseService) requireResident(ctx context.Context, propertyID, userID string) error {
	ok, err := s.propertyStore.IsResident(ctx, propertyID, userID)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	if !ok {
		return errors.Forbidden("you are not a resident of this property", "")
	}
	return nil
}
