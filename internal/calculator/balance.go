package calculator

import (
	"sort"

	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
)

// ExpenseForBalance carries the minimal expense data needed for netting.
type ExpenseForBalance struct {
	PaidByID string
	Splits   []types.ExpenseSplit
}

// SettlementForBalance carries a reported settlement for netting. Applied is
// the portion already reflected by flipped split paid-flags; only the
// residual (Amount - Applied) adjusts balances, so a settlement is never
// counted twice.
type SettlementForBalance struct {
	PayerID string
	PayeeID string
	Amount  decimal.Decimal
	Applied decimal.Decimal
}

// NetBalances computes one signed balance per counterparty from the current
// user's perspective. Positive means the counterparty owes the current user.
//
// For every expense: unpaid splits owed to the current user add, the current
// user's own unpaid splits subtract. Reported settlements credit their
// residual in the payer's favor. Balances within a cent of zero are dropped.
//
// Run from every resident's perspective over the same rows, the results net
// to zero across the property.
func NetBalances(currentUserID string, expenses []ExpenseForBalance, settlements []SettlementForBalance) []types.Balance {
	balances := make(map[string]decimal.Decimal)

	for _, exp := range expenses {
		if exp.PaidByID == currentUserID {
			for _, split := range exp.Splits {
				if split.UserID == currentUserID || split.Paid {
					continue
				}
				balances[split.UserID] = balances[split.UserID].Add(split.AmountOwed)
			}
			continue
		}

		for _, split := range exp.Splits {
			if split.UserID != currentUserID || split.Paid {
				continue
			}
			balances[exp.PaidByID] = balances[exp.PaidByID].Sub(split.AmountOwed)
		}
	}

	for _, s := range settlements {
		residual := s.Amount.Sub(s.Applied)
		if residual.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if s.PayerID == currentUserID {
			balances[s.PayeeID] = balances[s.PayeeID].Add(residual)
		} else if s.PayeeID == currentUserID {
			balances[s.PayerID] = balances[s.PayerID].Sub(residual)
		}
	}

	result := make([]types.Balance, 0, len(balances))
	for userID, amount := range balances {
		if amount.Abs().LessThanOrEqual(centTolerance) {
			continue
		}
		result = append(result, types.Balance{UserID: userID, Amount: amount})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}
