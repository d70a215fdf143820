// Package calculator holds the pure finance arithmetic: share computation for
// an expense and balance netting across a property. It has no I/O; stores and
// services feed it rows and persist its results.
package calculator

import (
	"fmt"
	"sort"

	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
)

var (
	oneHundred = decimal.NewFromInt(100)
	// centTolerance absorbs currency rounding when validating user-provided
	// percentage and custom splits.
	centTolerance = decimal.NewFromFloat(0.01)
)

// ComputeShares computes each participant's owed share of an expense.
// The returned splits always sum to the expense amount exactly, to the cent.
// ExpenseID is left empty; the caller assigns it when persisting.
func ComputeShares(amount valueobjects.Money, cfg types.SplitConfig) ([]types.ExpenseSplit, error) {
	if len(cfg.Participants) == 0 {
		return nil, errors.InvalidSplit("split has no participants", "")
	}
	if !amount.IsPositive() {
		return nil, errors.InvalidSplit("expense amount must be positive", amount.String())
	}

	seen := make(map[string]bool, len(cfg.Participants))
	for _, p := range cfg.Participants {
		if p.UserID == "" {
			return nil, errors.InvalidSplit("participant without user id", "")
		}
		if seen[p.UserID] {
			return nil, errors.InvalidSplit("duplicate participant", p.UserID)
		}
		seen[p.UserID] = true
	}

	switch cfg.Method {
	case types.SplitEqual:
		return equalShares(amount, cfg.Participants)
	case types.SplitPercentage:
		return percentageShares(amount, cfg.Participants)
	case types.SplitCustom:
		return customShares(amount, cfg.Participants)
	default:
		return nil, errors.InvalidSplit("unknown split method", string(cfg.Method))
	}
}

// equalShares divides the amount evenly. Remainder cents go one each to the
// participants with the lowest user IDs, so the allocation is deterministic
// and the total reconciles exactly.
func equalShares(amount valueobjects.Money, participants []types.SplitAllocation) ([]types.ExpenseSplit, error) {
	ordered := make([]types.SplitAllocation, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UserID < ordered[j].UserID })

	parts, err := amount.Split(len(ordered))
	if err != nil {
		return nil, err
	}

	splits := make([]types.ExpenseSplit, len(ordered))
	for i, p := range ordered {
		splits[i] = types.ExpenseSplit{
			UserID:     p.UserID,
			AmountOwed: parts[i].Amount(),
		}
	}
	return splits, nil
}

// percentageShares allocates round(amount × pct / 100) per participant.
// Percentages must sum to 100 within a cent's tolerance; after per-share
// rounding, any cent of drift is reconciled against the largest share.
func percentageShares(amount valueobjects.Money, participants []types.SplitAllocation) ([]types.ExpenseSplit, error) {
	totalPct := decimal.Zero
	for _, p := range participants {
		if p.Percentage.LessThan(decimal.Zero) {
			return nil, errors.InvalidSplit("negative percentage", p.UserID)
		}
		totalPct = totalPct.Add(p.Percentage)
	}
	if totalPct.Sub(oneHundred).Abs().GreaterThan(centTolerance) {
		return nil, errors.InvalidSplit(
			"percentages must sum to 100",
			fmt.Sprintf("got %s", totalPct.String()),
		)
	}

	splits := make([]types.ExpenseSplit, len(participants))
	allocated := decimal.Zero
	largest := 0
	for i, p := range participants {
		share := amount.Amount().Mul(p.Percentage).Div(oneHundred).Round(2)
		splits[i] = types.ExpenseSplit{UserID: p.UserID, AmountOwed: share}
		allocated = allocated.Add(share)
		if share.GreaterThan(splits[largest].AmountOwed) {
			largest = i
		}
	}

	// Fold rounding drift into the largest share so the total is exact.
	drift := amount.Amount().Sub(allocated)
	if !drift.IsZero() {
		splits[largest].AmountOwed = splits[largest].AmountOwed.Add(drift)
	}
	return splits, nil
}

// customShares takes the provided amounts as-is. The sum must equal the
// expense amount within €0.01; a single cent of drift is folded into the
// largest share.
func customShares(amount valueobjects.Money, participants []types.SplitAllocation) ([]types.ExpenseSplit, error) {
	total := decimal.Zero
	for _, p := range participants {
		if p.Amount.LessThan(decimal.Zero) {
			return nil, errors.InvalidSplit("negative share amount", p.UserID)
		}
		total = total.Add(p.Amount)
	}
	diff := amount.Amount().Sub(total)
	if diff.Abs().GreaterThan(centTolerance) {
		return nil, errors.InvalidSplit(
			"custom amounts must sum to the expense total",
			fmt.Sprintf("expected %s, got %s", amount.Amount().StringFixed(2), total.StringFixed(2)),
		)
	}

	splits := make([]types.ExpenseSplit, len(participants))
	largest := 0
	for i, p := range participants {
		splits[i] = types.ExpenseSplit{UserID: p.UserID, AmountOwed: p.Amount}
		if p.Amount.GreaterThan(splits[largest].AmountOwed) {
			largest = i
		}
	}
	if !diff.IsZero() {
		splits[largest].AmountOwed = splits[largest].AmountOwed.Add(diff)
	}
	return splits, nil
}
