package calculator

import (
	"testing"

	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	m, err := valueobjects.NewMoneyFromString(amount, "EUR")
	require.NoError(t, err)
	return *m
}

func equalConfig(userIDs ...string) types.SplitConfig {
	cfg := types.SplitConfig{Method: types.SplitEqual}
	for _, id := range userIDs {
		cfg.Participants = append(cfg.Participants, types.SplitAllocation{UserID: id})
	}
	return cfg
}

func sumSplits(splits []types.ExpenseSplit) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.AmountOwed)
	}
	return total
}

func TestComputeShares_EqualEven(t *testing.T) {
	splits, err := ComputeShares(mustMoney(t, "90.00"), equalConfig("user-a", "user-b", "user-c"))
	require.NoError(t, err)
	require.Len(t, splits, 3)

	for _, s := range splits {
		assert.True(t, s.AmountOwed.Equal(decimal.RequireFromString("30.00")),
			"share for %s was %s", s.UserID, s.AmountOwed)
	}
	assert.True(t, sumSplits(splits).Equal(decimal.RequireFromString("90.00")))
}

func TestComputeShares_EqualRemainderGoesToLowestUserIDs(t *testing.T) {
	// 100.00 / 3 = 33.33 with 1 cent left over. The extra cent lands on the
	// lexicographically lowest user ID regardless of input order.
	splits, err := ComputeShares(mustMoney(t, "100.00"), equalConfig("user-c", "user-a", "user-b"))
	require.NoError(t, err)
	require.Len(t, splits, 3)

	byUser := make(map[string]decimal.Decimal)
	for _, s := range splits {
		byUser[s.UserID] = s.AmountOwed
	}
	assert.True(t, byUser["user-a"].Equal(decimal.RequireFromString("33.34")))
	assert.True(t, byUser["user-b"].Equal(decimal.RequireFromString("33.33")))
	assert.True(t, byUser["user-c"].Equal(decimal.RequireFromString("33.33")))
	assert.True(t, sumSplits(splits).Equal(decimal.RequireFromString("100.00")))
}

func TestComputeShares_EqualTwoRemainderCents(t *testing.T) {
	splits, err := ComputeShares(mustMoney(t, "0.05"), equalConfig("b", "a", "c"))
	require.NoError(t, err)

	byUser := make(map[string]decimal.Decimal)
	for _, s := range splits {
		byUser[s.UserID] = s.AmountOwed
	}
	assert.True(t, byUser["a"].Equal(decimal.RequireFromString("0.02")))
	assert.True(t, byUser["b"].Equal(decimal.RequireFromString("0.02")))
	assert.True(t, byUser["c"].Equal(decimal.RequireFromString("0.01")))
}

func TestComputeShares_Percentage(t *testing.T) {
	cfg := types.SplitConfig{
		Method: types.SplitPercentage,
		Participants: []types.SplitAllocation{
			{UserID: "a", Percentage: decimal.RequireFromString("50")},
			{UserID: "b", Percentage: decimal.RequireFromString("30")},
			{UserID: "c", Percentage: decimal.RequireFromString("20")},
		},
	}
	splits, err := ComputeShares(mustMoney(t, "200.00"), cfg)
	require.NoError(t, err)

	byUser := make(map[string]decimal.Decimal)
	for _, s := range splits {
		byUser[s.UserID] = s.AmountOwed
	}
	assert.True(t, byUser["a"].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, byUser["b"].Equal(decimal.RequireFromString("60.00")))
	assert.True(t, byUser["c"].Equal(decimal.RequireFromString("40.00")))
}

func TestComputeShares_PercentageRoundingDriftToLargestShare(t *testing.T) {
	// Three thirds of 100.00 round to 33.33 each; the missing cent is folded
	// into the largest share so the total reconciles exactly.
	third := decimal.RequireFromString("100").Div(decimal.NewFromInt(3)).Round(4)
	cfg := types.SplitConfig{
		Method: types.SplitPercentage,
		Participants: []types.SplitAllocation{
			{UserID: "a", Percentage: third},
			{UserID: "b", Percentage: third},
			{UserID: "c", Percentage: decimal.RequireFromString("100").Sub(third).Sub(third)},
		},
	}
	splits, err := ComputeShares(mustMoney(t, "100.00"), cfg)
	require.NoError(t, err)
	assert.True(t, sumSplits(splits).Equal(decimal.RequireFromString("100.00")))
}

func TestComputeShares_PercentageMustSumToHundred(t *testing.T) {
	cfg := types.SplitConfig{
		Method: types.SplitPercentage,
		Participants: []types.SplitAllocation{
			{UserID: "a", Percentage: decimal.RequireFromString("60")},
			{UserID: "b", Percentage: decimal.RequireFromString("30")},
		},
	}
	_, err := ComputeShares(mustMoney(t, "100.00"), cfg)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidSplitError, appErr.Type)
}

func TestComputeShares_Custom(t *testing.T) {
	cfg := types.SplitConfig{
		Method: types.SplitCustom,
		Participants: []types.SplitAllocation{
			{UserID: "a", Amount: decimal.RequireFromString("70.00")},
			{UserID: "b", Amount: decimal.RequireFromString("30.00")},
		},
	}
	splits, err := ComputeShares(mustMoney(t, "100.00"), cfg)
	require.NoError(t, err)
	assert.True(t, splits[0].AmountOwed.Equal(decimal.RequireFromString("70.00")))
	assert.True(t, splits[1].AmountOwed.Equal(decimal.RequireFromString("30.00")))
}

func TestComputeShares_CustomSumMismatchRejected(t *testing.T) {
	cfg := types.SplitConfig{
		Method: types.SplitCustom,
		Participants: []types.SplitAllocation{
			{UserID: "a", Amount: decimal.RequireFromString("70.00")},
			{UserID: "b", Amount: decimal.RequireFromString("25.00")},
		},
	}
	_, err := ComputeShares(mustMoney(t, "100.00"), cfg)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidSplitError, appErr.Type)
}

func TestComputeShares_CustomOneCentDriftAbsorbed(t *testing.T) {
	cfg := types.SplitConfig{
		Method: types.SplitCustom,
		Participants: []types.SplitAllocation{
			{UserID: "a", Amount: decimal.RequireFromString("66.67")},
			{UserID: "b", Amount: decimal.RequireFromString("33.32")},
		},
	}
	splits, err := ComputeShares(mustMoney(t, "100.00"), cfg)
	require.NoError(t, err)
	assert.True(t, sumSplits(splits).Equal(decimal.RequireFromString("100.00")))
	// The drift cent went to the largest share.
	assert.True(t, splits[0].AmountOwed.Equal(decimal.RequireFromString("66.68")))
}

func TestComputeShares_Validation(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		cfg    types.SplitConfig
	}{
		{
			name:   "no participants",
			amount: "10.00",
			cfg:    types.SplitConfig{Method: types.SplitEqual},
		},
		{
			name:   "duplicate participant",
			amount: "10.00",
			cfg:    equalConfig("a", "a"),
		},
		{
			name:   "empty user id",
			amount: "10.00",
			cfg:    equalConfig(""),
		},
		{
			name:   "zero amount",
			amount: "0.00",
			cfg:    equalConfig("a", "b"),
		},
		{
			name:   "unknown method",
			amount: "10.00",
			cfg: types.SplitConfig{
				Method:       types.SplitMethod("weighted"),
				Participants: []types.SplitAllocation{{UserID: "a"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeShares(mustMoney(t, tc.amount), tc.cfg)
			require.Error(t, err)

			appErr, ok := err.(*errors.AppError)
			require.True(t, ok)
			assert.Equal(t, errors.InvalidSplitError, appErr.Type)
		})
	}
}
