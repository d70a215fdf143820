package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.RequireFromString("10.50"), EUR)
	require.NoError(t, err)
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("10.50")))
}

func TestNewMoney_RejectsNegative(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("-1.00"), EUR)
	assert.Error(t, err)
}

func TestNewMoney_RejectsSubCentPrecision(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("1.005"), EUR)
	assert.Error(t, err)
}

func TestNewMoney_RejectsUnknownCurrency(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("1.00"), Currency("CHF"))
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("99.99", "eur")
	require.NoError(t, err)
	assert.Equal(t, EUR, m.Currency())

	_, err = NewMoneyFromString("not-a-number", "EUR")
	assert.Error(t, err)
}

func TestCents(t *testing.T) {
	m, err := NewMoneyFromString("12.34", "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), m.Cents())

	rt, err := NewMoneyFromCents(1234, EUR)
	require.NoError(t, err)
	assert.True(t, m.Equals(*rt))
}

func TestSplit_Even(t *testing.T) {
	m, err := NewMoneyFromString("90.00", "EUR")
	require.NoError(t, err)

	parts, err := m.Split(3)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.Equal(t, int64(3000), p.Cents())
	}
}

func TestSplit_RemainderToFirstParts(t *testing.T) {
	m, err := NewMoneyFromString("100.00", "EUR")
	require.NoError(t, err)

	parts, err := m.Split(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3334), parts[0].Cents())
	assert.Equal(t, int64(3333), parts[1].Cents())
	assert.Equal(t, int64(3333), parts[2].Cents())

	total := int64(0)
	for _, p := range parts {
		total += p.Cents()
	}
	assert.Equal(t, m.Cents(), total)
}

func TestSplit_InvalidParts(t *testing.T) {
	m, err := NewMoneyFromString("10.00", "EUR")
	require.NoError(t, err)

	_, err = m.Split(0)
	assert.Error(t, err)
	_, err = m.Split(-2)
	assert.Error(t, err)
}

func TestAddSubtract(t *testing.T) {
	a, _ := NewMoneyFromString("10.00", "EUR")
	b, _ := NewMoneyFromString("4.25", "EUR")

	sum, err := a.Add(*b)
	require.NoError(t, err)
	assert.Equal(t, int64(1425), sum.Cents())

	diff, err := a.Subtract(*b)
	require.NoError(t, err)
	assert.Equal(t, int64(575), diff.Cents())

	_, err = b.Subtract(*a)
	assert.Error(t, err, "negative result must be rejected")

	usd, _ := NewMoneyFromString("1.00", "USD")
	_, err = a.Add(*usd)
	assert.Error(t, err, "currency mismatch must be rejected")
}

func TestString(t *testing.T) {
	m, _ := NewMoneyFromString("7.5", "EUR")
	assert.Equal(t, "7.50 EUR", m.String())
}
