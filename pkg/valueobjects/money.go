package valueobjects

import (
	"fmt"
	"strings"

	"github.com/izzico/izzico-backend/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

// Supported currencies. The platform operates in the eurozone; EUR is the
// default for all shared expenses.
const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

var validCurrencies = map[Currency]bool{
	EUR: true,
	USD: true,
	GBP: true,
}

// Money represents a monetary value with a specific currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance with validation
func NewMoney(amount decimal.Decimal, currency Currency) (*Money, error) {
	if !isValidCurrency(currency) {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}

	if amount.LessThan(decimal.Zero) {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot be negative",
		)
	}

	// Ensure amount has max 2 decimal places
	if amount.Exponent() < -2 {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot have more than 2 decimal places",
		)
	}

	return &Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromString creates a Money instance from string representations
func NewMoneyFromString(amount string, currency string) (*Money, error) {
	decimalAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.ValidationFailed(
			"invalid amount format",
			err.Error(),
		)
	}

	curr := Currency(strings.ToUpper(currency))
	return NewMoney(decimalAmount, curr)
}

// NewMoneyFromCents creates a Money instance from an amount in minor units.
func NewMoneyFromCents(cents int64, currency Currency) (*Money, error) {
	return NewMoney(decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)), currency)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Cents returns the amount in minor units, exact for two-decimal amounts.
func (m Money) Cents() int64 {
	return m.amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Add adds two monetary values of the same currency
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot add %s to %s", other.currency, m.currency),
		)
	}

	return &Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// Subtract subtracts two monetary values of the same currency
func (m Money) Subtract(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.ValidationFailed(
			"currency mismatch",
			fmt.Sprintf("cannot subtract %s from %s", other.currency, m.currency),
		)
	}

	result := m.amount.Sub(other.amount)
	if result.LessThan(decimal.Zero) {
		return nil, errors.ValidationFailed(
			"invalid operation",
			"subtraction would result in negative amount",
		)
	}

	return &Money{
		amount:   result,
		currency: m.currency,
	}, nil
}

// Split divides money into n parts that reconcile exactly with the total.
// Remainder cents are allocated one each to the first parts, so earlier
// parts may be one cent larger.
func (m Money) Split(n int) ([]*Money, error) {
	if n <= 0 {
		return nil, errors.ValidationFailed(
			"invalid split",
			"number of parts must be positive",
		)
	}

	// Work in cents to avoid sub-cent drift.
	totalCents := m.amount.Mul(decimal.NewFromInt(100))
	baseCents := totalCents.Div(decimal.NewFromInt(int64(n))).Floor()
	remainder := totalCents.Sub(baseCents.Mul(decimal.NewFromInt(int64(n))))

	result := make([]*Money, n)

	for i := 0; i < n; i++ {
		partCents := baseCents
		if remainder.GreaterThan(decimal.Zero) {
			partCents = partCents.Add(decimal.NewFromInt(1))
			remainder = remainder.Sub(decimal.NewFromInt(1))
		}

		result[i] = &Money{
			amount:   partCents.Div(decimal.NewFromInt(100)).Round(2),
			currency: m.currency,
		}
	}

	return result, nil
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.GreaterThan(decimal.Zero)
}

// Equals checks if two monetary values are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a string representation of the money value
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Compare returns -1, 0 or 1 comparing amounts of the same currency.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot compare %s with %s", m.currency, other.currency),
		)
	}
	return m.amount.Cmp(other.amount), nil
}

func isValidCurrency(currency Currency) bool {
	return validCurrencies[currency]
}

const (
	ErrInvalidAmount    = "INVALID_AMOUNT"
	ErrInvalidCurrency  = "INVALID_CURRENCY"
	ErrCurrencyMismatch = "CURRENCY_MISMATCH"
)
