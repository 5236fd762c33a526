package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =====================================================
// MONEY VALUE OBJECT
// =====================================================

// Money is an immutable amount in a single currency. Every operation
// returns a new value; arithmetic across currencies is an error.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney constructs a validated Money value
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, NewRefundError(
			ErrCodeInvalidAmount,
			fmt.Sprintf("Amount cannot be negative: %s", amount.String()),
			ErrInvalidAmount,
		)
	}
	if currency == "" {
		return Money{}, NewRefundError(
			ErrCodeInvalidAmount,
			"Currency cannot be empty",
			ErrInvalidAmount,
		)
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// MustMoney constructs a Money value and panics on invalid input.
// For constants and tests only.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: strings.ToUpper(currency)}
}

// Add returns m + other, failing when currencies differ
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other, failing when currencies differ or the result
// would drop below zero
func (m Money) Sub(other Money) (Money, error) {
	if err := m.checkCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	if m.Amount.LessThan(other.Amount) {
		return Money{}, NewRefundError(
			ErrCodeNegativeResult,
			fmt.Sprintf("Cannot subtract %s from %s", other.String(), m.String()),
			ErrNegativeResult,
		)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Mul scales the amount by a non-negative integer quantity
func (m Money) Mul(qty int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(qty))),
		Currency: m.Currency,
	}
}

// Cmp compares amounts: -1 if m < other, 0 if equal, +1 if m > other
func (m Money) Cmp(other Money) (int, error) {
	if err := m.checkCurrency(other, "compare"); err != nil {
		return 0, err
	}
	return m.Amount.Cmp(other.Amount), nil
}

// Equal reports amount and currency equality
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String formats as "USD 199.99"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}

func (m Money) checkCurrency(other Money, op string) error {
	if m.Currency != other.Currency {
		return NewRefundError(
			ErrCodeCurrencyMismatch,
			fmt.Sprintf("Cannot %s %s and %s", op, m.Currency, other.Currency),
			ErrCurrencyMismatch,
		)
	}
	return nil
}
