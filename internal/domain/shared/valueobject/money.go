package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	PKR Currency = "PKR" // Pakistani Rupee (default)
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = PKR

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyPKR creates Money in PKR (Pakistani Rupee)
func NewMoneyPKR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: PKR}
}

// NewMoneyPKRFromFloat creates Money in PKR from float64
func NewMoneyPKRFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: PKR}
}

// NewMoneyPKRFromString creates Money in PKR from string
func NewMoneyPKRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: PKR}, nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroPKR returns a zero-value Money in PKR
func ZeroPKR() Money {
	return Zero(PKR)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Sub(other.amount),
		currency: m.currency,
	}, nil
}

// Multiply returns a new Money multiplied by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(factor),
		currency: m.currency,
	}
}

// GreaterThanOrEqual compares two Money amounts of the same currency
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// LessThan compares two Money amounts of the same currency
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Equals returns true if amount and currency both match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns the fixed-point string representation with two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON serializes the amount as a fixed-point string to avoid
// floating-point drift on the wire
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.StringFixed(2))
}

// UnmarshalJSON parses a fixed-point string amount in the default currency
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}

// Value implements driver.Valuer so Money can be stored in a decimal column
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner to read Money from a decimal column
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}
