package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the campus currency.
// It renders with two decimals ("13.50") on the wire and in logs.
type Money struct {
	amount decimal.Decimal
}

// MaxMoney is the largest amount a decimal(10,2) column holds.
var MaxMoney = MustMoney("99999999.99")

func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// ParseMoney accepts "5", "5.00" or "5.5".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errors.New("invalid amount: " + s)
	}
	return Money{amount: d}, nil
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Multiply(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsWholeCents reports whether the amount has no more than two decimal places.
// "1.50" and "1.500" qualify, "1.005" does not.
func (m Money) IsWholeCents() bool { return m.amount.Equal(m.amount.Round(2)) }

func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

// Equals compares numerically, so 5 and 5.00 are equal.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.amount = d
	return nil
}
