package pulse

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an amount in Brazilian reais, the only currency the
// backend reports. Its zero value is a missing amount.
type Money struct {
	nullDecimal
}

// M returns a present amount.
func M[T float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{nullDecimal{value: newDecimal(value), valid: true}}
}

func (m Money) Equal(n Money) bool { return m.equal(n.nullDecimal) }

func (m Money) IsNegative() bool { return m.valid && m.value.IsNegative() }

// Format returns the amount with exactly two decimal places, or Missing.
func (m Money) Format(s Style) string {
	if !m.valid {
		return Missing
	}
	switch s {
	case Brazilian:
		cur := money.GetCurrency(money.BRL)
		cents := m.value.Shift(int32(cur.Fraction)).Round(0).IntPart()
		return money.New(cents, money.BRL).Display()
	default:
		return "R$ " + m.value.StringFixed(2)
	}
}

// String returns the Plain format.
func (m Money) String() string { return m.Format(Plain) }
