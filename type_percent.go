package pulse

import "github.com/shopspring/decimal"

// Percent is a return expressed in percent (10 means 10%).
// Its zero value is a missing percentage.
type Percent struct {
	nullDecimal
}

// P returns a present percentage.
func P[T float64 | int | int64 | decimal.Decimal](value T) Percent {
	return Percent{nullDecimal{value: newDecimal(value), valid: true}}
}

func (p Percent) Equal(q Percent) bool { return p.equal(q.nullDecimal) }

func (p Percent) IsNegative() bool { return p.valid && p.value.IsNegative() }

func (p Percent) IsPositive() bool { return p.valid && p.value.IsPositive() }

// Format returns the percentage with exactly two decimal places and a
// trailing %, or Missing.
func (p Percent) Format(s Style) string {
	if !p.valid {
		return Missing
	}
	if s == Brazilian {
		return grouped(p.value, 2, ",", ".") + "%"
	}
	return p.value.StringFixed(2) + "%"
}

func (p Percent) String() string { return p.Format(Plain) }
