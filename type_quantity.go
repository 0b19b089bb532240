package pulse

import "github.com/shopspring/decimal"

// Quantity is a number of units held. Fractional quantities are allowed
// (crypto, fractional shares). Its zero value is a missing quantity.
type Quantity struct {
	nullDecimal
}

// Q returns a present quantity.
func Q[T float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{nullDecimal{value: newDecimal(value), valid: true}}
}

func (q Quantity) Equal(p Quantity) bool { return q.equal(p.nullDecimal) }

// Format returns the quantity with its own precision, or Missing.
func (q Quantity) Format(s Style) string {
	if !q.valid {
		return Missing
	}
	if s == Brazilian {
		return grouped(q.value, -1, ",", ".")
	}
	return q.value.String()
}

func (q Quantity) String() string { return q.Format(Plain) }
