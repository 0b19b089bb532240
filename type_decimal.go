package pulse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// nullDecimal is a decimal that may be absent from a backend payload.
//
// The backend replaces NaN cells by null, and some legacy views send empty
// strings, so both decode to a missing value.
type nullDecimal struct {
	value decimal.Decimal
	valid bool
}

// IsMissing reports whether the backend did not provide the value.
func (n nullDecimal) IsMissing() bool { return !n.valid }

// Decimal returns the value, zero when missing.
func (n nullDecimal) Decimal() decimal.Decimal { return n.value }

func (n nullDecimal) equal(m nullDecimal) bool {
	if n.valid != m.valid {
		return false
	}
	return !n.valid || n.value.Equal(m.value)
}

func (n nullDecimal) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	// numbers on the wire, like the backend does.
	return []byte(n.value.String()), nil
}

func (n *nullDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*n = nullDecimal{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = nullDecimal{value: d, valid: true}
	return nil
}

// grouped formats d with a fixed number of decimal places, using sep between
// the integer and fractional parts and thousand between groups of three
// integer digits. places < 0 keeps the exact decimal representation.
func grouped(d decimal.Decimal, places int32, sep, thousand string) string {
	var s string
	if places < 0 {
		s = d.String()
	} else {
		s = d.StringFixed(places)
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousand)
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteString(sep)
		b.WriteString(frac)
	}
	return b.String()
}
