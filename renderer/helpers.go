package renderer

import (
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pulse"
	"github.com/shopspring/decimal"
)

func severityLabel(s pulse.Severity) string {
	switch s {
	case pulse.Success:
		return "✅"
	case pulse.Warning:
		return "⚠️"
	case pulse.Failure:
		return "❌"
	default:
		return "ℹ️"
	}
}

// cell formats the value of column col in a spreadsheet preview row.
// Missing, null and NaN cells are printed as Missing.
func cell(row map[string]any, col string) string {
	v, err := jsonpath.Get(fmt.Sprintf("$[%q]", col), row)
	if err != nil || v == nil {
		return pulse.Missing
	}
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x).String()
	case string:
		if x == "" {
			return pulse.Missing
		}
		return escape(x)
	default:
		return escape(fmt.Sprint(x))
	}
}
