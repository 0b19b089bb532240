package pulse

import (
	"fmt"
	"strings"
)

// Missing is printed in place of any value the backend did not provide.
// A missing value is never rendered as 0 or blank.
const Missing = "N/A"

// Style selects how numbers are printed.
type Style int

const (
	// Plain prints "R$ 1000.50", without thousand separator.
	Plain Style = iota
	// Brazilian prints "R$1.000,50" with pt-BR separators.
	Brazilian
)

func (s Style) String() string {
	switch s {
	case Brazilian:
		return "pt-BR"
	default:
		return "plain"
	}
}

// ParseStyle parses "plain" or "pt-BR" (case insensitive).
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "pt-br", "ptbr", "brazilian":
		return Brazilian, nil
	default:
		return Plain, fmt.Errorf("unknown number style %q, want plain or pt-BR", s)
	}
}
