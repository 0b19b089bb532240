package pulse

import (
	"encoding/json"
	"testing"
)

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		name  string
		m     Money
		style Style
		want  string
	}{
		{"plain", M(1000.5), Plain, "R$ 1000.50"},
		{"plain rounds to cents", M(27.499), Plain, "R$ 27.50"},
		{"plain negative", M(-100), Plain, "R$ -100.00"},
		{"plain missing", Money{}, Plain, Missing},
		{"brazilian", M(1000.5), Brazilian, "R$1.000,50"},
		{"brazilian small", M(25), Brazilian, "R$25,00"},
		{"brazilian missing", Money{}, Brazilian, Missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Format(tt.style); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestPercent_Format(t *testing.T) {
	tests := []struct {
		p     Percent
		style Style
		want  string
	}{
		{P(10), Plain, "10.00%"},
		{P(-3.456), Plain, "-3.46%"},
		{P(1234.5), Brazilian, "1.234,50%"},
		{P(-3.2), Brazilian, "-3,20%"},
		{Percent{}, Plain, Missing},
	}
	for _, tt := range tests {
		if got := tt.p.Format(tt.style); got != tt.want {
			t.Errorf("%v.Format(%v) = %q, want %q", tt.p.value, tt.style, got, tt.want)
		}
	}
}

func TestQuantity_Format(t *testing.T) {
	tests := []struct {
		q     Quantity
		style Style
		want  string
	}{
		{Q(100), Plain, "100"},
		{Q(0.125), Plain, "0.125"},
		{Q(12500), Brazilian, "12.500"},
		{Q(1.5), Brazilian, "1,5"},
		{Quantity{}, Brazilian, Missing},
	}
	for _, tt := range tests {
		if got := tt.q.Format(tt.style); got != tt.want {
			t.Errorf("%v.Format(%v) = %q, want %q", tt.q.value, tt.style, got, tt.want)
		}
	}
}

// Formatting the same value twice gives the same string.
func TestFormatIsDeterministic(t *testing.T) {
	for _, style := range []Style{Plain, Brazilian} {
		m := M(2750.005)
		if a, b := m.Format(style), m.Format(style); a != b {
			t.Errorf("Format(%v) not deterministic: %q then %q", style, a, b)
		}
	}
}

func TestNullDecimal_JSON(t *testing.T) {
	var s PortfolioSummary
	err := json.Unmarshal([]byte(`{"ValorTotalAtual": 1000.5, "TotalInvestido": null, "LucroPrejuizo": "", "ROI_Percentual": 10}`), &s)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !s.ValorTotalAtual.Equal(M(1000.5)) {
		t.Errorf("ValorTotalAtual = %v, want 1000.5", s.ValorTotalAtual)
	}
	if !s.TotalInvestido.IsMissing() || !s.LucroPrejuizo.IsMissing() {
		t.Errorf("null and empty values should be missing, got %v and %v", s.TotalInvestido, s.LucroPrejuizo)
	}
	if !s.ROIPercentual.Equal(P(10)) {
		t.Errorf("ROI_Percentual = %v, want 10", s.ROIPercentual)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"ValorTotalAtual":1000.5,"TotalInvestido":null,"LucroPrejuizo":null,"ROI_Percentual":10}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	if err := json.Unmarshal([]byte(`{"ValorTotalAtual": "abc"}`), &s); err == nil {
		t.Error("Unmarshal() of a non number should fail")
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{"": Plain, "plain": Plain, "pt-BR": Brazilian, "PT-BR": Brazilian} {
		got, err := ParseStyle(in)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseStyle("fr-FR"); err == nil {
		t.Error("ParseStyle(fr-FR) should fail")
	}
}
