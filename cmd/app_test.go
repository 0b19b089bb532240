package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/pulse/config"
)

func TestPrintMarkdown_Raw(t *testing.T) {
	var buf bytes.Buffer
	md := "# Resumo da Carteira\n\n| a | b |\n"
	printMarkdown(&buf, md, config.RenderConfig{Raw: true})
	if got := buf.String(); got != md {
		t.Errorf("printMarkdown() = %q, want %q", got, md)
	}
}

func TestPrintMarkdown_Terminal(t *testing.T) {
	var buf bytes.Buffer
	printMarkdown(&buf, "# Resumo da Carteira\n", config.RenderConfig{Width: 80})
	if !strings.Contains(buf.String(), "Resumo da Carteira") {
		t.Errorf("printMarkdown() = %q, want the heading text", buf.String())
	}
}

func TestEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := every(ctx, time.Millisecond, func() {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Errorf("every() = %v, want nil on cancellation", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestParseSettings(t *testing.T) {
	got, err := parseSettings([]string{"excel_file_path=carteira.xlsx", "retries=3", "debug=true", "empty="})
	if err != nil {
		t.Fatalf("parseSettings() error = %v", err)
	}
	want := map[string]any{"excel_file_path": "carteira.xlsx", "retries": 3.0, "debug": true, "empty": ""}
	if len(got) != len(want) {
		t.Fatalf("parseSettings() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("parseSettings()[%q] = %#v, want %#v", k, got[k], v)
		}
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseSettings([]string{bad}); err == nil {
			t.Errorf("parseSettings(%q) should fail", bad)
		}
	}
}
