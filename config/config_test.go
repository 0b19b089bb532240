package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/pulse"
	"go.uber.org/multierr"
)

// isolate runs the test in an empty directory without any user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Pipeline.StepDelay != 2*time.Second {
		t.Errorf("StepDelay = %v, want 2s", cfg.Pipeline.StepDelay)
	}
	if cfg.Style() != pulse.Plain {
		t.Errorf("Style() = %v, want plain", cfg.Style())
	}
	if cfg.Logging.Level != "warn" || len(cfg.Logging.OutputPaths) != 1 {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
api:
  base_url: http://backend:8080
  timeout: 5s
render:
  style: pt-BR
credentials:
  nord:
    email: ana@example.com
    password: from-file
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PULSE_API_TIMEOUT", "10s")
	t.Setenv("PULSE_CREDENTIALS_LEVANTE_EMAIL", "bia@example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://backend:8080" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want the environment to win", cfg.API.Timeout)
	}
	if cfg.Style() != pulse.Brazilian {
		t.Errorf("Style() = %v, want pt-BR", cfg.Style())
	}
	if cfg.Credentials.Nord.Password != "from-file" {
		t.Errorf("Nord = %+v", cfg.Credentials.Nord)
	}
	if cfg.Credentials.Levante.Email != "bia@example.com" {
		t.Errorf("Levante = %+v", cfg.Credentials.Levante)
	}
}

func TestLoad_DiscoveredFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "pulse.yaml"), []byte("render:\n  width: 72\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Width != 72 {
		t.Errorf("Width = %d, want 72", cfg.Render.Width)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{
		API:     APIConfig{BaseURL: "localhost:5000"},
		Render:  RenderConfig{Style: "fr-FR", Width: -1},
		Logging: LoggingConfig{Level: "loud", Encoding: "xml"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	// base_url, timeout, poll_interval, style, width, level, encoding
	if got := len(multierr.Errors(err)); got != 7 {
		t.Errorf("Validate() reported %d problems, want 7: %v", got, err)
	}
}
