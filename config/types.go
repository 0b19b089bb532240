package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/etnz/pulse"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Config is the whole client configuration.
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Render      RenderConfig      `mapstructure:"render"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Assist      AssistConfig      `mapstructure:"assist"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`       // per call
	PollInterval time.Duration `mapstructure:"poll_interval"` // update progress polling
}

// RenderConfig controls the terminal output.
type RenderConfig struct {
	Style string `mapstructure:"style"` // plain or pt-BR
	Width int    `mapstructure:"width"` // word wrap, 0 disables
	Raw   bool   `mapstructure:"raw"`   // print Markdown as is
}

// PipelineConfig controls the refresh cycle.
type PipelineConfig struct {
	StepDelay time.Duration `mapstructure:"step_delay"`
	Simulate  bool          `mapstructure:"simulate"`
}

// CredentialsConfig holds the research provider accounts used by the
// connection tests.
type CredentialsConfig struct {
	Nord    pulse.Credentials `mapstructure:"nord"`
	Levante pulse.Credentials `mapstructure:"levante"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// AssistConfig configures the Gemini chat.
type AssistConfig struct {
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

// Style returns the parsed number style, Plain if invalid.
func (c *Config) Style() pulse.Style {
	s, _ := pulse.ParseStyle(c.Render.Style)
	return s
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.API.BaseURL == "" {
		err = multierr.Append(err, errors.New("api.base_url must not be empty"))
	} else if u, perr := url.Parse(c.API.BaseURL); perr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		err = multierr.Append(err, fmt.Errorf("api.base_url %q is not an http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		err = multierr.Append(err, errors.New("api.timeout must be positive"))
	}
	if c.API.PollInterval <= 0 {
		err = multierr.Append(err, errors.New("api.poll_interval must be positive"))
	}
	if _, perr := pulse.ParseStyle(c.Render.Style); perr != nil {
		err = multierr.Append(err, fmt.Errorf("render.style: %w", perr))
	}
	if c.Render.Width < 0 {
		err = multierr.Append(err, errors.New("render.width must not be negative"))
	}
	if c.Pipeline.StepDelay < 0 {
		err = multierr.Append(err, errors.New("pipeline.step_delay must not be negative"))
	}
	if _, perr := zapcore.ParseLevel(c.Logging.Level); perr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", perr))
	}
	if c.Logging.Encoding != "console" && c.Logging.Encoding != "json" {
		err = multierr.Append(err, fmt.Errorf("logging.encoding %q must be console or json", c.Logging.Encoding))
	}
	return err
}
