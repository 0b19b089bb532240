// Package cmd implements the pulse CLI, one subcommand per operation.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pulse"
	"github.com/etnz/pulse/config"
	"github.com/etnz/pulse/logging"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "portfolio")
	c.Register(&updateCmd{}, "portfolio")
	c.Register(&positionsCmd{}, "portfolio")
	c.Register(&watchCmd{}, "portfolio")

	c.Register(&statusCmd{}, "backend")
	c.Register(&testCmd{}, "backend")
	c.Register(&remoteConfigCmd{}, "backend")

	c.Register(&mockCmd{}, "tools")
	c.Register(&assistCmd{}, "tools")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file. Defaults to pulse.yaml in the current or user config directory.")
var baseURL = flag.String("url", "", "Backend base URL, overrides api.base_url.")
var verbose = flag.Bool("v", false, "Log diagnostics at debug level.")

// session is what every command needs to talk to the backend.
type session struct {
	cfg *config.Config
	log *zap.Logger
	api *pulse.API
}

// openSession loads the configuration, applies the global flags and builds
// the logger and the API.
func openSession() (*session, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg: cfg,
		log: logger,
		api: pulse.NewAPI(cfg.API.BaseURL, cfg.API.Timeout, logger),
	}, nil
}

func (s *session) close() { _ = s.log.Sync() }

func (s *session) options() renderer.Options { return renderer.Options{Style: s.cfg.Style()} }

// print renders md on stdout.
func (s *session) print(md string) { printMarkdown(os.Stdout, md, s.cfg.Render) }

// printMarkdown renders md for the terminal, or writes it as is when raw
// output is requested or the terminal rendering fails.
func printMarkdown(w io.Writer, md string, opts config.RenderConfig) {
	if opts.Raw {
		fmt.Fprint(w, md)
		return
	}
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if opts.Width > 0 {
		options = append(options, glamour.WithWordWrap(opts.Width))
	}
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// failf prints a failure on stderr.
func failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(os.Stderr, msg)
}
