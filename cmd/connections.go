package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/config"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Connection test targets.
const (
	targetNord    = "nord"
	targetLevante = "levante"
	targetExcel   = "excel"
)

var allTargets = []string{targetNord, targetLevante, targetExcel}

var errMissingCredentials = errors.New("missing credentials")

type testCmd struct{}

func (*testCmd) Name() string     { return "test" }
func (*testCmd) Synopsis() string { return "test the backend connections to its data sources" }
func (*testCmd) Usage() string {
	return `pulse test [nord|levante|excel]...

  Asks the backend to log in to the research providers and to read its
  spreadsheet. Without arguments every connection is tested.

  Credentials are read from credentials.nord and credentials.levante in the
  configuration (or PULSE_CREDENTIALS_NORD_EMAIL, ...). Naming a provider
  whose credentials are not configured is a usage error.
`
}

func (*testCmd) SetFlags(_ *flag.FlagSet) {}

func (*testCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	targets := f.Args()
	for _, t := range targets {
		if !slices.Contains(allTargets, t) {
			failf("Error: unknown connection %q, want one of %s", t, strings.Join(allTargets, ", "))
			return subcommands.ExitUsageError
		}
	}

	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	results, preview, err := testConnections(ctx, s.api, s.cfg.Credentials, targets, s.log)
	if errors.Is(err, errMissingCredentials) {
		failf("Error: %v", err)
		return subcommands.ExitUsageError
	}

	md := renderer.ConnectionsMarkdown(results)
	if preview != nil {
		md += "\n" + renderer.ExcelMarkdown(*preview)
	}
	s.print(md)
	for _, r := range results {
		if !r.OK {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// testConnections runs the requested tests in order, every test when
// targets is empty. Explicitly requested providers must have credentials:
// otherwise it fails with errMissingCredentials before any request.
// The excel preview is returned when that test succeeded.
func testConnections(ctx context.Context, api *pulse.API, creds config.CredentialsConfig, targets []string, logger *zap.Logger) ([]renderer.ConnectionResult, *pulse.ExcelPreview, error) {
	explicit := len(targets) > 0
	if !explicit {
		targets = allTargets
	}
	accounts := map[string]pulse.Credentials{targetNord: creds.Nord, targetLevante: creds.Levante}
	if explicit {
		for _, t := range targets {
			if c, ok := accounts[t]; ok && c.IsZero() {
				return nil, nil, fmt.Errorf("%w: set credentials.%s.email and credentials.%s.password", errMissingCredentials, t, t)
			}
		}
	}

	var (
		results []renderer.ConnectionResult
		preview *pulse.ExcelPreview
	)
	for _, t := range targets {
		r := renderer.ConnectionResult{Name: connectionName(t)}
		var (
			msg string
			err error
		)
		switch t {
		case targetNord, targetLevante:
			c := accounts[t]
			if c.IsZero() {
				r.Message = "credenciais não configuradas"
				results = append(results, r)
				continue
			}
			if t == targetNord {
				msg, err = api.TestNord(ctx, c)
			} else {
				msg, err = api.TestLevante(ctx, c)
			}
		case targetExcel:
			var p pulse.ExcelPreview
			if p, err = api.TestExcel(ctx); err == nil {
				msg, preview = p.Message, &p
			}
		}
		if err != nil {
			logger.Warn("connection test failed", zap.String("target", t), zap.String("kind", pulse.Kind(err)), zap.Error(err))
			r.Message = reason(err)
		} else {
			r.OK, r.Message = true, msg
		}
		results = append(results, r)
	}
	return results, preview, nil
}

func connectionName(target string) string {
	switch target {
	case targetNord:
		return "Nord Research"
	case targetLevante:
		return "Levante Ideias"
	default:
		return "Planilha Excel"
	}
}

// reason is what the user sees of a failed connection test: the backend
// message when it sent one.
func reason(err error) string {
	var (
		he *pulse.HTTPError
		be *pulse.BusinessError
	)
	switch {
	case errors.As(err, &he) && he.Message != "":
		return he.Message
	case errors.As(err, &be) && be.Message != "":
		return be.Message
	default:
		return "servidor indisponível"
	}
}
