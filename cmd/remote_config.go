package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type remoteConfigCmd struct{}

func (*remoteConfigCmd) Name() string     { return "remote-config" }
func (*remoteConfigCmd) Synopsis() string { return "display or change the backend configuration" }
func (*remoteConfigCmd) Usage() string {
	return `pulse remote-config [key=value]...

  Displays the configuration of the backend. Passwords are masked by the
  backend.

  With arguments, sends the changes first. Values are read as JSON when
  they parse (numbers, booleans, objects), as strings otherwise. The
  backend ignores the keys it does not know.

    pulse remote-config excel_file_path=carteira.xlsx
`
}

func (*remoteConfigCmd) SetFlags(_ *flag.FlagSet) {}

func (*remoteConfigCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	changes, err := parseSettings(f.Args())
	if err != nil {
		failf("Error: %v", err)
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	var md string
	if len(changes) > 0 {
		msg, err := s.api.SaveRemoteConfig(ctx, changes)
		if err != nil {
			s.log.Warn("saving remote config failed", zap.String("kind", pulse.Kind(err)), zap.Error(err))
			failf("Error: %s", reason(err))
			return subcommands.ExitFailure
		}
		md = "✅ " + msg + "\n\n"
	}

	cfg, err := s.api.RemoteConfig(ctx)
	if err != nil {
		s.log.Warn("remote config failed", zap.String("kind", pulse.Kind(err)), zap.Error(err))
		failf(pulse.GenericErrorMessage)
		return subcommands.ExitFailure
	}
	s.print(md + renderer.RemoteConfigMarkdown(cfg))
	return subcommands.ExitSuccess
}

// parseSettings reads key=value arguments.
func parseSettings(args []string) (map[string]any, error) {
	changes := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q, want key=value", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		changes[key] = v
	}
	return changes, nil
}
