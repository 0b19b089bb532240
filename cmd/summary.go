package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	style string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary and asset details" }
func (*summaryCmd) Usage() string {
	return `pulse summary [-style plain|pt-BR]

  Fetches the current snapshot from the backend and displays the summary
  tiles and one row per asset.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", "", "Number style, plain or pt-BR. Defaults to render.style.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()
	opts := s.options()
	if c.style != "" {
		if opts.Style, err = pulse.ParseStyle(c.style); err != nil {
			failf("Error: %v", err)
			return subcommands.ExitUsageError
		}
	}

	client := pulse.NewClient(s.api, s.log)
	err = client.FetchSnapshot(ctx)
	s.print(renderer.Dashboard(client.State(), opts))
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
