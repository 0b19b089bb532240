package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the positions read from the spreadsheet" }
func (*positionsCmd) Usage() string {
	return `pulse positions

  Displays the positions as read by the backend from its spreadsheet, with
  the date of their last update.
`
}

func (*positionsCmd) SetFlags(_ *flag.FlagSet) {}

func (*positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	ps, err := s.api.Positions(ctx)
	if err != nil {
		s.log.Warn("positions failed", zap.String("kind", pulse.Kind(err)), zap.Error(err))
		failf(pulse.GenericErrorMessage)
		return subcommands.ExitFailure
	}
	s.print(renderer.PositionsMarkdown(ps, s.options()))
	return subcommands.ExitSuccess
}
