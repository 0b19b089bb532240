package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "check the backend and the last update time" }
func (*statusCmd) Usage() string {
	return `pulse status

  Checks that the backend is online and displays when it last updated the
  portfolio.
`
}

func (*statusCmd) SetFlags(_ *flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	v := checkStatus(ctx, s)
	s.print(renderer.StatusMarkdown(v))
	if !v.Online {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// checkStatus asks the backend for its liveness and last update time.
// Failures are logged and reported as offline or as a missing time.
func checkStatus(ctx context.Context, s *session) renderer.StatusView {
	h, err := s.api.Status(ctx)
	if err != nil {
		s.log.Warn("status check failed", zap.String("kind", pulse.Kind(err)), zap.Error(err))
		return renderer.StatusView{Message: "servidor indisponível"}
	}
	v := renderer.StatusView{Online: true, Message: h.Message}
	if v.LastUpdate, err = s.api.LastUpdateTime(ctx); err != nil {
		s.log.Warn("last update time failed", zap.String("kind", pulse.Kind(err)), zap.Error(err))
	}
	return v
}
