package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type watchCmd struct {
	statusEvery time.Duration
	reloadEvery time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "periodically check the backend and reload the portfolio" }
func (*watchCmd) Usage() string {
	return `pulse watch [-status-every <d>] [-reload-every <d>]

  Checks the backend status and reloads the portfolio periodically, until
  interrupted. The dashboard is displayed each time it changes.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.statusEvery, "status-every", 30*time.Second, "Interval between status checks.")
	f.DurationVar(&c.reloadEvery, "reload-every", 5*time.Minute, "Interval between portfolio reloads.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.statusEvery <= 0 || c.reloadEvery <= 0 {
		failf("Error: intervals must be positive")
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex // serializes the output of both loops
	show := func(md string) {
		mu.Lock()
		defer mu.Unlock()
		s.print(md)
	}

	client := pulse.NewClient(s.api, s.log)
	client.Subscribe(func(st pulse.ClientState) {
		if st.Phase == pulse.Ready || st.Phase == pulse.Error {
			show(renderer.Dashboard(st, s.options()))
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(ctx, c.statusEvery, func() {
			show(renderer.StatusMarkdown(checkStatus(ctx, s)))
		})
	})
	g.Go(func() error {
		return every(ctx, c.reloadEvery, func() {
			if err := client.FetchSnapshot(ctx); err != nil && !errors.Is(err, pulse.ErrSuperseded) {
				s.log.Debug("reload failed", zap.Error(err))
			}
		})
	})
	if err := g.Wait(); err != nil {
		failf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// every calls fn immediately, then at each tick until ctx is done.
func every(ctx context.Context, d time.Duration, fn func()) error {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		if ctx.Err() != nil {
			return nil
		}
		fn()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
