package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/pulse/config"
	"github.com/etnz/pulse/fakeapi"
	"github.com/etnz/pulse/logging"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type mockCmd struct {
	addr     string
	stepTime time.Duration
}

func (*mockCmd) Name() string     { return "mock" }
func (*mockCmd) Synopsis() string { return "serve a fake backend with sample data" }
func (*mockCmd) Usage() string {
	return `pulse mock [-addr <host:port>] [-step <d>]

  Serves the backend API with a sample portfolio, for demos and for trying
  the other commands without a real backend:

    pulse mock &
    pulse -url http://localhost:5000 update

  Updates run in the background, one step every -step.
`
}

func (c *mockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":5000", "Address to listen on.")
	f.DurationVar(&c.stepTime, "step", time.Second, "Duration of each step of a fake update.")
}

func (c *mockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(*configFile)
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		failf("Error creating logger: %v", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	fake := fakeapi.New(logger)
	fake.Background(c.stepTime)
	srv := &http.Server{Addr: c.addr, Handler: fake.Handler(), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("fake backend listening", zap.String("addr", c.addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if err := g.Wait(); err != nil {
		failf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
