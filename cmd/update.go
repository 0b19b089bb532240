package cmd

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/renderer"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	simulate bool
	quick    bool
	delay    time.Duration
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "refresh the portfolio and display it" }
func (*updateCmd) Usage() string {
	return `pulse update [-simulate [-delay <d>]] [-quick]

  Asks the backend to recompute the portfolio, follows its progress, then
  fetches and displays the updated snapshot.

  With -simulate, the refresh steps are only simulated, one every -delay,
  and the backend is not asked to recompute.
  With -quick, the backend is asked to recompute and the snapshot fetched
  right after, without following the progress.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.simulate, "simulate", false, "Simulate the refresh steps. Defaults to pipeline.simulate.")
	f.BoolVar(&c.quick, "quick", false, "Trigger and re-fetch without following the progress.")
	f.DurationVar(&c.delay, "delay", 0, "Duration of each simulated step. Defaults to pipeline.step_delay.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		failf("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	defer s.close()
	if c.quick && (c.simulate || c.delay != 0) {
		failf("Error: -quick cannot be combined with -simulate or -delay")
		return subcommands.ExitUsageError
	}

	client := pulse.NewClient(s.api, s.log)
	client.Subscribe(func(st pulse.ClientState) {
		s.log.Debug("client state", zap.Stringer("phase", st.Phase), zap.Bool("busy", st.Busy))
	})

	var journal *pulse.Journal
	if c.quick {
		journal = pulse.NewJournal(nil)
		client.Journal = journal
		err = client.RequestRefresh(ctx)
	} else {
		var o *pulse.Orchestrator
		o, err = c.refresh(ctx, s, client)
		journal = o.Journal
	}

	var b strings.Builder
	b.WriteString(renderer.JournalMarkdown(journal.Entries()))
	b.WriteString("\n")
	b.WriteString(renderer.Dashboard(client.State(), s.options()))
	s.print(b.String())
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// refresh runs a whole refresh cycle with a progress bar on stderr.
func (c *updateCmd) refresh(ctx context.Context, s *session, client *pulse.Client) (*pulse.Orchestrator, error) {
	var steps []pulse.Step
	if c.simulate || s.cfg.Pipeline.Simulate {
		delay := c.delay
		if delay == 0 {
			delay = s.cfg.Pipeline.StepDelay
		}
		steps = pulse.DefaultPipeline(delay)
	} else {
		steps = pulse.RemotePipeline(s.api, s.cfg.API.PollInterval)
	}

	bar := progressbar.NewOptions(len(steps),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Iniciando atualização..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	o := pulse.NewOrchestrator(steps, s.log)
	o.OnEntry = func(e pulse.LogEntry) {
		bar.Describe(e.Message)
		if e.Severity != pulse.Failure {
			_ = bar.Add(1)
		}
	}

	err := client.Refresh(ctx, o)
	if err != nil {
		_ = bar.Exit()
	} else {
		_ = bar.Finish()
	}
	return o, err
}
