package pulse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one unit of a refresh cycle.
type Step interface {
	// Name is the message journaled once the step completes.
	Name() string
	Execute(ctx context.Context) error
}

// DefaultStepNames are the steps of the simulated refresh cycle.
var DefaultStepNames = []string{
	"Conectando com Nord Research...",
	"Extraindo dados de Ações DY...",
	"Processando FIIs...",
	"Atualizando Stocks US...",
	"Calculando rentabilidades...",
	"Sincronizando com planilha...",
	"Atualização concluída!",
}

// DefaultPipeline returns the simulated refresh cycle, one Delay per
// default step name.
func DefaultPipeline(delay time.Duration) []Step {
	steps := make([]Step, len(DefaultStepNames))
	for i, name := range DefaultStepNames {
		steps[i] = Delay(name, delay)
	}
	return steps
}

// Updater triggers and reports a backend recomputation.
type Updater interface {
	TriggerUpdate(ctx context.Context) (string, error)
	UpdateLogs(ctx context.Context) (UpdateProgress, error)
}

// RemotePipeline returns the refresh cycle backed by the real backend:
// trigger, wait for the backend to finish, done.
func RemotePipeline(u Updater, interval time.Duration) []Step {
	return []Step{
		Trigger(u),
		AwaitCompletion(u, interval),
		Func(DefaultStepNames[len(DefaultStepNames)-1], nil),
	}
}

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcStep) Name() string { return s.name }
func (s funcStep) Execute(ctx context.Context) error {
	if s.fn == nil {
		return ctx.Err()
	}
	return s.fn(ctx)
}

// Func returns a step running fn. A nil fn completes immediately.
func Func(name string, fn func(ctx context.Context) error) Step {
	return funcStep{name: name, fn: fn}
}

// Delay returns a step that just waits for d.
func Delay(name string, d time.Duration) Step {
	return Func(name, func(ctx context.Context) error { return sleep(ctx, d) })
}

// Trigger returns a step asking the backend to recompute the portfolio.
func Trigger(u interface {
	TriggerUpdate(ctx context.Context) (string, error)
}) Step {
	return Func("Solicitando atualização ao servidor...", func(ctx context.Context) error {
		_, err := u.TriggerUpdate(ctx)
		return err
	})
}

// AwaitCompletion returns a step polling the backend update logs every
// interval until the backend is no longer updating. A backend without a
// logs endpoint (HTTP 404) updates synchronously, so the step completes.
func AwaitCompletion(u interface {
	UpdateLogs(ctx context.Context) (UpdateProgress, error)
}, interval time.Duration) Step {
	return Func("Aguardando conclusão da atualização...", func(ctx context.Context) error {
		for {
			p, err := u.UpdateLogs(ctx)
			switch {
			case isNotFound(err):
				return nil
			case err != nil:
				return err
			case !p.IsUpdating:
				return nil
			}
			if err := sleep(ctx, interval); err != nil {
				return err
			}
		}
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StepError reports which step of a cycle failed.
type StepError struct {
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d %q: %v", e.Index+1, e.Step, e.Err)
}
func (e *StepError) Unwrap() error { return e.Err }

// Orchestrator runs the steps of a refresh cycle in order and narrates them
// into its Journal.
type Orchestrator struct {
	Steps   []Step
	Journal *Journal

	// OnEntry, if set, is called with each entry right after it is appended.
	OnEntry func(LogEntry)
	Logger  *zap.Logger
}

// NewOrchestrator returns an orchestrator with a fresh journal.
func NewOrchestrator(steps []Step, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{Steps: steps, Journal: NewJournal(nil), Logger: logger}
}

// Run clears the journal and executes every step, strictly one after the
// other. Each completed step appends its name, as Info, or Success for the
// last one. The first failure appends a single Failure entry, abandons the
// remaining steps and is returned as a *StepError.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.Journal == nil {
		o.Journal = NewJournal(nil)
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	o.Journal.Reset()

	for i, s := range o.Steps {
		start := time.Now()
		if err := s.Execute(ctx); err != nil {
			log.Warn("refresh step failed", zap.Int("step", i+1), zap.String("name", s.Name()), zap.String("kind", Kind(err)), zap.Error(err))
			o.emit(o.Journal.Append(Failure, "Erro durante a atualização: %s", s.Name()))
			return &StepError{Index: i, Step: s.Name(), Err: err}
		}
		log.Debug("refresh step done", zap.Int("step", i+1), zap.String("name", s.Name()), zap.Duration("elapsed", time.Since(start)))
		sev := Info
		if i == len(o.Steps)-1 {
			sev = Success
		}
		o.emit(o.Journal.Append(sev, "%s", s.Name()))
	}
	return nil
}

func (o *Orchestrator) emit(e LogEntry) {
	if o.OnEntry != nil {
		o.OnEntry(e)
	}
}
