package pulse

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"
)

func TestOrchestrator_Run(t *testing.T) {
	var order []string
	record := func(name string) Step {
		return Func(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	var seen []LogEntry
	o := &Orchestrator{
		Steps:   []Step{record("a"), record("b"), record("c")},
		Journal: NewJournal(nil),
		OnEntry: func(e LogEntry) { seen = append(seen, e) },
	}
	o.Journal.Append(Info, "left over from a previous cycle")

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("steps ran as %v", order)
	}
	entries := o.Journal.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
	for i, want := range []Severity{Info, Info, Success} {
		if entries[i].Severity != want {
			t.Errorf("entry %d severity = %v, want %v", i, entries[i].Severity, want)
		}
	}
	if len(seen) != 3 || seen[2].Message != "c" {
		t.Errorf("OnEntry saw %+v", seen)
	}
}

func TestOrchestrator_RunFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	o := NewOrchestrator([]Step{
		Func("one", nil),
		Func("two", func(ctx context.Context) error { return boom }),
		Func("three", func(ctx context.Context) error { ran = true; return nil }),
	}, nil)

	err := o.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Index != 1 || se.Step != "two" {
		t.Errorf("Run() error = %#v, want a StepError on step two", err)
	}
	if ran {
		t.Error("step three ran after a failure")
	}
	entries := o.Journal.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[1].Severity != Failure {
		t.Errorf("last entry severity = %v, want error", entries[1].Severity)
	}
}

func TestOrchestrator_Empty(t *testing.T) {
	o := NewOrchestrator(nil, nil)
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if o.Journal.Len() != 0 {
		t.Errorf("Len = %d, want 0", o.Journal.Len())
	}
}

func TestDefaultPipeline(t *testing.T) {
	o := NewOrchestrator(DefaultPipeline(0), nil)
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	entries := o.Journal.Entries()
	if len(entries) != len(DefaultStepNames) {
		t.Fatalf("got %d entries, want %d", len(entries), len(DefaultStepNames))
	}
	for i, e := range entries {
		if e.Message != DefaultStepNames[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Message, DefaultStepNames[i])
		}
	}
	if last := entries[len(entries)-1]; last.Message != "Atualização concluída!" || last.Severity != Success {
		t.Errorf("last entry = %+v", last)
	}
}

func TestDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := NewOrchestrator([]Step{Delay("wait", time.Hour)}, nil)
	if err := o.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// fakeUpdater reports an update running for a number of polls.
type fakeUpdater struct {
	triggers int
	polls    int
	running  int
	err      error
}

func (f *fakeUpdater) TriggerUpdate(ctx context.Context) (string, error) {
	f.triggers++
	return "ok", nil
}

func (f *fakeUpdater) UpdateLogs(ctx context.Context) (UpdateProgress, error) {
	f.polls++
	if f.err != nil {
		return UpdateProgress{}, f.err
	}
	return UpdateProgress{IsUpdating: f.polls <= f.running}, nil
}

func TestRemotePipeline(t *testing.T) {
	tests := []struct {
		name      string
		u         *fakeUpdater
		wantPolls int
		wantErr   bool
	}{
		{"already done", &fakeUpdater{}, 1, false},
		{"running for a while", &fakeUpdater{running: 3}, 4, false},
		{"synchronous backend", &fakeUpdater{err: &HTTPError{StatusCode: http.StatusNotFound}}, 1, false},
		{"logs failing", &fakeUpdater{err: &HTTPError{StatusCode: http.StatusInternalServerError}}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(RemotePipeline(tt.u, time.Millisecond), nil)
			err := o.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.u.triggers != 1 {
				t.Errorf("triggers = %d, want 1", tt.u.triggers)
			}
			if tt.u.polls != tt.wantPolls {
				t.Errorf("polls = %d, want %d", tt.u.polls, tt.wantPolls)
			}
		})
	}
}
