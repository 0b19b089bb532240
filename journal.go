package pulse

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Severity tags a LogEntry.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Failure
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Failure:
		return "error"
	default:
		return "info"
	}
}

// ParseSeverity accepts the backend's "type" values.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return Info, nil
	case "success":
		return Success, nil
	case "warning":
		return Warning, nil
	case "error":
		return Failure, nil
	}
	return Info, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// LogEntry is one line of the refresh narration.
type LogEntry struct {
	Message   string
	Timestamp time.Time
	Severity  Severity
}

// Journal is the append-only list of entries of the current refresh cycle.
//
// Timestamps never go backwards: an entry stamped earlier than its
// predecessor (clock step, coarse clock) gets the predecessor's time.
// It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	clock   func() time.Time
	entries []LogEntry
}

// NewJournal returns an empty journal using clock, or time.Now if nil.
func NewJournal(clock func() time.Time) *Journal {
	if clock == nil {
		clock = time.Now
	}
	return &Journal{clock: clock}
}

// Append stamps and appends a new entry, and returns it.
func (j *Journal) Append(sev Severity, format string, args ...any) LogEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.clock == nil {
		j.clock = time.Now
	}
	e := LogEntry{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: j.clock(),
		Severity:  sev,
	}
	if n := len(j.entries); n > 0 && e.Timestamp.Before(j.entries[n-1].Timestamp) {
		e.Timestamp = j.entries[n-1].Timestamp
	}
	j.entries = append(j.entries, e)
	return e
}

// Reset empties the journal at the start of a new cycle.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Entries returns a copy of the entries in order.
func (j *Journal) Entries() []LogEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]LogEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
