package pulse

import (
	"encoding/json"
	"testing"
	"time"
)

// stepClock returns the times in order, then repeats the last one.
func stepClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestJournal_MonotonicTimestamps(t *testing.T) {
	base := time.Date(2024, 5, 17, 18, 30, 0, 0, time.UTC)
	j := NewJournal(stepClock(base, base.Add(-time.Minute), base.Add(time.Second)))

	j.Append(Info, "first")
	j.Append(Info, "clock stepped back")
	j.Append(Success, "last")

	got := j.Entries()
	if len(got) != 3 {
		t.Fatalf("Len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("entry %d at %v is earlier than entry %d at %v", i, got[i].Timestamp, i-1, got[i-1].Timestamp)
		}
	}
	if !got[1].Timestamp.Equal(base) {
		t.Errorf("clamped timestamp = %v, want %v", got[1].Timestamp, base)
	}
}

func TestJournal_Reset(t *testing.T) {
	j := NewJournal(nil)
	j.Append(Info, "step %d", 1)
	if e := j.Entries()[0]; e.Message != "step 1" || e.Severity != Info {
		t.Errorf("entry = %+v", e)
	}
	j.Reset()
	if j.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", j.Len())
	}
}

func TestSeverity_JSON(t *testing.T) {
	var e RemoteLogEntry
	if err := json.Unmarshal([]byte(`{"message":"Processando FIIs...","time":"18:30:02","type":"success"}`), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.Type != Success {
		t.Errorf("Type = %v, want success", e.Type)
	}
	if err := json.Unmarshal([]byte(`{"type":"fatal"}`), &e); err == nil {
		t.Error("unknown severity should fail")
	}
	data, _ := json.Marshal(Failure)
	if string(data) != `"error"` {
		t.Errorf("Marshal(Failure) = %s, want \"error\"", data)
	}
}
