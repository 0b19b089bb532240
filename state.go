package pulse

import (
	"slices"
	"time"
)

// Phase is the client's top-level state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// ClientState is everything a view needs to render the portfolio.
//
// Exactly one phase holds at a time. Summary, Assets and Categories are
// only meaningful in the Ready phase, ErrorMessage only in the Error phase.
type ClientState struct {
	Phase        Phase
	Summary      *PortfolioSummary
	Assets       []AssetPosition
	Categories   []CategoryAllocation
	ErrorMessage string

	// Busy is true while a refresh cycle runs.
	Busy bool
	// LastUpdate is the time of the last successful fetch.
	LastUpdate time.Time
}

// clone returns a copy that shares nothing mutable with s.
func (s ClientState) clone() ClientState {
	if s.Summary != nil {
		sum := *s.Summary
		s.Summary = &sum
	}
	s.Assets = slices.Clone(s.Assets)
	s.Categories = slices.Clone(s.Categories)
	return s
}
