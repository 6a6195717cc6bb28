package simulator

import (
	"math"
	"sync/atomic"
)

// Stats are live counters for one simulator. All methods are safe to call
// from other goroutines while Run is active.
type Stats struct {
	moves    atomic.Int64
	clicks   atomic.Int64
	scrolls  atomic.Int64
	keys     atomic.Int64
	switches atomic.Int64
	breaks   atomic.Int64
	snippets atomic.Int64
	failures atomic.Int64
	cycles   atomic.Int64
	held     atomic.Int64

	input  atomic.Value
	window atomic.Value
	level  atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Moves    int64
	Clicks   int64
	Scrolls  int64
	Keys     int64
	Switches int64
	Breaks   int64
	Snippets int64
	Failures int64
	Cycles   int64
	// Held counts cycles skipped because the real user was active.
	Held int64

	Input  string
	Window string
	Level  float64
}

// Events is the total number of injected input events.
func (s Snapshot) Events() int64 {
	return s.Moves + s.Clicks + s.Scrolls + s.Keys
}

func (s *Stats) setInput(v string)  { s.input.Store(v) }
func (s *Stats) setWindow(v string) { s.window.Store(v) }
func (s *Stats) setLevel(v float64) { s.level.Store(math.Float64bits(v)) }

// Snapshot copies the current counters.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Moves:    s.moves.Load(),
		Clicks:   s.clicks.Load(),
		Scrolls:  s.scrolls.Load(),
		Keys:     s.keys.Load(),
		Switches: s.switches.Load(),
		Breaks:   s.breaks.Load(),
		Snippets: s.snippets.Load(),
		Failures: s.failures.Load(),
		Cycles:   s.cycles.Load(),
		Held:     s.held.Load(),
		Level:    math.Float64frombits(s.level.Load()),
	}
	if v, ok := s.input.Load().(string); ok {
		snap.Input = v
	}
	if v, ok := s.window.Load().(string); ok {
		snap.Window = v
	}
	return snap
}
