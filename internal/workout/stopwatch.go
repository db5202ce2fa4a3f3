package workout

import (
	"sync"
	"time"
)

// Stopwatch measures elapsed session time excluding pauses. Elapsed is computed from
// the clock on demand, so no ticker runs.
type Stopwatch struct {
	mu          sync.Mutex
	clock       Clock
	running     bool
	since       time.Time
	accumulated time.Duration
}

func NewStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock}
}

// Start runs the stopwatch; it has no effect while already running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.since = s.clock.Now()
}

// Pause banks the running segment. It reports false when not running.
func (s *Stopwatch) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.accumulated += s.clock.Now().Sub(s.since)
	s.running = false
	return true
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return s.accumulated
	}
	return s.accumulated + s.clock.Now().Sub(s.since)
}
