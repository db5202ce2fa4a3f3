package workout

import (
	"sync"
	"time"
)

// RestTimer counts down a rest interval between sets. Starting a new countdown
// replaces the running one.
type RestTimer struct {
	mu     sync.Mutex
	clock  Clock
	timer  Timer
	endsAt time.Time
	gen    uint64
}

func NewRestTimer(clock Clock) *RestTimer {
	return &RestTimer{clock: clock}
}

// Start begins a countdown of d; onDone runs once when it reaches zero unless cancelled.
func (r *RestTimer) Start(d time.Duration, onDone func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.endsAt = r.clock.Now().Add(d)
	r.timer = r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.mu.Unlock()
		if onDone != nil {
			onDone()
		}
	})
}

// Cancel stops the countdown. It reports whether one was running.
func (r *RestTimer) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return false
	}
	r.timer.Stop()
	r.timer = nil
	r.gen++
	return true
}

func (r *RestTimer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

// Remaining is the time left, zero when no countdown runs.
func (r *RestTimer) Remaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return 0
	}
	left := r.endsAt.Sub(r.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}
