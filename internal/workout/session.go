// Package workout runs a member's live session: an elapsed-time stopwatch that can be
// paused and a rest countdown. Both are cancelled when the session ends; an abandoned
// session leaves nothing behind.
package workout

import (
	"errors"
	"time"
)

var (
	ErrSessionEnded = errors.New("workout session has ended")
	ErrPaused       = errors.New("workout session is paused")
	ErrNotPaused    = errors.New("workout session is not paused")
	ErrInvalidRest  = errors.New("rest interval must be positive")
)

// Session is one live workout of a division.
type Session struct {
	MemberID  string
	PlanID    string
	Division  string
	StartedAt time.Time

	stopwatch *Stopwatch
	rest      *RestTimer
	ended     bool
}

// Status is a point-in-time view of a session.
type Status struct {
	MemberID       string    `json:"memberId"`
	PlanID         string    `json:"planId"`
	Division       string    `json:"division"`
	StartedAt      time.Time `json:"startedAt"`
	ElapsedSeconds int64     `json:"elapsedSeconds"`
	Paused         bool      `json:"paused"`
	Resting        bool      `json:"resting"`
	RestRemaining  int64     `json:"restRemainingSeconds"`
}

// Start begins a session with the stopwatch running.
func Start(clock Clock, memberID, planID, division string) *Session {
	s := &Session{
		MemberID:  memberID,
		PlanID:    planID,
		Division:  division,
		StartedAt: clock.Now(),
		stopwatch: NewStopwatch(clock),
		rest:      NewRestTimer(clock),
	}
	s.stopwatch.Start()
	return s
}

func (s *Session) Pause() error {
	if s.ended {
		return ErrSessionEnded
	}
	if !s.stopwatch.Pause() {
		return ErrPaused
	}
	return nil
}

func (s *Session) Resume() error {
	if s.ended {
		return ErrSessionEnded
	}
	if s.stopwatch.Running() {
		return ErrNotPaused
	}
	s.stopwatch.Start()
	return nil
}

// StartRest starts (or restarts) the rest countdown.
func (s *Session) StartRest(d time.Duration, onDone func()) error {
	if s.ended {
		return ErrSessionEnded
	}
	if d <= 0 {
		return ErrInvalidRest
	}
	s.rest.Start(d, onDone)
	return nil
}

func (s *Session) CancelRest() bool {
	return s.rest.Cancel()
}

func (s *Session) Elapsed() time.Duration {
	return s.stopwatch.Elapsed()
}

// Finish stops all timers and returns the session duration in whole seconds.
func (s *Session) Finish() (int64, error) {
	if s.ended {
		return 0, ErrSessionEnded
	}
	s.stop()
	return int64(s.stopwatch.Elapsed() / time.Second), nil
}

// Abandon stops all timers and discards the session.
func (s *Session) Abandon() {
	if !s.ended {
		s.stop()
	}
}

func (s *Session) stop() {
	s.ended = true
	s.stopwatch.Pause()
	s.rest.Cancel()
}

func (s *Session) Ended() bool {
	return s.ended
}

func (s *Session) Status() Status {
	return Status{
		MemberID:       s.MemberID,
		PlanID:         s.PlanID,
		Division:       s.Division,
		StartedAt:      s.StartedAt,
		ElapsedSeconds: int64(s.stopwatch.Elapsed() / time.Second),
		Paused:         !s.stopwatch.Running(),
		Resting:        s.rest.Active(),
		RestRemaining:  int64(s.rest.Remaining().Round(time.Second) / time.Second),
	}
}
