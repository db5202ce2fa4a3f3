package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/snapshot"
	"alcyxob/fitlab/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// StartWorkout begins a timed session of one division of the member's plan.
func (s *Store) StartWorkout(ctx context.Context, letter string) (State, error) {
	u, err := s.actor()
	if err != nil {
		return s.State(), err
	}
	if !u.IsMember() {
		return s.State(), ErrForbidden
	}
	plan, ok := s.State().Plan(u.ID)
	if !ok {
		return s.State(), apperror.NewNotFoundError("plan", u.ID)
	}
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if _, ok := plan.Division(letter); !ok {
		return s.State(), apperror.NewNotFoundError("division", letter)
	}

	s.mu.Lock()
	if s.live != nil && !s.live.Ended() {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, ErrWorkoutActive
	}
	s.live = workout.Start(s.clock, u.ID, plan.ID, letter)
	s.st.view = ViewWorkout
	st := s.stateLocked()
	s.mu.Unlock()

	s.persist(ctx, s.local, snapshot.KeyCurrentView, ViewWorkout)
	log.Debugf("session: %s started division %s", u.ID, letter)
	return st, nil
}

func (s *Store) withLive(fn func(live *workout.Session) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil || s.live.Ended() {
		return s.stateLocked(), ErrNoWorkout
	}
	err := fn(s.live)
	return s.stateLocked(), err
}

func (s *Store) PauseWorkout() (State, error) {
	return s.withLive(func(live *workout.Session) error { return live.Pause() })
}

func (s *Store) ResumeWorkout() (State, error) {
	return s.withLive(func(live *workout.Session) error { return live.Resume() })
}

// StartRest starts (or restarts) the rest countdown.
func (s *Store) StartRest(d time.Duration) (State, error) {
	return s.withLive(func(live *workout.Session) error {
		return live.StartRest(d, func() {
			s.metrics.CounterRestTimersDone.Inc()
		})
	})
}

func (s *Store) CancelRest() (State, error) {
	return s.withLive(func(live *workout.Session) error {
		live.CancelRest()
		return nil
	})
}

// AbandonWorkout discards the live session; nothing is recorded.
func (s *Store) AbandonWorkout(ctx context.Context) (State, error) {
	st, err := s.withLive(func(live *workout.Session) error {
		live.Abandon()
		return nil
	})
	if err != nil {
		return st, err
	}
	return s.leaveWorkout(ctx)
}

func (s *Store) leaveWorkout(ctx context.Context) (State, error) {
	s.mu.Lock()
	s.live = nil
	if s.st.view == ViewWorkout {
		s.st.view = ViewDashboard
	}
	view := s.st.view
	st := s.stateLocked()
	s.mu.Unlock()
	s.persist(ctx, s.local, snapshot.KeyCurrentView, view)
	return st, nil
}

// LoadEntry is one weight typed on the workout screen. Entries with a blank weight are
// skipped.
type LoadEntry struct {
	Exercise string `json:"exercise"`
	Weight   string `json:"weight"`
}

// FinishResult summarizes a completed session.
type FinishResult struct {
	State           State                   `json:"state"`
	DurationSeconds int64                   `json:"durationSeconds"`
	Class           analytics.DurationClass `json:"class"`
	Records         []domain.LoadRecord     `json:"records"`
	PersonalRecords []string                `json:"personalRecords"`
}

// FinishWorkout stops the session, appends every entered load and then the check-in.
// The writes are independent: all are attempted, and the failed ones are rolled back and
// reported together in one SyncError.
func (s *Store) FinishWorkout(ctx context.Context, entries []LoadEntry) (FinishResult, error) {
	u, err := s.actor()
	if err != nil {
		return FinishResult{State: s.State()}, err
	}

	type parsed struct {
		entry LoadEntry
		name  string
		kg    float64
	}
	var loads []parsed
	for i, e := range entries {
		if strings.TrimSpace(e.Weight) == "" {
			continue
		}
		name := domain.NormalizeExerciseName(e.Exercise)
		if name == "" {
			return FinishResult{State: s.State()}, apperror.NewValidationError(fmt.Sprintf("loads[%d].exercise", i), "is required")
		}
		kg, err := domain.ParseWeight(e.Weight)
		if err != nil {
			return FinishResult{State: s.State()}, apperror.NewValidationError(fmt.Sprintf("loads[%d].weight", i), "is not a valid weight")
		}
		loads = append(loads, parsed{entry: e, name: name, kg: kg})
	}

	tx, err := s.begin("finish_workout", "workout:"+u.ID, entries)
	if err != nil {
		return FinishResult{State: s.State()}, err
	}

	s.mu.Lock()
	if s.live == nil || s.live.Ended() {
		s.mu.Unlock()
		st, err := tx.abort(ErrNoWorkout)
		return FinishResult{State: st}, err
	}
	live := s.live
	seconds, _ := live.Finish()
	s.live = nil
	if s.st.view == ViewWorkout {
		s.st.view = ViewDashboard
	}
	view := s.st.view
	s.mu.Unlock()
	s.persist(ctx, s.local, snapshot.KeyCurrentView, view)

	now := s.clock.Now()
	records := make([]domain.LoadRecord, len(loads))
	prs := make([]bool, len(loads))
	for i, l := range loads {
		records[i] = domain.LoadRecord{
			ID:           s.newID(),
			MemberID:     u.ID,
			ExerciseName: l.name,
			WeightKg:     l.kg,
			At:           now,
		}
		tx.apply(func(st *state) func() {
			prs[i] = analytics.CheckPersonalRecord(st.loads, u.ID, l.name, l.kg)
			st.loads = append(st.loads, records[i])
			return nil
		})
	}
	checkIn := domain.CheckIn{
		ID:              s.newID(),
		MemberID:        u.ID,
		PlanID:          live.PlanID,
		DivisionLetter:  live.Division,
		At:              now,
		DurationSeconds: seconds,
	}
	tx.apply(func(st *state) func() {
		st.checkIns = append(st.checkIns, checkIn)
		return nil
	})

	result := FinishResult{DurationSeconds: seconds, Class: analytics.ClassifyDuration(seconds)}
	var errs error
	var failed []LoadEntry
	var lost []string
	for i, r := range records {
		if _, err := s.gw.AppendLoad(ctx, r); err != nil {
			errs = multierr.Append(errs, err)
			failed = append(failed, loads[i].entry)
			lost = append(lost, r.ID)
			continue
		}
		result.Records = append(result.Records, r)
		if prs[i] {
			result.PersonalRecords = append(result.PersonalRecords, r.ExerciseName)
			s.metrics.CounterPersonalRecords.Inc()
		}
	}
	checkInSaved := true
	if _, err := s.gw.AppendCheckIn(ctx, checkIn); err != nil {
		errs = multierr.Append(errs, err)
		checkInSaved = false
	} else {
		s.metrics.CounterCheckIns.Inc()
	}

	if errs != nil {
		tx.apply(func(st *state) func() {
			for _, id := range lost {
				st.loads = remove(st.loads, id, loadKey)
			}
			if !checkInSaved {
				st.checkIns = remove(st.checkIns, checkIn.ID, checkInKey)
			}
			return nil
		})
		log.Warnf("session: finish of %s partially failed: %v", u.ID, errs)
	}

	st, _ := tx.commit(ctx, s.reloadLoads, s.reloadCheckIns)
	result.State = st
	if errs != nil {
		pending := map[string]any{"loads": failed, "checkInSaved": checkInSaved, "durationSeconds": seconds}
		return result, apperror.NewSyncError("finish_workout", pending, errs)
	}
	return result, nil
}
