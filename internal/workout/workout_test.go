package workout_test

import (
	"sync/atomic"
	"testing"
	"time"

	"alcyxob/fitlab/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var start = time.Date(2024, 5, 15, 7, 0, 0, 0, time.UTC)

func TestStopwatch_PauseIsNotCounted(t *testing.T) {
	clock := workout.NewManualClock(start)
	sw := workout.NewStopwatch(clock)

	sw.Start()
	clock.Advance(10 * time.Minute)
	require.True(t, sw.Pause())
	clock.Advance(5 * time.Minute)
	assert.False(t, sw.Pause())
	assert.Equal(t, 10*time.Minute, sw.Elapsed())

	sw.Start()
	clock.Advance(20 * time.Minute)
	assert.Equal(t, 30*time.Minute, sw.Elapsed())
	assert.True(t, sw.Running())
}

func TestRestTimer_FiresOnce(t *testing.T) {
	clock := workout.NewManualClock(start)
	rt := workout.NewRestTimer(clock)
	var fired atomic.Int32

	rt.Start(90*time.Second, func() { fired.Add(1) })
	clock.Advance(30 * time.Second)
	assert.Equal(t, 60*time.Second, rt.Remaining())
	assert.True(t, rt.Active())

	clock.Advance(time.Minute)
	clock.Advance(time.Minute)

	assert.Equal(t, int32(1), fired.Load())
	assert.False(t, rt.Active())
	assert.Zero(t, rt.Remaining())
}

func TestRestTimer_CancelAndRestart(t *testing.T) {
	clock := workout.NewManualClock(start)
	rt := workout.NewRestTimer(clock)
	var first, second atomic.Int32

	rt.Start(time.Minute, func() { first.Add(1) })
	assert.True(t, rt.Cancel())
	assert.False(t, rt.Cancel())
	clock.Advance(2 * time.Minute)
	assert.Zero(t, first.Load())

	rt.Start(time.Minute, func() { first.Add(1) })
	clock.Advance(30 * time.Second)
	rt.Start(time.Minute, func() { second.Add(1) })
	clock.Advance(45 * time.Second)
	assert.Zero(t, first.Load())
	assert.Zero(t, second.Load())

	clock.Advance(15 * time.Second)
	assert.Equal(t, int32(1), second.Load())
	assert.Zero(t, first.Load())
}

func TestRestTimer_RealClock(t *testing.T) {
	rt := workout.NewRestTimer(workout.RealClock())
	done := make(chan struct{})

	rt.Start(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("rest timer did not fire")
	}
}

func TestSession_Lifecycle(t *testing.T) {
	clock := workout.NewManualClock(start)
	s := workout.Start(clock, "m1", "p1", "B")

	clock.Advance(20 * time.Minute)
	require.NoError(t, s.Pause())
	assert.ErrorIs(t, s.Pause(), workout.ErrPaused)
	clock.Advance(10 * time.Minute)
	require.NoError(t, s.Resume())
	assert.ErrorIs(t, s.Resume(), workout.ErrNotPaused)

	var rested atomic.Int32
	require.NoError(t, s.StartRest(time.Minute, func() { rested.Add(1) }))
	assert.ErrorIs(t, s.StartRest(0, nil), workout.ErrInvalidRest)

	clock.Advance(30 * time.Second)
	st := s.Status()
	assert.Equal(t, "B", st.Division)
	assert.True(t, st.Resting)
	assert.Equal(t, int64(30), st.RestRemaining)
	assert.False(t, st.Paused)
	assert.Equal(t, int64(20*60+30), st.ElapsedSeconds)

	clock.Advance(25*time.Minute - 30*time.Second)
	assert.Equal(t, int32(1), rested.Load())
	assert.False(t, s.Status().Resting)

	seconds, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, int64(45*60), seconds)

	_, err = s.Finish()
	assert.ErrorIs(t, err, workout.ErrSessionEnded)
	assert.ErrorIs(t, s.Pause(), workout.ErrSessionEnded)
}

func TestSession_AbandonCancelsTimers(t *testing.T) {
	clock := workout.NewManualClock(start)
	s := workout.Start(clock, "m1", "p1", "A")
	var rested atomic.Int32
	require.NoError(t, s.StartRest(time.Minute, func() { rested.Add(1) }))

	s.Abandon()
	clock.Advance(time.Hour)

	assert.True(t, s.Ended())
	assert.Zero(t, rested.Load())
	assert.False(t, s.Status().Resting)
}
