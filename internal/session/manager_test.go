package session_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/session"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (f *fixture) manager() *session.Manager {
	return session.NewManager(session.ManagerOptions{
		Gateway:         f.gw,
		Snapshot:        f.snap,
		KeyPrefix:       "fitlab",
		Clock:           f.clock,
		Metrics:         f.metrics,
		RefreshInterval: time.Minute,
		BcryptCost:      bcrypt.MinCost,
	})
}

func TestManager_OpenAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.manager()

	opened, st := m.Open(ctx, f.member)
	require.NotNil(t, st.CurrentUser)

	got, err := m.Get(ctx, f.member.ID)
	require.NoError(t, err)
	assert.Same(t, opened, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GaugeSessions))

	require.NoError(t, m.Close(ctx, f.member.ID))
	assert.Zero(t, testutil.ToFloat64(f.metrics.GaugeSessions))
}

func TestManager_GetRestoresAfterRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, _ := f.manager().Open(ctx, f.member)
	_, err := s.SetView(ctx, session.ViewProfile, false)
	require.NoError(t, err)

	restarted := f.manager()
	got, err := restarted.Get(ctx, f.member.ID)
	require.NoError(t, err)

	st := got.State()
	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, f.member.ID, st.CurrentUser.ID)
	assert.Equal(t, session.ViewProfile, st.View)
}

func TestManager_GetWithoutSnapshotSignsInAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.manager().Get(ctx, f.trainer.ID)
	require.NoError(t, err)
	u, ok := got.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, f.trainer.ID, u.ID)

	_, err = f.manager().Get(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestManager_RefreshesStaleStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.manager()
	s, _ := m.Open(ctx, f.trainer)
	before := s.RefreshedAt()

	_, err := m.Get(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, before, s.RefreshedAt())

	f.clock.Advance(2 * time.Minute)
	_, err = m.Get(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Add(2*time.Minute), s.RefreshedAt())
}
