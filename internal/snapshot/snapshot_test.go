package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestRedisPort(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	defer db.Close()

	port := NewRedisPort(db)

	mock.ExpectSet("fitlab:m1:currentView", "dashboard", 0).SetVal("OK")
	require.NoError(t, port.Save(ctx, "fitlab:m1:currentView", "dashboard"))

	mock.ExpectGet("fitlab:m1:currentView").SetVal("dashboard")
	val, ok, err := port.Load(ctx, "fitlab:m1:currentView")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dashboard", val)

	mock.ExpectGet("missing").RedisNil()
	_, ok, err = port.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("broken").SetErr(errors.New("connection reset"))
	_, _, err = port.Load(ctx, "broken")
	assert.Error(t, err)

	mock.ExpectDel("fitlab:m1:currentView").SetVal(1)
	require.NoError(t, port.Delete(ctx, "fitlab:m1:currentView"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryPort(t *testing.T) {
	ctx := context.Background()
	port := NewMemoryPort(1 << 20)

	_, ok, err := port.Load(ctx, KeyCurrentUser)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, port.Save(ctx, KeyCurrentUser, `{"id":"m1"}`))
	val, ok, err := port.Load(ctx, KeyCurrentUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"m1"}`, val)

	require.NoError(t, port.Delete(ctx, KeyCurrentUser))
	_, ok, _ = port.Load(ctx, KeyCurrentUser)
	assert.False(t, ok)
}

func TestWithPrefix_Isolates(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryPort(1 << 20)
	a := WithPrefix(base, "fitlab:m1")
	b := WithPrefix(base, "fitlab:m2")

	require.NoError(t, a.Save(ctx, KeyCurrentView, "profile"))

	_, ok, err := b.Load(ctx, KeyCurrentView)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, ok, err := base.Load(ctx, "fitlab:m1:currentView")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "profile", raw)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	port := NewMemoryPort(1 << 20)

	require.NoError(t, SaveJSON(ctx, port, GoalsKey("m1"), map[string]float64{"SUPINO RETO": 80}))

	var goals map[string]float64
	ok, err := LoadJSON(ctx, port, GoalsKey("m1"), &goals)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 80.0, goals["SUPINO RETO"])

	require.NoError(t, port.Save(ctx, KeyCatalog, "not json"))
	var catalog []string
	ok, err = LoadJSON(ctx, port, KeyCatalog, &catalog)
	require.NoError(t, err)
	assert.False(t, ok)
}
