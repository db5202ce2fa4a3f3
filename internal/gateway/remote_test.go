package gateway_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/repository/memory"
	"alcyxob/fitlab/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *memory.DB
	files   storage.MemoryStorage
	metrics *metrics.Manager
	gw      gateway.Gateway
}

func newFixture() fixture {
	db := memory.NewDB()
	files := storage.NewMemoryStorage("https://cdn.lab.test")
	m := metrics.NewTestManager()
	gw := gateway.NewRemoteGateway(gateway.Repositories{
		Members:   db.Members(),
		Plans:     db.Plans(),
		Exercises: db.Exercises(),
		Content:   db.Content(),
		CheckIns:  db.CheckIns(),
		Loads:     db.Loads(),
		Photos:    db.Photos(),
	}, files, m)
	return fixture{db: db, files: files, metrics: m, gw: gw}
}

func TestUpsertMember_DuplicateEmailIsConstraint(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.gw.UpsertMember(ctx, domain.Member{ID: "m1", Name: "Ana", Email: "ana@lab.test", Role: domain.RoleMember})
	require.NoError(t, err)

	_, err = f.gw.UpsertMember(ctx, domain.Member{ID: "m2", Name: "Ana 2", Email: "ANA@lab.test", Role: domain.RoleMember})

	var re *apperror.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, apperror.KindConstraint, re.Kind)
	assert.Equal(t, "upsert_member", re.Op)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterGatewayCalls.WithLabelValues("upsert_member", "constraint")))
}

func TestStoreUnavailableIsNetwork(t *testing.T) {
	f := newFixture()
	f.db.FailWith(errors.New("connection refused"))

	_, err := f.gw.ListMembers(context.Background())

	var re *apperror.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, apperror.KindNetwork, re.Kind)
}

func TestDeleteMissingContentIsNotFound(t *testing.T) {
	f := newFixture()
	err := f.gw.DeleteContent(context.Background(), "nope")
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdatePlanDivisions_ReturnsStoredPlan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	first := domain.NewWorkoutPlan("p1", "", "t1", "Base", created)
	stored, err := f.gw.UpdatePlanDivisions(ctx, "m1", first)
	require.NoError(t, err)
	assert.Equal(t, "m1", stored.MemberID)

	second := domain.NewWorkoutPlan("p2", "m1", "t1", "Split", created.Add(time.Hour))
	_, err = second.AddDivision()
	require.NoError(t, err)

	stored, err = f.gw.UpdatePlanDivisions(ctx, "m1", second)
	require.NoError(t, err)

	assert.Equal(t, "p1", stored.ID)
	assert.Equal(t, "Split", stored.Name)
	assert.Len(t, stored.Divisions, 2)
}

func TestAppendLoad_NormalizesName(t *testing.T) {
	f := newFixture()
	rec, err := f.gw.AppendLoad(context.Background(), domain.LoadRecord{ID: "l1", MemberID: "m1", ExerciseName: " bench ", WeightKg: 60})
	require.NoError(t, err)
	assert.Equal(t, "BENCH", rec.ExerciseName)

	list, err := f.gw.ListLoads(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BENCH", list[0].ExerciseName)
}

func TestUploadAndDeletePhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	obj, err := f.gw.UploadPhoto(ctx, "m1", "front.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"), 10)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "photos/m1/"))
	assert.Equal(t, "https://cdn.lab.test/"+obj.Key, obj.URL)

	_, err = f.gw.AppendPhoto(ctx, domain.ProgressPhoto{ID: "ph1", MemberID: "m1", URL: obj.URL, ObjectKey: obj.Key, CreatedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, f.gw.DeletePhoto(ctx, "ph1"))
	_, ok := f.files.Object(obj.Key)
	assert.False(t, ok)

	photos, err := f.gw.ListPhotos(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestAppendPhoto_FailureDeletesObject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	obj, err := f.gw.UploadPhoto(ctx, "m1", "side.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)

	f.db.FailWith(errors.New("connection reset"))
	_, err = f.gw.AppendPhoto(ctx, domain.ProgressPhoto{ID: "ph1", MemberID: "m1", URL: obj.URL, ObjectKey: obj.Key, CreatedAt: time.Now()})
	f.db.FailWith(nil)

	var re *apperror.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "append_photo", re.Op)
	_, ok := f.files.Object(obj.Key)
	assert.False(t, ok)
}

func TestUploadPhoto_EmptyBodyIsConstraint(t *testing.T) {
	f := newFixture()
	_, err := f.gw.UploadPhoto(context.Background(), "m1", "x.png", "image/png", strings.NewReader(""), 0)

	var re *apperror.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, apperror.KindConstraint, re.Kind)
}

func TestFindMemberByEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.gw.UpsertMember(ctx, domain.Member{ID: "t1", Name: "Coach", Email: "coach@lab.test", Role: domain.RoleTrainer})
	require.NoError(t, err)

	m, err := f.gw.FindMemberByEmail(ctx, " Coach@Lab.test")
	require.NoError(t, err)
	assert.Equal(t, "t1", m.ID)

	_, err = f.gw.FindMemberByEmail(ctx, "ghost@lab.test")
	assert.True(t, apperror.IsNotFound(err))
}
