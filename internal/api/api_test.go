package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/api"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/repository/memory"
	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"
	"alcyxob/fitlab/internal/snapshot"
	"alcyxob/fitlab/internal/storage"
	"alcyxob/fitlab/internal/workout"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := api.RegisterValidators(); err != nil {
		panic(err)
	}
	code := m.Run()
	if code == 0 {
		if err := goleak.Find(); err != nil {
			panic(err)
		}
	}
	os.Exit(code)
}

var start = time.Date(2024, 5, 15, 7, 0, 0, 0, time.UTC)

const (
	trainerEmail = "coach@lab.test"
	memberEmail  = "ana@lab.test"
)

type testServer struct {
	router *gin.Engine
	db     *memory.DB
	files  storage.MemoryStorage
	gw     gateway.Gateway
	clock  *workout.ManualClock
}

func newTestServer(t *testing.T, maxUploadBytes int64) *testServer {
	t.Helper()
	db := memory.NewDB()
	files := storage.NewMemoryStorage("https://cdn.lab.test")
	m, reg := metrics.NewTestManagerAndRegistry()
	gw := gateway.NewRemoteGateway(gateway.Repositories{
		Members:   db.Members(),
		Plans:     db.Plans(),
		Exercises: db.Exercises(),
		Content:   db.Content(),
		CheckIns:  db.CheckIns(),
		Loads:     db.Loads(),
		Photos:    db.Photos(),
	}, files, m)
	clock := workout.NewManualClock(start)

	ctx := context.Background()
	for _, member := range []domain.Member{
		{ID: "trainer-1", Name: gofakeit.Name(), Email: trainerEmail, Role: domain.RoleTrainer, PasswordHash: hash(t, "coach"), EnrolledAt: start.AddDate(-1, 0, 0)},
		{ID: "member-1", Name: gofakeit.Name(), Email: memberEmail, Role: domain.RoleMember, PasswordHash: hash(t, "1234"), EnrolledAt: start.AddDate(0, -2, 0)},
	} {
		_, err := gw.UpsertMember(ctx, member)
		require.NoError(t, err)
	}

	sessions := session.NewManager(session.ManagerOptions{
		Gateway:    gw,
		Snapshot:   snapshot.NewMemoryPort(1024 * 1024),
		KeyPrefix:  "test",
		Clock:      clock,
		Metrics:    m,
		BcryptCost: bcrypt.MinCost,
	})

	router := gin.New()
	router.Use(api.RequestMetrics(m))
	api.SetupRoutes(router, api.RouteDeps{
		AuthService:    service.NewAuthService(gw, "test-secret", time.Hour),
		Sessions:       sessions,
		Gatherer:       reg,
		Now:            clock.Now,
		MaxUploadBytes: maxUploadBytes,
		Photos:         files,
		AppURL:         "https://app.lab.test",
	})
	return &testServer{router: router, db: db, files: files, gw: gw, clock: clock}
}

func hash(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func (s *testServer) seedPlan(t *testing.T) {
	t.Helper()
	plan := domain.NewWorkoutPlan("plan-1", "member-1", "trainer-1", "Hypertrophy", start)
	_, err := plan.AddDivision()
	require.NoError(t, err)
	_, err = s.gw.UpdatePlanDivisions(context.Background(), "member-1", plan)
	require.NoError(t, err)
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t, 0)
	w := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ANA@lab.test", "password": "1234"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[api.LoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, session.ViewDashboard, resp.State.View)
	require.NotNil(t, resp.State.CurrentUser)
	assert.Equal(t, "member-1", resp.State.CurrentUser.ID)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": memberEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "not-an-email", "password": "1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = s.do(http.MethodGet, "/api/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t, memberEmail, "1234")
	w = s.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[session.State](t, w)
	assert.Equal(t, "member-1", st.CurrentUser.ID)
}

func TestRoleMiddleware(t *testing.T) {
	s := newTestServer(t, 0)
	member := s.login(t, memberEmail, "1234")
	trainer := s.login(t, trainerEmail, "coach")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/trainer/members", member, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/member/loads", trainer, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/exercises", member, gin.H{"name": "X", "muscleGroup": "Arms"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/exercises", member, nil).Code)
}

func TestLogout_DropsStore(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, memberEmail, "1234")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)

	// The token stays valid; the store is signed in again from the member list.
	w := s.do(http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member-1", decode[session.State](t, w).CurrentUser.ID)
}

func TestMember_LogLoad(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, memberEmail, "1234")

	w := s.do(http.MethodPost, "/api/v1/member/loads", token, gin.H{"exercise": "supino reto", "weight": "40kg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[struct {
		Record         domain.LoadRecord `json:"record"`
		PersonalRecord bool              `json:"personalRecord"`
	}](t, w)
	assert.Equal(t, "SUPINO RETO", first.Record.ExerciseName)
	assert.InDelta(t, 40, first.Record.WeightKg, 1e-9)
	assert.False(t, first.PersonalRecord)

	w = s.do(http.MethodPost, "/api/v1/member/loads", token, gin.H{"exercise": "SUPINO RETO", "weight": "42,5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"personalRecord":true`)

	w = s.do(http.MethodGet, "/api/v1/member/loads/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	latest := decode[[]domain.LoadRecord](t, w)
	require.Len(t, latest, 1)
	assert.InDelta(t, 42.5, latest[0].WeightKg, 1e-9)

	w = s.do(http.MethodGet, "/api/v1/member/stats?exercise=supino%20reto", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/member/stats", token, nil).Code)
}

func TestMember_LogLoad_InvalidWeight(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, memberEmail, "1234")

	w := s.do(http.MethodPost, "/api/v1/member/loads", token, gin.H{"exercise": "SQUAT", "weight": "abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "weight", body["field"])
}

func TestRemoteFailure_RespondsWithSyncError(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, memberEmail, "1234")

	s.db.FailWith(assert.AnError)
	w := s.do(http.MethodPost, "/api/v1/member/loads", token, gin.H{"exercise": "SQUAT", "weight": "100"})
	s.db.FailWith(nil)

	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.NotEmpty(t, body["action"])
	assert.Equal(t, "network", body["kind"])
	assert.NotNil(t, body["pending"])

	// Rolled back locally.
	w = s.do(http.MethodGet, "/api/v1/member/loads", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.LoadRecord](t, w))
}

func TestTrainer_PlanLifecycle(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, trainerEmail, "coach")
	base := "/api/v1/trainer/members/member-1"

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"/plan", token, nil).Code)

	w := s.do(http.MethodPost, base+"/plan", token, gin.H{"name": "Strength"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plan := decode[domain.WorkoutPlan](t, w)
	assert.Equal(t, "member-1", plan.MemberID)
	require.Len(t, plan.Divisions, 1)
	assert.Equal(t, "A", plan.Divisions[0].Letter)

	w = s.do(http.MethodPost, base+"/plan/divisions", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[domain.WorkoutPlan](t, w).Divisions, 2)

	w = s.do(http.MethodPost, base+"/checkins", token, gin.H{"divisionLetter": "b", "durationSeconds": 3600})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	checkIns := decode[[]domain.CheckIn](t, w)
	require.Len(t, checkIns, 1)
	assert.Equal(t, "B", checkIns[0].DivisionLetter)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, base+"/checkins", token, gin.H{"divisionLetter": "AB"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, base+"/checkins", token, gin.H{"divisionLetter": "Z"}).Code)

	w = s.do(http.MethodPut, base+"/plan/divisions/a", token, gin.H{"name": "upper body"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "UPPER BODY", decode[domain.WorkoutPlan](t, w).Divisions[0].Name)

	w = s.do(http.MethodPost, base+"/plan/divisions/A/exercises", token, gin.H{"name": "Bench Press", "sets": 4, "reps": "8-12"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, decode[domain.WorkoutPlan](t, w).Divisions[0].Exercises, 1)

	w = s.do(http.MethodPut, base+"/plan/divisions/A/exercises/0", token, gin.H{"name": "Bench Press", "sets": 5, "reps": "5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 5, decode[domain.WorkoutPlan](t, w).Divisions[0].Exercises[0].Sets)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, base+"/plan/divisions/A/exercises/3", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, base+"/plan/divisions/A/exercises/x", token, nil).Code)
	w = s.do(http.MethodDelete, base+"/plan/divisions/A/exercises/0", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[domain.WorkoutPlan](t, w).Divisions[0].Exercises)

	w = s.do(http.MethodDelete, base+"/plan/divisions/b", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[domain.WorkoutPlan](t, w).Divisions, 1)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base+"/plan", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"/plan", token, nil).Code)
}

func TestTrainer_Dashboard(t *testing.T) {
	s := newTestServer(t, 0)
	s.seedPlan(t)
	_, err := s.gw.AppendCheckIn(context.Background(), domain.CheckIn{
		ID: "c1", MemberID: "member-1", PlanID: "plan-1", DivisionLetter: "A", At: start.Add(-time.Hour),
	})
	require.NoError(t, err)
	token := s.login(t, trainerEmail, "coach")

	w := s.do(http.MethodGet, "/api/v1/trainer/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[api.DashboardResponse](t, w)
	assert.Equal(t, 1, resp.Members)
	assert.Equal(t, 1, resp.CheckInsToday)
	assert.Equal(t, 100, resp.AttendanceRate)
	assert.Empty(t, resp.AtRisk)
	require.Len(t, resp.RecentCheckIns, 1)
	assert.Equal(t, analytics.DurationAnomalous, resp.RecentCheckIns[0].Class)

	w = s.do(http.MethodGet, "/api/v1/trainer/members", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[[]api.MemberSummary](t, w)
	require.Len(t, members, 1)
	assert.True(t, members[0].HasPlan)
	assert.NotNil(t, members[0].LastCheckIn)
}

func TestTrainer_AddMember(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, trainerEmail, "coach")

	w := s.do(http.MethodPost, "/api/v1/trainer/members", token, gin.H{
		"name": gofakeit.Name(), "email": "new@lab.test", "password": "9876", "phone": "+55 (21) 99999-0000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[api.AddMemberResponse](t, w)
	assert.Equal(t, "new@lab.test", resp.Member.Email)
	assert.True(t, strings.HasPrefix(resp.WelcomeLink, "https://wa.me/555521999990000?text="), resp.WelcomeLink)
	assert.Contains(t, resp.WelcomeLink, "9876")
	assert.Contains(t, resp.WelcomeLink, "https%3A%2F%2Fapp.lab.test")

	// The new member can log in right away.
	s.login(t, "new@lab.test", "9876")
}

func TestCatalogAndContent(t *testing.T) {
	s := newTestServer(t, 0)
	trainer := s.login(t, trainerEmail, "coach")

	w := s.do(http.MethodPost, "/api/v1/exercises", trainer, gin.H{"name": "Cable Fly", "muscleGroup": "Chest", "difficulty": "Expert"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/exercises", trainer, gin.H{"name": "Cable Fly", "muscleGroup": "Chest"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	catalog := decode[api.CatalogResponse](t, w)
	assert.Contains(t, catalog.Categories, "Chest")

	w = s.do(http.MethodGet, "/api/v1/exercises/suggest?q=cable", trainer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.ToUpper(w.Body.String()), "CABLE FLY")

	w = s.do(http.MethodPost, "/api/v1/trainer/content", trainer, gin.H{
		"title": "Warm-up", "category": "Mobility", "url": "https://video.lab.test/warmup",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	content := decode[[]domain.VideoContent](t, w)
	require.Len(t, content, 1)

	w = s.do(http.MethodPost, "/api/v1/trainer/content/"+content[0].ID+"/pin", trainer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[[]domain.VideoContent](t, w)[0].Pinned)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/trainer/content/nope", trainer, nil).Code)

	member := s.login(t, memberEmail, "1234")
	w = s.do(http.MethodGet, "/api/v1/content?category=Mobility", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.VideoContent](t, w), 1)
}

func TestWorkoutFlow(t *testing.T) {
	s := newTestServer(t, 0)
	s.seedPlan(t)
	token := s.login(t, memberEmail, "1234")

	assert.Equal(t, http.StatusConflict, s.do(http.MethodGet, "/api/v1/member/workout", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/member/workout", token, gin.H{"division": "1"}).Code)

	w := s.do(http.MethodPost, "/api/v1/member/workout", token, gin.H{"division": "a"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/member/workout", token, gin.H{"division": "A"}).Code)

	// Leaving the workout screen needs confirmation.
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPut, "/api/v1/me/view", token, gin.H{"view": "dashboard"}).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/member/workout/rest", token, gin.H{"seconds": 0}).Code)
	w = s.do(http.MethodPost, "/api/v1/member/workout/rest", token, gin.H{"seconds": 90})
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[workout.Status](t, w)
	assert.True(t, status.Resting)

	s.clock.Advance(45 * time.Minute)
	w = s.do(http.MethodPost, "/api/v1/member/workout/finish", token, gin.H{
		"loads": []session.LoadEntry{{Exercise: "SQUAT", Weight: "100"}, {Exercise: "ROW", Weight: ""}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[map[string]any](t, w)
	assert.EqualValues(t, 45*60, result["durationSeconds"])

	w = s.do(http.MethodGet, "/api/v1/member/checkins", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	checkIns := decode[api.CheckInsResponse](t, w)
	require.Len(t, checkIns.CheckIns, 1)
	assert.Equal(t, analytics.DurationOptimal, checkIns.CheckIns[0].Class)
	require.NotNil(t, checkIns.DaysSinceLast)
	assert.Equal(t, 0, *checkIns.DaysSinceLast)

	w = s.do(http.MethodGet, "/api/v1/member/loads", token, nil)
	assert.Len(t, decode[[]domain.LoadRecord](t, w), 1)
}

func TestWorkout_Abandon(t *testing.T) {
	s := newTestServer(t, 0)
	s.seedPlan(t)
	token := s.login(t, memberEmail, "1234")

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/member/workout", token, gin.H{"division": "A"}).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/member/workout", token, nil).Code)

	w := s.do(http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, session.ViewDashboard, decode[session.State](t, w).View)
}

func multipartPhoto(t *testing.T, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("photo", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadPhoto(t *testing.T) {
	s := newTestServer(t, 1<<20)
	token := s.login(t, memberEmail, "1234")

	body, contentType := multipartPhoto(t, "front.JPG", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/member/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[struct {
		Photos   []domain.ProgressPhoto `json:"photos"`
		PhotoURL string                 `json:"photoUrl"`
	}](t, w)
	require.Len(t, resp.Photos, 1)
	assert.True(t, strings.HasPrefix(resp.PhotoURL, "https://cdn.lab.test/photos/member-1/"))
	assert.True(t, strings.HasSuffix(resp.PhotoURL, ".jpg"))

	// The public URL is served by the in-memory storage route.
	photoPath := strings.TrimPrefix(resp.PhotoURL, "https://cdn.lab.test")
	w = s.do(http.MethodGet, photoPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/member/photos/"+resp.Photos[0].ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, photoPath, "", nil).Code)
}

func TestUploadPhoto_TooLarge(t *testing.T) {
	s := newTestServer(t, 64)
	token := s.login(t, memberEmail, "1234")

	body, contentType := multipartPhoto(t, "front.jpg", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/member/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSetGoal(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, memberEmail, "1234")

	w := s.do(http.MethodPut, "/api/v1/member/goals", token, gin.H{"exercise": "squat", "weightKg": 120})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	goals := decode[domain.Goals](t, w)
	g, ok := goals.Get("SQUAT")
	require.True(t, ok)
	assert.InDelta(t, 120, g, 1e-9)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/member/goals", token, gin.H{"exercise": "squat", "weightKg": -1}).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(http.MethodGet, "/ping", "", nil)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitlab_test_server_request")
}
