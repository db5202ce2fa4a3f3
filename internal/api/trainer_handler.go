package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/session"

	"github.com/gin-gonic/gin"
)

// TrainerHandler serves the trainer's management screens.
type TrainerHandler struct {
	now    func() time.Time
	appURL string
}

func NewTrainerHandler(now func() time.Time, appURL string) *TrainerHandler {
	return &TrainerHandler{now: now, appURL: appURL}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	Name string `json:"name" binding:"required"`
}

type SavePlanRequest struct {
	Name      string            `json:"name" binding:"required"`
	Divisions []domain.Division `json:"divisions" binding:"required,min=1,dive"`
}

type RenameDivisionRequest struct {
	Name string `json:"name" binding:"required"`
}

type PlanExerciseRequest struct {
	ExerciseID  string  `json:"exerciseId"`
	Name        string  `json:"name" binding:"required"`
	Sets        int     `json:"sets" binding:"required,min=1"`
	Reps        string  `json:"reps"`
	Rest        string  `json:"rest"`
	Notes       string  `json:"notes"`
	CurrentLoad float64 `json:"currentLoad" binding:"min=0"`
}

func (r PlanExerciseRequest) toDomain() domain.PrescribedExercise {
	return domain.PrescribedExercise{
		ExerciseID:  r.ExerciseID,
		Name:        r.Name,
		Sets:        r.Sets,
		Reps:        r.Reps,
		Rest:        r.Rest,
		Notes:       r.Notes,
		CurrentLoad: r.CurrentLoad,
	}
}

type CheckInRequest struct {
	DivisionLetter  string `json:"divisionLetter" binding:"required,division_letter"`
	DurationSeconds int64  `json:"durationSeconds" binding:"min=0"`
}

type ContentRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Category     string    `json:"category" binding:"required"`
	URL          string    `json:"url" binding:"required,url"`
	ThumbnailURL string    `json:"thumbnailUrl" binding:"omitempty,url"`
	PostedAt     time.Time `json:"postedAt"`
	Pinned       bool      `json:"pinned"`
}

type MemberSummary struct {
	Member        domain.Member       `json:"member"`
	AtRisk        bool                `json:"atRisk"`
	LastCheckIn   *domain.CheckIn     `json:"lastCheckIn,omitempty"`
	LastSeenLabel string              `json:"lastSeenLabel,omitempty"`
	HasPlan       bool                `json:"hasPlan"`
	LatestLoads   []domain.LoadRecord `json:"latestLoads"`
}

type DashboardResponse struct {
	Members        int                     `json:"members"`
	AttendanceRate int                     `json:"attendanceRate"`
	CheckInsToday  int                     `json:"checkInsToday"`
	AtRisk         []domain.Member         `json:"atRisk"`
	RecentCheckIns []CheckInView           `json:"recentCheckIns"`
	WeekStart      time.Time               `json:"weekStart"`
	Presence       []analytics.PresenceRow `json:"presence"`
}

// AddMemberResponse carries the new member and a prefilled welcome message link; the
// link is empty when the member has no phone.
type AddMemberResponse struct {
	State       session.State `json:"state"`
	Member      domain.Member `json:"member"`
	WelcomeLink string        `json:"welcomeLink,omitempty"`
}

// --- Members ---

func (h *TrainerHandler) ListMembers(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	now := h.now()

	out := make([]MemberSummary, 0, len(st.Members))
	for _, m := range st.Members {
		if !m.IsMember() {
			continue
		}
		summary := MemberSummary{
			Member:      m,
			AtRisk:      analytics.IsAtRisk(m, st.CheckIns, now),
			LatestLoads: analytics.LatestPerExercise(st.Loads, m.ID),
		}
		if last, ok := analytics.LastCheckIn(st.CheckIns, m.ID); ok {
			summary.LastCheckIn = &last
			_, summary.LastSeenLabel = analytics.DaysAgo(last.At, now)
		}
		_, summary.HasPlan = st.Plan(m.ID)
		out = append(out, summary)
	}
	c.JSON(http.StatusOK, out)
}

func (h *TrainerHandler) AddMember(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req session.NewMember
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.AddMember(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := AddMemberResponse{State: st}
	if member, ok := findMemberByEmail(st.Members, req.Email); ok {
		resp.Member = member
		trainer, _ := store.CurrentUser()
		resp.WelcomeLink = domain.WelcomeLink(member, trainer.Name, req.Password, h.appURL)
	}
	c.JSON(http.StatusCreated, resp)
}

func findMemberByEmail(members []domain.Member, email string) (domain.Member, bool) {
	email = domain.NormalizeEmail(email)
	for _, m := range members {
		if m.Email == email {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (h *TrainerHandler) UpdateMember(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req session.MemberUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.UpdateMember(c.Request.Context(), c.Param("memberId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// --- Plans ---

func (h *TrainerHandler) GetPlan(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	plan, found := store.State().Plan(c.Param("memberId"))
	if !found {
		abortWithError(c, http.StatusNotFound, "Plan not found")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *TrainerHandler) CreatePlan(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	h.respondPlan(c, c.Param("memberId"), http.StatusCreated)(store.CreatePlan(c.Request.Context(), c.Param("memberId"), req.Name))
}

func (h *TrainerHandler) SavePlan(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	memberID := c.Param("memberId")
	plan := domain.WorkoutPlan{MemberID: memberID, Name: req.Name, Divisions: req.Divisions}
	h.respondPlan(c, memberID, http.StatusOK)(store.SavePlan(c.Request.Context(), plan))
}

func (h *TrainerHandler) AddDivision(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusOK)(store.AddDivision(c.Request.Context(), memberID))
}

func (h *TrainerHandler) RemoveDivision(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusOK)(store.RemoveDivision(c.Request.Context(), memberID, c.Param("letter")))
}

func (h *TrainerHandler) RenameDivision(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req RenameDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusOK)(store.RenameDivision(c.Request.Context(), memberID, c.Param("letter"), req.Name))
}

func (h *TrainerHandler) AddPlanExercise(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req PlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusCreated)(store.AddPlanExercise(c.Request.Context(), memberID, c.Param("letter"), req.toDomain()))
}

func (h *TrainerHandler) UpdatePlanExercise(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	index, ok := exerciseIndex(c)
	if !ok {
		return
	}
	var req PlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusOK)(store.UpdatePlanExercise(c.Request.Context(), memberID, c.Param("letter"), index, req.toDomain()))
}

func (h *TrainerHandler) RemovePlanExercise(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	index, ok := exerciseIndex(c)
	if !ok {
		return
	}
	memberID := c.Param("memberId")
	h.respondPlan(c, memberID, http.StatusOK)(store.RemovePlanExercise(c.Request.Context(), memberID, c.Param("letter"), index))
}

func exerciseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Exercise index must be a number")
		return 0, false
	}
	return index, true
}

func (h *TrainerHandler) DeletePlan(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.DeletePlan(c.Request.Context(), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrainerHandler) respondPlan(c *gin.Context, memberID string, status int) func(session.State, error) {
	return func(st session.State, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		plan, _ := st.Plan(memberID)
		c.JSON(status, plan)
	}
}

// --- Attendance ---

func (h *TrainerHandler) RecordCheckIn(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.RecordCheckIn(c.Request.Context(), session.CheckInInput{
		MemberID:        c.Param("memberId"),
		DivisionLetter:  req.DivisionLetter,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.CheckIns)
}

func (h *TrainerHandler) MemberStats(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	exerciseStats(c, store.State(), c.Param("memberId"), h.now())
}

// Dashboard godoc
// @Summary Trainer overview
// @Description Today's attendance rate, members at risk of dropping out and the weekly presence grid.
// @Tags Trainer
// @Router /trainer/dashboard [get]
func (h *TrainerHandler) Dashboard(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	now := h.now()

	resp := DashboardResponse{
		AttendanceRate: analytics.AttendanceRate(st.Members, st.CheckIns, now),
		AtRisk:         analytics.AtRiskMembers(st.Members, st.CheckIns, now),
		WeekStart:      analytics.WeekStart(now),
		Presence:       analytics.WeeklyPresence(st.Members, st.CheckIns, now),
		RecentCheckIns: []CheckInView{},
	}
	for _, m := range st.Members {
		if m.IsMember() {
			resp.Members++
		}
	}
	y, mo, d := now.Date()
	for i := len(st.CheckIns) - 1; i >= 0; i-- {
		ci := st.CheckIns[i]
		cy, cmo, cd := ci.At.In(now.Location()).Date()
		if cy == y && cmo == mo && cd == d {
			resp.CheckInsToday++
		}
		if len(resp.RecentCheckIns) < 10 {
			resp.RecentCheckIns = append(resp.RecentCheckIns, newCheckInView(ci))
		}
	}
	if resp.AtRisk == nil {
		resp.AtRisk = []domain.Member{}
	}
	c.JSON(http.StatusOK, resp)
}

// --- Content ---

func (h *TrainerHandler) UpsertContent(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	status := http.StatusOK
	id := c.Param("id")
	if id == "" {
		status = http.StatusCreated
	}
	st, err := store.UpsertContent(c.Request.Context(), domain.VideoContent{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		PostedAt:     req.PostedAt,
		Pinned:       req.Pinned,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, st.Content)
}

func (h *TrainerHandler) TogglePin(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st, err := store.TogglePin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.Content)
}

func (h *TrainerHandler) DeleteContent(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
