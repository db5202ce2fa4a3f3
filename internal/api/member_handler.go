package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/session"

	"github.com/gin-gonic/gin"
)

// MemberHandler serves a member's own progress: loads, goals, check-ins and photos.
type MemberHandler struct {
	now            func() time.Time
	maxUploadBytes int64
}

func NewMemberHandler(now func() time.Time, maxUploadBytes int64) *MemberHandler {
	return &MemberHandler{now: now, maxUploadBytes: maxUploadBytes}
}

// --- Request/Response Structs ---

type LogLoadRequest struct {
	Exercise string `json:"exercise" binding:"required"`
	Weight   string `json:"weight" binding:"required"`
}

type GoalRequest struct {
	Exercise string  `json:"exercise" binding:"required"`
	WeightKg float64 `json:"weightKg" binding:"min=0"`
}

// CheckInView is a check-in with the class of its session length.
type CheckInView struct {
	domain.CheckIn
	Class analytics.DurationClass `json:"class"`
}

func newCheckInView(ci domain.CheckIn) CheckInView {
	return CheckInView{CheckIn: ci, Class: analytics.ClassifyDuration(ci.DurationSeconds)}
}

func checkInViews(checkIns []domain.CheckIn) []CheckInView {
	out := make([]CheckInView, 0, len(checkIns))
	for _, ci := range checkIns {
		out = append(out, newCheckInView(ci))
	}
	return out
}

type CheckInsResponse struct {
	CheckIns      []CheckInView `json:"checkIns"`
	DaysSinceLast *int          `json:"daysSinceLast,omitempty"`
	LastSeenLabel string        `json:"lastSeenLabel,omitempty"`
	AtRisk        bool          `json:"atRisk"`
}

func (h *MemberHandler) GetPlan(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	plan, found := st.Plan(st.CurrentUser.ID)
	if !found {
		abortWithError(c, http.StatusNotFound, "No plan assigned yet")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Loads ---

func (h *MemberHandler) ListLoads(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.State().Loads)
}

// LatestLoads returns the most recent entry of every exercise.
func (h *MemberHandler) LatestLoads(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	c.JSON(http.StatusOK, analytics.LatestPerExercise(st.Loads, st.CurrentUser.ID))
}

// LogLoad godoc
// @Summary Record a lifted weight
// @Description The weight is free text; "42,5 kg" is stored as 42.5. The response tells whether it is a personal record.
// @Tags Member
// @Router /member/loads [post]
func (h *MemberHandler) LogLoad(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req LogLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := store.LogLoad(c.Request.Context(), "", req.Exercise, req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": res.Record, "personalRecord": res.PersonalRecord})
}

func (h *MemberHandler) DeleteLoad(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.DeleteLoad(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) Stats(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	exerciseStats(c, st, st.CurrentUser.ID, h.now())
}

func (h *MemberHandler) SetGoal(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.SetGoal(c.Request.Context(), "", req.Exercise, req.WeightKg)
	if err != nil {
		respondError(c, err)
		return
	}
	goals := st.Goals[st.CurrentUser.ID]
	if goals == nil {
		goals = domain.Goals{}
	}
	c.JSON(http.StatusOK, goals)
}

// --- Attendance ---

func (h *MemberHandler) CheckIns(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	now := h.now()
	resp := CheckInsResponse{CheckIns: checkInViews(st.CheckIns), AtRisk: analytics.IsAtRisk(*st.CurrentUser, st.CheckIns, now)}
	if last, ok := analytics.LastCheckIn(st.CheckIns, st.CurrentUser.ID); ok {
		days, label := analytics.DaysAgo(last.At, now)
		resp.DaysSinceLast = &days
		resp.LastSeenLabel = label
	}
	c.JSON(http.StatusOK, resp)
}

// --- Photos ---

func (h *MemberHandler) ListPhotos(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.State().Photos)
}

// UploadPhoto godoc
// @Summary Upload a progress photo
// @Description Multipart form with a "photo" file. The photo becomes the member's current photo.
// @Tags Member
// @Router /member/photos [post]
func (h *MemberHandler) UploadPhoto(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	header, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Photo is too large")
			return
		}
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Could not read photo: %v", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	st, err := store.UploadPhoto(c.Request.Context(), session.PhotoUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photos": st.Photos, "photoUrl": st.CurrentUser.PhotoURL})
}

func (h *MemberHandler) DeletePhoto(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.DeletePhoto(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exerciseStats answers ?exercise=NAME with the stats of one exercise of memberID.
func exerciseStats(c *gin.Context, st session.State, memberID string, now time.Time) {
	exercise := c.Query("exercise")
	if exercise == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'exercise' is required")
		return
	}
	c.JSON(http.StatusOK, analytics.Stats(st.Loads, st.Goals[memberID], memberID, exercise, now))
}
