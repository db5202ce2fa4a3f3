package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitlab/internal/session"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler drives the live workout of the signed-in member.
type WorkoutHandler struct{}

func NewWorkoutHandler() *WorkoutHandler {
	return &WorkoutHandler{}
}

type StartWorkoutRequest struct {
	Division string `json:"division" binding:"required,division_letter"`
}

type RestRequest struct {
	Seconds int `json:"seconds" binding:"required,min=1"`
}

type FinishWorkoutRequest struct {
	Loads []session.LoadEntry `json:"loads"`
}

// Status returns the live workout; 409 when none is running.
func (h *WorkoutHandler) Status(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	if st.Workout == nil {
		respondError(c, session.ErrNoWorkout)
		return
	}
	c.JSON(http.StatusOK, st.Workout)
}

func (h *WorkoutHandler) Start(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req StartWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.StartWorkout(c.Request.Context(), req.Division)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.Workout)
}

func (h *WorkoutHandler) Pause(c *gin.Context) {
	h.control(c, (*session.Store).PauseWorkout)
}

func (h *WorkoutHandler) Resume(c *gin.Context) {
	h.control(c, (*session.Store).ResumeWorkout)
}

func (h *WorkoutHandler) CancelRest(c *gin.Context) {
	h.control(c, (*session.Store).CancelRest)
}

func (h *WorkoutHandler) StartRest(c *gin.Context) {
	var req RestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	h.control(c, func(s *session.Store) (session.State, error) {
		return s.StartRest(time.Duration(req.Seconds) * time.Second)
	})
}

func (h *WorkoutHandler) control(c *gin.Context, op func(*session.Store) (session.State, error)) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st, err := op(store)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.Workout)
}

// Finish godoc
// @Summary Finish the live workout
// @Description Stores every non-blank load and a check-in for the division. Partial failures return 502 with the unsaved loads.
// @Tags Workout
// @Router /member/workout/finish [post]
func (h *WorkoutHandler) Finish(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req FinishWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := store.FinishWorkout(c.Request.Context(), req.Loads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"durationSeconds": res.DurationSeconds,
		"class":           res.Class,
		"records":         res.Records,
		"personalRecords": res.PersonalRecords,
	})
}

func (h *WorkoutHandler) Abandon(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.AbandonWorkout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
