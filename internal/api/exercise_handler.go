package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitlab/internal/analytics"
	"alcyxob/fitlab/internal/domain"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the shared exercise catalog, its categories and the content library.
type ExerciseHandler struct{}

func NewExerciseHandler() *ExerciseHandler {
	return &ExerciseHandler{}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating a catalog exercise.
type CreateExerciseRequest struct {
	Name         string `json:"name" binding:"required"`
	MuscleGroup  string `json:"muscleGroup" binding:"required"`
	Equipment    string `json:"equipment"`
	Instructions string `json:"instructions"`
	VideoURL     string `json:"videoUrl" binding:"omitempty,url"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=Basic Intermediate Advanced"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CatalogResponse struct {
	Exercises  []domain.CatalogExercise `json:"exercises"`
	Categories []string                 `json:"categories"`
}

// --- Handler Methods ---

// GetCatalog godoc
// @Summary List the exercise catalog
// @Description Every catalog exercise plus the known categories. Falls back to the cached or built-in catalog when the remote one is unreachable.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Router /exercises [get]
func (h *ExerciseHandler) GetCatalog(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	c.JSON(http.StatusOK, CatalogResponse{Exercises: st.Catalog, Categories: st.Categories})
}

// CreateExercise godoc
// @Summary Add an exercise to the catalog
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	st, err := store.AddCatalogExercise(c.Request.Context(), domain.CatalogExercise{
		Name:         req.Name,
		MuscleGroup:  req.MuscleGroup,
		Equipment:    req.Equipment,
		Instructions: req.Instructions,
		VideoURL:     req.VideoURL,
		Difficulty:   domain.Difficulty(req.Difficulty),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CatalogResponse{Exercises: st.Catalog, Categories: st.Categories})
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	if _, err := store.RemoveCatalogExercise(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExerciseHandler) AddCategory(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.Categories)
}

// Suggest completes an exercise name from the catalog, the plans and past loads.
// The caller's three most recent entries for an exact name come along as "recent".
func (h *ExerciseHandler) Suggest(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st := store.State()
	q := c.Query("q")
	names := analytics.ExerciseNames(st.Catalog, st.Loads, st.Plans)
	out := gin.H{"suggestions": analytics.Suggest(q, names)}
	if q != "" && st.CurrentUser != nil {
		out["recent"] = analytics.RecentHistory(st.Loads, st.CurrentUser.ID, q, 3)
	}
	c.JSON(http.StatusOK, out)
}

// ListContent returns the content library, pinned items first.
func (h *ExerciseHandler) ListContent(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	content := store.State().Content
	if category := c.Query("category"); category != "" {
		filtered := make([]domain.VideoContent, 0, len(content))
		for _, v := range content {
			if v.Category == category {
				filtered = append(filtered, v)
			}
		}
		content = filtered
	}
	c.JSON(http.StatusOK, content)
}
