package api

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler signs identities in and out of their session stores.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	State session.State `json:"state"`
}

type ViewRequest struct {
	View    session.View `json:"view" binding:"required"`
	Confirm bool         `json:"confirm"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// --- Handler Methods ---

// Login godoc
// @Summary Log in a member or the trainer
// @Description Authenticates, opens the session store and returns a JWT with the initial state.
// @Tags Auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, member, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
			return
		}
		respondError(c, err)
		return
	}

	_, st := h.sessions.Open(c.Request.Context(), member)
	c.JSON(http.StatusOK, LoginResponse{Token: token, State: st})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.sessions.Close(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the whole session state of the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.State())
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	st, err := store.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *AuthHandler) SetView(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.SetView(c.Request.Context(), req.View, req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if _, err := store.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	store, ok := getStore(c)
	if !ok {
		return
	}
	var req session.MemberUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := store.UpdateMember(c.Request.Context(), "", req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
