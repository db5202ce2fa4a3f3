package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"
	"alcyxob/fitlab/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	remote := apperror.NewRemoteError("append_load", apperror.KindNetwork, errors.New("dial tcp: refused"))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.NewValidationError("weight", "is not a number"), http.StatusBadRequest},
		{"not signed in", session.ErrNotSignedIn, http.StatusUnauthorized},
		{"bad credentials", service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"forbidden", session.ErrForbidden, http.StatusForbidden},
		{"not found", apperror.NewNotFoundError("plan", "member-1"), http.StatusNotFound},
		{"in flight", fmt.Errorf("log load: %w", session.ErrActionInFlight), http.StatusConflict},
		{"workout paused", workout.ErrPaused, http.StatusConflict},
		{"invalid rest", workout.ErrInvalidRest, http.StatusBadRequest},
		{"sync", apperror.NewSyncError("log_load", nil, remote), http.StatusBadGateway},
		{"sync not found", apperror.NewSyncError("delete_content", "c9", apperror.NewRemoteError("delete_content", apperror.KindNotFound, errors.New("not found"))), http.StatusNotFound},
		{"remote", remote, http.StatusBadGateway},
		{"remote not found", apperror.NewRemoteError("get_plan", apperror.KindNotFound, errors.New("missing")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestValidateDivisionLetter(t *testing.T) {
	type req struct {
		Letter string `binding:"division_letter"`
	}
	assert.NoError(t, RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(req{Letter: "a"}))
	assert.NoError(t, binding.Validator.ValidateStruct(req{Letter: "Z"}))
	assert.Error(t, binding.Validator.ValidateStruct(req{Letter: "AB"}))
	assert.Error(t, binding.Validator.ValidateStruct(req{Letter: "1"}))
}
