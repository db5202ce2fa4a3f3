package api

import (
	"errors"
	"net/http"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"
	"alcyxob/fitlab/internal/workout"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var conflictErrors = []error{
	session.ErrActionInFlight,
	session.ErrConfirmRequired,
	session.ErrWorkoutActive,
	session.ErrNoWorkout,
	workout.ErrPaused,
	workout.ErrNotPaused,
	workout.ErrSessionEnded,
}

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		ve       *apperror.ValidationError
		syncErr  *apperror.SyncError
		remote   *apperror.RemoteError
		notFound *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, session.ErrNotSignedIn), errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.As(err, &syncErr):
		log.Warnf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
		status := http.StatusBadGateway
		body := gin.H{"error": syncErr.Error(), "action": syncErr.Action, "pending": syncErr.Pending}
		if errors.As(err, &remote) {
			body["kind"] = remote.Kind
			if remote.Kind == apperror.KindNotFound {
				status = http.StatusNotFound
			}
		}
		c.AbortWithStatusJSON(status, body)
	case errors.As(err, &notFound):
		abortWithError(c, http.StatusNotFound, notFound.Error())
	case errors.Is(err, workout.ErrInvalidRest):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case isConflict(err):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &remote):
		log.Warnf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
		status := http.StatusBadGateway
		if remote.Kind == apperror.KindNotFound {
			status = http.StatusNotFound
		}
		c.AbortWithStatusJSON(status, gin.H{"error": remote.Error(), "kind": remote.Kind})
	default:
		log.Errorf("api: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func isConflict(err error) bool {
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
