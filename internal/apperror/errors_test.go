package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"alcyxob/fitlab/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestSyncError_UnwrapsToRemoteError(t *testing.T) {
	cause := errors.New("connection reset")
	remote := apperror.NewRemoteError("append_load", apperror.KindNetwork, cause)
	err := fmt.Errorf("log load: %w", apperror.NewSyncError("log_load", "BENCH 80", remote))

	assert.True(t, apperror.IsSync(err))
	assert.True(t, apperror.IsRemote(err))
	assert.False(t, apperror.IsNotFound(err))
	assert.ErrorIs(t, err, cause)

	var se *apperror.SyncError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "BENCH 80", se.Pending)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperror.IsNotFound(apperror.NewNotFoundError("member", "m1")))
	assert.True(t, apperror.IsNotFound(apperror.NewRemoteError("delete_content", apperror.KindNotFound, errors.New("gone"))))
	assert.False(t, apperror.IsNotFound(apperror.NewValidationError("weight", "not a number")))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation: weight: must be positive", apperror.NewValidationError("weight", "must be positive").Error())
	assert.Equal(t, "validation: bad input", apperror.NewValidationError("", "bad input").Error())
	assert.True(t, apperror.IsValidation(fmt.Errorf("wrap: %w", apperror.NewValidationError("x", "y"))))
}
