// Package apperror holds the error taxonomy shared by the gateway, the session store and
// the API: remote failures, rejected input, missing entities and failed synchronisations.
package apperror

import (
	"errors"
	"fmt"
)

// RemoteKind classifies a RemoteError.
type RemoteKind string

const (
	KindNetwork    RemoteKind = "network"
	KindConstraint RemoteKind = "constraint"
	KindNotFound   RemoteKind = "not_found"
)

// RemoteError is a failed call against the remote data store or object storage.
// It is never retried automatically.
type RemoteError struct {
	Op   string
	Kind RemoteKind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func NewRemoteError(op string, kind RemoteKind, err error) *RemoteError {
	return &RemoteError{Op: op, Kind: kind, Err: err}
}

// ValidationError rejects malformed input before any remote call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced entity that is absent, e.g. after a stale view.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// SyncError is returned by session actions whose remote write failed. Pending carries the
// user's input so it can be resubmitted.
type SyncError struct {
	Action  string
	Pending any
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Action, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func NewSyncError(action string, pending any, err error) *SyncError {
	return &SyncError{Action: action, Pending: pending, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func IsSync(err error) bool {
	var se *SyncError
	return errors.As(err, &se)
}
