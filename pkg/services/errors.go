package services

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the step of the submission pipeline that failed.
type Stage string

const (
	StageNone         Stage = ""
	StageValidation   Stage = "validation"
	StageNotification Stage = "notification"
	StageRepository   Stage = "repository"
	StageUnknown      Stage = "unknown"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrInvalidName   = errors.New("full name has no letter or digit usable in a branch name")
)

// ValidationError is a rejected form submission. The user can fix it and retry.
type ValidationError struct {
	Err    error
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotifyError is a failure to deliver the administrator notification.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return "notification failed: " + e.Err.Error()
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// UpdateErrorKind classifies repository update failures.
type UpdateErrorKind int

const (
	// UpdateRemote is any hosting service failure not covered below.
	UpdateRemote UpdateErrorKind = iota
	// UpdateBlockNotFound means the tracked file has no usable tags block.
	UpdateBlockNotFound
	// UpdateConflict means the file changed between read and commit.
	UpdateConflict
)

func (k UpdateErrorKind) String() string {
	switch k {
	case UpdateBlockNotFound:
		return "block_not_found"
	case UpdateConflict:
		return "conflict"
	default:
		return "remote"
	}
}

// UpdateError is a failure of the repository update step.
type UpdateError struct {
	Kind   UpdateErrorKind
	Op     string
	Branch string
	Err    error
}

func (e *UpdateError) Error() string {
	msg := fmt.Sprintf("repository update (%s) failed during %s", e.Kind, e.Op)
	if e.Branch != "" {
		msg += " on " + e.Branch
	}
	return msg + ": " + e.Err.Error()
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// IsUpdateKind reports whether err is an UpdateError of the given kind.
func IsUpdateKind(err error, kind UpdateErrorKind) bool {
	var updateErr *UpdateError
	return errors.As(err, &updateErr) && updateErr.Kind == kind
}
