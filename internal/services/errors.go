package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by the services that is not a raw
// persistence failure wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrUserExists         = newError(ErrConflict, "User already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials")
	ErrWrongPassword      = newError(ErrUnauthorized, "Old password is incorrect")
	ErrAccountDisabled    = newError(ErrForbidden, "Account disabled")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrUserNotDisablable  = newError(ErrNotFound, "User not found or already disabled")
	ErrNothingToUpdate    = newError(ErrValidation, "Nothing to update")

	ErrScheduleNotFound   = newError(ErrNotFound, "Schedule not found")
	ErrNoPendingSchedule  = newError(ErrNotFound, "No pending schedule found")
	ErrOutsideCheckInTime = newError(ErrValidation, "Cannot check in outside the scheduled time window")

	// ErrScheduleExists is a unique (email, date) violation. It carries no
	// kind and is reported as an internal failure.
	ErrScheduleExists = errors.New("schedule already exists for this email and date")
)

// kindError is a client-facing message classified under one error kind
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// StatusMismatchError reports a check-in attempted on a row that is not in
// the work status.
type StatusMismatchError struct {
	Current string
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("Cannot check in, current status: %s", e.Current)
}

func (e *StatusMismatchError) Unwrap() error {
	return ErrValidation
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// isDuplicateKey recognizes unique constraint violations. gorm translates
// them when TranslateError is on; the string match covers handles opened
// without it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
