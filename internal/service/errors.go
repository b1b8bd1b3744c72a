package service

import (
	"errors"
	"fmt"

	"gymtracker/gym-api/internal/repository"
)

// Base categories. The api layer maps them to HTTP statuses with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("access forbidden")
	// ErrUnavailable marks an optional integration that is not configured.
	ErrUnavailable = errors.New("service unavailable")
)

// categoryError is a sentinel with its own message that also matches its category.
type categoryError struct {
	msg      string
	category error
}

func (e *categoryError) Error() string { return e.msg }
func (e *categoryError) Unwrap() error { return e.category }

func validationError(msg string) error { return &categoryError{msg: msg, category: ErrValidation} }
func notFoundError(msg string) error   { return &categoryError{msg: msg, category: ErrNotFound} }

// invalidf reports a one-off validation failure.
func invalidf(format string, args ...any) error {
	return validationError(fmt.Sprintf(format, args...))
}

var (
	ErrNoChanges               = validationError("no changes made")
	ErrInvalidStatusTransition = validationError("invalid session status transition")
	ErrInvalidDateRange        = validationError("end date must not be before start date")
	ErrInvalidRole             = validationError("invalid role")
	ErrIncorrectPassword       = validationError("current password is incorrect")
	ErrEmailTaken              = validationError("email already registered")
	ErrInvalidReference        = validationError("referenced record does not exist")

	ErrUserNotFound        = notFoundError("user not found")
	ErrSessionNotFound     = notFoundError("session not found")
	ErrMembershipNotFound  = notFoundError("membership not found")
	ErrWorkoutPlanNotFound = notFoundError("workout plan not found")
	ErrExerciseNotFound    = notFoundError("exercise not found")
	ErrReviewNotFound      = notFoundError("review not found")

	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrStorageUnavailable   = &categoryError{msg: "file storage is not configured", category: ErrUnavailable}
)

// forbidden wraps ErrForbidden with the reason shown to the caller.
func forbidden(reason string) error {
	return &categoryError{msg: reason, category: ErrForbidden}
}

var errOutOfRange = validationError("value is out of the allowed range")

// mapRepoErr translates repository sentinels into service errors. notFound is
// returned for repository.ErrNotFound.
func mapRepoErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrInvalidReference
	case errors.Is(err, repository.ErrInvalidValue):
		return errOutOfRange
	}
	return err
}
