package service

import (
	"errors"
	"fmt"

	"github.com/studyquest/gamification/internal/model"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrDependency   = errors.New("dependency failure")
)

var (
	ErrBossNotFound        = fmt.Errorf("boss %w", ErrNotFound)
	ErrAchievementNotFound = fmt.Errorf("achievement %w", ErrNotFound)
	ErrBossAlreadyDefeated = fmt.Errorf("boss already defeated: %w", ErrInvalidState)
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func requirementValidationError(a *model.Achievement, err error) error {
	var reqErr *model.RequirementError
	if errors.As(err, &reqErr) {
		field := "requirement"
		if reqErr.Field != "" {
			field = "requirement." + reqErr.Field
		}
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("of achievement %s: %s", a.AchievementID, reqErr.Reason),
		}
	}
	return &ValidationError{Field: "requirement", Reason: err.Error()}
}

// DependencyError wraps a persistence or cache failure.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependency
}

func dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	var depErr *DependencyError
	if errors.As(err, &depErr) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
