package cli

import (
	"errors"
	"fmt"

	"github.com/pkordes/itinerary/internal/domain"
)

const (
	ExitCodeSuccess  = 0
	ExitCodeGeneric  = 1
	ExitCodeUsage    = 2
	ExitCodeNotFound = 3
	ExitCodeIO       = 7
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitCodeUsage, Err: fmt.Errorf(format, args...)}
}

// mapCommandError attaches an exit code to a service error.
func mapCommandError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return &ExitError{Code: ExitCodeNotFound, Err: err}
	case errors.Is(err, domain.ErrValidation):
		return &ExitError{Code: ExitCodeUsage, Err: err}
	case errors.Is(err, domain.ErrStorage):
		return &ExitError{Code: ExitCodeIO, Err: err}
	default:
		return &ExitError{Code: ExitCodeGeneric, Err: err}
	}
}
