package errors

import (
	stderrors "errors"
	"fmt"

	"gosilver/domain/core"
)

// AppError is an error carrying a stable code for the command line layer.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of the closest
// AppError in the chain is kept; otherwise it is derived from domain errors.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    Classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps err under the given code.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the first AppError in the chain, or "UNKNOWN".
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Classify picks a code for err: an existing AppError code wins, then the
// domain error family, then CodeInternalError.
func Classify(err error) string {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr.Code
	case core.IsInputFileError(err),
		stderrors.Is(err, core.ErrInvalidFoldChange),
		stderrors.Is(err, core.ErrInvalidNoise),
		stderrors.Is(err, core.ErrUnknownCriterion),
		stderrors.Is(err, core.ErrInvalidSampleCount),
		core.IsIndexError(err):
		return CodeInvalidInput
	case stderrors.Is(err, core.ErrMismatchedProfile),
		stderrors.Is(err, core.ErrLengthMismatch),
		stderrors.Is(err, core.ErrDuplicateSample):
		return CodeSimulationFailed
	case core.IsNotFound(err):
		return CodeNotFound
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeIOError          = "IO_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeSimulationFailed = "SIMULATION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("cannot access %s", path),
		Cause:   cause,
	}
}

func SimulationFailed(stage string, cause error) *AppError {
	return &AppError{
		Code:    CodeSimulationFailed,
		Message: fmt.Sprintf("simulation failed while %s", stage),
		Cause:   cause,
	}
}
