package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSourceUnavailable     ErrorType = "SOURCE_UNAVAILABLE"
	ErrTypeLayoutMismatch        ErrorType = "LAYOUT_MISMATCH"
	ErrTypeUnresolvedMarkerGroup ErrorType = "UNRESOLVED_MARKER_GROUP"
	ErrTypeTimeout               ErrorType = "TIMEOUT"
	ErrTypeStorage               ErrorType = "STORAGE"
	ErrTypeConfig                ErrorType = "CONFIG"
	ErrTypeValidation            ErrorType = "VALIDATION"
)

// Sentinels for errors.Is. Any AppError of the same Type matches.
var (
	ErrSourceUnavailable     = &AppError{Type: ErrTypeSourceUnavailable}
	ErrLayoutMismatch        = &AppError{Type: ErrTypeLayoutMismatch}
	ErrUnresolvedMarkerGroup = &AppError{Type: ErrTypeUnresolvedMarkerGroup}
	ErrTimeout               = &AppError{Type: ErrTypeTimeout}
	ErrStorage               = &AppError{Type: ErrTypeStorage}
	ErrConfig                = &AppError{Type: ErrTypeConfig}
	ErrValidation            = &AppError{Type: ErrTypeValidation}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSourceUnavailable reports a trial or source that cannot be found or opened.
func NewSourceUnavailable(source string, cause error) *AppError {
	return NewAppError(ErrTypeSourceUnavailable, fmt.Sprintf("source %q unavailable", source), cause).
		WithContext("source", source)
}

// NewLayoutMismatch reports a table or trial whose shape breaks the layout convention.
func NewLayoutMismatch(message string) *AppError {
	return NewAppError(ErrTypeLayoutMismatch, message, nil)
}

// NewUnresolvedMarkerGroup reports a landmark whose channel labels are not all present.
func NewUnresolvedMarkerGroup(group string, missing []string) *AppError {
	msg := fmt.Sprintf("marker group %q unresolved", group)
	if len(missing) > 0 {
		msg = fmt.Sprintf("%s: missing %s", msg, strings.Join(missing, ", "))
	}
	return NewAppError(ErrTypeUnresolvedMarkerGroup, msg, nil).
		WithContext("group", group).
		WithContext("missing", missing)
}

// NewTimeout reports a trial that exceeded its wall-clock budget.
func NewTimeout(message string, cause error) *AppError {
	return NewAppError(ErrTypeTimeout, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// TrialError attaches trial identity to a failure.
type TrialError struct {
	Trial string
	Err   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %q: %v", e.Trial, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}

// WrapTrial returns err annotated with the trial name, or nil.
func WrapTrial(trial string, err error) error {
	if err == nil {
		return nil
	}
	var te *TrialError
	if errors.As(err, &te) && te.Trial == trial {
		return err
	}
	return &TrialError{Trial: trial, Err: err}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ""
}
