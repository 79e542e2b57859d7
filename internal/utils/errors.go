package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL"
)

// Error kinds surfaced by the profile workflow. Match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateHandle = errors.New("duplicate handle")
	ErrProfileNotFound = errors.New("profile not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrStore           = errors.New("store error")
)

// FieldErrors maps an input field to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f FieldErrors) Empty() bool { return len(f) == 0 }

// AppError is the unified error contract across layers.
type AppError struct {
	Code    Code
	Op      string // operation name, ex: "ProfileService.Upsert"
	Message string // safe message
	Fields  FieldErrors
	Err     error // wrapped error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

// Invalid builds a ValidationFailed error carrying per-field messages.
func Invalid(op string, fields FieldErrors) error {
	return &AppError{
		Code:    CodeInvalidArgument,
		Op:      op,
		Message: "validation failed",
		Fields:  fields,
		Err:     ErrValidation,
	}
}

// Store wraps an underlying store failure as StoreError, keeping the cause.
func Store(op, msg string, err error) error {
	return E(CodeInternal, op, msg, fmt.Errorf("%w: %w", ErrStore, err))
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// Kind names the workflow error kind of err, or "" when err is not one.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "ValidationFailed"
	case errors.Is(err, ErrDuplicateHandle):
		return "DuplicateHandle"
	case errors.Is(err, ErrProfileNotFound):
		return "ProfileNotFound"
	case errors.Is(err, ErrRecordNotFound):
		return "RecordNotFound"
	case errors.Is(err, ErrStore):
		return "StoreError"
	default:
		return ""
	}
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		case CodeTimeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusInternalServerError
		}
	}
	// fallback
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
