// Package errors provides centralized error definitions and error handling utilities
// for the Quorix client. It defines sentinel errors for the failure classes the
// backend can produce, typed errors that carry request context, and the
// classification helpers the dashboards use to pick what to display.
//
// # Error Types
//
// Transport and protocol errors:
//   - APIError: a non-success HTTP response, carrying status and the body's
//     "error" field when present
//   - NetworkError: the request never produced a response
//
// Semantic errors:
//   - ValidationError: input rejected before any request was made
//
// # Usage
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrUnauthorized) { ... }
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) { ... }
//
// Choosing a message for the view:
//
//	msg := errors.UserMessage(err, "Failed to load questions.")
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors the next poll tick may clear
//   - UserFacing: errors whose message is safe to render inline
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Transport and protocol sentinel errors
var (
	// ErrNetwork indicates that a request failed before a response arrived.
	ErrNetwork = New("network error")
	// ErrUnauthorized indicates an HTTP 401 from the backend.
	ErrUnauthorized = New("unauthorized")
	// ErrForbidden indicates an HTTP 403 from the backend.
	ErrForbidden = New("forbidden")
	// ErrNotFound indicates an HTTP 404 from the backend.
	ErrNotFound = New("not found")
	// ErrRateLimited indicates an HTTP 429 from the backend or the local limiter.
	ErrRateLimited = New("rate limit exceeded")
	// ErrServer indicates an HTTP 5xx from the backend.
	ErrServer = New("server error")
	// ErrDecode indicates that a response body was not the expected JSON.
	ErrDecode = New("malformed response")
)

// Client-side sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotAuthenticated indicates that no stored session exists.
	ErrNotAuthenticated = New("not logged in")
	// ErrNotModerator indicates the identity holds no moderator role for the event.
	ErrNotModerator = New("not a moderator for this event")
	// ErrOrganizerExists indicates the event already has an organizer.
	ErrOrganizerExists = New("event already has an organizer")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// QuorixError is the base interface for all typed errors in this package.
type QuorixError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

func (e *baseError) userMessage() string { return e.message }

// -----------------------------------------------------------------------------
// Transport Errors
// -----------------------------------------------------------------------------

// APIError represents a non-success HTTP response.
//
// Example:
//
//	err := errors.NewAPIError(http.StatusBadRequest, "Missing fields").
//		WithEndpoint("POST", "/questions")
//	fmt.Println(err) // "api error [POST /questions, status=400]: Missing fields"
type APIError struct {
	baseError
	Status int
	Method string
	Path   string
	// ServerMessage is the body's "error" field; empty when the body had none.
	ServerMessage string
}

// NewAPIError creates an APIError for the given status. serverMessage is the
// decoded "error" field of the response body and may be empty.
func NewAPIError(status int, serverMessage string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{
		baseError: baseError{
			message:    msg,
			cause:      sentinelForStatus(status),
			severity:   severityForStatus(status),
			retryable:  status == http.StatusTooManyRequests || status >= 500,
			userFacing: serverMessage != "",
		},
		Status:        status,
		ServerMessage: serverMessage,
	}
}

// WithEndpoint records the request that produced the error.
func (e *APIError) WithEndpoint(method, path string) *APIError {
	e.Method = method
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *APIError) Error() string {
	var parts []string
	if e.Method != "" || e.Path != "" {
		parts = append(parts, strings.TrimSpace(e.Method+" "+e.Path))
	}
	parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	return fmt.Sprintf("api error [%s]: %s", strings.Join(parts, ", "), e.message)
}

// Is matches *APIError targets and the status sentinel.
func (e *APIError) Is(target error) bool {
	if _, ok := target.(*APIError); ok {
		return true
	}
	return e.cause != nil && target == e.cause
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return nil
	}
}

func severityForStatus(status int) Severity {
	switch {
	case status >= 500:
		return SeverityError
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// NetworkError represents a request that never produced a response.
type NetworkError struct {
	baseError
	Method string
	Path   string
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(method, path string, cause error) *NetworkError {
	return &NetworkError{
		baseError: baseError{
			message:   "request failed",
			cause:     cause,
			severity:  SeverityWarning,
			retryable: true,
		},
		Method: method,
		Path:   path,
	}
}

// Error returns the formatted error message.
func (e *NetworkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("network error [%s %s]: %v", e.Method, e.Path, e.cause)
	}
	return fmt.Sprintf("network error [%s %s]", e.Method, e.Path)
}

// Is matches ErrNetwork, *NetworkError targets and the wrapped cause.
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	if _, ok := target.(*NetworkError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents input rejected before any request was made.
// Its message is written for the user and rendered verbatim.
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityInfo,
			userFacing: true,
		},
	}
}

// WithField records which input failed.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithCause attaches an underlying sentinel.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the user-facing message.
func (e *ValidationError) Error() string {
	return e.message
}

// Is matches ErrInvalidInput, *ValidationError targets and the cause.
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUnauthorized reports whether err is an HTTP 401. Moderator views treat
// this as terminal and switch to the "Unauthorized" display.
func IsUnauthorized(err error) bool {
	return err != nil && Is(err, ErrUnauthorized)
}

// IsNetwork reports whether err never reached the backend.
func IsNetwork(err error) bool {
	return err != nil && Is(err, ErrNetwork)
}

// IsRetryable returns true if the error represents a transient condition
// that the next poll tick may clear.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var qErr QuorixError
	if As(err, &qErr) {
		return qErr.IsRetryable()
	}

	return Is(err, ErrNetwork) || Is(err, ErrRateLimited)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var qErr QuorixError
	if As(err, &qErr) {
		return qErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement QuorixError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var qErr QuorixError
	if As(err, &qErr) {
		return qErr.Severity()
	}
	return SeverityError
}

// deniedMessages are the texts views render for client-side refusals.
var deniedMessages = map[error]string{
	ErrNotModerator:    "Access denied: You are not a moderator for this event.",
	ErrOrganizerExists: "There is already an organizer for this event.",
}

// UserMessage picks the string a view renders for err.
//
//   - a client-side refusal (ErrNotModerator, ErrOrganizerExists) renders
//     its fixed text
//   - a user-facing error renders its own message: a ValidationError, or an
//     APIError whose body had an "error" field
//   - anything else renders fallback
//
// Network failures render fallback as well; callers that want a distinct
// network message check IsNetwork first.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	for sentinel, msg := range deniedMessages {
		if Is(err, sentinel) {
			return msg
		}
	}
	if IsUserFacing(err) {
		var m interface{ userMessage() string }
		if As(err, &m) {
			return m.userMessage()
		}
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
