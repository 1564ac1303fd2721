// Package errors provides custom error types for the farmops dashboard.
//
// Each type carries enough context for the web layer to decide where the
// message is shown (page banner, modal, login redirect) and whether the
// failure is recoverable.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// SessionExpiredError indicates that the operator's API session is no longer
// accepted and a fresh login is required.
//
// This error is returned when:
//   - The API answers 401 Unauthorized
//   - The bearer token has been revoked
//
// Recovery strategy: Clear the dashboard session and redirect to /login
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %s", e.Message)
}

// NewSessionExpiredError creates a new session expired error with context
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{Message: msg}
}

// LoginFailedError indicates that a login attempt failed.
//
// This error is returned when:
//   - Credentials are rejected by the auth service
//   - The auth service is unreachable
//   - The login response carries no access token
type LoginFailedError struct {
	Message string
	Err     error
}

func (e *LoginFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("login failed: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *LoginFailedError) Unwrap() error {
	return e.Err
}

// NewLoginFailedError creates a new login failed error with context
func NewLoginFailedError(msg string, err error) *LoginFailedError {
	return &LoginFailedError{Message: msg, Err: err}
}

// FetchError wraps transport failures that occur before the API produced a
// usable response (DNS, connection refused, timeouts, unreadable bodies).
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("fetch error: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error with context
func NewFetchError(msg string, err error) *FetchError {
	return &FetchError{Message: msg, Err: err}
}

// APIError is a non-2xx answer from the platform API.
//
// Message holds the server supplied "message" field when present so the
// operator sees the backend's own wording.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request to %s failed with status %d", e.Path, e.Status)
}

// NewAPIError creates a new API error
func NewAPIError(status int, path, msg string) *APIError {
	return &APIError{Status: status, Path: path, Message: msg}
}

// ShapeError reports a 2xx payload that does not carry the expected shape,
// for example a list response without its collection key.
type ShapeError struct {
	Path     string
	Expected string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape from %s: missing %q", e.Path, e.Expected)
}

// NewShapeError creates a new shape error
func NewShapeError(path, expected string) *ShapeError {
	return &ShapeError{Path: path, Expected: expected}
}

// ValidationError is a local input error raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error for field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// RendererUnavailableError means the statement could not be handed to a
// document renderer at all (no browser could be started). Nothing was
// produced and nothing is left open.
type RendererUnavailableError struct {
	Err error
}

func (e *RendererUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statement renderer unavailable: %v", e.Err)
	}
	return "statement renderer unavailable"
}

// Unwrap returns the wrapped error for error chain inspection
func (e *RendererUnavailableError) Unwrap() error {
	return e.Err
}

// NewRendererUnavailableError creates a new renderer error
func NewRendererUnavailableError(err error) *RendererUnavailableError {
	return &RendererUnavailableError{Err: err}
}

// IsLoginFailed checks if the error is a login failure error
func IsLoginFailed(err error) bool {
	var target *LoginFailedError
	return stderrors.As(err, &target)
}

// IsSessionExpired checks if the error chain contains a session expired error
func IsSessionExpired(err error) bool {
	var target *SessionExpiredError
	return stderrors.As(err, &target)
}

// IsValidation checks if the error chain contains a validation error
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsShape checks if the error chain contains a shape error
func IsShape(err error) bool {
	var target *ShapeError
	return stderrors.As(err, &target)
}

// IsRendererUnavailable checks if the error chain contains a renderer error
func IsRendererUnavailable(err error) bool {
	var target *RendererUnavailableError
	return stderrors.As(err, &target)
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	var target *APIError
	return stderrors.As(err, &target) && target.Status == 404
}

// Message converts err into the text shown to the operator: the error's own
// message, or fallback when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
