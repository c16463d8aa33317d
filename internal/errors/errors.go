package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an email is already taken by another user.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned by sign-in for any credential mismatch.
	// It always wraps ErrUnknownEmail or ErrInvalidPassword.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownEmail is the internal reason for a sign-in with an unregistered email.
	ErrUnknownEmail = errors.New("no user with this email")
	// ErrInvalidPassword is the internal reason for a sign-in with a wrong password.
	ErrInvalidPassword = errors.New("invalid password")
)

// Kind classifies request failures that are decided before or outside the store.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindUnauthenticated
	KindInvalidToken
	KindForbidden
	KindNotFound
	KindBadRequest
)

var kindStatus = map[Kind]int{
	KindInternal:           http.StatusInternalServerError,
	KindValidation:         http.StatusBadRequest,
	KindDuplicateEmail:     http.StatusConflict,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindInvalidToken:       http.StatusForbidden,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindBadRequest:         http.StatusBadRequest,
}

var kindCode = map[Kind]string{
	KindInternal:           "INTERNAL_ERROR",
	KindValidation:         "VALIDATION_ERROR",
	KindDuplicateEmail:     "DUPLICATE_EMAIL",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindUnauthenticated:    "UNAUTHENTICATED",
	KindInvalidToken:       "INVALID_TOKEN",
	KindForbidden:          "FORBIDDEN",
	KindNotFound:           "NOT_FOUND",
	KindBadRequest:         "BAD_REQUEST",
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Code returns the machine readable code for the kind.
func (k Kind) Code() string {
	if c, ok := kindCode[k]; ok {
		return c
	}
	return kindCode[KindInternal]
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure carrying the client-facing title and message.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// Validation builds a 400 carrying field level details.
func Validation(title string, details []FieldError) *Error {
	return &Error{Kind: KindValidation, Title: title, Details: details}
}

// Unauthenticated builds a 401 for requests without credentials.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Title: "Access denied", Message: message}
}

// InvalidToken builds a 403 for credentials that failed verification.
func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Title: "Forbidden", Message: message}
}

// Forbidden builds a 403 for an authorization denial.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Title: "Forbidden", Message: message}
}

// BadRequest builds a 400 for a semantic rule violation.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Title: "Bad request", Message: message}
}

// Internal builds a 500 whose title and message are safe to show clients.
func Internal(title, message string) *Error {
	return &Error{Kind: KindInternal, Title: title, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Detail     string
	Details    []FieldError
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Message: e.Detail,
		Details: e.Details,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// becomes a generic 500 that reveals nothing about the cause.
func MapErrorToHTTP(err error) *HTTPError {
	var classified *Error
	if errors.As(err, &classified) {
		return &HTTPError{
			StatusCode: classified.Kind.Status(),
			Message:    classified.Title,
			Detail:     classified.Message,
			Details:    classified.Details,
			Code:       classified.Kind.Code(),
		}
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials", KindInvalidCredentials.Code())
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, "Email already exists", KindDuplicateEmail.Code())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", KindNotFound.Code())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", KindInternal.Code())
	}
}
