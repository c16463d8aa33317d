package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorResponse
	}{
		{
			name:       "unknown email is unified",
			err:        fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrUnknownEmail),
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrorResponse{Error: "Invalid credentials", Code: "INVALID_CREDENTIALS"},
		},
		{
			name:       "wrong password is unified",
			err:        fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrInvalidPassword),
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrorResponse{Error: "Invalid credentials", Code: "INVALID_CREDENTIALS"},
		},
		{
			name:       "duplicate email",
			err:        fmt.Errorf("create user: %w", ErrDuplicateEmail),
			wantStatus: http.StatusConflict,
			wantBody:   ErrorResponse{Error: "Email already exists", Code: "DUPLICATE_EMAIL"},
		},
		{
			name:       "not found",
			err:        ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorResponse{Error: "User not found", Code: "NOT_FOUND"},
		},
		{
			name:       "forbidden",
			err:        Forbidden("Admin access required"),
			wantStatus: http.StatusForbidden,
			wantBody:   ErrorResponse{Error: "Forbidden", Message: "Admin access required", Code: "FORBIDDEN"},
		},
		{
			name:       "bad request",
			err:        BadRequest("Admins cannot delete their own account"),
			wantStatus: http.StatusBadRequest,
			wantBody:   ErrorResponse{Error: "Bad request", Message: "Admins cannot delete their own account", Code: "BAD_REQUEST"},
		},
		{
			name:       "unauthenticated",
			err:        Unauthenticated("No token provided"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrorResponse{Error: "Access denied", Message: "No token provided", Code: "UNAUTHENTICATED"},
		},
		{
			name:       "invalid token",
			err:        InvalidToken("Invalid or expired token"),
			wantStatus: http.StatusForbidden,
			wantBody:   ErrorResponse{Error: "Forbidden", Message: "Invalid or expired token", Code: "INVALID_TOKEN"},
		},
		{
			name:       "validation keeps details",
			err:        Validation("Validation failed", []FieldError{{Field: "email", Message: "must be a valid email"}}),
			wantStatus: http.StatusBadRequest,
			wantBody: ErrorResponse{
				Error:   "Validation failed",
				Details: []FieldError{{Field: "email", Message: "must be a valid email"}},
				Code:    "VALIDATION_ERROR",
			},
		},
		{
			name:       "internal with safe message",
			err:        Internal("Internal Server Error", "Something went wrong with the security middleware."),
			wantStatus: http.StatusInternalServerError,
			wantBody: ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Something went wrong with the security middleware.",
				Code:    "INTERNAL_ERROR",
			},
		},
		{
			name:       "unrecognized is internal",
			err:        errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantBody, httpErr.ToErrorResponse())
		})
	}
}

func TestKind_UnknownDefaultsToInternal(t *testing.T) {
	k := Kind(200)
	assert.Equal(t, http.StatusInternalServerError, k.Status())
	assert.Equal(t, "INTERNAL_ERROR", k.Code())
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "Forbidden: Admin access required", Forbidden("Admin access required").Error())
	assert.Equal(t, "Validation failed", Validation("Validation failed", nil).Error())
}
