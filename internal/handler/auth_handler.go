package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	"authapi/internal/metrics"
	"authapi/internal/model"
	"authapi/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     *auth.SessionCookies
	log         logrus.FieldLogger
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies *auth.SessionCookies, log logrus.FieldLogger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log, metrics: m}
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (r *SignUpRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// SignInRequest represents a user login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *SignInRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse represents an authentication response. The token itself
// travels in the session cookie.
type AuthResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// SignUp godoc
// @Summary Register a new user
// @Description Creates the account and signs it in by setting the token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := bindAndValidate(c, &req, "Validation failed"); err != nil {
		return err
	}

	session, err := h.authService.SignUp(c.Request().Context(), req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Token)
	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    session.User,
	})
}

// SignIn godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := bindAndValidate(c, &req, "Validation failed"); err != nil {
		return err
	}

	session, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Token)
	return c.JSON(http.StatusOK, AuthResponse{
		Message: "User signed in successfully",
		User:    session.User,
	})
}

// SignOut godoc
// @Summary Sign out
// @Description Clears the token cookie. Tokens are stateless, so nothing is revoked server side.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	h.cookies.Clear(c)
	h.metrics.AuthEvent("sign_out", "success")
	h.log.Info("User signed out successfully")
	return c.JSON(http.StatusOK, MessageResponse{Message: "User signed out successfully"})
}
