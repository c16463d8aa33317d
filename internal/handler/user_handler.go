package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"authapi/internal/auth"
	apperrors "authapi/internal/errors"
	"authapi/internal/model"
	"authapi/internal/service"
)

// UserHandler bundles the user management handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest carries the fields to change. Absent fields are left alone.
type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email *string `json:"email" validate:"omitnil,email,max=255"`
	Role  *string `json:"role" validate:"omitnil,oneof=user admin"`
}

func (r *UpdateUserRequest) normalize() {
	for _, s := range []*string{r.Name, r.Email} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

func (r *UpdateUserRequest) toUpdate() model.UserUpdate {
	update := model.UserUpdate{Name: r.Name, Email: r.Email}
	if r.Role != nil {
		role := model.Role(*r.Role)
		update.Role = &role
	}
	return update
}

// UsersResponse is the body of the list endpoint.
type UsersResponse struct {
	Message string           `json:"message"`
	Users   []model.UserView `json:"users"`
	Count   int              `json:"count"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
}

// DeletedUserResponse wraps the identifiers of a removed user.
type DeletedUserResponse struct {
	Message string            `json:"message"`
	User    model.DeletedUser `json:"user"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} UsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UsersResponse{
		Message: "Users fetched successfully",
		Users:   users,
		Count:   len(users),
	})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "Validation failed")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "User fetched successfully", User: *user})
}

// UpdateUser godoc
// @Summary Update user
// @Description Users may update themselves; only admins may update others or change roles.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "Invalid user ID")
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req, "Validation failed"); err != nil {
		return err
	}
	update := req.toUpdate()
	if update.Empty() {
		return apperrors.Validation("Validation failed", []apperrors.FieldError{
			{Field: "body", Message: "at least one field must be provided"},
		})
	}

	actor, _ := auth.IdentityFrom(c)
	user, err := h.svc.UpdateUser(c.Request().Context(), actor, id, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "User updated successfully", User: *user})
}

// DeleteUser godoc
// @Summary Delete user
// @Description Users may delete themselves; admins may delete anyone but themselves.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} DeletedUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "Validation failed")
	if err != nil {
		return err
	}

	actor, _ := auth.IdentityFrom(c)
	deleted, err := h.svc.DeleteUser(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeletedUserResponse{Message: "User deleted successfully", User: *deleted})
}

func parseID(c echo.Context, title string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(title, []apperrors.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		})
	}
	return uint(id), nil
}
