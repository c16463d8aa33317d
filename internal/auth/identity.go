package auth

import (
	"github.com/labstack/echo/v4"

	"authapi/internal/model"
)

// IdentityContextKey is where the authentication gate stores the verified identity.
const IdentityContextKey = "identity"

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID uint       `json:"id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// IdentityFrom returns the identity attached to the request, if any.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(IdentityContextKey).(Identity)
	return id, ok
}
