package middleware

import (
	"github.com/labstack/echo/v4"

	"authapi/internal/auth"
	"authapi/internal/policy"
)

// RequireAdmin lets only admins through. It must run after RequireIdentity;
// a request without an identity is treated as a non-admin.
func RequireAdmin(p *policy.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := auth.IdentityFrom(c)
			if err := p.RequireAdmin(id); err != nil {
				return err
			}
			return next(c)
		}
	}
}
