// Package middleware holds the echo middleware guarding the user routes.
package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	apperrors "authapi/internal/errors"
	"authapi/internal/metrics"
)

// authFailureKey holds the rejection recorded by Identify.
const authFailureKey = "auth_failure"

// Identify verifies the session cookie and attaches the identity to the
// request context under auth.IdentityContextKey. A request that fails
// verification still proceeds; the rejection is recorded for
// RequireIdentity so that middleware in between can see unauthenticated
// callers.
func Identify(tokens *auth.JWTService, cookies *auth.SessionCookies, log logrus.FieldLogger, m *metrics.Metrics) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:            "cookie:" + auth.CookieName,
		ContextKey:             auth.IdentityContextKey,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.Verify(token)
			if err != nil {
				return nil, err
			}
			return claims.Identity, nil
		},
		SuccessHandler: func(c echo.Context) {
			id, _ := auth.IdentityFrom(c)
			log.WithFields(logrus.Fields{
				"user_id": id.UserID,
				"email":   id.Email,
				"role":    id.Role,
			}).Info("User authenticated")
			m.AuthEvent("token", "valid")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, ok := cookies.Get(c); !ok {
				m.AuthEvent("token", "missing")
				c.Set(authFailureKey, apperrors.Unauthenticated("No token provided"))
				return nil
			}
			log.WithError(err).WithField("path", c.Request().URL.Path).Warn("Token verification failed")
			m.AuthEvent("token", "invalid")
			c.Set(authFailureKey, apperrors.InvalidToken("Invalid or expired token"))
			return nil
		},
	})
}

// RequireIdentity rejects requests Identify could not authenticate: 401
// without a cookie, 403 for a cookie that failed verification.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if failure, ok := c.Get(authFailureKey).(*apperrors.Error); ok {
				return failure
			}
			if _, ok := auth.IdentityFrom(c); !ok {
				return apperrors.Unauthenticated("No token provided")
			}
			return next(c)
		}
	}
}

// Authenticate is Identify followed directly by RequireIdentity.
func Authenticate(tokens *auth.JWTService, cookies *auth.SessionCookies, log logrus.FieldLogger, m *metrics.Metrics) echo.MiddlewareFunc {
	identify := Identify(tokens, cookies, log, m)
	require := RequireIdentity()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return identify(require(next))
	}
}
