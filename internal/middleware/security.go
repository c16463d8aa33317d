package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	apperrors "authapi/internal/errors"
	"authapi/internal/metrics"
	"authapi/internal/security"
)

var denialMessages = map[security.Reason]string{
	security.ReasonBot:       "Bot requests are not allowed.",
	security.ReasonShield:    "Request blocked by security policy.",
	security.ReasonRateLimit: "Too many requests.",
}

// Security consults the oracle before the handler runs. Authenticated
// callers are limited per user in their role's tier, everyone else per IP
// in the guest tier.
func Security(oracle security.Oracle, log logrus.FieldLogger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sreq := security.Request{
				IP:        c.RealIP(),
				UserAgent: req.UserAgent(),
				Method:    req.Method,
				Path:      req.URL.Path,
				RawQuery:  req.URL.RawQuery,
				Tier:      security.TierGuest,
			}
			if id, ok := auth.IdentityFrom(c); ok {
				sreq.Tier = security.Tier(id.Role)
				sreq.Subject = fmt.Sprintf("user:%d", id.UserID)
			}

			decision, err := oracle.Protect(req.Context(), sreq)
			if err != nil {
				log.WithError(err).Error("Security middleware error")
				m.SecurityDecision("error")
				return apperrors.Internal("Internal Server Error", "Something went wrong with the security middleware.")
			}

			if decision.IsDenied() {
				msg, ok := denialMessages[decision.Reason]
				if !ok {
					msg = "Request blocked by security policy."
				}
				log.WithFields(logrus.Fields{
					"reason":    decision.Reason,
					"ip":        sreq.IP,
					"userAgent": sreq.UserAgent,
					"path":      sreq.Path,
				}).Warn("Request blocked")
				m.SecurityDecision(string(decision.Reason))
				return apperrors.Forbidden(msg)
			}

			m.SecurityDecision("allowed")
			return next(c)
		}
	}
}
