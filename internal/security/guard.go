package security

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Guard is the Oracle used by the service.
type Guard struct {
	limiter *RateLimiter
	log     logrus.FieldLogger
}

var _ Oracle = (*Guard)(nil)

// NewGuard creates a Guard. A nil limiter disables rate limiting.
func NewGuard(limiter *RateLimiter, log logrus.FieldLogger) *Guard {
	return &Guard{limiter: limiter, log: log}
}

// Protect runs the shield, the bot detector and the rate limiter in order.
// Rate limiter outages fail open.
func (g *Guard) Protect(ctx context.Context, req Request) (Decision, error) {
	if IsAttack(req.Path, req.RawQuery) {
		return Deny(ReasonShield), nil
	}
	if IsBot(req.UserAgent) {
		return Deny(ReasonBot), nil
	}
	if g.limiter == nil {
		return Allow, nil
	}

	subject := req.Subject
	if subject == "" {
		subject = req.IP
	}
	tier := req.Tier
	if tier == "" {
		tier = TierGuest
	}

	ok, err := g.limiter.Allow(ctx, tier, subject)
	if err != nil {
		g.log.WithError(err).Warn("Rate limiter unavailable, allowing request")
	}
	if !ok {
		return Deny(ReasonRateLimit), nil
	}
	return Allow, nil
}
