// Package security decides whether a request may reach business logic.
//
// The Guard combines three checks in order: a shield against obvious
// injection and traversal payloads, a bot detector keyed on the User-Agent,
// and a role tiered fixed-window rate limit kept in redis.
package security

import "context"

// Reason explains a denial.
type Reason string

const (
	ReasonBot       Reason = "bot"
	ReasonShield    Reason = "shield"
	ReasonRateLimit Reason = "rate_limit"
)

// Tier is the rate limit tier of a caller.
type Tier string

const (
	TierAdmin Tier = "admin"
	TierUser  Tier = "user"
	TierGuest Tier = "guest"
)

// Decision is the outcome of a security check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// IsDenied reports whether the request must be blocked.
func (d Decision) IsDenied() bool {
	return !d.Allowed
}

// Allow is the decision for a request that passed every check.
var Allow = Decision{Allowed: true}

// Deny builds a denial with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Request is what the oracle sees of an incoming request.
type Request struct {
	IP        string
	UserAgent string
	Method    string
	Path      string
	RawQuery  string
	Tier      Tier
	// Subject identifies the caller for rate limiting; the IP is used when empty.
	Subject string
}

// Oracle decides whether a request may proceed.
type Oracle interface {
	Protect(ctx context.Context, req Request) (Decision, error)
}
