package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// SessionCookies attaches, reads and clears the session cookie.
type SessionCookies struct {
	maxAge      time.Duration
	forceSecure bool
}

// NewSessionCookies creates a cookie manager. maxAge should match the token
// lifetime; forceSecure sets the Secure flag even on plain HTTP requests.
func NewSessionCookies(maxAge time.Duration, forceSecure bool) *SessionCookies {
	return &SessionCookies{maxAge: maxAge, forceSecure: forceSecure}
}

// Set writes the token cookie on the response.
func (m *SessionCookies) Set(c echo.Context, token string) {
	c.SetCookie(m.cookie(c, token, int(m.maxAge.Seconds()), time.Now().Add(m.maxAge)))
}

// Get reads the token cookie. A missing or empty cookie reports false.
func (m *SessionCookies) Get(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear expires the token cookie immediately.
func (m *SessionCookies) Clear(c echo.Context) {
	c.SetCookie(m.cookie(c, "", -1, time.Unix(0, 0)))
}

func (m *SessionCookies) cookie(c echo.Context, value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.forceSecure || c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	}
}
