package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCookieContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestSessionCookies_Set(t *testing.T) {
	m := NewSessionCookies(24*time.Hour, false)
	c, rec := newCookieContext(httptest.NewRequest(http.MethodPost, "/sign-in", nil))

	m.Set(c, "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 86400, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
}

func TestSessionCookies_SecureOverTLS(t *testing.T) {
	m := NewSessionCookies(time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
	req.Header.Set(echo.HeaderXForwardedProto, "https")
	c, rec := newCookieContext(req)

	m.Set(c, "tok")

	require.Len(t, rec.Result().Cookies(), 1)
	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestSessionCookies_ForceSecure(t *testing.T) {
	m := NewSessionCookies(time.Hour, true)
	c, rec := newCookieContext(httptest.NewRequest(http.MethodPost, "/sign-in", nil))

	m.Set(c, "tok")

	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestSessionCookies_Get(t *testing.T) {
	m := NewSessionCookies(time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	c, _ := newCookieContext(req)
	token, ok := m.Get(c)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	c, _ = newCookieContext(httptest.NewRequest(http.MethodGet, "/users", nil))
	_, ok = m.Get(c)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
	c, _ = newCookieContext(req)
	_, ok = m.Get(c)
	assert.False(t, ok)
}

func TestSessionCookies_Clear(t *testing.T) {
	m := NewSessionCookies(time.Hour, false)
	c, rec := newCookieContext(httptest.NewRequest(http.MethodPost, "/sign-out", nil))

	m.Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}
