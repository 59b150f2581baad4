package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/petalbook/internal/config"
)

// CookieName is the refresh-token cookie. The access token travels in the
// Authorization header; only the refresh token lives in a cookie.
const CookieName = "refreshToken"

// Manager manages the refresh-token cookie: http-only, same-site strict,
// path "/", secure in production.
type Manager struct {
	cookieName string
	secure     bool
	maxAge     time.Duration
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: CookieName,
		secure:     cfg.AuthCookieSecure,
		maxAge:     cfg.JWTRefreshTTL,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

func (m *Manager) Set(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.cookieName, value, int(m.maxAge.Seconds()), "/", "", m.secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
