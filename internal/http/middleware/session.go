package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the browser cookie carrying the opaque session id.
const SessionCookieName = "wb_session"

// SessionID extracts the session id from the request cookie. Empty when the
// browser has no session.
func SessionID(c *gin.Context) string {
	sid, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return sid
}

// SetSessionCookie issues the session cookie for the given id and horizon.
func SetSessionCookie(c *gin.Context, sid string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
