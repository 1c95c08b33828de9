package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/internal/tokens"
	"github.com/davrot/scribe/pkg/logger"
)

// CookieName is the session cookie issued to every client.
const CookieName = "cms_session"

// SessionKey is the gin context key holding the *sessions.Session.
const SessionKey = "session"

// Session resolves the client's session from the signed cookie and stores
// it in the gin context. Missing, invalid, or expired cookies get a fresh
// anonymous session and a new cookie.
func Session(svc *sessions.Service, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *sessions.Session
		if raw, err := c.Cookie(CookieName); err == nil {
			if sid, err := tokens.ParseSessionToken(secret, raw); err == nil {
				s, err := svc.Load(ctx, sid)
				if err != nil {
					logger.Warnf("session load failed: %v", err)
				}
				sess = s
			}
		}

		if sess == nil {
			s, err := svc.Begin(ctx)
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			raw, err := tokens.NewSessionToken(secret, s.ID, ttl)
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, raw, int(ttl/time.Second), "/", "", false, true)
			sess = s
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session placed in the context by Session.
func CurrentSession(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*sessions.Session); ok {
			return s
		}
	}
	return nil
}
