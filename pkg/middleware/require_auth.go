package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davrot/scribe/internal/auth"
	"github.com/davrot/scribe/internal/sessions"
)

// RequireSignedIn gates mutating routes behind an authenticated session.
// Anonymous clients get the flash message and a redirect to the listing
// instead of the gated page.
func RequireSignedIn(svc *sessions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if err := auth.Require(sess); err != nil {
			if sess != nil {
				_ = svc.SetFlash(c.Request.Context(), sess, "You must be signed in to do that.")
			}
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
