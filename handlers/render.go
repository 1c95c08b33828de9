package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/pkg/logger"
	"github.com/davrot/scribe/pkg/middleware"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// LoadTemplates installs the embedded HTML templates on the engine.
func LoadTemplates(r *gin.Engine) {
	tmpl := template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))
	r.SetHTMLTemplate(tmpl)
}

// render draws an HTML page, folding in the session's username and pending
// flash message. The flash is consumed here, so it appears on exactly one
// rendered page.
func render(c *gin.Context, svc *sessions.Service, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess := middleware.CurrentSession(c); sess != nil {
		data["Username"] = sess.Username
		flash, err := svc.TakeFlash(c.Request.Context(), sess)
		if err != nil {
			logger.Warnf("take flash: %v", err)
		}
		if flash != "" {
			data["Flash"] = flash
		}
	}
	c.HTML(status, tmpl, data)
}

// flashAndRedirect records a one-shot message and sends the client back to
// the document listing.
func flashAndRedirect(c *gin.Context, svc *sessions.Service, message, location string) {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := svc.SetFlash(c.Request.Context(), sess, message); err != nil {
			logger.Warnf("set flash: %v", err)
		}
	}
	c.Redirect(http.StatusFound, location)
}
