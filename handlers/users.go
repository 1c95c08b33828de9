package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davrot/scribe/internal/credstore"
	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/pkg/logger"
	"github.com/davrot/scribe/pkg/metrics"
	"github.com/davrot/scribe/pkg/middleware"
)

// UsersHandler serves sign-in, sign-out and sign-up.
type UsersHandler struct {
	creds       *credstore.Store
	sessionsSvc *sessions.Service
}

func NewUsersHandler(creds *credstore.Store, s *sessions.Service) *UsersHandler {
	return &UsersHandler{creds: creds, sessionsSvc: s}
}

// Register wires routes under /users.
func (h *UsersHandler) Register(r *gin.Engine) {
	u := r.Group("/users")
	u.GET("/signin", h.SignInForm)
	u.POST("/signin", h.SignIn)
	u.POST("/signout", h.SignOut)
	u.GET("/signup", h.SignUpForm)
	u.POST("/signup", h.SignUp)
}

func (h *UsersHandler) SignInForm(c *gin.Context) {
	render(c, h.sessionsSvc, http.StatusOK, "signin", gin.H{})
}

// SignIn verifies the submitted credentials. Unknown usernames and wrong
// passwords get the same answer.
func (h *UsersHandler) SignIn(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !h.creds.Verify(username, password) {
		metrics.SignIns.WithLabelValues("failure").Inc()
		render(c, h.sessionsSvc, http.StatusUnprocessableEntity, "signin", gin.H{
			"Error":         "Invalid credentials",
			"UsernameField": username,
		})
		return
	}

	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.String(http.StatusInternalServerError, "no session")
		return
	}
	if err := h.sessionsSvc.SignIn(c.Request.Context(), sess, username); err != nil {
		logger.Errorf("sign in %s: %v", username, err)
		c.String(http.StatusInternalServerError, "could not sign in")
		return
	}
	metrics.SignIns.WithLabelValues("success").Inc()
	flashAndRedirect(c, h.sessionsSvc, "Welcome!", "/")
}

func (h *UsersHandler) SignOut(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess != nil {
		if err := h.sessionsSvc.SignOut(c.Request.Context(), sess); err != nil {
			logger.Errorf("sign out: %v", err)
		}
	}
	flashAndRedirect(c, h.sessionsSvc, "You have been signed out.", "/")
}

func (h *UsersHandler) SignUpForm(c *gin.Context) {
	render(c, h.sessionsSvc, http.StatusOK, "signup", gin.H{})
}

// SignUp validates and adds a new credential, then sends the user to the
// sign-in form.
func (h *UsersHandler) SignUp(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if err := h.creds.Add(username, password); err != nil {
		msg := "Could not create the account."
		switch {
		case errors.Is(err, credstore.ErrUsernameTooShort):
			msg = "Username must be at least 3 characters."
		case errors.Is(err, credstore.ErrDuplicateUsername):
			msg = "Username is already taken."
		case errors.Is(err, credstore.ErrPasswordTooShort):
			msg = "Password must be at least 8 characters."
		default:
			logger.Errorf("sign up %s: %v", username, err)
		}
		render(c, h.sessionsSvc, http.StatusUnprocessableEntity, "signup", gin.H{
			"Error":         msg,
			"UsernameField": username,
		})
		return
	}

	flashAndRedirect(c, h.sessionsSvc, "Your account has been created. Please sign in.", "/users/signin")
}
