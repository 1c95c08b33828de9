package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/davrot/scribe/internal/credstore"
	"github.com/davrot/scribe/internal/docstore"
	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/internal/tokens"
	"github.com/davrot/scribe/pkg/middleware"
)

const testSecret = "handlers-test-secret-32-bytes-xx"

type testApp struct {
	g         *gin.Engine
	docs      *docstore.Store
	creds     *credstore.Store
	credsPath string
	sess      *sessions.Service
}

// newTestApp assembles the full HTTP surface over temp stores, the way
// main.go wires production.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	credsPath := filepath.Join(t.TempDir(), "users.yml")
	creds := credstore.New(credsPath)
	svc := sessions.NewService(sessions.NewMemoryRepository(), time.Hour)

	g := gin.New()
	LoadTemplates(g)
	g.Use(middleware.Session(svc, testSecret, time.Hour))
	gate := middleware.RequireSignedIn(svc)
	NewDocumentsHandler(docs, svc).Register(g, gate)
	NewUsersHandler(creds, svc).Register(g)

	return &testApp{g: g, docs: docs, creds: creds, credsPath: credsPath, sess: svc}
}

// seedUser writes a credential straight into the YAML file so short legacy
// passwords (pre-dating the sign-up rules) remain usable in tests.
func (a *testApp) seedUser(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	existing, loadErr := a.creds.Load()
	if loadErr != nil {
		existing = map[string]string{}
	}
	existing[username] = string(hash)
	b, err := yaml.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(a.credsPath, b, 0o600))
}

// adminCookie returns a cookie for a signed-in session, skipping the
// sign-in form the way the original tests pre-populated rack.session.
func (a *testApp) adminCookie(t *testing.T, username string) *http.Cookie {
	t.Helper()
	sess, err := a.sess.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.sess.SignIn(context.Background(), sess, username))
	raw, err := tokens.NewSessionToken(testSecret, sess.ID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: raw}
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	a.g.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	a.g.ServeHTTP(w, req)
	return w
}

// sessionFor resolves the server-side session behind a response's cookie.
func (a *testApp) sessionFor(t *testing.T, w *httptest.ResponseRecorder, sent ...*http.Cookie) *sessions.Session {
	t.Helper()
	var raw string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			raw = ck.Value
		}
	}
	if raw == "" {
		for _, ck := range sent {
			if ck.Name == middleware.CookieName {
				raw = ck.Value
			}
		}
	}
	require.NotEmpty(t, raw, "no session cookie present")
	sid, err := tokens.ParseSessionToken(testSecret, raw)
	require.NoError(t, err)
	sess, err := a.sess.Load(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	return sess
}
