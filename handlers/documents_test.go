package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexListsDocuments(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("about.md", []byte("")))
	require.NoError(t, app.docs.Write("changes.txt", []byte("")))

	w := app.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "about.md")
	assert.Contains(t, w.Body.String(), "changes.txt")
}

func TestViewingTextDocument(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("history.txt", []byte("2018 - Ruby 2.6 released.")))

	w := app.get("/history.txt")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "2018 - Ruby 2.6 released.")
}

func TestViewingMarkdownDocument(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("about.md", []byte("# Ruby is...")))

	w := app.get("/about.md")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>Ruby is...</h1>")
}

func TestDocumentNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/notafile.ext")

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "notafile.ext does not exist.", sess.Flash)
}

func TestUnsupportedExtension(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("archive.zip", []byte("binary")))

	w := app.get("/archive.zip")

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "archive.zip cannot be displayed.", sess.Flash)
}

func TestFlashShownOnceOnNextPage(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/notafile.ext")
	require.Equal(t, http.StatusFound, w.Code)
	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "cms_session" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	w2 := app.get("/", cookie)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "notafile.ext does not exist.")

	w3 := app.get("/", cookie)
	require.Equal(t, http.StatusOK, w3.Code)
	assert.NotContains(t, w3.Body.String(), "notafile.ext does not exist.")
}

func TestEditingDocument(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("changes.txt", []byte("old content")))

	w := app.get("/changes.txt/edit", app.adminCookie(t, "admin"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Edit content of")
	assert.Contains(t, w.Body.String(), "<textarea")
	assert.Contains(t, w.Body.String(), `<button type="submit"`)
	assert.Contains(t, w.Body.String(), "old content")
}

func TestEditingDocumentSignedOut(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("changes.txt", []byte("")))

	w := app.get("/changes.txt/edit")

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "You must be signed in to do that.", sess.Flash)
}

func TestUpdatingDocument(t *testing.T) {
	app := newTestApp(t)
	cookie := app.adminCookie(t, "admin")

	// no prior write: updating an absent document creates it
	w := app.postForm("/changes.txt", url.Values{"content": {"This is some text!"}}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w, cookie)
	assert.Equal(t, "File was updated.", sess.Flash)
	assert.True(t, app.docs.Exists("changes.txt"))

	w2 := app.get("/changes.txt")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "This is some text!")
}

func TestUpdatingDocumentOverwritesExisting(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("changes.txt", []byte("old content")))
	cookie := app.adminCookie(t, "admin")

	w := app.postForm("/changes.txt", url.Values{"content": {"new content"}}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	d, err := app.docs.Read("changes.txt")
	require.NoError(t, err)
	assert.Equal(t, "new content", string(d.Content))
}

func TestUpdatingParentReferencingFilename(t *testing.T) {
	app := newTestApp(t)
	cookie := app.adminCookie(t, "admin")

	w := app.postForm("/..evil..txt", url.Values{"content": {"x"}}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w, cookie)
	assert.Equal(t, "..evil..txt does not exist.", sess.Flash)
	assert.False(t, app.docs.Exists("..evil..txt"))
}

func TestUpdatingDocumentSignedOut(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("changes.txt", []byte("keep me")))

	w := app.postForm("/changes.txt", url.Values{"content": {"overwritten"}})

	require.Equal(t, http.StatusFound, w.Code)
	d, err := app.docs.Read("changes.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(d.Content))
}

func TestViewNewDocumentForm(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/new", app.adminCookie(t, "admin"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<input")
	assert.Contains(t, w.Body.String(), `<button type="submit"`)
}

func TestViewNewDocumentFormSignedOut(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/new")

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "You must be signed in to do that.", sess.Flash)
}

func TestCreateNewDocumentWithoutFilename(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/create", url.Values{"filename": {""}}, app.adminCookie(t, "admin"))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "A name is required")
}

func TestCreateNewDocument(t *testing.T) {
	app := newTestApp(t)
	cookie := app.adminCookie(t, "admin")

	w := app.postForm("/create", url.Values{"filename": {"test.txt"}}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w, cookie)
	assert.Equal(t, "test.txt has been created.", sess.Flash)

	w2 := app.get("/")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "test.txt")
}

func TestCreateNewDocumentSignedOut(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/create", url.Values{"filename": {"test.txt"}})

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "You must be signed in to do that.", sess.Flash)
	assert.False(t, app.docs.Exists("test.txt"))
}

func TestDeleteDocument(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.docs.Write("test.txt", []byte("")))
	cookie := app.adminCookie(t, "admin")

	w := app.postForm("/test.txt/delete", url.Values{}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w, cookie)
	assert.Equal(t, "test.txt has been deleted.", sess.Flash)
	assert.False(t, app.docs.Exists("test.txt"))

	w2 := app.get("/")
	assert.NotContains(t, w2.Body.String(), `<a href="/test.txt">`)
}

func TestDeleteAbsentDocument(t *testing.T) {
	app := newTestApp(t)
	cookie := app.adminCookie(t, "admin")

	w := app.postForm("/ghost.txt/delete", url.Values{}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w, cookie)
	assert.Equal(t, "ghost.txt does not exist.", sess.Flash)
}

func TestParentReferencingFilenameIsNotServed(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/..secrets..txt")

	require.Equal(t, http.StatusFound, w.Code)
	sess := app.sessionFor(t, w)
	assert.Equal(t, "..secrets..txt does not exist.", sess.Flash)
}
