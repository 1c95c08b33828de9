package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davrot/scribe/internal/docstore"
	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/pkg/logger"
	"github.com/davrot/scribe/pkg/metrics"
)

// DocumentsHandler serves the document listing, viewing and mutation routes.
type DocumentsHandler struct {
	docs        *docstore.Store
	sessionsSvc *sessions.Service
}

func NewDocumentsHandler(docs *docstore.Store, s *sessions.Service) *DocumentsHandler {
	return &DocumentsHandler{docs: docs, sessionsSvc: s}
}

// Register wires the document routes. requireAuth gates every mutating
// route plus the new/edit form views.
func (h *DocumentsHandler) Register(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/", h.Index)
	r.GET("/new", requireAuth, h.NewForm)
	r.POST("/create", requireAuth, h.Create)
	r.GET("/:filename", h.Show)
	r.GET("/:filename/edit", requireAuth, h.EditForm)
	r.POST("/:filename", requireAuth, h.Update)
	r.POST("/:filename/delete", requireAuth, h.Delete)
}

// Index lists every document in the store.
func (h *DocumentsHandler) Index(c *gin.Context) {
	names, err := h.docs.List()
	if err != nil {
		logger.Errorf("list documents: %v", err)
		metrics.DocumentOps.WithLabelValues("list", "error").Inc()
		c.String(http.StatusInternalServerError, "could not list documents")
		return
	}
	metrics.DocumentOps.WithLabelValues("list", "ok").Inc()
	render(c, h.sessionsSvc, http.StatusOK, "index", gin.H{"Files": names})
}

// Show serves a single document: .txt verbatim as plain text, .md rendered
// to HTML inside the page layout.
func (h *DocumentsHandler) Show(c *gin.Context) {
	name := c.Param("filename")
	doc, err := h.docs.Read(name)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		metrics.DocumentOps.WithLabelValues("view", "not_found").Inc()
		flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s does not exist.", name), "/")
		return
	case errors.Is(err, docstore.ErrUnsupportedType):
		metrics.DocumentOps.WithLabelValues("view", "unsupported").Inc()
		flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s cannot be displayed.", name), "/")
		return
	case err != nil:
		logger.Errorf("read %s: %v", name, err)
		metrics.DocumentOps.WithLabelValues("view", "error").Inc()
		c.String(http.StatusInternalServerError, "could not read document")
		return
	}

	body, contentType, err := doc.Render()
	if err != nil {
		logger.Errorf("render %s: %v", name, err)
		metrics.DocumentOps.WithLabelValues("view", "error").Inc()
		c.String(http.StatusInternalServerError, "could not render document")
		return
	}
	metrics.DocumentOps.WithLabelValues("view", "ok").Inc()

	if doc.Kind == docstore.KindMarkdown {
		render(c, h.sessionsSvc, http.StatusOK, "view", gin.H{"Body": template.HTML(body)})
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

// NewForm renders the create-document form.
func (h *DocumentsHandler) NewForm(c *gin.Context) {
	render(c, h.sessionsSvc, http.StatusOK, "new", gin.H{})
}

// Create makes a new document seeded with placeholder content.
func (h *DocumentsHandler) Create(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("filename"))
	if err := h.docs.Create(name); err != nil {
		if errors.Is(err, docstore.ErrInvalidName) {
			metrics.DocumentOps.WithLabelValues("create", "invalid_name").Inc()
			render(c, h.sessionsSvc, http.StatusUnprocessableEntity, "new", gin.H{
				"Error":    "A name is required.",
				"Filename": name,
			})
			return
		}
		logger.Errorf("create %s: %v", name, err)
		metrics.DocumentOps.WithLabelValues("create", "error").Inc()
		c.String(http.StatusInternalServerError, "could not create document")
		return
	}
	metrics.DocumentOps.WithLabelValues("create", "ok").Inc()
	flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s has been created.", name), "/")
}

// EditForm renders the edit form with the document's current content.
func (h *DocumentsHandler) EditForm(c *gin.Context) {
	name := c.Param("filename")
	doc, err := h.docs.Read(name)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s does not exist.", name), "/")
		return
	case errors.Is(err, docstore.ErrUnsupportedType):
		flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s cannot be displayed.", name), "/")
		return
	case err != nil:
		logger.Errorf("read %s: %v", name, err)
		c.String(http.StatusInternalServerError, "could not read document")
		return
	}
	render(c, h.sessionsSvc, http.StatusOK, "edit", gin.H{
		"Filename": name,
		"Content":  string(doc.Content),
	})
}

// Update replaces a document's content in full, writing the document into
// existence if it is not there yet.
func (h *DocumentsHandler) Update(c *gin.Context) {
	name := c.Param("filename")
	if err := h.docs.Write(name, []byte(c.PostForm("content"))); err != nil {
		if errors.Is(err, docstore.ErrInvalidName) {
			metrics.DocumentOps.WithLabelValues("update", "invalid_name").Inc()
			flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s does not exist.", name), "/")
			return
		}
		logger.Errorf("update %s: %v", name, err)
		metrics.DocumentOps.WithLabelValues("update", "error").Inc()
		c.String(http.StatusInternalServerError, "could not update document")
		return
	}
	metrics.DocumentOps.WithLabelValues("update", "ok").Inc()
	flashAndRedirect(c, h.sessionsSvc, "File was updated.", "/")
}

// Delete removes a document permanently.
func (h *DocumentsHandler) Delete(c *gin.Context) {
	name := c.Param("filename")
	if err := h.docs.Delete(name); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			metrics.DocumentOps.WithLabelValues("delete", "not_found").Inc()
			flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s does not exist.", name), "/")
			return
		}
		logger.Errorf("delete %s: %v", name, err)
		metrics.DocumentOps.WithLabelValues("delete", "error").Inc()
		c.String(http.StatusInternalServerError, "could not delete document")
		return
	}
	metrics.DocumentOps.WithLabelValues("delete", "ok").Inc()
	flashAndRedirect(c, h.sessionsSvc, fmt.Sprintf("%s has been deleted.", name), "/")
}
