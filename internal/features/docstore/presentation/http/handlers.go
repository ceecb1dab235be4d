package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"confbot/internal/features/docstore/domain"
	"confbot/internal/features/docstore/infrastructure"
	"confbot/internal/middleware"
)

// DocumentHandler serves one kind of document by application name.
type DocumentHandler struct {
	store  infrastructure.DocumentReader
	kind   domain.Kind
	logger zerolog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(store infrastructure.DocumentReader, kind domain.Kind, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{store: store, kind: kind, logger: logger}
}

// GetDocumentHandler handles GET /:app.
func (h *DocumentHandler) GetDocumentHandler(c *gin.Context) {
	app := c.Param("app")

	doc, err := h.store.Read(app)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.kind.NotFoundMessage()})
			return
		}
		h.logger.Error().Err(err).
			Str("rid", middleware.RequestIDFrom(c)).
			Str("kind", string(h.kind)).
			Str("app", app).
			Msg("failed to load document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": rootCause(err).Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// Register wires the document routes onto r.
func (h *DocumentHandler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/:app", h.GetDocumentHandler)
}

// rootCause strips wrapping so response bodies carry no file paths.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
