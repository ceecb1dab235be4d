package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"confbot/internal/features/change/application"
	"confbot/internal/features/change/domain"
	"confbot/internal/middleware"
)

// RequestObserver counts POST /message outcomes by status code.
type RequestObserver interface {
	ObserveRequest(code int)
}

// ChangeHandler holds the change service.
type ChangeHandler struct {
	changeService application.ChangeService
	observer      RequestObserver
	logger        zerolog.Logger
}

// NewChangeHandler creates a new ChangeHandler. observer may be nil.
func NewChangeHandler(changeService application.ChangeService, observer RequestObserver, logger zerolog.Logger) *ChangeHandler {
	return &ChangeHandler{
		changeService: changeService,
		observer:      observer,
		logger:        logger,
	}
}

// MessageHandler handles POST /message.
func (h *ChangeHandler) MessageHandler(c *gin.Context) {
	var req domain.ChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Input == nil {
		h.respondError(c, http.StatusBadRequest, "Missing 'input' field")
		return
	}

	log := h.logger.With().Str("rid", middleware.RequestIDFrom(c)).Logger()

	// Outbound calls keep their own deadlines when the client goes away.
	ctx := log.WithContext(context.WithoutCancel(c.Request.Context()))

	doc, err := h.changeService.ApplyChange(ctx, *req.Input)
	if err != nil {
		status, message := mapChangeError(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("change request failed")
		}
		h.respondError(c, status, message)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// HealthHandler handles GET /health.
func (h *ChangeHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Register wires the bot routes onto r.
func (h *ChangeHandler) Register(r gin.IRouter) {
	r.POST("/message", h.countRequest, h.MessageHandler)
	r.GET("/health", h.HealthHandler)
}

func (h *ChangeHandler) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// countRequest reports the final status of every /message request. A panic
// is counted as a 500 and passed on to the recovery middleware.
func (h *ChangeHandler) countRequest(c *gin.Context) {
	if h.observer == nil {
		c.Next()
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			h.observer.ObserveRequest(http.StatusInternalServerError)
			panic(rec)
		}
		h.observer.ObserveRequest(c.Writer.Status())
	}()
	c.Next()
}

// mapChangeError turns a service error into a status code and a short message.
func mapChangeError(err error) (int, string) {
	var notFound *domain.NotFoundError
	var exhausted *domain.ExhaustedError
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest, "Missing 'input' field"
	case errors.Is(err, domain.ErrNotIdentified):
		return http.StatusBadRequest, "Could not identify application"
	case errors.As(err, &notFound):
		if errors.Is(notFound.Kind, domain.ErrValuesNotFound) {
			return http.StatusNotFound, "Values not found: " + notFound.App
		}
		return http.StatusNotFound, "Schema not found: " + notFound.App
	case errors.As(err, &exhausted):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to apply changes. Try installing %s model.", exhausted.PreferredModel)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
