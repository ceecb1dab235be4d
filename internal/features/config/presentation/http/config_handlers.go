package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"confbot/internal/features/config/domain"
)

// BotConfigHandler exposes the active bot configuration.
type BotConfigHandler struct {
	botConfig *domain.BotConfig
}

// NewBotConfigHandler creates a new BotConfigHandler.
func NewBotConfigHandler(botConfig *domain.BotConfig) *BotConfigHandler {
	return &BotConfigHandler{botConfig: botConfig}
}

// GetBotConfigHandler returns the applications and model ladder in use.
func (h *BotConfigHandler) GetBotConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.botConfig)
}
