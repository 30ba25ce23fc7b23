// File: waly/handlers/assistant.go
package handlers

import (
	"errors"
	"net/http"

	"waly/models"
	"waly/services/assistant"
	"waly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler exposes the Waly conversation endpoints.
type AssistantHandler struct {
	Service assistant.AssistantService
}

func NewAssistantHandler(svc assistant.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: svc}
}

// requestUserID returns the authenticated user id, or "" for anonymous callers.
func requestUserID(c *gin.Context) string {
	if uid, exists := c.Get("userID"); exists {
		if s, ok := uid.(string); ok {
			return s
		}
	}
	return ""
}

// writeServiceError maps assistant errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assistant.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "Session not found", err.Error())
	case errors.Is(err, assistant.ErrSessionForbidden):
		utils.JSONError(c, http.StatusForbidden, "Session belongs to another user", err.Error())
	case errors.Is(err, assistant.ErrEmptyMessage):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
	default:
		getLogger(c).Error("Assistant request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Assistant unavailable", err.Error())
	}
}

// OpenSessionHandler starts a conversation and returns the welcome turn.
func (h *AssistantHandler) OpenSessionHandler(c *gin.Context) {
	resp, err := h.Service.OpenSession(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ChatHandler runs one assistant turn.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	resp, err := h.Service.ProcessUserInput(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ContextHandler returns the page context the assistant would see for a path.
func (h *AssistantHandler) ContextHandler(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	c.JSON(http.StatusOK, h.Service.ResolveContext(c.Request.Context(), path, requestUserID(c)))
}

func (h *AssistantHandler) TranscriptHandler(c *gin.Context) {
	resp, err := h.Service.Transcript(c.Request.Context(), c.Param("id"), requestUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AssistantHandler) ResetSessionHandler(c *gin.Context) {
	if err := h.Service.ResetSession(c.Request.Context(), c.Param("id"), requestUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
