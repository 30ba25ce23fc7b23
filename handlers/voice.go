// File: waly/handlers/voice.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"waly/models"
	"waly/services/assistant"
	"waly/services/voice"
	"waly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const transcribeTimeout = 30 * time.Second

// VoiceHandler accepts a spoken utterance, transcribes it and runs it as a
// normal assistant turn.
type VoiceHandler struct {
	Service     assistant.AssistantService
	Transcriber voice.Transcriber
}

func NewVoiceHandler(svc assistant.AssistantService, transcriber voice.Transcriber) *VoiceHandler {
	return &VoiceHandler{Service: svc, Transcriber: transcriber}
}

// VoiceChatResponse pairs the transcription with the turn it produced.
type VoiceChatResponse struct {
	Transcription string               `json:"transcription"`
	Response      *models.ChatResponse `json:"response"`
}

func (h *VoiceHandler) VoiceChatHandler(c *gin.Context) {
	if h.Transcriber == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Voice input is not configured", "")
		return
	}

	sessionID := c.PostForm("sessionId")
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "sessionId is required")
		return
	}
	language := c.DefaultPostForm("language", "en-US")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != voice.AllowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type",
			fmt.Sprintf("expected %s, got %s", voice.AllowedExtension, ext))
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, voice.MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}
	if len(audio) > voice.MaxFileSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file too large",
			fmt.Sprintf("limit is %d bytes", voice.MaxFileSize))
		return
	}
	if err := voice.ValidateWave(audio); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unsupported audio", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), transcribeTimeout)
	defer cancel()
	text, err := h.Transcriber.Transcribe(ctx, audio, language)
	if err != nil {
		getLogger(c).Error("Speech recognition failed", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		utils.JSONError(c, http.StatusUnprocessableEntity, "no speech detected", "")
		return
	}

	resp, err := h.Service.ProcessUserInput(c.Request.Context(), models.ChatRequest{
		SessionID: sessionID,
		Path:      c.DefaultPostForm("path", "/"),
		Message:   text,
	}, requestUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, VoiceChatResponse{Transcription: text, Response: resp})
}
