// File: waly/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	// Assistant endpoints
	OpenSessionHandler  gin.HandlerFunc
	ChatHandler         gin.HandlerFunc
	ContextHandler      gin.HandlerFunc
	TranscriptHandler   gin.HandlerFunc
	ResetSessionHandler gin.HandlerFunc

	// Realtime and voice
	EventStreamHandler gin.HandlerFunc
	VoiceChatHandler   gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(ah *AssistantHandler, eh *EventStreamHandler, vh *VoiceHandler) *HandlerBundle {
	return &HandlerBundle{
		OpenSessionHandler:  ah.OpenSessionHandler,
		ChatHandler:         ah.ChatHandler,
		ContextHandler:      ah.ContextHandler,
		TranscriptHandler:   ah.TranscriptHandler,
		ResetSessionHandler: ah.ResetSessionHandler,
		EventStreamHandler:  eh.StreamHandler,
		VoiceChatHandler:    vh.VoiceChatHandler,
	}
}
