// File: waly/handlers/events.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"waly/models"
	"waly/services/assistant"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventsWSWriteWait = 10 * time.Second
	eventsWSPongWait  = 60 * time.Second
	eventsWSPingEvery = (eventsWSPongWait * 9) / 10
)

var eventsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// EventSubscriber is the listener side of the action event bus.
type EventSubscriber interface {
	Subscribe(sessionID string) (<-chan models.ActionEvent, func())
}

// EventStreamHandler pushes a session's action events (navigation, form
// fill, auth, notices) to the browser over a websocket.
type EventStreamHandler struct {
	Service assistant.AssistantService
	Bus     EventSubscriber
}

func NewEventStreamHandler(svc assistant.AssistantService, bus EventSubscriber) *EventStreamHandler {
	return &EventStreamHandler{Service: svc, Bus: bus}
}

func (h *EventStreamHandler) StreamHandler(c *gin.Context) {
	sessionID := c.Param("id")
	logger := getLogger(c).With(zap.String("session_id", sessionID))
	// Ownership is checked before the upgrade so errors are plain HTTP.
	if _, err := h.Service.Transcript(c.Request.Context(), sessionID, requestUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	conn, err := eventsWSUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Event stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, unsubscribe := h.Bus.Subscribe(sessionID)
	defer unsubscribe()

	if err := conn.SetReadDeadline(time.Now().Add(eventsWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsWSPongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		// Closing the conn unblocks the reader below.
		defer conn.Close()
		ticker := time.NewTicker(eventsWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					logger.Debug("Event stream write failed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// The stream is one-way; reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}
