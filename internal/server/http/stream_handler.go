package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taskboard/internal/logging"
	"taskboard/internal/server/app"
)

const (
	// streamBufferSize bounds how many undelivered events a slow client
	// may queue before the broadcaster starts dropping.
	streamBufferSize = 100

	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// StreamHandler upgrades board clients to websocket event streams.
type StreamHandler struct {
	service  *app.Service
	logger   logging.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler creates the stream handler. Origin checks are left to
// the CORS layer; the upgrader accepts any origin.
func NewStreamHandler(service *app.Service) *StreamHandler {
	return &StreamHandler{
		service: service,
		logger:  logging.NewComponentLogger("StreamHandler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleEvents streams an editor's events over a websocket. Stored history
// is replayed first, then live events until either side disconnects.
// GET /api/editors/:id/events
func (h *StreamHandler) HandleEvents(c *gin.Context) {
	editorID := c.Param("id")
	if err := validateEditorID(editorID); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if _, err := h.service.GetEditor(editorID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the failure response.
		h.logger.Warn("websocket upgrade failed for editor %s: %v", editorID, err)
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("Stream connected for editor %s", editorID)

	// Replay before subscribing. Events published in the gap are not
	// replayed; clients reconcile with a collection fetch after connect.
	for _, event := range h.service.Broadcaster().Replay(editorID) {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("Replay write failed for editor %s: %v", editorID, err)
			return
		}
	}

	clientChan := make(chan app.Event, streamBufferSize)
	broadcaster := h.service.Broadcaster()
	broadcaster.RegisterClient(editorID, clientChan)
	defer broadcaster.UnregisterClient(editorID, clientChan)

	// Reader loop: the client sends no data frames, but reading is what
	// surfaces close frames and connection loss.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-clientChan:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Info("Stream closed for editor %s: %v", editorID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.Info("Stream ping failed for editor %s: %v", editorID, err)
				return
			}
		case <-done:
			h.logger.Info("Stream disconnected for editor %s", editorID)
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
