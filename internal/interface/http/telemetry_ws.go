package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/linwei/smartliving/internal/domain/telemetry"
)

var telemetryUpgrader = websocket.Upgrader{
	// the browser frontend lives on a different origin; CORS policy is
	// enforced by the HTTP middleware on the REST routes
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// TelemetryWSHandler streams poller snapshots to WebSocket clients.
type TelemetryWSHandler struct {
	poller *telemetry.Poller
	logger *slog.Logger
}

// NewTelemetryWSHandler constructs the handler.
func NewTelemetryWSHandler(poller *telemetry.Poller, logger *slog.Logger) *TelemetryWSHandler {
	return &TelemetryWSHandler{
		poller: poller,
		logger: logger.With("component", "http.telemetry_ws"),
	}
}

// Serve upgrades the connection and pushes every new snapshot until the
// client disconnects. The current snapshot is sent immediately on connect.
func (h *TelemetryWSHandler) Serve(c *gin.Context) {
	conn, err := telemetryUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := h.poller.Subscribe()
	defer h.poller.Unsubscribe(updates)

	// reader goroutine: drains client frames and signals disconnect
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, h.poller.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, snapshot); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snapshot telemetry.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
