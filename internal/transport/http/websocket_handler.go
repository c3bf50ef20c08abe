package http

import (
	"log/slog"
	"net/http"

	apierrors "surveyclean/internal/errors"
	ws "surveyclean/internal/websocket"
)

// WebSocketHandler upgrades /ws requests onto the progress hub
type WebSocketHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *ws.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger.With(slog.String("handler", "websocket")),
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := ws.ServeWS(h.hub, w, r); err != nil {
		// The upgrader has already written its handshake failure; log
		// for correlation only
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error_code", apierrors.ErrWebSocketUpgrade.ErrorCode))
	}
}
