package handlers

import (
	"log/slog"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/handlers/ws"
)

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		_ = c.Close()
		return
	}

	client := h.hub.Register(userID, c)
	defer h.hub.Unregister(client)

	slog.Debug("websocket connected", "user_id", userID)

	ctx := &ws.MessageContext{Client: client, Hub: h.hub}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			slog.Debug("websocket read ended", "user_id", userID, "error", err)
			break
		}
		if messageType != websocket.TextMessage {
			_ = ws.SendError(client, "unsupported_frame", "Only text frames are accepted", "")
			continue
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			_ = ws.SendError(client, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			slog.Warn("websocket message failed", "type", msg.GetType(), "user_id", userID, "error", err)
			_ = ws.SendError(client, "processing_failed", "Failed to process message", err.Error())
		}
	}

	slog.Debug("websocket disconnected", "user_id", userID)
}
