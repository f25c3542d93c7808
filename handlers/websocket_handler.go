package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"site-assistant/models"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsMaxMessage   = 64 * 1024
)

// WebSocketUpgrade upgrades HTTP connection to WebSocket
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ChatWebSocket answers every {"message": ...} frame on the socket with a
// reply or an error frame.
func (h *Handler) ChatWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	send := make(chan models.WebSocketChatMessage, 16)
	done := make(chan struct{})

	slog.Info("Chat WebSocket connected", "connID", connID)

	go h.writeWebSocket(c, send, done)
	defer func() {
		close(send)
		<-done
		slog.Info("Chat WebSocket closed", "connID", connID)
	}()

	c.SetReadLimit(wsMaxMessage)
	_ = c.SetReadDeadline(time.Now().Add(h.wsPongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.wsPongWait))
	})

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket read error", "connID", connID, "error", err)
			}
			return
		}
		var req models.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			_ = c.SetReadDeadline(time.Now().Add(h.wsPongWait))
			send <- models.WebSocketChatMessage{Type: "error", Error: "Invalid message", Details: err.Error()}
			continue
		}

		// Pongs are only processed inside ReadMessage, so the deadline is
		// lifted while a reply is computed and rearmed afterwards.
		_ = c.SetReadDeadline(time.Time{})
		reply, err := h.chat.Handle(context.Background(), req.Message)
		_ = c.SetReadDeadline(time.Now().Add(h.wsPongWait))
		if err != nil {
			_, body := errorPayload(err)
			msg := models.WebSocketChatMessage{Type: "error"}
			msg.Error, _ = body["error"].(string)
			msg.Details, _ = body["details"].(string)
			send <- msg
			continue
		}

		send <- models.WebSocketChatMessage{Type: "reply", Reply: reply}
	}
}

// writeWebSocket drains send onto the connection and keeps it alive with pings
func (h *Handler) writeWebSocket(c *websocket.Conn, send <-chan models.WebSocketChatMessage, done chan<- struct{}) {
	ticker := time.NewTicker(h.wsPingInterval)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = c.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteJSON(msg); err != nil {
				slog.Error("Failed to write WebSocket message", "error", err)
				// keep draining so the reader never blocks on a dead socket
				for range send {
				}
				return
			}

		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				for range send {
				}
				return
			}
		}
	}
}
