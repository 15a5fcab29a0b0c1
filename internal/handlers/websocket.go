package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereayou/pairchat/internal/broker"
	"github.com/thereayou/pairchat/internal/config"
	ws "github.com/thereayou/pairchat/internal/websocket"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	broker        *broker.Broker
	upgrader      websocket.Upgrader
	maxFrameBytes int64
}

// NewWebSocketHandler создает новый WebSocket handler
func NewWebSocketHandler(b *broker.Broker, cfg *config.Config) *WebSocketHandler {
	allowed := cfg.AllowedOrigin
	return &WebSocketHandler{
		broker:        b,
		maxFrameBytes: cfg.MaxFrameBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowed == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowed
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(conn, h.broker, h.maxFrameBytes)

	h.broker.Register(client.ID, client)

	go client.WritePump()
	go client.ReadPump()
}
