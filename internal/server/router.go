package server

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/pairchat/internal/handlers"
)

func APIEndpoints(r *gin.Engine, wsH *handlers.WebSocketHandler, statsH *handlers.StatsHandler) {
	r.GET("/ws", wsH.HandleWebSocket)

	r.GET("/healthz", statsH.Health)
	r.GET("/stats", statsH.Stats)
}
