package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/pairchat/internal/broker"
)

// StatsHandler отдает диагностику брокера
type StatsHandler struct {
	broker *broker.Broker
}

func NewStatsHandler(b *broker.Broker) *StatsHandler {
	return &StatsHandler{broker: b}
}

// Health проверка живости сервиса
func (h *StatsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats текущие счетчики: клиенты, ожидающие, комнаты, сессии
func (h *StatsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.broker.Stats())
}
