package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/pairchat/internal/broker"
	"github.com/thereayou/pairchat/internal/config"
	"github.com/thereayou/pairchat/internal/handlers"
)

type Server struct {
	Router *gin.Engine
	Broker *broker.Broker
	Config *config.Config
}

func NewServer() *Server {
	cfg := config.Load()

	b := broker.New(cfg.RoleA, cfg.RoleB)

	wsH := handlers.NewWebSocketHandler(b, cfg)
	statsH := handlers.NewStatsHandler(b)

	router := gin.Default()
	APIEndpoints(router, wsH, statsH)

	return &Server{
		Router: router,
		Broker: b,
		Config: cfg,
	}
}

func (s *Server) Run() {
	go s.Broker.Run()
	defer s.Broker.Stop()

	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
