package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-relay/internal/accounts"
	"chat-relay/internal/bridge"
	"chat-relay/internal/config"
	"chat-relay/internal/db"
	"chat-relay/internal/handlers"
	"chat-relay/internal/middleware"
	"chat-relay/internal/observability"
	"chat-relay/internal/rabbitmq"
	"chat-relay/internal/repositories"
	"chat-relay/internal/telemetry"
	"chat-relay/internal/ws"
)

const serviceName = "chat-relay"

func main() {
	cfg := config.Load()
	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	auditEmitter := telemetry.NewAuditEmitter(publisher, "audit.chat_relay", serviceName, cfg.Environment)

	messageRepo := repositories.NewMessageRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	userRepo := repositories.NewUserRepo(database)

	hub := ws.NewHub()
	defer hub.CloseAll()
	relay := ws.NewRelay(hub, messageRepo, roomRepo)

	if cfg.RedisAddr != "" {
		eventBridge, err := bridge.New(ctx, cfg.RedisAddr, "chat-relay-events")
		if err != nil {
			log.Fatalf("failed to connect redis bridge: %v", err)
		}
		defer eventBridge.Close()
		relay.SetBridge(eventBridge)
		go eventBridge.Run(ctx, relay.HandleRemote)
		log.Printf("redis bridge enabled addr=%s", cfg.RedisAddr)
	}

	accountService := accounts.NewService(userRepo)
	historyHandler := handlers.NewHistoryHandler(messageRepo, roomRepo)
	accountHandler := handlers.NewAccountHandler(accountService, auditEmitter)
	wsHandler := ws.NewHandler(hub, relay, cfg.AllowedOrigin)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigin))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/api/chatrooms", historyHandler.ListRooms)
	router.GET("/api/messages", historyHandler.ListMessages)
	router.POST("/api/saveuser", accountHandler.SaveUser)
	router.POST("/api/login", accountHandler.Login)

	router.GET("/ws", wsHandler.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
