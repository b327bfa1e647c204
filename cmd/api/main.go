package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mlima-digital/whatsapp-bridge/internal/config"
	"github.com/mlima-digital/whatsapp-bridge/internal/handlers"
	"github.com/mlima-digital/whatsapp-bridge/internal/logging"
	"github.com/mlima-digital/whatsapp-bridge/internal/middleware"
	"github.com/mlima-digital/whatsapp-bridge/internal/observability"
	"github.com/mlima-digital/whatsapp-bridge/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mlima-digital/whatsapp-bridge/docs"
)

// @title           WhatsApp Bridge API
// @version         1.0
// @description     Ponte entre o WhatsApp e o motor de orquestração do escritório m.lima. Recebe mensagens via webhook, autoriza sessões originadas na landing page e envia as respostas através do gateway Baileys.

// @contact.name   m.lima digital
// @contact.email  suporte@mlima.digital

// @host      localhost:8080
// @BasePath  /

// @tag.name whatsapp
// @tag.description Webhook e autorização de sessões do WhatsApp

// @tag.name validation
// @tag.description Validação de números de telefone

// @tag.name health
// @tag.description Health check

func main() {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	observability.InitTracer()
	defer observability.ShutdownTracer()

	config.InitRedis()
	config.InitMongoDB()

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := services.NewRedisSessionStore(config.Redis, logging.Logger)
	auth := services.NewAuthorizationService(store, config.AppConfig.SessionAuthTTL, logging.Logger)
	gateway := services.NewBaileysClient(config.AppConfig.BaileysBaseURL, logging.Logger)
	orchestrator := services.NewOrchestratorClient(config.AppConfig.OrchestratorBaseURL, logging.Logger)
	messageLog := services.NewMessageLog(logging.Logger)
	limiter := services.NewRateLimiter(config.AppConfig.WebhookRateLimit, config.AppConfig.WebhookRateRefill, logging.Logger)

	whatsapp := handlers.NewWhatsAppHandlers(
		config.AppConfig,
		logging.Logger,
		auth,
		orchestrator,
		gateway,
		messageLog,
		limiter,
	)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/whatsapp/webhook", whatsapp.VerifyWebhook)
	router.POST("/whatsapp/webhook", whatsapp.ReceiveMessage)
	router.POST("/whatsapp/authorize", whatsapp.Authorize)

	v1 := router.Group("/v1")
	{
		v1.GET("/health", whatsapp.Health)
		v1.POST("/validate/phone", handlers.ValidatePhone)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
