// File: waly/main.go
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waly/config"
	walycron "waly/cron"
	"waly/database"
	esgRepo "waly/database/repository/esg"
	"waly/handlers"
	"waly/middleware"
	"waly/routes"
	"waly/services/assistant"
	"waly/services/esg"
	"waly/services/events"
	"waly/services/intelligence"
	"waly/services/voice"
	"waly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// ESG data layer. Without a database the assistant only sees page types.
	var provider assistant.DataProvider
	if cfg.DatabaseURL != "" {
		database.InitDB()
		repo, err := esgRepo.NewMongoESGRepo()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize ESG repository: %v", err)
		}
		esgService, err := esg.NewDefaultESGService(repo, cfg.ProviderCacheTTL, logger.Named("esg"))
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize ESG service: %v", err)
		}
		provider = esgService
	}

	// Session persistence.
	var (
		store       assistant.SessionStore
		redisClient *redis.Client
	)
	if config.UsesRedisSessions() {
		redisClient = utils.GetSessionCacheClient()
		store = assistant.NewRedisSessionStore(redisClient, cfg.SessionTTL, utils.NewSealer(cfg.SessionSecret))
	} else {
		store = assistant.NewMemorySessionStore(cfg.SessionTTL)
	}

	// Language model; nil means fallback-only.
	llm, err := intelligence.NewClientFromConfig(rootCtx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize language model client: %v", err)
	}
	if llm == nil {
		logger.Warn("main: no language model configured, replies use the local fallback table")
	} else {
		logger.Info("main: language model ready", zap.String("provider", llm.Name()))
	}

	var transcriber voice.Transcriber
	if cfg.GoogleServiceAccountFile != "" {
		gt, err := voice.NewGoogleTranscriber(rootCtx, cfg.GoogleServiceAccountFile)
		if err != nil {
			logger.Warn("main: voice input disabled", zap.Error(err))
		} else {
			transcriber = gt
			defer gt.Close()
		}
	}

	// Assistant core.
	bus := events.NewBus(logger.Named("events"))
	executor := assistant.NewExecutor(bus, cfg.NavigationDelay, logger.Named("executor"))
	responder := assistant.NewResponseGenerator(llm, executor, assistant.GenerationParams{
		Temperature: cfg.LLMTemperature,
		TopP:        cfg.LLMTopP,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	}, logger.Named("responder"))
	resolver := assistant.NewContextResolver(provider, logger.Named("context"))

	assistantService, err := assistant.NewDefaultAssistantService(resolver, executor, responder, store, logger.Named("assistant"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize assistant service: %v", err)
	}

	if _, err := walycron.StartSessionJanitor(rootCtx, assistantService, time.Minute, cfg.SessionIdleTimeout, logger.Named("janitor")); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	utils.StartHealthMonitor(rootCtx, redisClient, database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	hb := handlers.NewHandlerBundle(
		handlers.NewAssistantHandler(assistantService),
		handlers.NewEventStreamHandler(assistantService, bus),
		handlers.NewVoiceHandler(assistantService, transcriber),
	)
	routes.RegisterRoutes(router, hb, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Server running on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	stopBackground()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("Server forced to shutdown: %v", err)
	}
	if closer, ok := llm.(io.Closer); ok {
		_ = closer.Close()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	logger.Info("Server exiting")
}
