package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"rosterlens.app/engine/common/id"
	"rosterlens.app/engine/common/llm"
	"rosterlens.app/engine/common/logger"
	"rosterlens.app/engine/common/otel"
	"rosterlens.app/engine/core/config"
	"rosterlens.app/engine/core/db"
	"rosterlens.app/engine/internal/compose"
	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/http/middleware"
	httprouter "rosterlens.app/engine/internal/http/router"
	"rosterlens.app/engine/internal/nlu"
	"rosterlens.app/engine/internal/pipeline"
	"rosterlens.app/engine/internal/queue"
	"rosterlens.app/engine/internal/roster"
	"rosterlens.app/engine/internal/store"
	"rosterlens.app/engine/internal/validate"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "rosterlens starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, nil)
	defer taskProducer.Close()

	stores := store.NewStores(database)
	snapshots := dataset.NewStore()

	service := roster.NewService(validate.NewRunner(nil), cfg.Weights, snapshots, stores, taskProducer)
	if err := service.LoadLatest(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to load latest roster", "error", err)
		os.Exit(1)
	}

	llmCfg := llm.Config{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		EmbedModel: cfg.LLM.EmbedModel,
		GenModel:   cfg.LLM.GenModel,
		MaxTokens:  cfg.LLM.MaxTokens,
	}

	var semantic *nlu.SemanticMatcher
	embedder, err := llm.NewEmbedder(llmCfg)
	switch {
	case err == nil:
		semantic = nlu.NewSemanticMatcher(embedder, cfg.LLM.SimilarityThreshold)
		slog.InfoContext(ctx, "semantic classifier enabled", "model", embedder.Model())
	case errors.Is(err, llm.ErrUnavailable):
		slog.InfoContext(ctx, "semantic classifier disabled, rule stage only")
	default:
		// Unknown provider is a configuration error, not an outage
		slog.ErrorContext(ctx, "invalid llm configuration", "error", err)
		os.Exit(1)
	}

	var generator llm.Generator
	generator, err = llm.NewGenerator(llmCfg)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "generative composer enabled", "model", generator.Model())
	case errors.Is(err, llm.ErrUnavailable):
		generator = nil
		slog.InfoContext(ctx, "generative composer disabled, templates only")
	default:
		slog.ErrorContext(ctx, "invalid llm configuration", "error", err)
		os.Exit(1)
	}

	askPipeline := pipeline.New(
		nlu.NewClassifier(semantic),
		compose.NewComposer(generator, cfg.LLM.MaxTokens),
		snapshots,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, service, snapshots, stores, askPipeline)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, service *roster.Service, snapshots *dataset.Store, stores *store.Stores, p *pipeline.Pipeline) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, service, snapshots, stores, p)

	return router
}

const banner = `
██████╗  ██████╗ ███████╗████████╗███████╗██████╗ ██╗     ███████╗███╗   ██╗███████╗
██╔══██╗██╔═══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗██║     ██╔════╝████╗  ██║██╔════╝
██████╔╝██║   ██║███████╗   ██║   █████╗  ██████╔╝██║     █████╗  ██╔██╗ ██║███████╗
██╔══██╗██║   ██║╚════██║   ██║   ██╔══╝  ██╔══██╗██║     ██╔══╝  ██║╚██╗██║╚════██║
██║  ██║╚██████╔╝███████║   ██║   ███████╗██║  ██║███████╗███████╗██║ ╚████║███████║
╚═╝  ╚═╝ ╚═════╝ ╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═══╝╚══════╝
`
