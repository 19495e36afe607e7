// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"restaurant-ai-service/internal/assistant/agent"
	"restaurant-ai-service/internal/assistant/intent"
	"restaurant-ai-service/internal/assistant/respond"
	"restaurant-ai-service/internal/assistant/sentiment"
	"restaurant-ai-service/internal/common/config"
	"restaurant-ai-service/internal/common/database"
	httpclient "restaurant-ai-service/internal/common/http"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/observability"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/server"
	"restaurant-ai-service/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("assistant-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init LLM Clients ---
	// One outbound HTTP client is shared by every provider SDK so the
	// configured timeout applies uniformly.
	outbound := httpclient.NewClient(config.GetDuration(cfg.LLM.Timeout))

	agentLLM, err := llm.New(ctx, cfg.LLM, cfg.LLM.Agent, outbound.GetHTTPClient())
	if err != nil {
		zapLog.Fatal("agent model client failed", zap.Error(err))
	}
	classifierLLM, err := llm.New(ctx, cfg.LLM, cfg.LLM.Classifier, outbound.GetHTTPClient())
	if err != nil {
		zapLog.Fatal("classifier model client failed", zap.Error(err))
	}
	generatorLLM, err := llm.New(ctx, cfg.LLM, cfg.LLM.Generator, outbound.GetHTTPClient())
	if err != nil {
		zapLog.Fatal("generator model client failed", zap.Error(err))
	}
	zapLog.Info("All model clients initialized")

	// --- Assemble Assistant Components ---
	restaurants := store.NewRestaurantStore(pg.GetDB(), log)
	conversations := store.NewConversationStore(pg.GetDB(), log)
	cache := store.NewResponseCache(redisClient.GetClient(), cfg.Cache, log)

	agents := agent.NewManager(agentLLM, restaurants, cfg.Agent, log)
	classifier := intent.NewClassifier(classifierLLM, log)
	// Sentiment shares the classifier model: both are temperature-zero
	// structured-output calls.
	analyzer := sentiment.NewAnalyzer(classifierLLM, log)
	generator := respond.NewGenerator(generatorLLM, cfg.App.RestaurantName, log)

	srv := server.New(server.Options{
		Config:        cfg,
		Agents:        agents,
		Classifier:    classifier,
		Analyzer:      analyzer,
		Generator:     generator,
		Cache:         cache,
		Conversations: conversations,
		Dependencies: []server.Dependency{
			{Name: "postgres", Pinger: pg},
			{Name: "redis", Pinger: redisClient},
		},
		Observability: obs,
		Logger:        log,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Assistant server stopped gracefully")
}
