package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pezo-app/pezo-ai-gateway/internal/api/openai"
	"github.com/pezo-app/pezo-ai-gateway/internal/config"
	"github.com/pezo-app/pezo-ai-gateway/internal/frontdoor"
	"github.com/pezo-app/pezo-ai-gateway/internal/quota"
	"github.com/pezo-app/pezo-ai-gateway/internal/server"
	"github.com/pezo-app/pezo-ai-gateway/internal/telemetry"
	"github.com/pezo-app/pezo-ai-gateway/internal/tokens"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdown, err := telemetry.InitTracer("pezo-ai-gateway", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	// Counter store: real Redis when configured, always-permit otherwise.
	var store quota.CounterStore = quota.Unlimited{}
	if cfg.Quota.RedisAddr != "" {
		store = quota.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.Quota.RedisAddr}))
		logger.Info("quota counter store configured", slog.String("addr", cfg.Quota.RedisAddr))
	} else {
		logger.Warn("no counter store configured, rate limiting disabled")
	}
	gate := quota.NewGate(store, cfg.Quota.DailyLimit, logger)

	// A missing credential is surfaced per-request as a configuration error
	// rather than preventing startup.
	var client *openai.Client
	if cfg.OpenAI.APIKey != "" {
		client = openai.NewClient(cfg.OpenAI.APIKey, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	} else {
		logger.Error("openai api key not configured, decision requests will fail")
	}

	handler := frontdoor.NewHandler(client, gate, tokens.NewCounter(),
		cfg.Auth.AppSecret, cfg.OpenAI.Model, logger)

	srv := server.New(cfg.Server.Port, logger)
	srv.Router.Post("/should-i-buy", handler.HandleShouldIBuy)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
