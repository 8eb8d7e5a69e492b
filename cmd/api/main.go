package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"granolad/internal/app"
	"granolad/internal/cachestore"
	"granolad/internal/config"
	"granolad/internal/logging"
	"granolad/internal/zapier"
)

const version = "1.0.0"

func main() {
	once := flag.Bool("once", false, "build and publish one digest, then exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// stdio transports own stdout
	logger := logging.New(cfg.LogLevel, *mcpMode)
	defer logger.Sync()

	patterns, err := config.LoadPatterns(cfg.RulesPath)
	if err != nil {
		logger.Fatal("classifier rules failed to load", zap.Error(err))
	}

	store := cachestore.NewFileStore(cfg.CachePath, logger)
	service := app.New(cfg, patterns, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{Name: "granolad", Version: version}, nil)
		service.RegisterMCP(srv)
		logger.Info("serving MCP over stdio")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			logger.Fatal("mcp server failed", zap.Error(err))
		}
		return
	}

	publisher := zapier.NewPublisher(cfg.ZapierWebhookURL, logger)
	publish := func(ctx context.Context) {
		d, err := service.BuildDigest(ctx, cfg.DaysBack)
		if err != nil {
			logger.Error("digest build failed", zap.Error(err))
			return
		}
		if err := publisher.Publish(ctx, d.Documents); err != nil {
			logger.Error("digest publish failed", zap.Error(err))
		}
	}

	if *once {
		if cfg.ZapierWebhookURL == "" {
			logger.Fatal("ZAPIER_WEBHOOK_URL is required with -once")
		}
		publish(ctx)
		return
	}

	if cfg.DigestSchedule != "" && cfg.ZapierWebhookURL != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.DigestSchedule, func() { publish(ctx) }); err != nil {
			logger.Fatal("invalid digest schedule", zap.String("schedule", cfg.DigestSchedule), zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("digest schedule active", zap.String("schedule", cfg.DigestSchedule))

		if cfg.RunOnStart {
			go publish(ctx)
		}
	}

	httpServer := app.NewHTTPServer(service, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
