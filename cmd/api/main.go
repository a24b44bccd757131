package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/cache"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/config"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/engine"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/reserves"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/server"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/token"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	tokens, err := token.NewRegistry()
	if err != nil {
		logger.WithError(err).Fatal("failed to build token registry")
	}
	venues, err := venue.LoadRegistry(cfg.VenuesConfigPath, tokens)
	if err != nil {
		logger.WithError(err).Fatal("failed to load venue config")
	}

	fetcher := reserves.NewFetcher(reserves.Config{
		RPCClient:         rpcClient,
		RequestsPerSecond: cfg.ReserveRequestsPerSecond,
		Burst:             cfg.ReserveBurst,
		Logger:            logger,
	})

	// Read-only scanner for the opportunities endpoint; it never executes
	evaluator, err := arb.NewEvaluator(cfg.ArbMarginBps, cfg.ProfitThresholdBps)
	if err != nil {
		logger.WithError(err).Fatal("invalid evaluator parameters")
	}
	scanner, err := engine.New(engine.Config{
		Registry:    venues,
		Fetcher:     fetcher,
		Evaluator:   evaluator,
		Logger:      logger,
		SlippageBps: cfg.SlippageBps,
		DryRun:      true,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create scanner")
	}

	// Redis is optional; trade history and the kill switch need it
	var arbCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		arbCache = cache.NewRedisCache(cfg.RedisAddr, logger)
		if err := arbCache.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unreachable, trade endpoints disabled")
			arbCache = nil
		} else {
			defer arbCache.Close()
		}
	}

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Registry: venues,
		Source:   fetcher,
		Scanner:  scanner,
		DevMode:  cfg.DevMode,
		Logger:   logger,
	}
	if arbCache != nil {
		h.Cache = arbCache
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
