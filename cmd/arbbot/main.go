package main

import (
	"context"
	"errors"
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
	"github.com/aman-zulfiqar/solana-arb-engine/internal/token"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
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

// main is the entry point for the arbitrage bot
// It wires every dependency explicitly and runs the scan loop until a
// shutdown signal arrives
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// RPC client shared by reserve reads and transaction submission
	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	// Token and venue registries
	tokens, err := token.NewRegistry()
	if err != nil {
		logger.WithError(err).Fatal("failed to build token registry")
	}
	venues, err := venue.LoadRegistry(cfg.VenuesConfigPath, tokens)
	if err != nil {
		logger.WithError(err).Fatal("failed to load venue config")
	}
	if len(venues.Pairs()) == 0 {
		logger.Fatal("no pair has two or more venues, nothing to arbitrage")
	}

	fetcher := reserves.NewFetcher(reserves.Config{
		RPCClient:         rpcClient,
		RequestsPerSecond: cfg.ReserveRequestsPerSecond,
		Burst:             cfg.ReserveBurst,
		Logger:            logger,
	})

	evaluator, err := arb.NewEvaluator(cfg.ArbMarginBps, cfg.ProfitThresholdBps)
	if err != nil {
		logger.WithError(err).Fatal("invalid evaluator parameters")
	}

	risk := engine.NewRiskManager(engine.RiskConfig{
		MaxTradeNotional:  cfg.MaxTradeNotional,
		MaxDailyNotional:  cfg.MaxDailyNotional,
		MaxPriceImpactBps: cfg.MaxPriceImpactBps,
	})

	// Executor only exists when a wallet key is configured; without one the
	// engine stays in dry-run mode
	var executor *engine.Executor
	if cfg.WalletPrivateKey != "" {
		w, err := wallet.New(wallet.Config{
			RPCClient:  rpcClient,
			PrivateKey: cfg.WalletPrivateKey,
			Commitment: cfg.Commitment,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to create wallet")
		}
		logger.WithField("address", w.Address()).Info("wallet loaded")

		executor, err = engine.NewExecutor(engine.ExecutorConfig{
			Wallet:         w,
			SimulateFirst:  cfg.SimulateFirst,
			ConfirmTimeout: cfg.ConfirmTimeout,
			Logger:         logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to create executor")
		}
	}

	// Redis and ClickHouse are optional; the bot trades without them
	var arbCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		arbCache = cache.NewRedisCache(cfg.RedisAddr, logger)
		if err := arbCache.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unreachable, continuing without cache")
			arbCache = nil
		} else {
			defer arbCache.Close()
		}
	}

	var store *cache.ClickHouseStore
	if cfg.ClickHouseAddr != "" {
		s, err := cache.NewClickHouseStore(cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unreachable, continuing without history")
		} else {
			store = s
			defer store.Close()
		}
	}

	engineCfg := engine.Config{
		Registry:     venues,
		Fetcher:      fetcher,
		Evaluator:    evaluator,
		Risk:         risk,
		Executor:     executor,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		SlippageBps:  cfg.SlippageBps,
		DryRun:       cfg.DryRun,
	}
	if arbCache != nil {
		engineCfg.Cache = arbCache
	}
	if store != nil {
		engineCfg.Store = store
	}

	eng, err := engine.New(engineCfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to create engine")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("engine stopped unexpectedly")
	}
}
