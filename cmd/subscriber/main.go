package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/cache"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/config"
)

// Example consumer: tails the live arb event channel and logs every event.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	arbCache := cache.NewRedisCache(cfg.RedisAddr, logger)
	defer arbCache.Close()

	events, err := arbCache.SubscribeArbs(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe")
	}

	logger.Info("subscriber running, press Ctrl+C to stop")

	go func() {
		<-sigCh
		logger.Info("shutting down subscriber")
		cancel()
	}()

	for event := range events {
		logger.WithFields(logrus.Fields{
			"pair":       event.Pair,
			"buy_venue":  event.BuyVenue,
			"sell_venue": event.SellVenue,
			"input":      event.InputAmount,
			"output":     event.OutputAmount,
			"ratio":      event.Ratio,
			"dry_run":    event.DryRun,
			"executed":   event.Executed,
		}).Info("arb event")
	}
}
