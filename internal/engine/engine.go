// Package engine runs the scan-evaluate-execute loop: refresh reserves for
// every venue of a pair, quote both sides, cross every buy/sell venue
// combination, and act on the profitable ones.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/models"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/storage"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
)

// ReserveSource yields a per-venue reserve reader. Satisfied by
// reserves.Fetcher.
type ReserveSource interface {
	ForVenue(v *venue.Venue) amm.ReserveFetcher
}

// Opportunity is one profitable, sized cross-venue round trip found by a scan.
type Opportunity struct {
	Pair      string
	BuyVenue  *venue.Venue
	SellVenue *venue.Venue
	Candidate *arb.Candidate
}

// Engine orchestrates scanning and execution.
type Engine struct {
	registry  *venue.Registry
	fetcher   ReserveSource
	evaluator *arb.Evaluator
	risk      *RiskManager
	executor  *Executor
	cache     storage.ArbCache
	store     storage.ArbStore
	logger    *logrus.Logger

	pollInterval time.Duration
	slippageBps  uint64
	dryRun       bool
}

// Config wires the engine's dependencies. Executor may be nil, which forces
// dry-run behavior regardless of DryRun. Cache and Store are optional;
// missing ones simply skip distribution and persistence.
type Config struct {
	Registry  *venue.Registry
	Fetcher   ReserveSource
	Evaluator *arb.Evaluator
	Risk      *RiskManager
	Executor  *Executor
	Cache     storage.ArbCache
	Store     storage.ArbStore
	Logger    *logrus.Logger

	PollInterval time.Duration
	SlippageBps  uint64
	DryRun       bool
}

// New validates the config and builds the engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("engine: venue registry is required")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("engine: reserve fetcher is required")
	}
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("engine: evaluator is required")
	}
	if cfg.Risk == nil {
		cfg.Risk = NewRiskManager(DefaultRiskConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Executor == nil {
		cfg.DryRun = true
	}

	return &Engine{
		registry:     cfg.Registry,
		fetcher:      cfg.Fetcher,
		evaluator:    cfg.Evaluator,
		risk:         cfg.Risk,
		executor:     cfg.Executor,
		cache:        cfg.Cache,
		store:        cfg.Store,
		logger:       cfg.Logger,
		pollInterval: cfg.PollInterval,
		slippageBps:  cfg.SlippageBps,
		dryRun:       cfg.DryRun,
	}, nil
}

// Run scans on every tick until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.WithFields(logrus.Fields{
		"pairs":         len(e.registry.Pairs()),
		"venues":        e.registry.Count(),
		"poll_interval": e.pollInterval,
		"dry_run":       e.dryRun,
	}).Info("engine started")

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()
		case <-ticker.C:
			opps, err := e.ScanOnce(ctx)
			if err != nil {
				e.logger.WithError(err).Warn("scan failed")
				continue
			}
			for _, opp := range opps {
				if err := e.Process(ctx, opp); err != nil {
					e.logger.WithError(err).WithFields(logrus.Fields{
						"pair":       opp.Pair,
						"buy_venue":  opp.BuyVenue.Name,
						"sell_venue": opp.SellVenue.Name,
					}).Warn("failed to process opportunity")
				}
			}
		}
	}
}

type venueQuotes struct {
	v    *venue.Venue
	buy  *amm.SwapQuote
	sell *amm.SwapQuote
	err  error
}

// ScanOnce quotes every venue of every arbitrageable pair and returns the
// sized opportunities that clear the profitability gate. Venues of a pair
// are quoted concurrently; the reserve fetcher's rate limiter is the shared
// throttle.
func (e *Engine) ScanOnce(ctx context.Context) ([]*Opportunity, error) {
	var opps []*Opportunity

	for _, pair := range e.registry.Pairs() {
		venues := e.registry.FindByPair(pair)

		quotes := make([]venueQuotes, len(venues))
		var wg sync.WaitGroup
		for i, v := range venues {
			wg.Add(1)
			go func(i int, v *venue.Venue) {
				defer wg.Done()
				quoter := &amm.CurveQuoter{Market: v.Market, Fetcher: e.fetcher.ForVenue(v)}
				buy, sell, err := quoter.QuoteBothSides(ctx, 0, e.slippageBps)
				quotes[i] = venueQuotes{v: v, buy: buy, sell: sell, err: err}
			}(i, v)
		}
		wg.Wait()

		live := quotes[:0]
		for _, q := range quotes {
			if q.err != nil {
				e.logger.WithError(q.err).WithField("venue", q.v.Name).Warn("quote failed")
				continue
			}
			live = append(live, q)
		}

		for _, buyQ := range live {
			for _, sellQ := range live {
				if buyQ.v == sellQ.v {
					continue
				}
				if !e.evaluator.Profitable(buyQ.buy, sellQ.sell) {
					continue
				}

				candidate, err := e.evaluator.Evaluate(buyQ.buy, sellQ.sell)
				if err != nil {
					if errors.Is(err, arb.ErrNoOpportunity) || errors.Is(err, arb.ErrZeroRate) {
						continue
					}
					e.logger.WithError(err).WithFields(logrus.Fields{
						"buy_venue":  buyQ.v.Name,
						"sell_venue": sellQ.v.Name,
					}).Warn("sizing failed")
					continue
				}

				e.logger.WithFields(logrus.Fields{
					"pair":       pair,
					"buy_venue":  buyQ.v.Name,
					"sell_venue": sellQ.v.Name,
					"ratio":      candidate.Ratio.String(),
					"input":      candidate.InputAmount,
				}).Info("opportunity found")

				opps = append(opps, &Opportunity{
					Pair:      pair,
					BuyVenue:  buyQ.v,
					SellVenue: sellQ.v,
					Candidate: candidate,
				})
			}
		}
	}

	return opps, nil
}

// Process risk-checks an opportunity and either executes it or records it as
// a dry run. Distribution and persistence are best-effort; a dead Redis or
// ClickHouse never blocks trading.
func (e *Engine) Process(ctx context.Context, opp *Opportunity) error {
	check := e.risk.CheckCandidate(opp.Candidate)
	if !check.Allowed {
		e.logger.WithFields(logrus.Fields{
			"pair":   opp.Pair,
			"reason": check.Reason,
		}).Info("opportunity rejected by risk check")
		return nil
	}

	event := e.newEvent(opp)

	execute := !e.dryRun && e.executor != nil
	if execute && e.cache != nil {
		enabled, err := e.cache.TradingEnabled(ctx)
		if err != nil {
			e.logger.WithError(err).Warn("failed to read trading switch, holding off")
			execute = false
		} else if !enabled {
			e.logger.Info("trading disabled by kill switch")
			execute = false
		}
	}

	if execute {
		sig, err := e.executor.Execute(ctx, opp.BuyVenue, opp.SellVenue, opp.Candidate)
		event.Signature = sig
		event.DryRun = false
		if err != nil {
			e.publish(ctx, event)
			return fmt.Errorf("execution failed: %w", err)
		}
		event.Executed = true
		e.risk.RecordTrade(opp.Candidate)
	}

	e.publish(ctx, event)
	return nil
}

func (e *Engine) newEvent(opp *Opportunity) *models.ArbEvent {
	c := opp.Candidate
	return &models.ArbEvent{
		Timestamp:     time.Now(),
		Pair:          opp.Pair,
		BuyVenue:      opp.BuyVenue.Name,
		SellVenue:     opp.SellVenue.Name,
		InputAmount:   c.InputAmountDecimal.InexactFloat64(),
		Intermediate:  amm.AmountToDecimal(c.IntermediateAmount, opp.BuyVenue.Market.DecimalsA).InexactFloat64(),
		OutputAmount:  c.FinalOutputDecimal.InexactFloat64(),
		BuyRate:       c.BuyQuote.Rate.InexactFloat64(),
		SellRate:      c.SellQuote.Rate.InexactFloat64(),
		Ratio:         c.Ratio.InexactFloat64(),
		IsSellBinding: c.IsSellBinding,
		DryRun:        true,
	}
}

func (e *Engine) publish(ctx context.Context, event *models.ArbEvent) {
	if e.cache != nil {
		if err := e.cache.AddRecentArb(ctx, event); err != nil {
			e.logger.WithError(err).Warn("failed to cache arb event")
		}
		if err := e.cache.PublishArb(ctx, event); err != nil {
			e.logger.WithError(err).Warn("failed to publish arb event")
		}
	}
	if e.store != nil {
		if err := e.store.InsertArb(ctx, event); err != nil {
			e.logger.WithError(err).Warn("failed to persist arb event")
		}
	}
}
