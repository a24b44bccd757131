// Package reserves reads live pool vault balances. Snapshots are fetched
// fresh per quote request; nothing is cached, because a stale reserve read
// silently misprices every quote derived from it.
package reserves

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
)

// Fetcher reads vault balances over RPC, throttled by a shared rate limiter
// so a tight evaluation loop cannot hammer a public endpoint.
type Fetcher struct {
	rpcClient *rpc.Client
	limiter   *rate.Limiter
	logger    *logrus.Logger
}

// Config holds fetcher settings.
type Config struct {
	RPCClient *rpc.Client
	// RequestsPerSecond bounds vault-balance reads across all venues.
	RequestsPerSecond float64
	Burst             int
	Logger            *logrus.Logger
}

// NewFetcher creates a rate-limited reserve fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}

	return &Fetcher{
		rpcClient: cfg.RPCClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:    cfg.Logger,
	}
}

// Snapshot reads both vault balances of a venue.
func (f *Fetcher) Snapshot(ctx context.Context, v *venue.Venue) (amm.ReserveSnapshot, error) {
	balA, err := f.balance(ctx, v.VaultA.String())
	if err != nil {
		return amm.ReserveSnapshot{}, fmt.Errorf("venue %s vault A: %w", v.Name, err)
	}
	balB, err := f.balance(ctx, v.VaultB.String())
	if err != nil {
		return amm.ReserveSnapshot{}, fmt.Errorf("venue %s vault B: %w", v.Name, err)
	}

	f.logger.WithFields(logrus.Fields{
		"venue":   v.Name,
		"vault_a": balA,
		"vault_b": balB,
	}).Debug("fetched reserves")

	return amm.ReserveSnapshot{VaultA: balA, VaultB: balB}, nil
}

func (f *Fetcher) balance(ctx context.Context, account string) (uint64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return f.rpcClient.GetTokenAccountBalance(ctx, account)
}

// ForVenue binds the fetcher to one venue as an amm.ReserveFetcher.
func (f *Fetcher) ForVenue(v *venue.Venue) amm.ReserveFetcher {
	return venueFetcher{f: f, v: v}
}

type venueFetcher struct {
	f *Fetcher
	v *venue.Venue
}

func (vf venueFetcher) FetchReserves(ctx context.Context) (amm.ReserveSnapshot, error) {
	return vf.f.Snapshot(ctx, vf.v)
}
