package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/models"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/token"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
)

func testRegistry(t *testing.T) *venue.Registry {
	t.Helper()

	tokens, err := token.NewRegistry()
	require.NoError(t, err)

	configs := []venue.Config{
		{
			Name:           "orca BTC/USDC",
			Dex:            venue.DexOrca,
			Pair:           "BTC/USDC",
			TokenA:         "BTC",
			TokenB:         "USDC",
			FeeNumerator:   30,
			FeeDenominator: 10000,
			ProgramID:      "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
			SwapAccount:    "2dwHmCoAGxCXvTbLTMjqAhvEFAHWUt9kZaroJJJdmoD4",
			Authority:      "BwJ1vMtJiBy7dJaVToR1KUwVbBsGUTNN4QdKVSf8EEh1",
			VaultA:         "D3Wv78j9STkfJx3vhzoCzpMZ4RqCg8oaTNGzi1rZpdJg",
			VaultB:         "HMFLg2GtbWSSEe92Vuf2LQdUpCacGj2m2PwvMqzwQFNi",
			PoolMint:       "J3kvcay3N16FBdawgnqoJ9v9p6XCvyCLE2Z9F5RLvGkj",
			FeeAccount:     "HR7c67SkeLvCpHrVSu7MiiAERQh6iD1NrCJsj3kWiZnK",
		},
		{
			Name:           "raydium BTC/USDC",
			Dex:            venue.DexRaydium,
			Pair:           "BTC/USDC",
			TokenA:         "BTC",
			TokenB:         "USDC",
			FeeNumerator:   25,
			FeeDenominator: 10000,
			ProgramID:      "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
			SwapAccount:    "6kbC5epG18DF2DwPEW34tBy5pGFS7pEGALR3v5MGxgc5",
			Authority:      "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
			VaultA:         "HWTaEDR6BpWjmyeUyfGZjeppLnH7s8o225Saar7FYDt5",
			VaultB:         "7iGcnvoLAxthsXY3AFSgkTDoqnLiuti5fyPNm2VwZ3Wz",
			OpenOrders:     "L6A7qW935i2HgaiaRx6xNGCGQfFr4myFU51dUSnCshd",
			TargetOrders:   "6DGjaczWfFthTYW7oBk3MXP2mMwrYq86PA3ki5YF6hLg",
			Serum: &venue.SerumConfig{
				ProgramID:   "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
				Market:      "A8YFbxQYFVqKZaoYJLLUVcQiWP7G2MeEgW5wsAQgMvFw",
				Bids:        "6wLt7CX1zZdFpa6uGJJpZfzWvG6W9rxXjquJDYiFwf9K",
				Asks:        "6EyVXMMA58Nf6MScqeLpw1jS12RCpry23u9VMfy8b65Y",
				EventQueue:  "6NQqaa48SnBBJZt9HyVPngcZFW81JfDv9EjRX2M4WkbP",
				VaultA:      "GZ1YSupuUq9kB28kX9t1j9qCpN67AMMwn4Q72BzeSpfR",
				VaultB:      "7sP9fug8rqZFLbXoEj8DETF81KasaRA1fr6jQb6ScKc5",
				VaultSigner: "GBWgHXLf1fX4J1p5fAkQoEbnjpgjxUtr4mrVgtj9wW8a",
			},
		},
	}

	r, err := venue.NewRegistry(configs, tokens)
	require.NoError(t, err)
	return r
}

// staticReserves serves canned snapshots keyed by venue name.
type staticReserves struct {
	snapshots map[string]amm.ReserveSnapshot
}

func (s *staticReserves) ForVenue(v *venue.Venue) amm.ReserveFetcher {
	return staticVenueFetcher{snap: s.snapshots[v.Name]}
}

type staticVenueFetcher struct {
	snap amm.ReserveSnapshot
}

func (f staticVenueFetcher) FetchReserves(ctx context.Context) (amm.ReserveSnapshot, error) {
	return f.snap, nil
}

// recordingCache captures published events in memory.
type recordingCache struct {
	recent    []*models.ArbEvent
	published []*models.ArbEvent
	enabled   bool
}

func (c *recordingCache) AddRecentArb(ctx context.Context, e *models.ArbEvent) error {
	c.recent = append(c.recent, e)
	return nil
}

func (c *recordingCache) GetRecentArbs(ctx context.Context, limit int64) ([]*models.ArbEvent, error) {
	return c.recent, nil
}

func (c *recordingCache) PublishArb(ctx context.Context, e *models.ArbEvent) error {
	c.published = append(c.published, e)
	return nil
}

func (c *recordingCache) SubscribeArbs(ctx context.Context) (<-chan *models.ArbEvent, error) {
	ch := make(chan *models.ArbEvent)
	close(ch)
	return ch, nil
}

func (c *recordingCache) TradingEnabled(ctx context.Context) (bool, error) {
	return c.enabled, nil
}

func (c *recordingCache) SetTradingEnabled(ctx context.Context, enabled bool) error {
	c.enabled = enabled
	return nil
}

func (c *recordingCache) Ping(ctx context.Context) error { return nil }
func (c *recordingCache) Close() error                   { return nil }

func newTestEngine(t *testing.T, cache *recordingCache) *Engine {
	t.Helper()

	evaluator, err := arb.NewEvaluator(5, 10)
	require.NoError(t, err)

	// The Orca pool prices the primary token at ~1, the Raydium pool at ~2:
	// buying on Orca and selling on Raydium clears any sane threshold, the
	// reverse direction never does.
	source := &staticReserves{snapshots: map[string]amm.ReserveSnapshot{
		"orca BTC/USDC":    {VaultA: 10_000_000_000, VaultB: 10_000_000_000},
		"raydium BTC/USDC": {VaultA: 10_000_000_000, VaultB: 20_000_000_000},
	}}

	cfg := Config{
		Registry:     testRegistry(t),
		Fetcher:      source,
		Evaluator:    evaluator,
		PollInterval: time.Second,
		SlippageBps:  50,
		DryRun:       true,
	}
	if cache != nil {
		cfg.Cache = cache
	}

	eng, err := New(cfg)
	require.NoError(t, err)
	return eng
}

func TestScanOnceFindsCrossVenueOpportunity(t *testing.T) {
	eng := newTestEngine(t, nil)

	opps, err := eng.ScanOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "BTC/USDC", opp.Pair)
	assert.Equal(t, "orca BTC/USDC", opp.BuyVenue.Name)
	assert.Equal(t, "raydium BTC/USDC", opp.SellVenue.Name)

	c := opp.Candidate
	assert.NotZero(t, c.InputAmount)
	assert.NotZero(t, c.IntermediateAmount)
	assert.NotZero(t, c.FinalOutputAmount)
	assert.True(t, c.Ratio.GreaterThan(decimal.NewFromInt(1)), "round trip should beat break-even")
	assert.True(t, c.FinalOutputAmount > c.InputAmount)
}

func TestScanOnceBalancedPoolsFindNothing(t *testing.T) {
	eng := newTestEngine(t, nil)
	eng.fetcher = &staticReserves{snapshots: map[string]amm.ReserveSnapshot{
		"orca BTC/USDC":    {VaultA: 10_000_000_000, VaultB: 10_000_000_000},
		"raydium BTC/USDC": {VaultA: 10_000_000_000, VaultB: 10_000_000_000},
	}}

	opps, err := eng.ScanOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestProcessDryRunPublishesEvent(t *testing.T) {
	cache := &recordingCache{enabled: true}
	eng := newTestEngine(t, cache)

	opps, err := eng.ScanOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	require.NoError(t, eng.Process(context.Background(), opps[0]))

	require.Len(t, cache.recent, 1)
	require.Len(t, cache.published, 1)

	event := cache.published[0]
	assert.True(t, event.DryRun)
	assert.False(t, event.Executed)
	assert.Empty(t, event.Signature)
	assert.Equal(t, "orca BTC/USDC", event.BuyVenue)
	assert.Equal(t, "raydium BTC/USDC", event.SellVenue)
	assert.Greater(t, event.Ratio, 1.0)
	assert.Greater(t, event.OutputAmount, event.InputAmount)
}

func TestProcessRiskRejectionSkipsEvent(t *testing.T) {
	cache := &recordingCache{enabled: true}
	eng := newTestEngine(t, cache)
	eng.risk = NewRiskManager(RiskConfig{
		MaxTradeNotional:  0.000001,
		MaxDailyNotional:  10000,
		MaxPriceImpactBps: 200,
	})

	opps, err := eng.ScanOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)

	require.NoError(t, eng.Process(context.Background(), opps[0]))
	assert.Empty(t, cache.recent)
	assert.Empty(t, cache.published)
}

func TestNewRequiresCoreDependencies(t *testing.T) {
	evaluator, err := arb.NewEvaluator(5, 10)
	require.NoError(t, err)

	_, err = New(Config{Fetcher: &staticReserves{}, Evaluator: evaluator})
	assert.Error(t, err)

	_, err = New(Config{Registry: testRegistry(t), Evaluator: evaluator})
	assert.Error(t, err)

	_, err = New(Config{Registry: testRegistry(t), Fetcher: &staticReserves{}})
	assert.Error(t, err)
}
