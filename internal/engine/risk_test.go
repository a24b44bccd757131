package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
)

func testCandidate(t *testing.T, notional string, buyImpact, sellImpact string) *arb.Candidate {
	t.Helper()

	market, err := amm.NewMarket("orca BTC/USDC", "BTC", "USDC", 6, 6, 30, 10000)
	require.NoError(t, err)

	return &arb.Candidate{
		BuyQuote: &amm.SwapQuote{
			Market:      market,
			Side:        amm.SideBuy,
			PriceImpact: decimal.RequireFromString(buyImpact),
		},
		SellQuote: &amm.SwapQuote{
			Market:      market,
			Side:        amm.SideSell,
			PriceImpact: decimal.RequireFromString(sellImpact),
		},
		InputAmountDecimal: decimal.RequireFromString(notional),
	}
}

func TestCheckCandidateTradeLimit(t *testing.T) {
	rm := NewRiskManager(RiskConfig{
		MaxTradeNotional:  100,
		MaxDailyNotional:  1000,
		MaxPriceImpactBps: 200,
	})

	ok := rm.CheckCandidate(testCandidate(t, "99.5", "0.5", "0.5"))
	assert.True(t, ok.Allowed)
	assert.InDelta(t, 99.5, ok.TradeNotional, 1e-9)

	rejected := rm.CheckCandidate(testCandidate(t, "100.5", "0.5", "0.5"))
	assert.False(t, rejected.Allowed)
	assert.Contains(t, rejected.Reason, "exceeds max")
}

func TestCheckCandidateDailyLimit(t *testing.T) {
	rm := NewRiskManager(RiskConfig{
		MaxTradeNotional:  100,
		MaxDailyNotional:  150,
		MaxPriceImpactBps: 200,
	})

	first := testCandidate(t, "90", "0.5", "0.5")
	require.True(t, rm.CheckCandidate(first).Allowed)
	rm.RecordTrade(first)

	second := rm.CheckCandidate(testCandidate(t, "90", "0.5", "0.5"))
	assert.False(t, second.Allowed)
	assert.Contains(t, second.Reason, "daily limit")
	assert.InDelta(t, 90, second.DailyUsed, 1e-9)

	small := rm.CheckCandidate(testCandidate(t, "50", "0.5", "0.5"))
	assert.True(t, small.Allowed)
	assert.InDelta(t, 60, small.DailyRemaining, 1e-9)
}

func TestCheckCandidatePriceImpact(t *testing.T) {
	rm := NewRiskManager(RiskConfig{
		MaxTradeNotional:  100,
		MaxDailyNotional:  1000,
		MaxPriceImpactBps: 200, // 2%
	})

	assert.True(t, rm.CheckCandidate(testCandidate(t, "10", "1.9", "2")).Allowed)

	buyHot := rm.CheckCandidate(testCandidate(t, "10", "2.1", "0.5"))
	assert.False(t, buyHot.Allowed)
	assert.Contains(t, buyHot.Reason, "buy leg")

	sellHot := rm.CheckCandidate(testCandidate(t, "10", "0.5", "3"))
	assert.False(t, sellHot.Allowed)
	assert.Contains(t, sellHot.Reason, "sell leg")
}

func TestDailyLimitTrackerReset(t *testing.T) {
	tracker := NewDailyLimitTracker()
	tracker.RecordTrade(25)
	tracker.RecordTrade(30)
	assert.InDelta(t, 55, tracker.GetDailyUsage(), 1e-9)

	tracker.Reset()
	assert.Zero(t, tracker.GetDailyUsage())
}
