package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
)

// RiskConfig defines risk management parameters. Notional values are in the
// pair's secondary token, display units.
type RiskConfig struct {
	// Per-transaction limit
	MaxTradeNotional float64

	// Daily limit (rolling 24h window)
	MaxDailyNotional float64

	// Max price impact either leg may carry, in bps
	MaxPriceImpactBps uint64
}

// DefaultRiskConfig returns conservative risk settings
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		MaxTradeNotional:  1000,
		MaxDailyNotional:  10000,
		MaxPriceImpactBps: 200, // 2%
	}
}

// RiskCheckResult reports the outcome of a risk check.
type RiskCheckResult struct {
	Allowed bool
	Reason  string

	TradeNotional  float64
	DailyUsed      float64
	DailyRemaining float64
}

// RiskManager enforces risk limits. Not safe for concurrent use; the scan
// loop is the only caller.
type RiskManager struct {
	config       RiskConfig
	dailyTracker *DailyLimitTracker
}

// NewRiskManager creates a risk manager with the given config
func NewRiskManager(config RiskConfig) *RiskManager {
	return &RiskManager{
		config:       config,
		dailyTracker: NewDailyLimitTracker(),
	}
}

// CheckCandidate validates a sized arbitrage candidate against all risk rules.
func (rm *RiskManager) CheckCandidate(c *arb.Candidate) *RiskCheckResult {
	notional := c.InputAmountDecimal.InexactFloat64()

	result := &RiskCheckResult{
		Allowed:       true,
		TradeNotional: notional,
	}

	// 1. Check per-transaction limit
	if notional > rm.config.MaxTradeNotional {
		result.Allowed = false
		result.Reason = fmt.Sprintf("trade notional %.4f exceeds max %.4f per transaction",
			notional, rm.config.MaxTradeNotional)
		return result
	}

	// 2. Check daily limit
	dailyUsed := rm.dailyTracker.GetDailyUsage()
	result.DailyUsed = dailyUsed
	result.DailyRemaining = rm.config.MaxDailyNotional - dailyUsed

	if dailyUsed+notional > rm.config.MaxDailyNotional {
		result.Allowed = false
		result.Reason = fmt.Sprintf("daily limit exceeded: used %.4f + %.4f > %.4f",
			dailyUsed, notional, rm.config.MaxDailyNotional)
		return result
	}

	// 3. Check price impact on both legs
	maxImpact := decimal.NewFromUint64(rm.config.MaxPriceImpactBps).Div(decimal.NewFromInt(100))
	for _, q := range []struct {
		leg    string
		impact decimal.Decimal
	}{
		{"buy", c.BuyQuote.PriceImpact},
		{"sell", c.SellQuote.PriceImpact},
	} {
		if q.impact.GreaterThan(maxImpact) {
			result.Allowed = false
			result.Reason = fmt.Sprintf("%s leg price impact %s%% exceeds max %s%%",
				q.leg, q.impact.String(), maxImpact.String())
			return result
		}
	}

	return result
}

// RecordTrade records an executed candidate for daily limit tracking
func (rm *RiskManager) RecordTrade(c *arb.Candidate) {
	rm.dailyTracker.RecordTrade(c.InputAmountDecimal.InexactFloat64())
}

// DailyLimitTracker tracks rolling 24-hour usage
type DailyLimitTracker struct {
	trades []tradeRecord
}

type tradeRecord struct {
	timestamp time.Time
	notional  float64
}

// NewDailyLimitTracker creates a new tracker
func NewDailyLimitTracker() *DailyLimitTracker {
	return &DailyLimitTracker{
		trades: make([]tradeRecord, 0),
	}
}

// RecordTrade adds a trade to the tracker
func (t *DailyLimitTracker) RecordTrade(notional float64) {
	t.trades = append(t.trades, tradeRecord{
		timestamp: time.Now(),
		notional:  notional,
	})

	// Clean up old records
	t.cleanup()
}

// GetDailyUsage calculates total usage in the last 24 hours
func (t *DailyLimitTracker) GetDailyUsage() float64 {
	t.cleanup()

	total := 0.0
	for _, trade := range t.trades {
		total += trade.notional
	}
	return total
}

// cleanup removes trades older than 24 hours
func (t *DailyLimitTracker) cleanup() {
	cutoff := time.Now().Add(-24 * time.Hour)

	newTrades := make([]tradeRecord, 0, len(t.trades))
	for _, trade := range t.trades {
		if trade.timestamp.After(cutoff) {
			newTrades = append(newTrades, trade)
		}
	}

	t.trades = newTrades
}

// Reset clears all tracked trades (for testing)
func (t *DailyLimitTracker) Reset() {
	t.trades = make([]tradeRecord, 0)
}
