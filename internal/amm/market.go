package amm

import (
	"context"
	"fmt"
)

// Side is the trade direction against a pool.
//
// "buy" spends the pair's secondary token (TokenB) to acquire the primary
// token (TokenA); "sell" is the reverse. The convention holds across all
// venues so cross-venue comparison stays well defined.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Market is the static pricing configuration of one constant-product pool:
// the ordered token pair, display decimals, and the fee schedule. Immutable
// after construction and safe to share across goroutines.
type Market struct {
	Name           string
	TokenA         string
	TokenB         string
	DecimalsA      uint8
	DecimalsB      uint8
	FeeNumerator   uint64
	FeeDenominator uint64
}

// NewMarket validates the fee schedule up front so that a misconfigured pool
// fails at startup instead of producing nonsense quotes.
func NewMarket(name, tokenA, tokenB string, decimalsA, decimalsB uint8, feeNumerator, feeDenominator uint64) (*Market, error) {
	if feeDenominator == 0 || feeNumerator >= feeDenominator {
		return nil, fmt.Errorf("market %s: invalid fee schedule %d/%d", name, feeNumerator, feeDenominator)
	}
	return &Market{
		Name:           name,
		TokenA:         tokenA,
		TokenB:         tokenB,
		DecimalsA:      decimalsA,
		DecimalsB:      decimalsB,
		FeeNumerator:   feeNumerator,
		FeeDenominator: feeDenominator,
	}, nil
}

// InputToken returns the token spent for the given side.
func (m *Market) InputToken(side Side) string {
	if side == SideBuy {
		return m.TokenB
	}
	return m.TokenA
}

// OutputToken returns the token received for the given side.
func (m *Market) OutputToken(side Side) string {
	if side == SideBuy {
		return m.TokenA
	}
	return m.TokenB
}

// InputDecimals returns the display decimals of the token spent.
func (m *Market) InputDecimals(side Side) uint8 {
	if side == SideBuy {
		return m.DecimalsB
	}
	return m.DecimalsA
}

// OutputDecimals returns the display decimals of the token received.
func (m *Market) OutputDecimals(side Side) uint8 {
	if side == SideBuy {
		return m.DecimalsA
	}
	return m.DecimalsB
}

// ReserveSnapshot is a point-in-time read of one pool's vault balances,
// ordered by the pair convention (TokenA vault, TokenB vault). Created per
// quote request and discarded after use; callers re-fetch before every
// decision because staleness is a correctness risk.
type ReserveSnapshot struct {
	VaultA uint64
	VaultB uint64
}

// ReserveFetcher supplies fresh reserve snapshots for one pool.
type ReserveFetcher interface {
	FetchReserves(ctx context.Context) (ReserveSnapshot, error)
}

// QuoteProvider is the venue-agnostic pricing capability the evaluator
// consumes. Curve pools implement it here; order-book venues can implement
// it elsewhere without the evaluator knowing the difference.
type QuoteProvider interface {
	// QuoteBothSides fetches reserves once and prices both directions of the
	// pool against that single snapshot.
	QuoteBothSides(ctx context.Context, inputAmount, slippageBps uint64) (buy, sell *SwapQuote, err error)
}
