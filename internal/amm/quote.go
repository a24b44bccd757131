package amm

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SwapQuote is the priced result of one leg of a trade.
//
// ExpectedOutputAmount is the slippage-adjusted minimum the leg is guaranteed
// to deliver (the on-chain minimum-out guard); NoSlippageOutputAmount is the
// ideal-rate output at infinitesimal size. ExpectedOutputAmount never exceeds
// NoSlippageOutputAmount.
type SwapQuote struct {
	Market *Market
	Side   Side

	InputTradeAmount       uint64
	ExpectedOutputAmount   uint64
	NoSlippageOutputAmount uint64

	// Rate is output-per-input at the actual trade size, post-fee and
	// post-curve but before the slippage cut.
	Rate decimal.Decimal

	// Price is directional: buy quotes carry input-per-output (the cost of
	// one unit of the primary token), sell quotes carry output-per-input.
	// Multiplying a buy price by a sell price therefore yields a round-trip
	// ratio in consistent units.
	Price decimal.Decimal

	// PriceImpact is the worst-case divergence from the ideal rate in
	// percent, measured against the slippage-adjusted output.
	PriceImpact decimal.Decimal

	InPoolAmount         uint64
	OutPoolAmount        uint64
	SlippageToleranceBps uint64
}

// Rate is expectedOutputAmount/inputAmount in display units, rounded to the
// output token's decimals. Zero when inputAmount is zero.
func (m *Market) Rate(inputAmount, inPool, outPool uint64, side Side) (decimal.Decimal, error) {
	expected, err := m.ExpectedOutputAmount(inputAmount, inPool, outPool)
	if err != nil {
		return decimal.Zero, err
	}
	return m.displayRate(inputAmount, expected, side), nil
}

// MinRate is the conservative floor rate: minimumAmountOut/inputAmount in
// display units, rounded to the output token's decimals.
func (m *Market) MinRate(inputAmount, inPool, outPool uint64, side Side, slippageBps uint64) (decimal.Decimal, error) {
	minOut, err := m.MinimumAmountOut(inputAmount, inPool, outPool, slippageBps)
	if err != nil {
		return decimal.Zero, err
	}
	return m.displayRate(inputAmount, minOut, side), nil
}

// PriceImpact is the curve-convexity cost in percent, excluding the slippage
// cut: (noSlip - expected) / noSlip * 100, rounded to output decimals.
func (m *Market) PriceImpact(inputAmount, inPool, outPool uint64, side Side) (decimal.Decimal, error) {
	expected, err := m.ExpectedOutputAmount(inputAmount, inPool, outPool)
	if err != nil {
		return decimal.Zero, err
	}
	return m.impact(inputAmount, expected, inPool, outPool, side)
}

// MaxPriceImpact is PriceImpact measured against minimumAmountOut, i.e. the
// worst case with the slippage guard included.
func (m *Market) MaxPriceImpact(inputAmount, inPool, outPool uint64, side Side, slippageBps uint64) (decimal.Decimal, error) {
	minOut, err := m.MinimumAmountOut(inputAmount, inPool, outPool, slippageBps)
	if err != nil {
		return decimal.Zero, err
	}
	return m.impact(inputAmount, minOut, inPool, outPool, side)
}

func (m *Market) displayRate(inputAmount, outputAmount uint64, side Side) decimal.Decimal {
	if inputAmount == 0 {
		return decimal.Zero
	}
	in := AmountToDecimal(inputAmount, m.InputDecimals(side))
	out := AmountToDecimal(outputAmount, m.OutputDecimals(side))
	return out.Div(in).Round(int32(m.OutputDecimals(side)))
}

func (m *Market) impact(inputAmount, realizedOutput, inPool, outPool uint64, side Side) (decimal.Decimal, error) {
	if inputAmount == 0 {
		return decimal.Zero, nil
	}
	noSlip, err := m.ExpectedOutputAmountNoSlippage(inputAmount, inPool, outPool)
	if err != nil {
		return decimal.Zero, err
	}
	if noSlip == 0 {
		return decimal.Zero, nil
	}
	ideal := decimal.NewFromUint64(noSlip)
	realized := decimal.NewFromUint64(realizedOutput)
	return ideal.Sub(realized).Div(ideal).Mul(oneHundred).Round(int32(m.OutputDecimals(side))), nil
}

// Quote prices one direction of the pool against a single reserve snapshot.
// A zero inputAmount is replaced by OptimalInputAmount; if that is still zero
// the quote comes back zero-valued rather than as an error.
func (m *Market) Quote(side Side, inPool, outPool, inputAmount, slippageBps uint64) (*SwapQuote, error) {
	if inputAmount == 0 {
		inputAmount = OptimalInputAmount(inPool, outPool, slippageBps)
	}
	if inputAmount == 0 {
		return &SwapQuote{
			Market:               m,
			Side:                 side,
			InPoolAmount:         inPool,
			OutPoolAmount:        outPool,
			SlippageToleranceBps: slippageBps,
		}, nil
	}
	if inputAmount >= inPool {
		return nil, fmt.Errorf("quote %s %s (input %d, pool %d): %w",
			m.Name, side, inputAmount, inPool, ErrInsufficientLiquidity)
	}

	minOut, err := m.MinimumAmountOut(inputAmount, inPool, outPool, slippageBps)
	if err != nil {
		return nil, fmt.Errorf("quote %s %s: %w", m.Name, side, err)
	}
	noSlip, err := m.ExpectedOutputAmountNoSlippage(inputAmount, inPool, outPool)
	if err != nil {
		return nil, fmt.Errorf("quote %s %s: %w", m.Name, side, err)
	}
	expected, err := m.ExpectedOutputAmount(inputAmount, inPool, outPool)
	if err != nil {
		return nil, fmt.Errorf("quote %s %s: %w", m.Name, side, err)
	}

	rate := m.displayRate(inputAmount, expected, side)
	minRate := m.displayRate(inputAmount, minOut, side)
	impact, err := m.impact(inputAmount, minOut, inPool, outPool, side)
	if err != nil {
		return nil, fmt.Errorf("quote %s %s: %w", m.Name, side, err)
	}

	var price decimal.Decimal
	if side == SideBuy {
		if !minRate.IsZero() {
			price = decimal.NewFromInt(1).Div(minRate).Round(int32(m.InputDecimals(side)))
		}
	} else {
		price = minRate
	}

	return &SwapQuote{
		Market:                 m,
		Side:                   side,
		InputTradeAmount:       inputAmount,
		ExpectedOutputAmount:   minOut,
		NoSlippageOutputAmount: noSlip,
		Rate:                   rate,
		Price:                  price,
		PriceImpact:            impact,
		InPoolAmount:           inPool,
		OutPoolAmount:          outPool,
		SlippageToleranceBps:   slippageBps,
	}, nil
}

// QuoteBothSides fetches reserves once and prices both directions against
// that snapshot. Buying consumes the TokenB vault as input against the
// TokenA vault; selling is the mirror.
func (m *Market) QuoteBothSides(ctx context.Context, fetcher ReserveFetcher, inputAmount, slippageBps uint64) (buy, sell *SwapQuote, err error) {
	snap, err := fetcher.FetchReserves(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch reserves for %s: %w", m.Name, err)
	}

	buy, err = m.Quote(SideBuy, snap.VaultB, snap.VaultA, inputAmount, slippageBps)
	if err != nil {
		return nil, nil, err
	}
	sell, err = m.Quote(SideSell, snap.VaultA, snap.VaultB, inputAmount, slippageBps)
	if err != nil {
		return nil, nil, err
	}
	return buy, sell, nil
}

// CurveQuoter binds a market to its reserve fetcher and satisfies
// QuoteProvider for curve pools.
type CurveQuoter struct {
	Market  *Market
	Fetcher ReserveFetcher
}

func (q *CurveQuoter) QuoteBothSides(ctx context.Context, inputAmount, slippageBps uint64) (*SwapQuote, *SwapQuote, error) {
	return q.Market.QuoteBothSides(ctx, q.Fetcher, inputAmount, slippageBps)
}
