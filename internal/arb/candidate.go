package arb

import (
	"github.com/shopspring/decimal"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
)

// Candidate is a sized two-leg arbitrage plan: buy the primary token on one
// venue, sell it on another, both amounts reconciled so the sell leg's input
// never exceeds what the buy leg is guaranteed to deliver.
//
// Amounts are base units. InputAmount and FinalOutputAmount are denominated
// in the pair's secondary token, IntermediateAmount in the primary token.
// The executor embeds them directly: leg 1 spends InputAmount with
// IntermediateAmount as its minimum out, leg 2 spends IntermediateAmount
// with FinalOutputAmount as its minimum out.
type Candidate struct {
	BuyQuote  *amm.SwapQuote
	SellQuote *amm.SwapQuote

	// IsSellBinding reports which leg's liquidity constrained the size.
	IsSellBinding bool

	InputAmount        uint64
	IntermediateAmount uint64
	FinalOutputAmount  uint64

	InputAmountDecimal decimal.Decimal
	FinalOutputDecimal decimal.Decimal

	// Ratio is FinalOutput/Input in display units, the realized round-trip
	// multiple after margin.
	Ratio decimal.Decimal
}

// TradeLeg is the venue-agnostic instruction parameter set for one swap.
type TradeLeg struct {
	Venue       string
	FromToken   string
	FromAmount  uint64
	ToToken     string
	MinToAmount uint64
}

// Legs expands the candidate into its two instruction parameter tuples in
// execution order.
func (c *Candidate) Legs() [2]TradeLeg {
	buyMkt := c.BuyQuote.Market
	sellMkt := c.SellQuote.Market
	return [2]TradeLeg{
		{
			Venue:       buyMkt.Name,
			FromToken:   buyMkt.TokenB,
			FromAmount:  c.InputAmount,
			ToToken:     buyMkt.TokenA,
			MinToAmount: c.IntermediateAmount,
		},
		{
			Venue:       sellMkt.Name,
			FromToken:   sellMkt.TokenA,
			FromAmount:  c.IntermediateAmount,
			ToToken:     sellMkt.TokenB,
			MinToAmount: c.FinalOutputAmount,
		},
	}
}
