package arb

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
)

const bpsDenominator = 10000

// Evaluator decides whether a matched (buy, sell) quote pair is worth
// executing and sizes the two legs. It holds no mutable state and is safe
// for concurrent use.
type Evaluator struct {
	marginBps    uint64
	thresholdBps uint64

	// margin is 1 - marginBps/10000, applied to each leg's rate during
	// sizing so the submitted amounts stay inside what the quotes promise.
	margin decimal.Decimal

	// threshold is 1 + thresholdBps/10000, the round-trip ratio a pair must
	// beat before sizing is attempted.
	threshold decimal.Decimal
}

// NewEvaluator builds an evaluator from basis-point parameters. marginBps
// must leave a positive margin factor.
func NewEvaluator(marginBps, thresholdBps uint64) (*Evaluator, error) {
	if marginBps >= bpsDenominator {
		return nil, fmt.Errorf("evaluator: margin %d bps leaves no executable size", marginBps)
	}
	one := decimal.NewFromInt(1)
	den := decimal.NewFromInt(bpsDenominator)
	return &Evaluator{
		marginBps:    marginBps,
		thresholdBps: thresholdBps,
		margin:       one.Sub(decimal.NewFromUint64(marginBps).Div(den)),
		threshold:    one.Add(decimal.NewFromUint64(thresholdBps).Div(den)),
	}, nil
}

// MarginBps returns the configured sizing margin.
func (e *Evaluator) MarginBps() uint64 { return e.marginBps }

// ThresholdBps returns the configured profitability threshold.
func (e *Evaluator) ThresholdBps() uint64 { return e.thresholdBps }

// Profitable is the gate run before sizing: the product of the two legs'
// rates must exceed the threshold. Fees and slippage are already embedded in
// each leg's rate, so the product is the round-trip multiple.
func (e *Evaluator) Profitable(buy, sell *amm.SwapQuote) bool {
	return buy.Rate.Mul(sell.Rate).GreaterThan(e.threshold)
}

// Evaluate sizes the two legs of a profitable pair into a Candidate.
//
// Both quotes' trade values are compared in the secondary token: the buy
// input counts directly, the sell input converts through the sell price. The
// smaller value is the binding leg and fixes the intermediate amount; the
// other leg's amount is derived through its rate scaled by the margin factor.
func (e *Evaluator) Evaluate(buy, sell *amm.SwapQuote) (*Candidate, error) {
	if buy.Side != amm.SideBuy || sell.Side != amm.SideSell {
		return nil, fmt.Errorf("evaluate: leg sides are %s/%s, want buy/sell", buy.Side, sell.Side)
	}
	if buy.Market.TokenA != sell.Market.TokenA || buy.Market.TokenB != sell.Market.TokenB {
		return nil, fmt.Errorf("evaluate: mismatched pairs %s-%s vs %s-%s",
			buy.Market.TokenA, buy.Market.TokenB, sell.Market.TokenA, sell.Market.TokenB)
	}
	if buy.InputTradeAmount == 0 || sell.InputTradeAmount == 0 {
		return nil, ErrNoOpportunity
	}
	if buy.Rate.IsZero() || sell.Rate.IsZero() {
		return nil, ErrZeroRate
	}

	buyValue := amm.AmountToDecimal(buy.InputTradeAmount, buy.Market.DecimalsB)
	sellValue := amm.AmountToDecimal(sell.InputTradeAmount, sell.Market.DecimalsA).Mul(sell.Price)

	c := &Candidate{
		BuyQuote:      buy,
		SellQuote:     sell,
		IsSellBinding: sellValue.LessThan(buyValue),
	}

	if c.IsSellBinding {
		// The sell leg can absorb less than the buy leg would deliver:
		// shrink the buy leg so its output lands on the sell leg's input.
		c.IntermediateAmount = sell.InputTradeAmount
		c.FinalOutputAmount = sell.ExpectedOutputAmount

		c.InputAmountDecimal = amm.AmountToDecimal(c.IntermediateAmount, buy.Market.DecimalsA).
			Div(buy.Rate.Mul(e.margin))
		input, err := amm.DecimalToAmount(c.InputAmountDecimal, buy.Market.DecimalsB)
		if err != nil {
			return nil, fmt.Errorf("evaluate: sizing input: %w", err)
		}
		c.InputAmount = input
		c.FinalOutputDecimal = amm.AmountToDecimal(c.FinalOutputAmount, sell.Market.DecimalsB)
	} else {
		// The buy leg is the constraint: take it whole and project the sell
		// leg's output through its margin-scaled rate.
		c.InputAmount = buy.InputTradeAmount
		c.InputAmountDecimal = amm.AmountToDecimal(c.InputAmount, buy.Market.DecimalsB)
		c.IntermediateAmount = buy.ExpectedOutputAmount

		c.FinalOutputDecimal = amm.AmountToDecimal(c.IntermediateAmount, buy.Market.DecimalsA).
			Mul(sell.Rate.Mul(e.margin))
		final, err := amm.DecimalToAmount(c.FinalOutputDecimal, sell.Market.DecimalsB)
		if err != nil {
			return nil, fmt.Errorf("evaluate: sizing output: %w", err)
		}
		c.FinalOutputAmount = final
	}

	if c.InputAmount == 0 {
		return nil, ErrNoOpportunity
	}
	c.Ratio = c.FinalOutputDecimal.Div(c.InputAmountDecimal)

	return c, nil
}
