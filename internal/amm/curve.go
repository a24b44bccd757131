package amm

import (
	"math/big"
)

// SlippageDenominator is the single fixed denominator for slippage tolerance
// everywhere in this codebase: tolerances are expressed in basis points out
// of 10000. Venue code that historically used out-of-1000 values must convert
// at the config boundary, never here.
const SlippageDenominator = 10000

// OutputAmount computes the raw constant-product output for inputAmount
// against pool reserves, with no fee applied.
//
// The invariant k = inPool * outPool is held; the new output-side reserve is
// ceil(k / (inPool + inputAmount)). Ceiling division rounds in the pool's
// favor, so the trader can never extract more than the exact curve allows.
func OutputAmount(inputAmount, inPool, outPool uint64) (uint64, error) {
	if inputAmount == 0 {
		return 0, nil
	}

	invariant := new(big.Int).Mul(
		new(big.Int).SetUint64(inPool),
		new(big.Int).SetUint64(outPool),
	)
	newPoolInput := new(big.Int).Add(
		new(big.Int).SetUint64(inPool),
		new(big.Int).SetUint64(inputAmount),
	)

	newPoolOutput := ceilDiv(invariant, newPoolInput)

	outPoolBig := new(big.Int).SetUint64(outPool)
	if newPoolOutput.Cmp(outPoolBig) > 0 {
		return 0, ErrInsufficientLiquidity
	}

	out := new(big.Int).Sub(outPoolBig, newPoolOutput)
	if !out.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return out.Uint64(), nil
}

// LPFee is the liquidity-provider fee for inputAmount under the given fee
// schedule. Truncating division: rounding favors the pool.
func LPFee(inputAmount, feeNumerator, feeDenominator uint64) uint64 {
	if feeDenominator == 0 {
		return 0
	}
	fee := new(big.Int).Mul(
		new(big.Int).SetUint64(inputAmount),
		new(big.Int).SetUint64(feeNumerator),
	)
	fee.Div(fee, new(big.Int).SetUint64(feeDenominator))
	// fee <= inputAmount because feeNumerator < feeDenominator
	return fee.Uint64()
}

// ExpectedOutputAmount is the receivable output for inputAmount after the
// market's fee is deducted from the input, with no slippage guard applied.
func (m *Market) ExpectedOutputAmount(inputAmount, inPool, outPool uint64) (uint64, error) {
	lessFees := inputAmount - LPFee(inputAmount, m.FeeNumerator, m.FeeDenominator)
	return OutputAmount(lessFees, inPool, outPool)
}

// ExpectedOutputAmountNoSlippage is the fee-adjusted input priced at the
// ideal spot rate outPool/inPool, i.e. the output an infinitesimally small
// trade would get. An empty input-side pool returns outPool unchanged.
func (m *Market) ExpectedOutputAmountNoSlippage(inputAmount, inPool, outPool uint64) (uint64, error) {
	if inPool == 0 {
		return outPool, nil
	}

	lessFees := inputAmount - LPFee(inputAmount, m.FeeNumerator, m.FeeDenominator)
	out := new(big.Int).Mul(
		new(big.Int).SetUint64(lessFees),
		new(big.Int).SetUint64(outPool),
	)
	out.Div(out, new(big.Int).SetUint64(inPool))
	if !out.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return out.Uint64(), nil
}

// MinimumAmountOut applies the slippage tolerance to ExpectedOutputAmount.
// This is the binding minimum-out guard submitted on-chain.
func (m *Market) MinimumAmountOut(inputAmount, inPool, outPool, slippageBps uint64) (uint64, error) {
	expected, err := m.ExpectedOutputAmount(inputAmount, inPool, outPool)
	if err != nil {
		return 0, err
	}
	if slippageBps >= SlippageDenominator {
		return 0, nil
	}

	out := new(big.Int).Mul(
		new(big.Int).SetUint64(expected),
		new(big.Int).SetUint64(SlippageDenominator-slippageBps),
	)
	out.Div(out, big.NewInt(SlippageDenominator))
	return out.Uint64(), nil
}

// OptimalInputAmount is the default probe size when the caller does not pick
// one: inPool * slippageBps / 10000. Scaling to pool depth keeps probes on
// shallow pools from quoting past their own liquidity.
func OptimalInputAmount(inPool, outPool, slippageBps uint64) uint64 {
	_ = outPool // kept for signature symmetry with the other curve queries

	out := new(big.Int).Mul(
		new(big.Int).SetUint64(inPool),
		new(big.Int).SetUint64(slippageBps),
	)
	out.Div(out, big.NewInt(SlippageDenominator))
	if !out.IsUint64() {
		return 0
	}
	return out.Uint64()
}

// ceilDiv returns ceil(dividend/divisor) for positive divisor.
func ceilDiv(dividend, divisor *big.Int) *big.Int {
	q, r := new(big.Int).DivMod(dividend, divisor, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
