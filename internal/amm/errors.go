package amm

import "errors"

var (
	// ErrInsufficientLiquidity means the curve would have to pay out more than
	// the pool holds. Callers skip the candidate; it is never fatal.
	ErrInsufficientLiquidity = errors.New("amm: insufficient liquidity for trade size")

	// ErrAmountOverflow means an intermediate result does not fit in uint64.
	ErrAmountOverflow = errors.New("amm: amount overflows uint64")
)
