package arb

import "errors"

var (
	// ErrNoOpportunity means one of the legs carries a zero-size quote, so
	// there is nothing to size. Callers skip the pair and move on.
	ErrNoOpportunity = errors.New("arb: no opportunity")

	// ErrZeroRate means a leg's rate is zero and sizing would divide by it.
	// Treated as "no opportunity", never as an arithmetic fault.
	ErrZeroRate = errors.New("arb: zero rate")
)
