package amm

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarket(t *testing.T, feeNum, feeDen uint64) *Market {
	t.Helper()
	m, err := NewMarket("TEST/USDC", "TEST", "USDC", 6, 6, feeNum, feeDen)
	require.NoError(t, err)
	return m
}

func TestOutputAmount(t *testing.T) {
	tests := []struct {
		name                    string
		input, inPool, outPool  uint64
		want                    uint64
	}{
		{"zero input", 0, 1_000_000, 500_000, 0},
		{"tiny trade", 10, 1_000_000, 500_000, 4},
		{"deep pool", 10_000_000_000, 1_000_000_000_000, 500_000_000_000, 4_950_495_049},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputAmount(tt.input, tt.inPool, tt.outPool)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputAmountNeverBeatsExactCurve(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10_000; i++ {
		inPool := rng.Uint64()%1_000_000_000_000 + 1
		outPool := rng.Uint64()%1_000_000_000_000 + 1
		input := rng.Uint64()%inPool + 1

		got, err := OutputAmount(input, inPool, outPool)
		require.NoError(t, err)

		// exact = outPool - inPool*outPool/(inPool+input), as a rational
		k := new(big.Rat).SetInt(new(big.Int).Mul(
			new(big.Int).SetUint64(inPool),
			new(big.Int).SetUint64(outPool),
		))
		nIn := new(big.Rat).SetInt(new(big.Int).Add(
			new(big.Int).SetUint64(inPool),
			new(big.Int).SetUint64(input),
		))
		exact := new(big.Rat).Sub(
			new(big.Rat).SetInt(new(big.Int).SetUint64(outPool)),
			new(big.Rat).Quo(k, nIn),
		)

		gotRat := new(big.Rat).SetInt(new(big.Int).SetUint64(got))
		require.LessOrEqual(t, gotRat.Cmp(exact), 0,
			"rounding paid trader more than the curve: in=%d pools=%d/%d", input, inPool, outPool)
	}
}

func TestLPFee(t *testing.T) {
	tests := []struct {
		name             string
		input, num, den  uint64
		want             uint64
	}{
		{"30bps", 10_000_000_000, 30, 10000, 30_000_000},
		{"25bps", 10_000_000, 25, 10000, 25_000},
		{"truncates", 999, 30, 10000, 2},
		{"zero denominator", 1000, 30, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LPFee(tt.input, tt.num, tt.den))
		})
	}
}

func TestExpectedOutputAmountDeepPool(t *testing.T) {
	m := testMarket(t, 30, 10000)

	const (
		inPool  = 1_000_000_000_000
		outPool = 500_000_000_000
		input   = 10_000_000_000
	)

	expected, err := m.ExpectedOutputAmount(input, inPool, outPool)
	require.NoError(t, err)
	assert.Equal(t, uint64(4_935_790_171), expected)

	noSlip, err := m.ExpectedOutputAmountNoSlippage(input, inPool, outPool)
	require.NoError(t, err)
	assert.Equal(t, uint64(4_985_000_000), noSlip)
}

func TestMinimumAmountOut(t *testing.T) {
	m := testMarket(t, 30, 10000)

	const (
		inPool  = 1_000_000_000_000
		outPool = 500_000_000_000
		input   = 10_000_000_000
	)

	tests := []struct {
		name        string
		slippageBps uint64
		want        uint64
	}{
		{"1bp", 1, 4_935_296_591},
		{"10bps", 10, 4_930_854_380},
		{"zero tolerance", 0, 4_935_790_171},
		{"full tolerance", 10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.MinimumAmountOut(input, inPool, outPool, tt.slippageBps)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuardOrdering(t *testing.T) {
	m := testMarket(t, 25, 10000)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5_000; i++ {
		inPool := rng.Uint64()%1_000_000_000_000 + 1_000
		outPool := rng.Uint64()%1_000_000_000_000 + 1_000
		input := rng.Uint64()%(inPool/2) + 1
		slippageBps := rng.Uint64() % 500

		minOut, err := m.MinimumAmountOut(input, inPool, outPool, slippageBps)
		require.NoError(t, err)
		expected, err := m.ExpectedOutputAmount(input, inPool, outPool)
		require.NoError(t, err)
		noSlip, err := m.ExpectedOutputAmountNoSlippage(input, inPool, outPool)
		require.NoError(t, err)

		require.LessOrEqual(t, minOut, expected)
		require.LessOrEqual(t, expected, noSlip)
	}
}

func TestExpectedOutputMonotonicInInput(t *testing.T) {
	m := testMarket(t, 30, 10000)

	const (
		inPool  = 1_000_000_000
		outPool = 500_000_000
	)

	var prev uint64
	for input := uint64(1_000); input < inPool/2; input += 997_000 {
		out, err := m.ExpectedOutputAmount(input, inPool, outPool)
		require.NoError(t, err)
		require.GreaterOrEqual(t, out, prev, "output decreased at input=%d", input)
		prev = out
	}
}

func TestNoSlippageEmptyPool(t *testing.T) {
	m := testMarket(t, 30, 10000)
	out, err := m.ExpectedOutputAmountNoSlippage(1_000_000, 0, 500_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), out)
}

func TestOptimalInputAmount(t *testing.T) {
	tests := []struct {
		name                 string
		inPool, slippageBps  uint64
		want                 uint64
	}{
		{"deep pool 50bps", 1_000_000_000_000, 50, 5_000_000_000},
		{"shallow pool 50bps", 1_000_000, 50, 5_000},
		{"zero tolerance", 1_000_000_000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalInputAmount(tt.inPool, 500_000_000, tt.slippageBps))
		})
	}
}
