package amm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	snap ReserveSnapshot
	err  error
}

func (f *staticFetcher) FetchReserves(_ context.Context) (ReserveSnapshot, error) {
	return f.snap, f.err
}

func TestQuoteSell(t *testing.T) {
	m := testMarket(t, 25, 10000)

	q, err := m.Quote(SideSell, 1_000_000_000, 500_000_000, 10_000_000, 50)
	require.NoError(t, err)

	assert.Equal(t, uint64(10_000_000), q.InputTradeAmount)
	assert.Equal(t, uint64(4_913_549), q.ExpectedOutputAmount)
	assert.Equal(t, uint64(4_987_500), q.NoSlippageOutputAmount)
	assert.Equal(t, "0.493824", q.Rate.String())
	// sell price is the floor rate directly
	assert.Equal(t, "0.491355", q.Price.String())
	assert.Equal(t, "1.482727", q.PriceImpact.String())
	assert.Equal(t, uint64(1_000_000_000), q.InPoolAmount)
	assert.Equal(t, uint64(500_000_000), q.OutPoolAmount)
	assert.Equal(t, uint64(50), q.SlippageToleranceBps)
}

func TestQuoteBuyInvertsPrice(t *testing.T) {
	m := testMarket(t, 25, 10000)

	q, err := m.Quote(SideBuy, 1_000_000_000, 500_000_000, 10_000_000, 50)
	require.NoError(t, err)

	// buy price is input-per-output: the reciprocal of the floor rate
	assert.Equal(t, "0.493824", q.Rate.String())
	assert.Equal(t, "2.035188", q.Price.String())
}

func TestQuoteDefaultsToOptimalInput(t *testing.T) {
	m := testMarket(t, 30, 10000)

	q, err := m.Quote(SideSell, 1_000_000_000_000, 500_000_000_000, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), q.InputTradeAmount)
}

func TestQuoteZeroInputZeroTolerance(t *testing.T) {
	m := testMarket(t, 30, 10000)

	q, err := m.Quote(SideSell, 1_000_000_000, 500_000_000, 0, 0)
	require.NoError(t, err)

	assert.Zero(t, q.InputTradeAmount)
	assert.True(t, q.Rate.IsZero())
	assert.True(t, q.Price.IsZero())
	assert.True(t, q.PriceImpact.IsZero())
}

func TestQuoteRejectsOversizedInput(t *testing.T) {
	m := testMarket(t, 30, 10000)

	_, err := m.Quote(SideSell, 1_000_000, 500_000, 1_000_000, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientLiquidity))
}

func TestQuoteImpactOrdering(t *testing.T) {
	m := testMarket(t, 25, 10000)

	const (
		inPool  = 1_000_000_000
		outPool = 500_000_000
		input   = 10_000_000
	)

	impact, err := m.PriceImpact(input, inPool, outPool, SideSell)
	require.NoError(t, err)
	assert.Equal(t, "0.987649", impact.String())

	maxImpact, err := m.MaxPriceImpact(input, inPool, outPool, SideSell, 50)
	require.NoError(t, err)
	assert.Equal(t, "1.482727", maxImpact.String())

	assert.True(t, impact.IsPositive())
	assert.True(t, maxImpact.GreaterThanOrEqual(impact))

	// with zero tolerance the guard collapses onto the expected output
	zeroTol, err := m.MaxPriceImpact(input, inPool, outPool, SideSell, 0)
	require.NoError(t, err)
	assert.True(t, zeroTol.Equal(impact))
}

func TestRateZeroInput(t *testing.T) {
	m := testMarket(t, 30, 10000)

	rate, err := m.Rate(0, 1_000_000_000, 500_000_000, SideSell)
	require.NoError(t, err)
	assert.True(t, rate.IsZero())
}

func TestQuoteBothSides(t *testing.T) {
	m := testMarket(t, 25, 10000)
	fetcher := &staticFetcher{snap: ReserveSnapshot{VaultA: 1_000_000_000, VaultB: 2_000_000_000}}

	buy, sell, err := m.QuoteBothSides(context.Background(), fetcher, 10_000_000, 50)
	require.NoError(t, err)

	// buy spends the TokenB vault, sell the TokenA vault
	assert.Equal(t, uint64(2_000_000_000), buy.InPoolAmount)
	assert.Equal(t, uint64(1_000_000_000), buy.OutPoolAmount)
	assert.Equal(t, uint64(1_000_000_000), sell.InPoolAmount)
	assert.Equal(t, uint64(2_000_000_000), sell.OutPoolAmount)

	assert.Equal(t, SideBuy, buy.Side)
	assert.Equal(t, SideSell, sell.Side)
	assert.Equal(t, "USDC", buy.Market.InputToken(buy.Side))
	assert.Equal(t, "TEST", sell.Market.InputToken(sell.Side))
}

func TestQuoteBothSidesFetchError(t *testing.T) {
	m := testMarket(t, 25, 10000)
	fetchErr := errors.New("rpc unavailable")

	_, _, err := m.QuoteBothSides(context.Background(), &staticFetcher{err: fetchErr}, 10_000_000, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetchErr))
}

func TestDecimalConversionRoundTrip(t *testing.T) {
	d := AmountToDecimal(4_913_549, 6)
	assert.Equal(t, "4.913549", d.String())

	amt, err := DecimalToAmount(d, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(4_913_549), amt)

	_, err = DecimalToAmount(d.Neg(), 6)
	assert.Error(t, err)
}
