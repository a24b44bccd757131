package amm

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// AmountToDecimal converts a base-unit amount into its display form by
// shifting the decimal point left by the token's display decimals.
func AmountToDecimal(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// DecimalToAmount converts a display-form value back into base units,
// truncating any fraction below one base unit. Negative values and values
// that do not fit in uint64 are rejected.
func DecimalToAmount(value decimal.Decimal, decimals uint8) (uint64, error) {
	if value.IsNegative() {
		return 0, ErrAmountOverflow
	}
	scaled := value.Shift(int32(decimals)).Truncate(0)
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return bi.Uint64(), nil
}
