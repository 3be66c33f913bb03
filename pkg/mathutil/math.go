package mathutil

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	//BigOne represents a single unit of an asset with precision 8
	BigOne = uint64(math.Pow10(8))
	//BigOneDecimal represents a single unit of an asset with precision 8 as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))
)

// FromUint64 returns the given amount as decimal.Decimal without overflowing
// int64.
func FromUint64(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

// ToUint64 returns the integer part of the given decimal, or 0 if negative.
func ToUint64(d decimal.Decimal) uint64 {
	if d.IsNegative() {
		return 0
	}
	return d.BigInt().Uint64()
}
