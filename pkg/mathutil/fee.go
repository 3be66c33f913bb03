package mathutil

import "github.com/shopspring/decimal"

// ProportionalFee returns the fee for the given amount with a rate expressed
// in smallest units per BigOne of amount, ie. round(rate * amount / BigOne).
// Halves are rounded away from zero.
func ProportionalFee(amount, rate uint64) uint64 {
	fee := FromUint64(rate).Mul(FromUint64(amount)).Div(BigOneDecimal)
	return ToUint64(fee.Round(0))
}

// CalculateFee returns the max between the proportional fee and the given
// minimum fee.
func CalculateFee(amount, rate, minFee uint64) uint64 {
	if fee := ProportionalFee(amount, rate); fee > minFee {
		return fee
	}
	return minFee
}

// ExceedsRatio returns whether x is strictly greater than ratio * base. The
// comparison is made by multiplication so that a zero base never causes a
// division by zero.
func ExceedsRatio(x, base uint64, ratio decimal.Decimal) bool {
	return FromUint64(x).GreaterThan(ratio.Mul(FromUint64(base)))
}

// Ratio returns x / base, or zero if base is zero. Only meant for logging.
func Ratio(x, base uint64) decimal.Decimal {
	if base == 0 {
		return decimal.Zero
	}
	return FromUint64(x).DivRound(FromUint64(base), 4)
}
