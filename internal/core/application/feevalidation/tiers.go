package feevalidation

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/pkg/mathutil"
)

// feeContext is the computed-fee state shared by all leniency tiers.
type feeContext struct {
	tradeAmount uint64
	role        domain.Role
	currency    domain.FeeCurrency
	height      uint32
	minFee      uint64
	expectedFee uint64
	actualFee   uint64
	description string
}

// tierFunc is a leniency rule. It returns true if the paid fee is
// acceptable according to the rule.
type tierFunc func(v *Validator, fc *feeContext) bool

type tier struct {
	name    string
	accept  tierFunc
	lenient bool
}

// feeTiers are evaluated in order, the first accepting tier wins.
var feeTiers = []tier{
	{"exact match", exactMatch, false},
	{"overpaid", overpaid, false},
	{"fee tolerance", withinTolerance, true},
	{"override filter", matchesOverride, true},
	{"historical param", matchesHistoricalParam, true},
}

// newFeeContext computes the fee expected for the given trade with the
// parameters in effect at the given height.
func (v *Validator) newFeeContext(
	tradeAmount uint64, role domain.Role, currency domain.FeeCurrency,
	height uint32, actualFee uint64,
) *feeContext {
	minFeeKind, feeRateKind := domain.FeeParams(role, currency)
	minFee := v.store.ValueAt(minFeeKind, height)
	feeRate := v.store.ValueAt(feeRateKind, height)
	expectedFee := mathutil.CalculateFee(tradeAmount, feeRate, minFee)

	return &feeContext{
		tradeAmount: tradeAmount,
		role:        role,
		currency:    currency,
		height:      height,
		minFee:      minFee,
		expectedFee: expectedFee,
		actualFee:   actualFee,
		description: fmt.Sprintf(
			"expected fee: %s, actual fee paid: %s, trade amount: %s",
			formatFee(currency, expectedFee),
			formatFee(currency, actualFee),
			btcutil.Amount(tradeAmount),
		),
	}
}

// evaluateTiers returns ACK_FEE_OK if any tier accepts the paid fee,
// otherwise the role-specific fee-too-low status.
func (v *Validator) evaluateTiers(fc *feeContext) domain.ValidationStatus {
	for _, t := range feeTiers {
		if t.accept(v, fc) {
			if t.lenient {
				log.Infof("leniency rule %q: fee accepted. %s", t.name, fc.description)
			} else {
				log.Debugf("fee accepted (%s). %s", t.name, fc.description)
			}
			return domain.StatusAckFeeOK
		}
	}

	log.Infof("UNDERPAID. %s", fc.description)
	return fc.role.FeeTooLowStatus()
}

func exactMatch(_ *Validator, fc *feeContext) bool {
	return fc.actualFee == fc.expectedFee
}

func overpaid(_ *Validator, fc *feeContext) bool {
	return fc.actualFee > fc.expectedFee
}

// withinTolerance accepts a fee lower than expected but still above the
// tolerated ratio, in case a governance rate change is not yet known to the
// paying side.
func withinTolerance(v *Validator, fc *feeContext) bool {
	if !mathutil.ExceedsRatio(fc.actualFee, fc.expectedFee, v.cfg.FeeTolerance) {
		return false
	}
	log.Debugf(
		"fee is %s of expected, above tolerance %s",
		mathutil.Ratio(fc.actualFee, fc.expectedFee), v.cfg.FeeTolerance,
	)
	return true
}

// matchesOverride accepts a fee close enough to the one calculated with the
// rate of the emergency override filter, if any is in effect.
func matchesOverride(v *Validator, fc *feeContext) bool {
	if v.overrides == nil {
		return false
	}
	rate := v.overrides.CurrentOverride(fc.role, fc.currency)
	if rate <= 0 {
		return false
	}

	overrideFee := mathutil.CalculateFee(fc.tradeAmount, uint64(rate), fc.minFee)
	if !mathutil.ExceedsRatio(fc.actualFee, overrideFee, v.cfg.OverrideTolerance) {
		log.Warnf(
			"fee does not match fee from filter. Fee from filter: %s. %s",
			formatFee(fc.currency, overrideFee), fc.description,
		)
		return false
	}
	return true
}

// matchesHistoricalParam accepts a fee that exactly matches the one
// calculated with any value the rate parameter has ever had, genesis default
// included. This covers validators not yet in sync with the latest change.
func matchesHistoricalParam(v *Validator, fc *feeContext) bool {
	_, feeRateKind := domain.FeeParams(fc.role, fc.currency)

	for _, rate := range v.store.HistoricalValues(feeRateKind) {
		if mathutil.CalculateFee(fc.tradeAmount, rate, fc.minFee) == fc.actualFee {
			return true
		}
	}

	genesisRate := v.store.ValueAt(feeRateKind, v.store.GenesisHeight())
	return mathutil.CalculateFee(fc.tradeAmount, genesisRate, fc.minFee) == fc.actualFee
}

func formatFee(currency domain.FeeCurrency, amount uint64) string {
	if currency == domain.FeeCurrencyBase {
		return fmt.Sprintf("%d sats (%s)", amount, btcutil.Amount(amount))
	}
	return fmt.Sprintf("%s BSQ", mathutil.FromUint64(amount).Shift(-2).StringFixed(2))
}
