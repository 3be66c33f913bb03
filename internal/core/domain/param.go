package domain

import "fmt"

// ParamKind identifies one of the governance-controlled fee parameters.
type ParamKind int

const (
	ParamDefaultMakerFeeBase ParamKind = iota
	ParamDefaultTakerFeeBase
	ParamMinMakerFeeBase
	ParamMinTakerFeeBase
	ParamDefaultMakerFeeBurn
	ParamDefaultTakerFeeBurn
	ParamMinMakerFeeBurn
	ParamMinTakerFeeBurn
)

type paramInfo struct {
	name         string
	defaultValue uint64
}

// Default values are the ones in effect at genesis height. Rates are
// expressed in smallest units of the fee currency per unit (1e8 smallest
// units) of trade amount, minimums in smallest units of the fee currency.
var params = map[ParamKind]paramInfo{
	ParamDefaultMakerFeeBase: {"DEFAULT_MAKER_FEE_BTC", 100000},
	ParamDefaultTakerFeeBase: {"DEFAULT_TAKER_FEE_BTC", 300000},
	ParamMinMakerFeeBase:     {"MIN_MAKER_FEE_BTC", 5000},
	ParamMinTakerFeeBase:     {"MIN_TAKER_FEE_BTC", 5000},
	ParamDefaultMakerFeeBurn: {"DEFAULT_MAKER_FEE_BSQ", 50},
	ParamDefaultTakerFeeBurn: {"DEFAULT_TAKER_FEE_BSQ", 150},
	ParamMinMakerFeeBurn:     {"MIN_MAKER_FEE_BSQ", 5},
	ParamMinTakerFeeBurn:     {"MIN_TAKER_FEE_BSQ", 5},
}

// ParamKinds returns the closed set of fee parameters.
func ParamKinds() []ParamKind {
	return []ParamKind{
		ParamDefaultMakerFeeBase, ParamDefaultTakerFeeBase,
		ParamMinMakerFeeBase, ParamMinTakerFeeBase,
		ParamDefaultMakerFeeBurn, ParamDefaultTakerFeeBurn,
		ParamMinMakerFeeBurn, ParamMinTakerFeeBurn,
	}
}

func (k ParamKind) String() string {
	if p, ok := params[k]; ok {
		return p.name
	}
	return fmt.Sprintf("PARAM(%d)", int(k))
}

// DefaultValue returns the value of the parameter at genesis height.
func (k ParamKind) DefaultValue() uint64 {
	return params[k].defaultValue
}

// Validate ...
func (k ParamKind) Validate() error {
	if _, ok := params[k]; !ok {
		return ErrUnknownParam
	}
	return nil
}

// ParseParamKind returns the parameter with the given name.
func ParseParamKind(name string) (ParamKind, error) {
	for kind, p := range params {
		if p.name == name {
			return kind, nil
		}
	}
	return -1, ErrUnknownParam
}

// FeeParams returns the minimum fee and fee rate parameters for the given
// role and currency.
func FeeParams(role Role, currency FeeCurrency) (minFee, feeRate ParamKind) {
	switch {
	case currency == FeeCurrencyBase && role == RoleMaker:
		return ParamMinMakerFeeBase, ParamDefaultMakerFeeBase
	case currency == FeeCurrencyBase:
		return ParamMinTakerFeeBase, ParamDefaultTakerFeeBase
	case role == RoleMaker:
		return ParamMinMakerFeeBurn, ParamDefaultMakerFeeBurn
	default:
		return ParamMinTakerFeeBurn, ParamDefaultTakerFeeBurn
	}
}

// ParamChange is a governance decision setting a new value for a fee
// parameter, effective from the given height on.
type ParamChange struct {
	Kind             ParamKind
	ActivationHeight uint32
	Value            uint64
}

// Validate ...
func (c ParamChange) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if c.Value < MinParamValue {
		return ErrParamValueTooLow
	}
	return nil
}

// ParamSnapshot is the pair of fee parameters in effect at a given height.
type ParamSnapshot struct {
	Height  uint32
	MinFee  uint64
	FeeRate uint64
}
