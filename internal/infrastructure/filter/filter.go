package filter

import (
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
)

// Filter holds the emergency fee rates broadcast by the network. A
// non-positive rate means no override is in effect.
type Filter struct {
	MakerFeeBtc int64 `json:"makerFeeBtc"`
	TakerFeeBtc int64 `json:"takerFeeBtc"`
	MakerFeeBsq int64 `json:"makerFeeBsq"`
	TakerFeeBsq int64 `json:"takerFeeBsq"`
}

// Rate returns the override rate for the given role and currency.
func (f Filter) Rate(role domain.Role, currency domain.FeeCurrency) int64 {
	switch {
	case currency == domain.FeeCurrencyBase && role == domain.RoleMaker:
		return f.MakerFeeBtc
	case currency == domain.FeeCurrencyBase && role == domain.RoleTaker:
		return f.TakerFeeBtc
	case currency == domain.FeeCurrencyBurn && role == domain.RoleMaker:
		return f.MakerFeeBsq
	case currency == domain.FeeCurrencyBurn && role == domain.RoleTaker:
		return f.TakerFeeBsq
	default:
		return 0
	}
}

type staticProvider struct {
	filter Filter
}

// NewStaticProvider returns a provider always returning the rates of the
// given filter.
func NewStaticProvider(filter Filter) ports.OverrideFilterProvider {
	return &staticProvider{filter}
}

func (p *staticProvider) CurrentOverride(
	role domain.Role, currency domain.FeeCurrency,
) int64 {
	return p.filter.Rate(role, currency)
}
