package ports

import "github.com/tdex-network/tdex-feevalidator/internal/core/domain"

// OverrideFilterProvider supplies the emergency fee rates optionally
// broadcast by the network. A non-positive value means no override is in
// effect for the given role and currency.
type OverrideFilterProvider interface {
	CurrentOverride(role domain.Role, currency domain.FeeCurrency) int64
}
