package domain

import "strings"

// FeeCurrency is the currency a trade fee has been paid with.
type FeeCurrency int

const (
	// FeeCurrencyBase is a payment to a fee receiver address on the base chain.
	FeeCurrencyBase FeeCurrency = iota
	// FeeCurrencyBurn is a burn of the embedded ledger token.
	FeeCurrencyBurn
)

func (c FeeCurrency) String() string {
	switch c {
	case FeeCurrencyBase:
		return "base"
	case FeeCurrencyBurn:
		return "burn"
	default:
		return "unknown"
	}
}

func (c FeeCurrency) validate() error {
	if c != FeeCurrencyBase && c != FeeCurrencyBurn {
		return ErrInvalidFeeCurrency
	}
	return nil
}

// ParseFeeCurrency ...
func ParseFeeCurrency(s string) (FeeCurrency, error) {
	switch strings.ToLower(s) {
	case "base", "btc":
		return FeeCurrencyBase, nil
	case "burn", "bsq":
		return FeeCurrencyBurn, nil
	default:
		return -1, ErrInvalidFeeCurrency
	}
}

// Role is the side of the trade that paid the fee.
type Role int

const (
	RoleMaker Role = iota
	RoleTaker
)

func (r Role) String() string {
	switch r {
	case RoleMaker:
		return "maker"
	case RoleTaker:
		return "taker"
	default:
		return "unknown"
	}
}

// Title returns the capitalized role name used in audit titles.
func (r Role) Title() string {
	if r == RoleMaker {
		return "Maker"
	}
	return "Taker"
}

// FeeTooLowStatus returns the role-specific rejection status.
func (r Role) FeeTooLowStatus() ValidationStatus {
	if r == RoleMaker {
		return StatusNackMakerFeeTooLow
	}
	return StatusNackTakerFeeTooLow
}

func (r Role) validate() error {
	if r != RoleMaker && r != RoleTaker {
		return ErrInvalidRole
	}
	return nil
}

// ParseRole ...
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "maker":
		return RoleMaker, nil
	case "taker":
		return RoleTaker, nil
	default:
		return -1, ErrInvalidRole
	}
}

// ValidationRequest binds a fee validation to a trade. It's immutable once
// created, use NewValidationRequest to build one.
type ValidationRequest struct {
	txID            string
	tradeAmount     uint64
	currency        FeeCurrency
	role            Role
	referenceHeight *uint32
	chainHeight     uint32
}

// NewValidationRequest returns a new request after validating its arguments.
// The reference height is optional: nil means not yet known. Any invalid
// argument is a misuse by the caller and is reported as an error.
func NewValidationRequest(
	txID string, tradeAmount uint64, currency FeeCurrency, role Role,
	referenceHeight *uint32, chainHeight uint32,
) (*ValidationRequest, error) {
	if strings.TrimSpace(txID) == "" {
		return nil, ErrMissingTxID
	}
	if err := currency.validate(); err != nil {
		return nil, err
	}
	if err := role.validate(); err != nil {
		return nil, err
	}

	var refHeight *uint32
	if referenceHeight != nil {
		if *referenceHeight == 0 {
			return nil, ErrInvalidReferenceHeight
		}
		h := *referenceHeight
		refHeight = &h
	}

	return &ValidationRequest{
		txID:            txID,
		tradeAmount:     tradeAmount,
		currency:        currency,
		role:            role,
		referenceHeight: refHeight,
		chainHeight:     chainHeight,
	}, nil
}

func (r *ValidationRequest) TxID() string {
	return r.txID
}

func (r *ValidationRequest) TradeAmount() uint64 {
	return r.tradeAmount
}

func (r *ValidationRequest) Currency() FeeCurrency {
	return r.currency
}

func (r *ValidationRequest) Role() Role {
	return r.role
}

func (r *ValidationRequest) IsMaker() bool {
	return r.role == RoleMaker
}

// ReferenceHeight returns the height the fee obligation has been fixed at, if
// known.
func (r *ValidationRequest) ReferenceHeight() (uint32, bool) {
	if r.referenceHeight == nil {
		return 0, false
	}
	return *r.referenceHeight, true
}

// ChainHeight returns the chain height at validation time.
func (r *ValidationRequest) ChainHeight() uint32 {
	return r.chainHeight
}
