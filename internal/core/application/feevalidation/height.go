package feevalidation

import "github.com/tdex-network/tdex-feevalidator/internal/core/domain"

// baseFeeHeight returns the height whose fee parameters apply to a base
// currency fee tx: the reference height of the request if known (for makers
// it's the height at offer creation), otherwise the height of the block
// including the tx, otherwise the current chain height.
func (v *Validator) baseFeeHeight(
	req *domain.ValidationRequest, record *domain.TxRecord,
) uint32 {
	if h, ok := req.ReferenceHeight(); ok {
		return h
	}
	if h, ok := record.ConfirmedHeight(); ok {
		return h
	}
	return req.ChainHeight()
}

// burnFeeHeight is the same as baseFeeHeight for a burn tx recorded in the
// ledger.
func (v *Validator) burnFeeHeight(
	req *domain.ValidationRequest, burnTx *domain.BurnTx,
) uint32 {
	if h, ok := req.ReferenceHeight(); ok {
		return h
	}
	if burnTx.BlockHeight > 0 {
		return burnTx.BlockHeight
	}
	return req.ChainHeight()
}
