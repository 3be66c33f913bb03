package domain

import "strings"

// BurnTx is a confirmed ledger transaction that destroyed an amount of the
// embedded token to pay a trade fee.
type BurnTx struct {
	ID          string
	BurntAmount uint64
	BlockHeight uint32
}

// Validate ...
func (t BurnTx) Validate() error {
	if strings.TrimSpace(t.ID) == "" || t.BurntAmount == 0 {
		return ErrInvalidBurnTx
	}
	return nil
}
