package ports

import "github.com/tdex-network/tdex-feevalidator/internal/core/domain"

// WritableParamHistoryStore is the ParamHistoryStore as seen by whoever
// feeds it with the ledger state.
type WritableParamHistoryStore interface {
	ParamHistoryStore

	AddParamChange(change domain.ParamChange) error
	AddCycle(cycle domain.Cycle) error
	AddBurnTx(tx domain.BurnTx) error
	SetChainHeight(height uint32) error
}

// RepoManager interface defines the methods to access the ledger state store
// and the audit trail of validations.
type RepoManager interface {
	ParamHistoryStore() WritableParamHistoryStore
	ValidationRecordRepository() domain.ValidationRecordRepository

	Close()
}
