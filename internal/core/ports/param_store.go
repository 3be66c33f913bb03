package ports

import "github.com/tdex-network/tdex-feevalidator/internal/core/domain"

// CycleStore exposes the governance cycles of the embedded ledger.
type CycleStore interface {
	// GenesisHeight returns the height of the ledger's genesis block.
	GenesisHeight() uint32
	// CycleContaining returns the cycle covering the given height.
	CycleContaining(height uint32) (domain.Cycle, bool)
	// CycleIndex returns the ordinal of the given cycle, or -1 if unknown.
	CycleIndex(cycle domain.Cycle) int
	// CycleAtIndex returns the cycle with the given ordinal.
	CycleAtIndex(index int) (domain.Cycle, bool)
}

// ParamHistoryStore is the ledger state store that owns current and
// historical values of the governance-controlled fee parameters. The engine
// only reads from it, implementations must be safe for concurrent reads.
type ParamHistoryStore interface {
	CycleStore
	// ValueAt returns the value of the parameter in effect at the given
	// height.
	ValueAt(kind domain.ParamKind, height uint32) uint64
	// HistoricalValues returns every value the parameter has been set to by
	// governance, oldest first. The genesis default is not included.
	HistoricalValues(kind domain.ParamKind) []uint64
	// ConfirmedBurnTx returns the confirmed burn tx with the given id.
	ConfirmedBurnTx(txID string) (*domain.BurnTx, bool)
	// CurrentChainHeight returns the height of the latest block known to the
	// ledger.
	CurrentChainHeight() uint32
}
