package inmemory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

type paramHistoryInmemoryStore struct {
	changes     map[domain.ParamKind][]domain.ParamChange
	cycles      []domain.Cycle
	burnTxs     map[string]domain.BurnTx
	chainHeight uint32
	locker      *sync.RWMutex
}

// ParamHistoryStore is the in-memory ledger state store. It implements
// ports.ParamHistoryStore.
type ParamHistoryStore struct {
	genesisHeight uint32
	store         *paramHistoryInmemoryStore
}

// NewParamHistoryStore returns an empty store whose ledger has been created
// at the given height.
func NewParamHistoryStore(genesisHeight uint32) *ParamHistoryStore {
	return &ParamHistoryStore{
		genesisHeight: genesisHeight,
		store: &paramHistoryInmemoryStore{
			changes:     make(map[domain.ParamKind][]domain.ParamChange),
			cycles:      make([]domain.Cycle, 0),
			burnTxs:     make(map[string]domain.BurnTx),
			chainHeight: genesisHeight,
			locker:      &sync.RWMutex{},
		},
	}
}

// AddParamChange records a governance change of a fee parameter. A change
// for the same parameter and activation height replaces the previous one.
func (s *ParamHistoryStore) AddParamChange(change domain.ParamChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	if change.ActivationHeight < s.genesisHeight {
		return fmt.Errorf(
			"%w: %d < %d",
			domain.ErrActivationBeforeGenesis, change.ActivationHeight, s.genesisHeight,
		)
	}

	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	changes := s.store.changes[change.Kind]
	for i, c := range changes {
		if c.ActivationHeight == change.ActivationHeight {
			changes[i] = change
			return nil
		}
	}
	changes = append(changes, change)
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].ActivationHeight < changes[j].ActivationHeight
	})
	s.store.changes[change.Kind] = changes
	return nil
}

// AddCycle appends a new cycle. The first one must start at genesis height,
// any other right after the last known one.
func (s *ParamHistoryStore) AddCycle(cycle domain.Cycle) error {
	if err := cycle.Validate(); err != nil {
		return err
	}

	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	if count := len(s.store.cycles); count > 0 {
		if !cycle.Follows(s.store.cycles[count-1]) {
			return domain.ErrCycleNotContiguous
		}
	} else if cycle.HeightOfFirstBlock != s.genesisHeight {
		return domain.ErrCycleNotContiguous
	}

	s.store.cycles = append(s.store.cycles, cycle)
	return nil
}

// AddBurnTx records a confirmed burn tx.
func (s *ParamHistoryStore) AddBurnTx(tx domain.BurnTx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	s.store.burnTxs[tx.ID] = tx
	return nil
}

// SetChainHeight updates the chain tip. The height never goes backwards.
func (s *ParamHistoryStore) SetChainHeight(height uint32) error {
	s.store.locker.Lock()
	defer s.store.locker.Unlock()

	if height > s.store.chainHeight {
		s.store.chainHeight = height
	}
	return nil
}

func (s *ParamHistoryStore) GenesisHeight() uint32 {
	return s.genesisHeight
}

func (s *ParamHistoryStore) CurrentChainHeight() uint32 {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	return s.store.chainHeight
}

func (s *ParamHistoryStore) ValueAt(kind domain.ParamKind, height uint32) uint64 {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	changes := s.store.changes[kind]
	for i := len(changes) - 1; i >= 0; i-- {
		if changes[i].ActivationHeight <= height {
			return changes[i].Value
		}
	}
	return kind.DefaultValue()
}

func (s *ParamHistoryStore) HistoricalValues(kind domain.ParamKind) []uint64 {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	changes := s.store.changes[kind]
	values := make([]uint64, 0, len(changes))
	for _, c := range changes {
		values = append(values, c.Value)
	}
	return values
}

func (s *ParamHistoryStore) ConfirmedBurnTx(txID string) (*domain.BurnTx, bool) {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	tx, ok := s.store.burnTxs[txID]
	if !ok {
		return nil, false
	}
	return &tx, true
}

func (s *ParamHistoryStore) CycleContaining(height uint32) (domain.Cycle, bool) {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	cycles := s.store.cycles
	i := sort.Search(len(cycles), func(i int) bool {
		return cycles[i].HeightOfLastBlock() >= height
	})
	if i < len(cycles) && cycles[i].Contains(height) {
		return cycles[i], true
	}
	return domain.Cycle{}, false
}

func (s *ParamHistoryStore) CycleIndex(cycle domain.Cycle) int {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	for i, c := range s.store.cycles {
		if c == cycle {
			return i
		}
	}
	return -1
}

func (s *ParamHistoryStore) CycleAtIndex(index int) (domain.Cycle, bool) {
	s.store.locker.RLock()
	defer s.store.locker.RUnlock()

	if index < 0 || index >= len(s.store.cycles) {
		return domain.Cycle{}, false
	}
	return s.store.cycles[index], true
}
