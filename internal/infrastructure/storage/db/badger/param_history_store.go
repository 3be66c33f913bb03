package dbbadger

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const chainTipKey = "chaintip"

type paramChange struct {
	Kind             domain.ParamKind `badgerhold:"index"`
	ActivationHeight uint32
	Value            uint64
}

type cycle struct {
	Index              int
	HeightOfFirstBlock uint32
	Duration           uint32
}

type chainTip struct {
	Height uint32
}

// paramHistoryStore implements ports.WritableParamHistoryStore on top of a
// badgerhold store. Reads never fail from the caller's point of view: a db
// error is logged and treated as a missing entry.
type paramHistoryStore struct {
	store         *badgerhold.Store
	genesisHeight uint32
	// serializes writers so that appending cycles and moving the chain tip
	// are check-then-write atomic.
	lock *sync.Mutex
}

func newParamHistoryStore(
	store *badgerhold.Store, genesisHeight uint32,
) (*paramHistoryStore, error) {
	s := &paramHistoryStore{store, genesisHeight, &sync.Mutex{}}

	var tip chainTip
	err := store.Get(chainTipKey, &tip)
	if err == badgerhold.ErrNotFound {
		if err := store.Insert(chainTipKey, chainTip{genesisHeight}); err != nil {
			return nil, fmt.Errorf("initializing chain tip: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chain tip: %w", err)
	}
	return s, nil
}

func paramChangeKey(kind domain.ParamKind, height uint32) string {
	return fmt.Sprintf("%s:%d", kind, height)
}

func (s *paramHistoryStore) AddParamChange(change domain.ParamChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	if change.ActivationHeight < s.genesisHeight {
		return fmt.Errorf(
			"%w: %d < %d",
			domain.ErrActivationBeforeGenesis, change.ActivationHeight, s.genesisHeight,
		)
	}

	return s.store.Upsert(
		paramChangeKey(change.Kind, change.ActivationHeight),
		paramChange{change.Kind, change.ActivationHeight, change.Value},
	)
}

func (s *paramHistoryStore) AddCycle(c domain.Cycle) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	last, err := s.lastCycle()
	if err != nil {
		return err
	}

	index := 0
	if last != nil {
		if !c.Follows(toDomainCycle(*last)) {
			return domain.ErrCycleNotContiguous
		}
		index = last.Index + 1
	} else if c.HeightOfFirstBlock != s.genesisHeight {
		return domain.ErrCycleNotContiguous
	}

	return s.store.Insert(
		c.HeightOfFirstBlock, cycle{index, c.HeightOfFirstBlock, c.Duration},
	)
}

func (s *paramHistoryStore) AddBurnTx(tx domain.BurnTx) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return s.store.Upsert(tx.ID, tx)
}

func (s *paramHistoryStore) SetChainHeight(height uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var tip chainTip
	if err := s.store.Get(chainTipKey, &tip); err != nil {
		return err
	}
	if height <= tip.Height {
		return nil
	}
	return s.store.Update(chainTipKey, chainTip{height})
}

func (s *paramHistoryStore) GenesisHeight() uint32 {
	return s.genesisHeight
}

func (s *paramHistoryStore) CurrentChainHeight() uint32 {
	var tip chainTip
	if err := s.store.Get(chainTipKey, &tip); err != nil {
		log.WithError(err).Warn("failed to read chain tip")
		return s.genesisHeight
	}
	return tip.Height
}

func (s *paramHistoryStore) ValueAt(kind domain.ParamKind, height uint32) uint64 {
	query := badgerhold.Where("Kind").Eq(kind).Index("Kind").
		And("ActivationHeight").Le(height).
		SortBy("ActivationHeight").Reverse().Limit(1)

	var changes []paramChange
	if err := s.store.Find(&changes, query); err != nil {
		log.WithError(err).Warnf("failed to read value of %s, using default", kind)
		return kind.DefaultValue()
	}
	if len(changes) == 0 {
		return kind.DefaultValue()
	}
	return changes[0].Value
}

func (s *paramHistoryStore) HistoricalValues(kind domain.ParamKind) []uint64 {
	query := badgerhold.Where("Kind").Eq(kind).Index("Kind").
		SortBy("ActivationHeight")

	var changes []paramChange
	if err := s.store.Find(&changes, query); err != nil {
		log.WithError(err).Warnf("failed to read history of %s", kind)
		return nil
	}

	values := make([]uint64, 0, len(changes))
	for _, c := range changes {
		values = append(values, c.Value)
	}
	return values
}

func (s *paramHistoryStore) ConfirmedBurnTx(txID string) (*domain.BurnTx, bool) {
	var tx domain.BurnTx
	if err := s.store.Get(txID, &tx); err != nil {
		if err != badgerhold.ErrNotFound {
			log.WithError(err).Warnf("failed to read burn tx %s", txID)
		}
		return nil, false
	}
	return &tx, true
}

func (s *paramHistoryStore) CycleContaining(height uint32) (domain.Cycle, bool) {
	query := badgerhold.Where("HeightOfFirstBlock").Le(height).
		SortBy("HeightOfFirstBlock").Reverse().Limit(1)

	c, err := s.findCycle(query)
	if err != nil || c == nil {
		return domain.Cycle{}, false
	}
	found := toDomainCycle(*c)
	if !found.Contains(height) {
		return domain.Cycle{}, false
	}
	return found, true
}

func (s *paramHistoryStore) CycleIndex(c domain.Cycle) int {
	var stored cycle
	if err := s.store.Get(c.HeightOfFirstBlock, &stored); err != nil {
		if err != badgerhold.ErrNotFound {
			log.WithError(err).Warn("failed to read cycle")
		}
		return -1
	}
	if stored.Duration != c.Duration {
		return -1
	}
	return stored.Index
}

func (s *paramHistoryStore) CycleAtIndex(index int) (domain.Cycle, bool) {
	if index < 0 {
		return domain.Cycle{}, false
	}

	c, err := s.findCycle(badgerhold.Where("Index").Eq(index))
	if err != nil || c == nil {
		return domain.Cycle{}, false
	}
	return toDomainCycle(*c), true
}

func (s *paramHistoryStore) lastCycle() (*cycle, error) {
	return s.findCycle(
		(&badgerhold.Query{}).SortBy("HeightOfFirstBlock").Reverse().Limit(1),
	)
}

func (s *paramHistoryStore) findCycle(query *badgerhold.Query) (*cycle, error) {
	var cycles []cycle
	if err := s.store.Find(&cycles, query); err != nil {
		log.WithError(err).Warn("failed to read cycles")
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, nil
	}
	return &cycles[0], nil
}

func toDomainCycle(c cycle) domain.Cycle {
	return domain.Cycle{
		HeightOfFirstBlock: c.HeightOfFirstBlock,
		Duration:           c.Duration,
	}
}
