package cycle

import (
	"sync"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
)

// Cache memoizes height->cycle, cycle->index and index->cycle lookups
// against a ports.CycleStore. Cycle history is immutable once formed, so
// entries are added lazily and never invalidated. A miss performs one store
// query and one insert; two goroutines racing on the same miss insert the
// same value twice, which is harmless.
type Cache struct {
	store ports.CycleStore

	lock          *sync.RWMutex
	cycleByHeight map[uint32]domain.Cycle
	indexByCycle  map[domain.Cycle]int
	cycleByIndex  map[int]domain.Cycle
}

// NewCache returns an empty cache in front of the given store.
func NewCache(store ports.CycleStore) *Cache {
	return &Cache{
		store:         store,
		lock:          &sync.RWMutex{},
		cycleByHeight: make(map[uint32]domain.Cycle),
		indexByCycle:  make(map[domain.Cycle]int),
		cycleByIndex:  make(map[int]domain.Cycle),
	}
}

// CycleAtHeight returns the cycle covering the given height.
func (c *Cache) CycleAtHeight(height uint32) (domain.Cycle, bool) {
	c.lock.RLock()
	cycle, ok := c.cycleByHeight[height]
	c.lock.RUnlock()
	if ok {
		return cycle, true
	}

	cycle, ok = c.store.CycleContaining(height)
	if !ok {
		return domain.Cycle{}, false
	}

	c.lock.Lock()
	c.cycleByHeight[height] = cycle
	c.lock.Unlock()
	return cycle, true
}

// IndexOf returns the ordinal of the given cycle, or -1 if unknown. Unknown
// cycles are not cached since they may form later.
func (c *Cache) IndexOf(cycle domain.Cycle) int {
	c.lock.RLock()
	index, ok := c.indexByCycle[cycle]
	c.lock.RUnlock()
	if ok {
		return index
	}

	index = c.store.CycleIndex(cycle)
	if index < 0 {
		return -1
	}

	c.lock.Lock()
	c.indexByCycle[cycle] = index
	c.lock.Unlock()
	return index
}

// CycleAtIndex returns the cycle with the given ordinal.
func (c *Cache) CycleAtIndex(index int) (domain.Cycle, bool) {
	if index < 0 {
		return domain.Cycle{}, false
	}

	c.lock.RLock()
	cycle, ok := c.cycleByIndex[index]
	c.lock.RUnlock()
	if ok {
		return cycle, true
	}

	cycle, ok = c.store.CycleAtIndex(index)
	if !ok {
		return domain.Cycle{}, false
	}

	c.lock.Lock()
	c.cycleByIndex[index] = cycle
	c.lock.Unlock()
	return cycle, true
}

// CycleIndexAtHeight returns the ordinal of the cycle covering the given
// height, or -1 if there's none.
func (c *Cache) CycleIndexAtHeight(height uint32) int {
	cycle, ok := c.CycleAtHeight(height)
	if !ok {
		return -1
	}
	return c.IndexOf(cycle)
}

// HeightOfFirstBlockOfPastCycle returns the height of the first block of the
// cycle numPastCycles before the one containing the given height. It falls
// back to the genesis height if such cycle does not exist.
func (c *Cache) HeightOfFirstBlockOfPastCycle(
	height uint32, numPastCycles int,
) uint32 {
	cycle, ok := c.CycleAtHeight(height)
	if !ok {
		return c.store.GenesisHeight()
	}
	index := c.IndexOf(cycle)
	if index < 0 {
		return c.store.GenesisHeight()
	}
	pastCycle, ok := c.CycleAtIndex(index - numPastCycles)
	if !ok {
		return c.store.GenesisHeight()
	}
	return pastCycle.HeightOfFirstBlock
}
