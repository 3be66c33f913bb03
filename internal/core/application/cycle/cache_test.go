package cycle_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/cycle"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

const genesisHeight = uint32(1000)

var cycles = []domain.Cycle{
	{HeightOfFirstBlock: 1000, Duration: 100},
	{HeightOfFirstBlock: 1100, Duration: 100},
	{HeightOfFirstBlock: 1200, Duration: 100},
}

func TestCycleAtHeight(t *testing.T) {
	store := &mockCycleStore{}
	store.On("CycleContaining", uint32(1150)).Return(cycles[1], true).Once()
	store.On("CycleContaining", uint32(5000)).Return(domain.Cycle{}, false)

	cache := cycle.NewCache(store)

	for i := 0; i < 3; i++ {
		c, ok := cache.CycleAtHeight(1150)
		require.True(t, ok)
		require.Equal(t, cycles[1], c)
	}
	store.AssertNumberOfCalls(t, "CycleContaining", 1)

	// Misses are not cached.
	_, ok := cache.CycleAtHeight(5000)
	require.False(t, ok)
	_, ok = cache.CycleAtHeight(5000)
	require.False(t, ok)
	store.AssertNumberOfCalls(t, "CycleContaining", 3)
}

func TestIndexOf(t *testing.T) {
	store := &mockCycleStore{}
	store.On("CycleIndex", cycles[2]).Return(2).Once()
	unknown := domain.Cycle{HeightOfFirstBlock: 9000, Duration: 1}
	store.On("CycleIndex", unknown).Return(-1)

	cache := cycle.NewCache(store)

	require.Equal(t, 2, cache.IndexOf(cycles[2]))
	// Structural equality: a copy of the cycle hits the cache.
	require.Equal(t, 2, cache.IndexOf(domain.Cycle{HeightOfFirstBlock: 1200, Duration: 100}))
	store.AssertNumberOfCalls(t, "CycleIndex", 1)

	require.Equal(t, -1, cache.IndexOf(unknown))
}

func TestCycleAtIndex(t *testing.T) {
	store := &mockCycleStore{}
	store.On("CycleAtIndex", 0).Return(cycles[0], true).Once()
	store.On("CycleAtIndex", 7).Return(domain.Cycle{}, false)

	cache := cycle.NewCache(store)

	for i := 0; i < 2; i++ {
		c, ok := cache.CycleAtIndex(0)
		require.True(t, ok)
		require.Equal(t, cycles[0], c)
	}
	_, ok := cache.CycleAtIndex(7)
	require.False(t, ok)
	_, ok = cache.CycleAtIndex(-1)
	require.False(t, ok)

	store.AssertNumberOfCalls(t, "CycleAtIndex", 2)
}

func TestHeightOfFirstBlockOfPastCycle(t *testing.T) {
	store := &mockCycleStore{}
	store.On("GenesisHeight").Return(genesisHeight)
	store.On("CycleContaining", uint32(1250)).Return(cycles[2], true)
	store.On("CycleContaining", uint32(999)).Return(domain.Cycle{}, false)
	for i, c := range cycles {
		store.On("CycleIndex", c).Return(i)
		store.On("CycleAtIndex", i).Return(c, true)
	}
	store.On("CycleAtIndex", -1).Return(domain.Cycle{}, false)

	cache := cycle.NewCache(store)

	tests := []struct {
		name          string
		height        uint32
		numPastCycles int
		expected      uint32
	}{
		{"current cycle", 1250, 0, 1200},
		{"previous cycle", 1250, 1, 1100},
		{"two cycles back", 1250, 2, 1000},
		{"not enough cycles", 1250, 3, genesisHeight},
		{"height before genesis", 999, 1, genesisHeight},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			got := cache.HeightOfFirstBlockOfPastCycle(tt.height, tt.numPastCycles)
			require.Equal(t, tt.expected, got)
		})
	}

	require.Equal(t, 2, cache.CycleIndexAtHeight(1250))
	require.Equal(t, -1, cache.CycleIndexAtHeight(999))
}

func TestCacheConcurrentAccess(t *testing.T) {
	store := &mockCycleStore{}
	for i, c := range cycles {
		c := c
		store.On("CycleContaining", mock.MatchedBy(func(h uint32) bool {
			return c.Contains(h)
		})).Return(c, true)
		store.On("CycleIndex", c).Return(i)
		store.On("CycleAtIndex", i).Return(c, true)
	}

	cache := cycle.NewCache(store)

	wg := &sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			height := uint32(1000 + (i*7)%300)
			index := cache.CycleIndexAtHeight(height)
			c, ok := cache.CycleAtIndex(index)
			assert.True(t, ok)
			assert.True(t, c.Contains(height))
		}(i)
	}
	wg.Wait()
}
