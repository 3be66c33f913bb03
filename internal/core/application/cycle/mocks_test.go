package cycle_test

import (
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

type mockCycleStore struct {
	mock.Mock
}

func (m *mockCycleStore) GenesisHeight() uint32 {
	args := m.Called()
	return args.Get(0).(uint32)
}

func (m *mockCycleStore) CycleContaining(height uint32) (domain.Cycle, bool) {
	args := m.Called(height)
	return args.Get(0).(domain.Cycle), args.Bool(1)
}

func (m *mockCycleStore) CycleIndex(cycle domain.Cycle) int {
	args := m.Called(cycle)
	return args.Int(0)
}

func (m *mockCycleStore) CycleAtIndex(index int) (domain.Cycle, bool) {
	args := m.Called(index)
	return args.Get(0).(domain.Cycle), args.Bool(1)
}
