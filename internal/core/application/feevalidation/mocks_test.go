package feevalidation

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

// **** Override filter ****

type mockOverrideProvider struct {
	mock.Mock
}

func (m *mockOverrideProvider) CurrentOverride(
	role domain.Role, currency domain.FeeCurrency,
) int64 {
	args := m.Called(role, currency)
	return args.Get(0).(int64)
}

// **** Tx fetcher ****

type mockTxFetcher struct {
	mock.Mock
}

func (m *mockTxFetcher) GetTransactionJSON(
	ctx context.Context, txID string,
) (string, error) {
	args := m.Called(ctx, txID)
	return args.String(0), args.Error(1)
}

func (m *mockTxFetcher) GetBlockHeight(ctx context.Context) (uint32, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint32), args.Error(1)
}
