package circuitbreaker

import (
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestReadyToTrip(t *testing.T) {
	tests := []struct {
		name     string
		counts   gobreaker.Counts
		expected bool
	}{
		{"no requests", gobreaker.Counts{}, false},
		{"few requests", gobreaker.Counts{Requests: 10, TotalFailures: 10}, false},
		{"low failing ratio", gobreaker.Counts{Requests: 20, TotalFailures: 11}, false},
		{"high failing ratio", gobreaker.Counts{Requests: 20, TotalFailures: 12}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, readyToTrip(tt.counts))
		})
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	cb := NewCircuitBreaker("test")
	require.Equal(t, "test", cb.Name())

	failing := func() (interface{}, error) {
		return nil, fmt.Errorf("failure")
	}
	for i := 0; i <= MaxNumOfFailingRequests; i++ {
		//nolint
		cb.Execute(failing)
	}

	require.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(failing)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
