package feevalidation

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

var ledgerErrors = []error{
	domain.ErrUnknownParam,
	domain.ErrParamValueTooLow,
	domain.ErrActivationBeforeGenesis,
	domain.ErrInvalidCycle,
	domain.ErrCycleNotContiguous,
	domain.ErrInvalidBurnTx,
}

// AddParamChanges records the given governance changes in the ledger state
// and returns how many have been written. Every change is checked before
// writing anything. A change for an already known parameter and activation
// height replaces the previous one, so the same list can be safely sent
// again after a failure.
func (s *Service) AddParamChanges(changes []domain.ParamChange) (int, error) {
	store := s.repoManager.ParamHistoryStore()

	for i, c := range changes {
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("change %d: %w", i, err)
		}
		if c.ActivationHeight < store.GenesisHeight() {
			return 0, fmt.Errorf("change %d: %w", i, domain.ErrActivationBeforeGenesis)
		}
	}

	for i, c := range changes {
		if err := store.AddParamChange(c); err != nil {
			return i, ledgerWriteError("change", i, err)
		}
	}

	log.Infof("added %d param changes to ledger state", len(changes))
	return len(changes), nil
}

// AddCycles appends the given cycles to the ledger state and returns how
// many have been written. Cycles already known are skipped, the others must
// be contiguous, starting right after the last known one.
func (s *Service) AddCycles(cycles []domain.Cycle) (int, error) {
	store := s.repoManager.ParamHistoryStore()

	for i, c := range cycles {
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("cycle %d: %w", i, err)
		}
		if i > 0 && !c.Follows(cycles[i-1]) {
			return 0, fmt.Errorf("cycle %d: %w", i, domain.ErrCycleNotContiguous)
		}
	}

	count := 0
	for i, c := range cycles {
		if store.CycleIndex(c) >= 0 {
			continue
		}
		if err := store.AddCycle(c); err != nil {
			return count, ledgerWriteError("cycle", i, err)
		}
		count++
	}

	log.Infof("added %d cycles to ledger state", count)
	return count, nil
}

// AddBurnTxs records the given confirmed burn txs in the ledger state and
// returns how many have been written.
func (s *Service) AddBurnTxs(txs []domain.BurnTx) (int, error) {
	store := s.repoManager.ParamHistoryStore()

	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, fmt.Errorf("burn tx %d: %w", i, err)
		}
	}

	for i, tx := range txs {
		if err := store.AddBurnTx(tx); err != nil {
			return i, ledgerWriteError("burn tx", i, err)
		}
	}

	log.Infof("added %d burn txs to ledger state", len(txs))
	return len(txs), nil
}

// ledgerWriteError returns contract violations as they are, while failures
// of the underlying store are logged and hidden behind ErrServiceUnavailable.
func ledgerWriteError(item string, index int, err error) error {
	for _, e := range ledgerErrors {
		if errors.Is(err, e) {
			return fmt.Errorf("%s %d: %w", item, index, err)
		}
	}
	log.WithError(err).Warnf("failed to write %s %d to ledger state", item, index)
	return ErrServiceUnavailable
}
