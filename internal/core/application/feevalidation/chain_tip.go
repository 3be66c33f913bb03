package feevalidation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/pkg/stats"
)

// SyncChainHeight fetches the chain tip from the explorer and records it in
// the ledger state. A tip lower than the recorded one is ignored.
func (s *Service) SyncChainHeight(ctx context.Context) (uint32, error) {
	height, err := s.fetcher.GetBlockHeight(ctx)
	if err != nil {
		stats.RecordFetchFailure()
		return 0, err
	}

	store := s.repoManager.ParamHistoryStore()
	if err := store.SetChainHeight(height); err != nil {
		return 0, err
	}
	return store.CurrentChainHeight(), nil
}

// FollowChainTip syncs the chain height every interval until ctx is done.
func (s *Service) FollowChainTip(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			if height, err := s.SyncChainHeight(ctx); err != nil {
				log.WithError(err).Warn("failed to sync chain height")
			} else {
				log.Debugf("chain height: %d", height)
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
}
