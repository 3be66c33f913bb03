package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	ledgerDir = "ledger"
	auditDir  = "audit"

	valueLogGCInterval = 30 * time.Minute
)

type repoManager struct {
	ledgerStore *badgerhold.Store
	auditStore  *badgerhold.Store

	paramHistoryStore          *paramHistoryStore
	validationRecordRepository domain.ValidationRecordRepository

	quitChan chan struct{}
}

// NewRepoManager opens (or creates if not exists) the badger stores for the
// ledger state and the audit trail in dedicated subdirectories of the given
// base dir. If the base dir is empty, stores are kept in memory.
func NewRepoManager(
	baseDbDir string, genesisHeight uint32, logger badger.Logger,
) (ports.RepoManager, error) {
	var ledgerDbDir, auditDbDir string
	if len(baseDbDir) > 0 {
		ledgerDbDir = filepath.Join(baseDbDir, ledgerDir)
		auditDbDir = filepath.Join(baseDbDir, auditDir)
	}

	ledgerStore, err := createDb(ledgerDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	auditStore, err := createDb(auditDbDir, logger)
	if err != nil {
		ledgerStore.Close()
		return nil, fmt.Errorf("opening audit db: %w", err)
	}

	paramStore, err := newParamHistoryStore(ledgerStore, genesisHeight)
	if err != nil {
		ledgerStore.Close()
		auditStore.Close()
		return nil, err
	}

	m := &repoManager{
		ledgerStore:                ledgerStore,
		auditStore:                 auditStore,
		paramHistoryStore:          paramStore,
		validationRecordRepository: newValidationRecordRepositoryImpl(auditStore),
		quitChan:                   make(chan struct{}),
	}

	if len(baseDbDir) > 0 {
		go m.runValueLogGC()
	}

	return m, nil
}

func (m *repoManager) ParamHistoryStore() ports.WritableParamHistoryStore {
	return m.paramHistoryStore
}

func (m *repoManager) ValidationRecordRepository() domain.ValidationRecordRepository {
	return m.validationRecordRepository
}

func (m *repoManager) Close() {
	close(m.quitChan)
	m.ledgerStore.Close()
	m.auditStore.Close()
}

func (m *repoManager) runValueLogGC() {
	ticker := time.NewTicker(valueLogGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.quitChan:
			return
		case <-ticker.C:
			for _, db := range []*badgerhold.Store{m.ledgerStore, m.auditStore} {
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
