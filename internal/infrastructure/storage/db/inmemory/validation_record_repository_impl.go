package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

type validationRecordInmemoryStore struct {
	records     map[string]domain.ValidationRecord
	recordsByTx map[string][]string
	locker      *sync.RWMutex
}

type validationRecordRepositoryImpl struct {
	store *validationRecordInmemoryStore
}

// NewValidationRecordRepositoryImpl returns a new inmemory
// ValidationRecordRepository implementation.
func NewValidationRecordRepositoryImpl() domain.ValidationRecordRepository {
	return &validationRecordRepositoryImpl{
		store: &validationRecordInmemoryStore{
			records:     make(map[string]domain.ValidationRecord),
			recordsByTx: make(map[string][]string),
			locker:      &sync.RWMutex{},
		},
	}
}

func (r *validationRecordRepositoryImpl) AddValidationRecord(
	_ context.Context, record domain.ValidationRecord,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.records[record.ID]; ok {
		return fmt.Errorf("validation record %s already exists", record.ID)
	}

	r.store.records[record.ID] = record
	r.store.recordsByTx[record.TxID] = append(
		r.store.recordsByTx[record.TxID], record.ID,
	)
	return nil
}

func (r *validationRecordRepositoryImpl) GetValidationRecord(
	_ context.Context, id string,
) (*domain.ValidationRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	record, ok := r.store.records[id]
	if !ok {
		return nil, domain.ErrValidationRecordNotFound
	}
	return &record, nil
}

func (r *validationRecordRepositoryImpl) GetValidationRecordsForTx(
	_ context.Context, txID string,
) ([]domain.ValidationRecord, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	ids := r.store.recordsByTx[txID]
	records := make([]domain.ValidationRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, r.store.records[id])
	}
	return records, nil
}
