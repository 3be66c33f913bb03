package dbbadger

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type validationRecordRepositoryImpl struct {
	store *badgerhold.Store
}

func newValidationRecordRepositoryImpl(
	store *badgerhold.Store,
) domain.ValidationRecordRepository {
	return &validationRecordRepositoryImpl{store}
}

func (r *validationRecordRepositoryImpl) AddValidationRecord(
	_ context.Context, record domain.ValidationRecord,
) error {
	if err := r.store.Insert(record.ID, record); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("validation record %s already exists", record.ID)
		}
		return err
	}
	return nil
}

func (r *validationRecordRepositoryImpl) GetValidationRecord(
	_ context.Context, id string,
) (*domain.ValidationRecord, error) {
	var record domain.ValidationRecord
	if err := r.store.Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrValidationRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *validationRecordRepositoryImpl) GetValidationRecordsForTx(
	_ context.Context, txID string,
) ([]domain.ValidationRecord, error) {
	query := badgerhold.Where("TxID").Eq(txID).SortBy("Timestamp")

	var records []domain.ValidationRecord
	if err := r.store.Find(&records, query); err != nil {
		return nil, err
	}
	if records == nil {
		records = make([]domain.ValidationRecord, 0)
	}
	return records, nil
}
