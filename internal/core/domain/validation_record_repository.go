package domain

import "context"

// ValidationRecordRepository is the abstraction for any kind of database
// intended to persist the audit trail of fee validations.
type ValidationRecordRepository interface {
	// AddValidationRecord stores a new record. Records are immutable.
	AddValidationRecord(ctx context.Context, record ValidationRecord) error
	// GetValidationRecord returns the record with the given id.
	GetValidationRecord(ctx context.Context, id string) (*ValidationRecord, error)
	// GetValidationRecordsForTx returns all records for the given fee tx,
	// oldest first.
	GetValidationRecordsForTx(
		ctx context.Context, txID string,
	) ([]ValidationRecord, error)
}
