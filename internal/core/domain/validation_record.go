package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValidationRecord is the audit trail of a terminated fee validation.
type ValidationRecord struct {
	ID              string
	TxID            string
	Currency        FeeCurrency
	Role            Role
	TradeAmount     uint64
	Status          ValidationStatus
	Title           string
	Description     string
	EffectiveHeight uint32
	CycleIndex      int
	ExpectedFee     uint64
	ActualFee       uint64
	Timestamp       int64
}

// NewValidationRecord returns a record with a new id for the given request.
func NewValidationRecord(req *ValidationRequest) *ValidationRecord {
	return &ValidationRecord{
		ID:          uuid.New().String(),
		TxID:        req.TxID(),
		Currency:    req.Currency(),
		Role:        req.Role(),
		TradeAmount: req.TradeAmount(),
		Status:      StatusNotCheckedYet,
		CycleIndex:  -1,
		Timestamp:   time.Now().Unix(),
	}
}

// Pass ...
func (r *ValidationRecord) Pass() bool {
	return r.Status.Pass()
}
