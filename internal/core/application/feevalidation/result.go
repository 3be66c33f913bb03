package feevalidation

import "github.com/tdex-network/tdex-feevalidator/internal/core/domain"

// Result is the outcome of a fee validation. Fee amounts and effective
// height are zero if the validation terminated before computing them.
type Result struct {
	Status          domain.ValidationStatus
	Title           string
	Description     string
	EffectiveHeight uint32
	ExpectedFee     uint64
	ActualFee       uint64
}

// Pass ...
func (r Result) Pass() bool {
	return r.Status.Pass()
}

func (r Result) String() string {
	return r.Status.String()
}

func statusResult(status domain.ValidationStatus, description string) Result {
	return Result{Status: status, Description: description}
}
