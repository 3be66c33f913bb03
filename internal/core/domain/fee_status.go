package domain

// ValidationStatus is the terminal outcome of a fee validation.
type ValidationStatus int

const (
	StatusNotCheckedYet ValidationStatus = iota
	StatusAckFeeOK
	StatusAckTxIsNew
	StatusNackJSONError
	StatusNackUnknownFeeReceiver
	StatusNackBurnFeeNotFound
	StatusNackMakerFeeTooLow
	StatusNackTakerFeeTooLow
)

var (
	statusNames = map[ValidationStatus]string{
		StatusNotCheckedYet:          "NOT_CHECKED_YET",
		StatusAckFeeOK:               "ACK_FEE_OK",
		StatusAckTxIsNew:             "ACK_TX_IS_NEW",
		StatusNackJSONError:          "NACK_JSON_ERROR",
		StatusNackUnknownFeeReceiver: "NACK_UNKNOWN_FEE_RECEIVER",
		StatusNackBurnFeeNotFound:    "NACK_BSQ_FEE_NOT_FOUND",
		StatusNackMakerFeeTooLow:     "NACK_MAKER_FEE_TOO_LOW",
		StatusNackTakerFeeTooLow:     "NACK_TAKER_FEE_TOO_LOW",
	}

	// statusPass is the pass/fail classification of every status. A status
	// missing from the table never passes.
	statusPass = map[ValidationStatus]bool{
		StatusAckFeeOK:   true,
		StatusAckTxIsNew: true,
	}
)

// Pass returns whether the status lets the trade proceed.
func (s ValidationStatus) Pass() bool {
	return statusPass[s]
}

// IsTerminal returns whether the status is the outcome of a validation.
func (s ValidationStatus) IsTerminal() bool {
	_, ok := statusNames[s]
	return ok && s != StatusNotCheckedYet
}

func (s ValidationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseValidationStatus returns the status matching the given name.
func ParseValidationStatus(name string) (ValidationStatus, bool) {
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return StatusNotCheckedYet, false
}
