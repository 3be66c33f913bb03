package domain

import "errors"

var (
	// ErrMissingTxID is returned when a validation request is built without
	// the id of the fee transaction.
	ErrMissingTxID = errors.New("missing fee transaction id")
	// ErrInvalidFeeCurrency ...
	ErrInvalidFeeCurrency = errors.New("fee currency must be either base or burn")
	// ErrInvalidRole ...
	ErrInvalidRole = errors.New("role must be either maker or taker")
	// ErrInvalidReferenceHeight is returned when an explicit reference height
	// is given but it's zero.
	ErrInvalidReferenceHeight = errors.New(
		"reference height must be greater than zero if defined",
	)
	// ErrUnknownParam is returned when looking up a parameter kind that is not
	// part of the closed set of fee parameters.
	ErrUnknownParam = errors.New("unknown fee parameter")
	// ErrParamValueTooLow is returned when trying to record a parameter value
	// below the protocol minimum.
	ErrParamValueTooLow = errors.New("fee parameter value is below protocol minimum")
	// ErrActivationBeforeGenesis is returned when trying to record a
	// parameter change activated before the ledger existed.
	ErrActivationBeforeGenesis = errors.New(
		"activation height must not be below ledger genesis height",
	)
	// ErrInvalidCycle ...
	ErrInvalidCycle = errors.New("cycle must have a positive duration")
	// ErrCycleNotContiguous is returned when appending a cycle that does not
	// start right after the last known one.
	ErrCycleNotContiguous = errors.New("cycle must start right after the previous one")
	// ErrCycleNotFound ...
	ErrCycleNotFound = errors.New("cycle not found")
	// ErrInvalidBurnTx ...
	ErrInvalidBurnTx = errors.New("burn tx must have an id and a positive burnt amount")
	// ErrTxNotFound is returned by a tx fetcher when the explorer does not
	// know the requested tx.
	ErrTxNotFound = errors.New("transaction not found")
	// ErrValidationRecordNotFound ...
	ErrValidationRecordNotFound = errors.New("validation record not found")
)
