package domain

// TxInput is an input of a fetched fee transaction. The previous output
// value is nil if the explorer did not report it.
type TxInput struct {
	PrevoutValue *uint64
}

// TxOutput is an output of a fetched fee transaction.
type TxOutput struct {
	Value   *uint64
	Address *string
}

// TxRecord is the parsed view of the JSON describing a candidate fee
// transaction. By convention index 0 of both inputs and outputs is the one
// used to derive fee amount and fee receiver.
type TxRecord struct {
	TxID        string
	Confirmed   bool
	BlockHeight *uint32
	Inputs      []TxInput
	Outputs     []TxOutput
}

// ConfirmedHeight returns the height of the block the tx has been included
// in, if any.
func (r *TxRecord) ConfirmedHeight() (uint32, bool) {
	if !r.Confirmed || r.BlockHeight == nil || *r.BlockHeight == 0 {
		return 0, false
	}
	return *r.BlockHeight, true
}

// FeeOutput returns the output paying the fee.
func (r *TxRecord) FeeOutput() TxOutput {
	return r.Outputs[0]
}

// FundingInput returns the first input of the tx.
func (r *TxRecord) FundingInput() TxInput {
	return r.Inputs[0]
}
