package feevalidation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

var null = []byte("null")

// esploraTx is the shape of the JSON returned by an esplora-like explorer
// for a tx. Pointers distinguish missing fields from zero values.
type esploraTx struct {
	TxID   *string        `json:"txid"`
	Status *esploraStatus `json:"status"`
	Vin    []esploraVin   `json:"vin"`
	Vout   []esploraVout  `json:"vout"`
}

type esploraStatus struct {
	Confirmed   *bool   `json:"confirmed"`
	BlockHeight *uint32 `json:"block_height"`
}

type esploraVin struct {
	Prevout *struct {
		Value *uint64 `json:"value"`
	} `json:"prevout"`
}

type esploraVout struct {
	Value   *uint64 `json:"value"`
	Address *string `json:"scriptpubkey_address"`
}

// initialSanityCheck makes sure the JSON is well-formed, refers to the
// requested tx and contains a confirmation indicator, whatever its value.
// A tx known to the explorer is all that's needed here.
func initialSanityCheck(txID, txJSON string) domain.ValidationStatus {
	if len(txJSON) == 0 {
		return domain.StatusNackJSONError
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(txJSON), &top); err != nil {
		return domain.StatusNackJSONError
	}

	rawStatus, ok := top["status"]
	if !ok || isNull(rawStatus) {
		return domain.StatusNackJSONError
	}

	rawTxID, ok := top["txid"]
	if !ok || isNull(rawTxID) {
		return domain.StatusNackJSONError
	}
	var gotTxID string
	if err := json.Unmarshal(rawTxID, &gotTxID); err != nil {
		return domain.StatusNackJSONError
	}
	if gotTxID != txID {
		return domain.StatusNackJSONError
	}

	var status map[string]json.RawMessage
	if err := json.Unmarshal(rawStatus, &status); err != nil {
		return domain.StatusNackJSONError
	}
	if confirmed, ok := status["confirmed"]; !ok || isNull(confirmed) {
		return domain.StatusNackJSONError
	}

	return domain.StatusAckFeeOK
}

// parseTxRecord parses the given JSON into a TxRecord. The tx must have at
// least 1 input and 2 outputs: the fee and the reserved-for-trade or change
// output. Fields of inputs and outputs are left optional, it's up to each
// checker to require the ones it needs.
func parseTxRecord(txJSON string) (*domain.TxRecord, error) {
	var tx esploraTx
	if err := json.Unmarshal([]byte(txJSON), &tx); err != nil {
		return nil, err
	}
	if tx.TxID == nil {
		return nil, fmt.Errorf("missing txid")
	}
	if tx.Status == nil || tx.Status.Confirmed == nil {
		return nil, fmt.Errorf("missing status")
	}
	if tx.Vin == nil || tx.Vout == nil {
		return nil, fmt.Errorf("missing vin/vout")
	}
	if len(tx.Vin) < 1 || len(tx.Vout) < 2 {
		return nil, fmt.Errorf("not enough vins/vouts")
	}

	ins := make([]domain.TxInput, 0, len(tx.Vin))
	for _, in := range tx.Vin {
		var value *uint64
		if in.Prevout != nil {
			value = in.Prevout.Value
		}
		ins = append(ins, domain.TxInput{PrevoutValue: value})
	}
	outs := make([]domain.TxOutput, 0, len(tx.Vout))
	for _, out := range tx.Vout {
		outs = append(outs, domain.TxOutput{Value: out.Value, Address: out.Address})
	}

	return &domain.TxRecord{
		TxID:        *tx.TxID,
		Confirmed:   *tx.Status.Confirmed,
		BlockHeight: tx.Status.BlockHeight,
		Inputs:      ins,
		Outputs:     outs,
	}, nil
}

// txBlockHeight returns the height of the block including the tx, 0 if the
// tx is still in mempool, or -1 if the JSON is not well-formed or the
// height of a confirmed tx is missing.
func txBlockHeight(txJSON string) int64 {
	var tx struct {
		Status *esploraStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(txJSON), &tx); err != nil {
		return -1
	}
	if tx.Status == nil || tx.Status.Confirmed == nil {
		return -1
	}
	if !*tx.Status.Confirmed {
		return 0
	}
	if tx.Status.BlockHeight == nil {
		return -1
	}
	return int64(*tx.Status.BlockHeight)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), null)
}
