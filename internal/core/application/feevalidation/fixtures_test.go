package feevalidation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
	"github.com/tdex-network/tdex-feevalidator/internal/infrastructure/storage/db/inmemory"
)

const (
	testGenesisHeight = uint32(100)
	testTxID          = "b4a4ad8a3f2a2ac5a8f6e8d73a1c0e2f6a6c7e7d8b6e9c4a9e1b8f7d6c5b4a39"
	testFeeReceiver   = "bc1qwxsnvnt7724gg02q624q2pknaqjaaj0vff36vr"
	unknownReceiver   = "bc1q9y2ucl8wd4ml6wfmm8dwqfgf2wwgcgyfhgum4n"
	// 0.01 BTC.
	testTradeAmount = uint64(1000000)
)

// newTestStore returns a ledger state where, for base currency takers,
// the min fee is 1000 sats and the fee rate is 0.5% from height 200 on and
// 1% from height 1000 on. Before height 200 genesis defaults apply (min 5000
// sats, rate 0.3%).
func newTestStore(t *testing.T) *inmemory.ParamHistoryStore {
	store := inmemory.NewParamHistoryStore(testGenesisHeight)
	populateTestStore(t, store)
	return store
}

func populateTestStore(t *testing.T, store ports.WritableParamHistoryStore) {
	changes := []domain.ParamChange{
		{Kind: domain.ParamMinTakerFeeBase, ActivationHeight: 200, Value: 1000},
		{Kind: domain.ParamDefaultTakerFeeBase, ActivationHeight: 200, Value: 500000},
		{Kind: domain.ParamDefaultTakerFeeBase, ActivationHeight: 1000, Value: 1000000},
	}
	for _, c := range changes {
		require.NoError(t, store.AddParamChange(c))
	}
	require.NoError(t, store.SetChainHeight(2000))
}

func newTestValidator(
	t *testing.T, store ports.ParamHistoryStore, overrides *mockOverrideProvider,
) *Validator {
	var v *Validator
	var err error
	if overrides == nil {
		v, err = NewValidator(store, nil, DefaultConfig())
	} else {
		v, err = NewValidator(store, overrides, DefaultConfig())
	}
	require.NoError(t, err)
	return v
}

func newTestRequest(
	t *testing.T, currency domain.FeeCurrency, role domain.Role,
	tradeAmount uint64, refHeight *uint32, chainHeight uint32,
) *domain.ValidationRequest {
	req, err := domain.NewValidationRequest(
		testTxID, tradeAmount, currency, role, refHeight, chainHeight,
	)
	require.NoError(t, err)
	return req
}

func heightPtr(h uint32) *uint32 {
	return &h
}

type testTx struct {
	txID        interface{}
	confirmed   interface{}
	blockHeight interface{}
	feeAddress  interface{}
	feeValue    interface{}
	inputValue  interface{}
	numVins     int
	numVouts    int
	skip        map[string]bool
}

func defaultTestTx() testTx {
	return testTx{
		txID:        testTxID,
		confirmed:   true,
		blockHeight: uint32(500),
		feeAddress:  testFeeReceiver,
		feeValue:    uint64(5000),
		inputValue:  uint64(100000),
		numVins:     1,
		numVouts:    2,
		skip:        map[string]bool{},
	}
}

// makeTxJSON builds an esplora-like tx JSON. Fields listed in skip are
// omitted.
func makeTxJSON(t *testing.T, tx testTx) string {
	status := map[string]interface{}{}
	if !tx.skip["confirmed"] {
		status["confirmed"] = tx.confirmed
	}
	if !tx.skip["block_height"] {
		status["block_height"] = tx.blockHeight
	}

	vins := make([]interface{}, 0, tx.numVins)
	for i := 0; i < tx.numVins; i++ {
		vin := map[string]interface{}{"txid": testTxID, "vout": i}
		if !tx.skip["prevout"] {
			prevout := map[string]interface{}{}
			if !tx.skip["prevout.value"] {
				prevout["value"] = tx.inputValue
			}
			vin["prevout"] = prevout
		}
		vins = append(vins, vin)
	}

	vouts := make([]interface{}, 0, tx.numVouts)
	for i := 0; i < tx.numVouts; i++ {
		vout := map[string]interface{}{
			"value":                uint64(90000),
			"scriptpubkey_address": unknownReceiver,
		}
		if i == 0 {
			vout["value"] = tx.feeValue
			vout["scriptpubkey_address"] = tx.feeAddress
			if tx.skip["vout.value"] {
				delete(vout, "value")
			}
			if tx.skip["vout.address"] {
				delete(vout, "scriptpubkey_address")
			}
		}
		vouts = append(vouts, vout)
	}

	m := map[string]interface{}{}
	if !tx.skip["txid"] {
		m["txid"] = tx.txID
	}
	if !tx.skip["status"] {
		m["status"] = status
	}
	if !tx.skip["vin"] {
		m["vin"] = vins
	}
	if !tx.skip["vout"] {
		m["vout"] = vouts
	}

	buf, err := json.Marshal(m)
	require.NoError(t, err)
	return string(buf)
}
