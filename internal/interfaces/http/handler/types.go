package handler

import (
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/feevalidation"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

type validateRequest struct {
	TxID            string  `json:"txid"`
	TradeAmount     uint64  `json:"tradeAmount"`
	Currency        string  `json:"currency"`
	Role            string  `json:"role"`
	ReferenceHeight *uint32 `json:"referenceHeight,omitempty"`
	ChainHeight     *uint32 `json:"chainHeight,omitempty"`
}

type validateBatchRequest struct {
	Requests []validateRequest `json:"requests"`
}

type validationRecord struct {
	ID              string `json:"id"`
	TxID            string `json:"txid"`
	Currency        string `json:"currency"`
	Role            string `json:"role"`
	TradeAmount     uint64 `json:"tradeAmount"`
	Status          string `json:"status"`
	Pass            bool   `json:"pass"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	EffectiveHeight uint32 `json:"effectiveHeight"`
	CycleIndex      int    `json:"cycleIndex"`
	ExpectedFee     uint64 `json:"expectedFee"`
	ActualFee       uint64 `json:"actualFee"`
	Timestamp       int64  `json:"timestamp"`
}

type validationRecords struct {
	Records []validationRecord `json:"records"`
}

type confirmations struct {
	TxID          string `json:"txid"`
	Confirmations int64  `json:"confirmations"`
}

type cycleInfo struct {
	Height                uint32 `json:"height"`
	Index                 int    `json:"index"`
	FirstBlock            uint32 `json:"firstBlock"`
	LastBlock             uint32 `json:"lastBlock"`
	Duration              uint32 `json:"duration"`
	NumPastCycles         int    `json:"numPastCycles"`
	FirstBlockOfPastCycle uint32 `json:"firstBlockOfPastCycle"`
}

type feeParams struct {
	Height   uint32 `json:"height"`
	Role     string `json:"role"`
	Currency string `json:"currency"`
	MinFee   uint64 `json:"minFee"`
	FeeRate  uint64 `json:"feeRate"`
}

type paramChange struct {
	Param            string `json:"param"`
	ActivationHeight uint32 `json:"activationHeight"`
	Value            uint64 `json:"value"`
}

type addParamChangesRequest struct {
	Changes []paramChange `json:"changes"`
}

type cycle struct {
	FirstBlock uint32 `json:"firstBlock"`
	Duration   uint32 `json:"duration"`
}

type addCyclesRequest struct {
	Cycles []cycle `json:"cycles"`
}

type burnTx struct {
	TxID        string `json:"txid"`
	BurntAmount uint64 `json:"burntAmount"`
	BlockHeight uint32 `json:"blockHeight"`
}

type addBurnTxsRequest struct {
	BurnTxs []burnTx `json:"burnTxs"`
}

type ledgerUpdate struct {
	Added int `json:"added"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// batchErrorResponse lists the records of the validations terminated
// before the failure, in the same order of the requests. The entries of
// the others are null.
type batchErrorResponse struct {
	Error   string              `json:"error"`
	Records []*validationRecord `json:"records"`
}

func toValidationRecord(r domain.ValidationRecord) validationRecord {
	return validationRecord{
		ID:              r.ID,
		TxID:            r.TxID,
		Currency:        r.Currency.String(),
		Role:            r.Role.String(),
		TradeAmount:     r.TradeAmount,
		Status:          r.Status.String(),
		Pass:            r.Pass(),
		Title:           r.Title,
		Description:     r.Description,
		EffectiveHeight: r.EffectiveHeight,
		CycleIndex:      r.CycleIndex,
		ExpectedFee:     r.ExpectedFee,
		ActualFee:       r.ActualFee,
		Timestamp:       r.Timestamp,
	}
}

func toValidationRecords(records []domain.ValidationRecord) validationRecords {
	list := make([]validationRecord, 0, len(records))
	for _, r := range records {
		list = append(list, toValidationRecord(r))
	}
	return validationRecords{list}
}

func toPartialValidationRecords(
	records []*domain.ValidationRecord,
) []*validationRecord {
	list := make([]*validationRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			list = append(list, nil)
			continue
		}
		record := toValidationRecord(*r)
		list = append(list, &record)
	}
	return list
}

func toCycleInfo(info feevalidation.CycleInfo) cycleInfo {
	return cycleInfo{
		Height:                info.Height,
		Index:                 info.Index,
		FirstBlock:            info.Cycle.HeightOfFirstBlock,
		LastBlock:             info.Cycle.HeightOfLastBlock(),
		Duration:              info.Cycle.Duration,
		NumPastCycles:         info.NumPastCycles,
		FirstBlockOfPastCycle: info.FirstBlockOfPastCycle,
	}
}
