package feevalidation

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
)

// Validator is the fee validation engine. It's purely computational: it
// reads fee parameters and burn txs from the param history store and
// override rates from the filter provider, never writes anything and never
// returns errors. Every outcome is one of the statuses of
// domain.ValidationStatus. A Validator is safe for concurrent use as long as
// its store and provider are.
type Validator struct {
	store     ports.ParamHistoryStore
	overrides ports.OverrideFilterProvider
	cfg       Config
}

// NewValidator returns a new engine. The override provider is optional.
func NewValidator(
	store ports.ParamHistoryStore,
	overrides ports.OverrideFilterProvider,
	cfg Config,
) (*Validator, error) {
	if store == nil {
		return nil, fmt.Errorf("missing param history store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Validator{store, overrides, cfg}, nil
}

// ValidateMakerFeeTx validates a base currency maker fee tx.
func (v *Validator) ValidateMakerFeeTx(
	req *domain.ValidationRequest, txJSON string, feeReceivers []string,
) Result {
	return v.validateBaseFeeTx(req, domain.RoleMaker, txJSON, feeReceivers)
}

// ValidateTakerFeeTx validates a base currency taker fee tx.
func (v *Validator) ValidateTakerFeeTx(
	req *domain.ValidationRequest, txJSON string, feeReceivers []string,
) Result {
	return v.validateBaseFeeTx(req, domain.RoleTaker, txJSON, feeReceivers)
}

// ValidateBaseFeeTx validates a base currency fee tx for the role of the
// request. Sanity, address and amount checks run in sequence, the first
// failing one determines the result.
func (v *Validator) ValidateBaseFeeTx(
	req *domain.ValidationRequest, txJSON string, feeReceivers []string,
) Result {
	return v.validateBaseFeeTx(req, req.Role(), txJSON, feeReceivers)
}

// ValidateBurnFeeTx validates a fee paid by burning the embedded token. The
// burn tx is looked up in the ledger state. A tx not yet known to the
// ledger is accepted as new within the grace window counted from the
// reference height of the request.
func (v *Validator) ValidateBurnFeeTx(req *domain.ValidationRequest) Result {
	title := fmt.Sprintf("%s tx validation (BSQ)", req.Role().Title())

	burnTx, ok := v.store.ConfirmedBurnTx(req.TxID())
	if !ok {
		refHeight, hasRefHeight := req.ReferenceHeight()
		if !hasRefHeight {
			desc := fmt.Sprintf(
				"BSQ tx %s not found and its age is unknown", req.TxID(),
			)
			return v.endResult(title, statusResult(domain.StatusNackBurnFeeNotFound, desc))
		}

		age := int64(req.ChainHeight()) - int64(refHeight)
		if age > int64(v.cfg.BurnGraceBlocks) {
			desc := fmt.Sprintf("BSQ tx %s not found, age=%d", req.TxID(), age)
			return v.endResult(title, statusResult(domain.StatusNackBurnFeeNotFound, desc))
		}

		log.Infof(
			"ledger does not yet have the tx %s (age=%d), bypassing check of "+
				"burnt BSQ amount", req.TxID(), age,
		)
		desc := fmt.Sprintf("BSQ tx %s not yet known, age=%d", req.TxID(), age)
		return v.endResult(title, statusResult(domain.StatusAckTxIsNew, desc))
	}

	height := v.burnFeeHeight(req, burnTx)
	fc := v.newFeeContext(
		req.TradeAmount(), req.Role(), domain.FeeCurrencyBurn,
		height, burnTx.BurntAmount,
	)
	return v.endResult(title, v.checkFeeAmount(fc))
}

// TxConfirmations returns the number of confirmations of the tx described
// by the given JSON, 0 if unconfirmed or -1 if the JSON is not valid.
func (v *Validator) TxConfirmations(
	txID, txJSON string, chainHeight uint32,
) int64 {
	if !initialSanityCheck(txID, txJSON).Pass() {
		return -1
	}
	blockHeight := txBlockHeight(txJSON)
	if blockHeight > 0 {
		// a tx in the tip block has 1 confirmation.
		return int64(chainHeight) - blockHeight + 1
	}
	if blockHeight < 0 {
		return -1
	}
	return 0
}

func (v *Validator) validateBaseFeeTx(
	req *domain.ValidationRequest, role domain.Role,
	txJSON string, feeReceivers []string,
) Result {
	title := fmt.Sprintf("%s tx validation (BTC)", role.Title())

	if status := initialSanityCheck(req.TxID(), txJSON); !status.Pass() {
		log.Infof("the %s fee tx %s JSON failed initial sanity checks", role, req.TxID())
		return v.endResult(title, statusResult(status, "malformed tx JSON"))
	}

	record, err := parseTxRecord(txJSON)
	if err != nil {
		log.WithError(err).Infof("the %s fee tx JSON validation failed", role)
		return v.endResult(title, statusResult(domain.StatusNackJSONError, err.Error()))
	}

	height := v.baseFeeHeight(req, record)

	if res := v.checkFeeAddress(record, height, feeReceivers); !res.Pass() {
		res.EffectiveHeight = height
		return v.endResult(title, res)
	}

	out := record.FeeOutput()
	in := record.FundingInput()
	if in.PrevoutValue == nil {
		return v.endResult(title, statusResult(
			domain.StatusNackJSONError, "vin[0].prevout missing",
		))
	}
	if out.Value == nil {
		return v.endResult(title, statusResult(
			domain.StatusNackJSONError, "vout[0].value missing",
		))
	}

	fc := v.newFeeContext(
		req.TradeAmount(), role, domain.FeeCurrencyBase, height, *out.Value,
	)
	return v.endResult(title, v.checkFeeAmount(fc))
}

// checkFeeAddress accepts the fee tx if its first output pays a known fee
// receiver, or if the fee obligation is so old to predate the rotations of
// fee receivers.
func (v *Validator) checkFeeAddress(
	record *domain.TxRecord, height uint32, feeReceivers []string,
) Result {
	out := record.FeeOutput()
	if out.Address == nil {
		log.Warn("vout[0].scriptpubkey_address missing")
		return statusResult(
			domain.StatusNackJSONError, "vout[0].scriptpubkey_address missing",
		)
	}
	feeAddress := *out.Address
	log.Debugf("fee address: %s", feeAddress)

	for _, receiver := range feeReceivers {
		if receiver == feeAddress {
			return statusResult(domain.StatusAckFeeOK, "known fee receiver")
		}
	}

	if height < v.cfg.LegacyReceiverHeight {
		log.Infof(
			"leniency rule: unrecognised fee receiver %s but it's a really old "+
				"offer so let it pass", feeAddress,
		)
		return statusResult(domain.StatusAckFeeOK, "legacy fee receiver")
	}

	desc := fmt.Sprintf("fee address %s is not a known BTC fee receiver", feeAddress)
	log.Info(desc)
	log.Infof("known BTC fee receivers: [%s]", strings.Join(feeReceivers, ", "))
	return statusResult(domain.StatusNackUnknownFeeReceiver, desc)
}

func (v *Validator) checkFeeAmount(fc *feeContext) Result {
	status := v.evaluateTiers(fc)
	return Result{
		Status:          status,
		Description:     fc.description,
		EffectiveHeight: fc.height,
		ExpectedFee:     fc.expectedFee,
		ActualFee:       fc.actualFee,
	}
}

func (v *Validator) endResult(title string, res Result) Result {
	res.Title = title
	if res.Pass() {
		log.Infof("%s : %s", title, res.Status)
	} else {
		log.Warnf("%s : %s", title, res.Status)
	}
	return res
}
