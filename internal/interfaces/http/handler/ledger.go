package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

const maxLedgerEntries = 10000

func (h *feeValidationHandler) AddParamChanges(
	w http.ResponseWriter, r *http.Request,
) {
	var body addParamChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request: %s", err))
		return
	}
	if err := checkLedgerEntries(len(body.Changes)); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	changes := make([]domain.ParamChange, 0, len(body.Changes))
	for i, c := range body.Changes {
		kind, err := domain.ParseParamKind(c.Param)
		if err != nil {
			writeError(
				w, http.StatusBadRequest,
				fmt.Errorf("change %d: %s %s", i, err, c.Param),
			)
			return
		}
		changes = append(changes, domain.ParamChange{
			Kind:             kind,
			ActivationHeight: c.ActivationHeight,
			Value:            c.Value,
		})
	}

	count, err := h.svc.AddParamChanges(changes)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerUpdate{count})
}

func (h *feeValidationHandler) AddCycles(w http.ResponseWriter, r *http.Request) {
	var body addCyclesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request: %s", err))
		return
	}
	if err := checkLedgerEntries(len(body.Cycles)); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cycles := make([]domain.Cycle, 0, len(body.Cycles))
	for _, c := range body.Cycles {
		cycles = append(cycles, domain.Cycle{
			HeightOfFirstBlock: c.FirstBlock,
			Duration:           c.Duration,
		})
	}

	count, err := h.svc.AddCycles(cycles)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerUpdate{count})
}

func (h *feeValidationHandler) AddBurnTxs(w http.ResponseWriter, r *http.Request) {
	var body addBurnTxsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request: %s", err))
		return
	}
	if err := checkLedgerEntries(len(body.BurnTxs)); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	txs := make([]domain.BurnTx, 0, len(body.BurnTxs))
	for _, tx := range body.BurnTxs {
		txs = append(txs, domain.BurnTx{
			ID:          tx.TxID,
			BurntAmount: tx.BurntAmount,
			BlockHeight: tx.BlockHeight,
		})
	}

	count, err := h.svc.AddBurnTxs(txs)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerUpdate{count})
}

func checkLedgerEntries(count int) error {
	if count <= 0 {
		return fmt.Errorf("missing ledger entries")
	}
	if count > maxLedgerEntries {
		return fmt.Errorf("request must not exceed %d ledger entries", maxLedgerEntries)
	}
	return nil
}
