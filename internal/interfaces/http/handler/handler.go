package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/feevalidation"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

const maxBatchSize = 100

var errInvalidHeight = errors.New("height must be a positive integer")

// FeeValidationService is the application service exposed by the HTTP
// interface.
type FeeValidationService interface {
	NewRequest(
		txID string, tradeAmount uint64,
		currency domain.FeeCurrency, role domain.Role,
		referenceHeight, chainHeight *uint32,
	) (*domain.ValidationRequest, error)
	Validate(
		ctx context.Context, req *domain.ValidationRequest,
	) (*domain.ValidationRecord, error)
	ValidateBatch(
		ctx context.Context, reqs []*domain.ValidationRequest,
	) ([]*domain.ValidationRecord, error)
	Confirmations(ctx context.Context, txID string) (int64, error)
	GetValidation(ctx context.Context, id string) (*domain.ValidationRecord, error)
	ListValidationsForTx(
		ctx context.Context, txID string,
	) ([]domain.ValidationRecord, error)
	CycleInfo(height uint32, numPastCycles int) (*feevalidation.CycleInfo, error)
	FeeParamsAt(
		role domain.Role, currency domain.FeeCurrency, height uint32,
	) domain.ParamSnapshot
	AddParamChanges(changes []domain.ParamChange) (int, error)
	AddCycles(cycles []domain.Cycle) (int, error)
	AddBurnTxs(txs []domain.BurnTx) (int, error)
}

type feeValidationHandler struct {
	svc FeeValidationService
}

func NewFeeValidationHandler(svc FeeValidationService) *feeValidationHandler {
	return &feeValidationHandler{svc}
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *feeValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request: %s", err))
		return
	}

	req, err := h.newRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.svc.Validate(r.Context(), req)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationRecord(*record))
}

func (h *feeValidationHandler) ValidateBatch(
	w http.ResponseWriter, r *http.Request,
) {
	var body validateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request: %s", err))
		return
	}
	if len(body.Requests) <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing requests"))
		return
	}
	if len(body.Requests) > maxBatchSize {
		writeError(
			w, http.StatusBadRequest,
			fmt.Errorf("batch must not exceed %d requests", maxBatchSize),
		)
		return
	}

	reqs := make([]*domain.ValidationRequest, 0, len(body.Requests))
	for i, b := range body.Requests {
		req, err := h.newRequest(b)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("request %d: %s", i, err))
			return
		}
		reqs = append(reqs, req)
	}

	records, err := h.svc.ValidateBatch(r.Context(), reqs)
	if err != nil {
		// records of terminated validations are stored anyway, let the
		// client know about them.
		status := statusFromError(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).Warn("request failed")
		}
		writeJSON(w, status, batchErrorResponse{
			Error:   err.Error(),
			Records: toPartialValidationRecords(records),
		})
		return
	}

	list := make([]validationRecord, 0, len(records))
	for _, record := range records {
		list = append(list, toValidationRecord(*record))
	}
	writeJSON(w, http.StatusOK, validationRecords{list})
}

func (h *feeValidationHandler) GetValidation(
	w http.ResponseWriter, r *http.Request,
) {
	record, err := h.svc.GetValidation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationRecord(*record))
}

func (h *feeValidationHandler) ListValidationsForTx(
	w http.ResponseWriter, r *http.Request,
) {
	records, err := h.svc.ListValidationsForTx(
		r.Context(), chi.URLParam(r, "txid"),
	)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationRecords(records))
}

func (h *feeValidationHandler) Confirmations(
	w http.ResponseWriter, r *http.Request,
) {
	txID := chi.URLParam(r, "txid")
	confs, err := h.svc.Confirmations(r.Context(), txID)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, confirmations{txID, confs})
}

func (h *feeValidationHandler) CycleInfo(w http.ResponseWriter, r *http.Request) {
	height, err := parseHeight(chi.URLParam(r, "height"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	numPastCycles := 0
	if s := r.URL.Query().Get("past"); len(s) > 0 {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(
				w, http.StatusBadRequest,
				fmt.Errorf("past must be a non negative integer"),
			)
			return
		}
		numPastCycles = n
	}

	info, err := h.svc.CycleInfo(height, numPastCycles)
	if err != nil {
		writeError(w, statusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleInfo(*info))
}

func (h *feeValidationHandler) FeeParams(w http.ResponseWriter, r *http.Request) {
	height, err := parseHeight(chi.URLParam(r, "height"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query()
	role, err := domain.ParseRole(query.Get("role"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	currency, err := domain.ParseFeeCurrency(query.Get("currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snapshot := h.svc.FeeParamsAt(role, currency, height)
	writeJSON(w, http.StatusOK, feeParams{
		Height:   snapshot.Height,
		Role:     role.String(),
		Currency: currency.String(),
		MinFee:   snapshot.MinFee,
		FeeRate:  snapshot.FeeRate,
	})
}

func (h *feeValidationHandler) newRequest(
	body validateRequest,
) (*domain.ValidationRequest, error) {
	currency, err := domain.ParseFeeCurrency(body.Currency)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(body.Role)
	if err != nil {
		return nil, err
	}
	return h.svc.NewRequest(
		body.TxID, body.TradeAmount, currency, role,
		body.ReferenceHeight, body.ChainHeight,
	)
}

func parseHeight(s string) (uint32, error) {
	height, err := strconv.ParseUint(s, 10, 32)
	if err != nil || height == 0 {
		return 0, errInvalidHeight
	}
	return uint32(height), nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingTxID),
		errors.Is(err, domain.ErrInvalidFeeCurrency),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidReferenceHeight),
		errors.Is(err, domain.ErrUnknownParam),
		errors.Is(err, domain.ErrParamValueTooLow),
		errors.Is(err, domain.ErrActivationBeforeGenesis),
		errors.Is(err, domain.ErrInvalidCycle),
		errors.Is(err, domain.ErrCycleNotContiguous),
		errors.Is(err, domain.ErrInvalidBurnTx):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidationRecordNotFound),
		errors.Is(err, domain.ErrCycleNotFound),
		errors.Is(err, domain.ErrTxNotFound):
		return http.StatusNotFound
	case errors.Is(err, feevalidation.ErrExplorerUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, feevalidation.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.WithError(err).Warn("request failed")
	}
	writeJSON(w, status, errorResponse{err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}
