package httpinterface_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/feevalidation"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	httpinterface "github.com/tdex-network/tdex-feevalidator/internal/interfaces/http"
)

const (
	testTxID        = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"
	testChainHeight = uint32(1000)
)

type mockFeeValidationService struct {
	mock.Mock
}

func (m *mockFeeValidationService) NewRequest(
	txID string, tradeAmount uint64,
	currency domain.FeeCurrency, role domain.Role,
	referenceHeight, chainHeight *uint32,
) (*domain.ValidationRequest, error) {
	height := testChainHeight
	if chainHeight != nil {
		height = *chainHeight
	}
	return domain.NewValidationRequest(
		txID, tradeAmount, currency, role, referenceHeight, height,
	)
}

func (m *mockFeeValidationService) Validate(
	ctx context.Context, req *domain.ValidationRequest,
) (*domain.ValidationRecord, error) {
	args := m.Called(ctx, req)
	var res *domain.ValidationRecord
	if a := args.Get(0); a != nil {
		res = a.(*domain.ValidationRecord)
	}
	return res, args.Error(1)
}

func (m *mockFeeValidationService) ValidateBatch(
	ctx context.Context, reqs []*domain.ValidationRequest,
) ([]*domain.ValidationRecord, error) {
	args := m.Called(ctx, reqs)
	var res []*domain.ValidationRecord
	if a := args.Get(0); a != nil {
		res = a.([]*domain.ValidationRecord)
	}
	return res, args.Error(1)
}

func (m *mockFeeValidationService) Confirmations(
	ctx context.Context, txID string,
) (int64, error) {
	args := m.Called(ctx, txID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFeeValidationService) GetValidation(
	ctx context.Context, id string,
) (*domain.ValidationRecord, error) {
	args := m.Called(ctx, id)
	var res *domain.ValidationRecord
	if a := args.Get(0); a != nil {
		res = a.(*domain.ValidationRecord)
	}
	return res, args.Error(1)
}

func (m *mockFeeValidationService) ListValidationsForTx(
	ctx context.Context, txID string,
) ([]domain.ValidationRecord, error) {
	args := m.Called(ctx, txID)
	var res []domain.ValidationRecord
	if a := args.Get(0); a != nil {
		res = a.([]domain.ValidationRecord)
	}
	return res, args.Error(1)
}

func (m *mockFeeValidationService) CycleInfo(
	height uint32, numPastCycles int,
) (*feevalidation.CycleInfo, error) {
	args := m.Called(height, numPastCycles)
	var res *feevalidation.CycleInfo
	if a := args.Get(0); a != nil {
		res = a.(*feevalidation.CycleInfo)
	}
	return res, args.Error(1)
}

func (m *mockFeeValidationService) FeeParamsAt(
	role domain.Role, currency domain.FeeCurrency, height uint32,
) domain.ParamSnapshot {
	args := m.Called(role, currency, height)
	return args.Get(0).(domain.ParamSnapshot)
}

func (m *mockFeeValidationService) AddParamChanges(
	changes []domain.ParamChange,
) (int, error) {
	args := m.Called(changes)
	return args.Int(0), args.Error(1)
}

func (m *mockFeeValidationService) AddCycles(cycles []domain.Cycle) (int, error) {
	args := m.Called(cycles)
	return args.Int(0), args.Error(1)
}

func (m *mockFeeValidationService) AddBurnTxs(txs []domain.BurnTx) (int, error) {
	args := m.Called(txs)
	return args.Int(0), args.Error(1)
}

func newTestRecord(status domain.ValidationStatus) *domain.ValidationRecord {
	return &domain.ValidationRecord{
		ID:              "5d3b4a1c-9f0e-4b7a-8c2d-1e6f7a8b9c0d",
		TxID:            testTxID,
		Currency:        domain.FeeCurrencyBase,
		Role:            domain.RoleTaker,
		TradeAmount:     1000000,
		Status:          status,
		Title:           "Fee tx validated",
		EffectiveHeight: 900,
		CycleIndex:      2,
		ExpectedFee:     5000,
		ActualFee:       5000,
		Timestamp:       1700000000,
	}
}

func doRequest(
	t *testing.T, svc *mockFeeValidationService, method, path string, body interface{},
) *httptest.ResponseRecorder {
	return serveRequest(t, httpinterface.NewRouter(svc), method, path, body)
}

func serveRequest(
	t *testing.T, router http.Handler, method, path string, body interface{},
) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var res map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestNewService(t *testing.T) {
	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:          "127.0.0.1:0",
		FeeValidationSvc: &mockFeeValidationService{},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	svc.Stop()

	_, err = httpinterface.NewService(httpinterface.ServiceOpts{
		FeeValidationSvc: &mockFeeValidationService{},
	})
	require.Error(t, err)

	_, err = httpinterface.NewService(httpinterface.ServiceOpts{
		Address: "127.0.0.1:0",
	})
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, &mockFeeValidationService{}, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode(t, rec)["status"])
}

func TestValidate(t *testing.T) {
	validBody := map[string]interface{}{
		"txid":        testTxID,
		"tradeAmount": 1000000,
		"currency":    "base",
		"role":        "taker",
	}

	t.Run("valid", func(t *testing.T) {
		svc := &mockFeeValidationService{}
		svc.On("Validate", mock.Anything, mock.MatchedBy(
			func(req *domain.ValidationRequest) bool {
				_, hasRef := req.ReferenceHeight()
				return req.TxID() == testTxID && !req.IsMaker() &&
					req.ChainHeight() == testChainHeight && !hasRef
			},
		)).Return(newTestRecord(domain.StatusAckFeeOK), nil)

		rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate", validBody)
		require.Equal(t, http.StatusOK, rec.Code)

		res := decode(t, rec)
		require.Equal(t, "ACK_FEE_OK", res["status"])
		require.Equal(t, true, res["pass"])
		require.Equal(t, "taker", res["role"])
		require.Equal(t, "base", res["currency"])
		svc.AssertExpectations(t)
	})

	t.Run("with heights", func(t *testing.T) {
		svc := &mockFeeValidationService{}
		svc.On("Validate", mock.Anything, mock.MatchedBy(
			func(req *domain.ValidationRequest) bool {
				ref, ok := req.ReferenceHeight()
				return ok && ref == 800 && req.ChainHeight() == 1200
			},
		)).Return(newTestRecord(domain.StatusNackTakerFeeTooLow), nil)

		body := map[string]interface{}{
			"txid":            testTxID,
			"tradeAmount":     1000000,
			"currency":        "btc",
			"role":            "taker",
			"referenceHeight": 800,
			"chainHeight":     1200,
		}
		rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate", body)
		require.Equal(t, http.StatusOK, rec.Code)

		res := decode(t, rec)
		require.Equal(t, "NACK_TAKER_FEE_TOO_LOW", res["status"])
		require.Equal(t, false, res["pass"])
		svc.AssertExpectations(t)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			body interface{}
		}{
			{"malformed body", "{"},
			{"missing txid", map[string]interface{}{
				"tradeAmount": 1, "currency": "base", "role": "maker",
			}},
			{"unknown currency", map[string]interface{}{
				"txid": testTxID, "currency": "eth", "role": "maker",
			}},
			{"unknown role", map[string]interface{}{
				"txid": testTxID, "currency": "burn", "role": "arbitrator",
			}},
			{"zero reference height", map[string]interface{}{
				"txid": testTxID, "currency": "burn", "role": "maker",
				"referenceHeight": 0,
			}},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				svc := &mockFeeValidationService{}
				rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate", tt.body)
				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.NotEmpty(t, decode(t, rec)["error"])
				svc.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("service errors", func(t *testing.T) {
		tests := []struct {
			err            error
			expectedStatus int
		}{
			{feevalidation.ErrExplorerUnavailable, http.StatusBadGateway},
			{feevalidation.ErrServiceUnavailable, http.StatusServiceUnavailable},
			{fmt.Errorf("boom"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.err.Error(), func(t *testing.T) {
				svc := &mockFeeValidationService{}
				svc.On("Validate", mock.Anything, mock.Anything).Return(nil, tt.err)

				rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate", validBody)
				require.Equal(t, tt.expectedStatus, rec.Code)
				require.Equal(t, tt.err.Error(), decode(t, rec)["error"])
			})
		}
	})
}

func TestValidateBatch(t *testing.T) {
	item := map[string]interface{}{
		"txid": testTxID, "tradeAmount": 1000000, "currency": "base", "role": "maker",
	}

	t.Run("valid", func(t *testing.T) {
		svc := &mockFeeValidationService{}
		svc.On("ValidateBatch", mock.Anything, mock.MatchedBy(
			func(reqs []*domain.ValidationRequest) bool { return len(reqs) == 2 },
		)).Return([]*domain.ValidationRecord{
			newTestRecord(domain.StatusAckFeeOK),
			newTestRecord(domain.StatusNackJSONError),
		}, nil)

		body := map[string]interface{}{"requests": []interface{}{item, item}}
		rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate/batch", body)
		require.Equal(t, http.StatusOK, rec.Code)

		records := decode(t, rec)["records"].([]interface{})
		require.Len(t, records, 2)
		require.Equal(t, "NACK_JSON_ERROR", records[1].(map[string]interface{})["status"])
		svc.AssertExpectations(t)
	})

	t.Run("invalid", func(t *testing.T) {
		tooMany := make([]interface{}, 101)
		for i := range tooMany {
			tooMany[i] = item
		}
		tests := []struct {
			name string
			body interface{}
		}{
			{"malformed body", "[]"},
			{"empty", map[string]interface{}{"requests": []interface{}{}}},
			{"too many", map[string]interface{}{"requests": tooMany}},
			{"invalid item", map[string]interface{}{"requests": []interface{}{
				item, map[string]interface{}{"txid": testTxID, "currency": "x", "role": "maker"},
			}}},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				svc := &mockFeeValidationService{}
				rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate/batch", tt.body)
				require.Equal(t, http.StatusBadRequest, rec.Code)
				svc.AssertNotCalled(t, "ValidateBatch", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("wrapped service error", func(t *testing.T) {
		svc := &mockFeeValidationService{}
		svc.On("ValidateBatch", mock.Anything, mock.Anything).Return(
			nil, fmt.Errorf("tx %s: %w", testTxID, feevalidation.ErrExplorerUnavailable),
		)

		body := map[string]interface{}{"requests": []interface{}{item}}
		rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate/batch", body)
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("partial results", func(t *testing.T) {
		svc := &mockFeeValidationService{}
		svc.On("ValidateBatch", mock.Anything, mock.Anything).Return(
			[]*domain.ValidationRecord{newTestRecord(domain.StatusAckFeeOK), nil},
			fmt.Errorf("tx %s: %w", testTxID, feevalidation.ErrExplorerUnavailable),
		)

		body := map[string]interface{}{"requests": []interface{}{item, item}}
		rec := doRequest(t, svc, http.MethodPost, "/v1/fee/validate/batch", body)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		res := decode(t, rec)
		require.NotEmpty(t, res["error"])
		records := res["records"].([]interface{})
		require.Len(t, records, 2)
		require.Equal(t, "ACK_FEE_OK", records[0].(map[string]interface{})["status"])
		require.Nil(t, records[1])
	})
}

func TestGetValidation(t *testing.T) {
	record := newTestRecord(domain.StatusAckFeeOK)

	svc := &mockFeeValidationService{}
	svc.On("GetValidation", mock.Anything, record.ID).Return(record, nil)
	svc.On("GetValidation", mock.Anything, "unknown").
		Return(nil, domain.ErrValidationRecordNotFound)

	rec := doRequest(t, svc, http.MethodGet, "/v1/fee/validations/"+record.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	require.Equal(t, record.ID, res["id"])
	require.Equal(t, float64(record.CycleIndex), res["cycleIndex"])

	rec = doRequest(t, svc, http.MethodGet, "/v1/fee/validations/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListValidationsForTx(t *testing.T) {
	svc := &mockFeeValidationService{}
	svc.On("ListValidationsForTx", mock.Anything, testTxID).Return(
		[]domain.ValidationRecord{
			*newTestRecord(domain.StatusAckFeeOK),
			*newTestRecord(domain.StatusAckTxIsNew),
		}, nil,
	)
	svc.On("ListValidationsForTx", mock.Anything, "unknown").
		Return([]domain.ValidationRecord{}, nil)

	rec := doRequest(t, svc, http.MethodGet, "/v1/tx/"+testTxID+"/validations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["records"], 2)

	rec = doRequest(t, svc, http.MethodGet, "/v1/tx/unknown/validations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode(t, rec)["records"])
}

func TestConfirmations(t *testing.T) {
	svc := &mockFeeValidationService{}
	svc.On("Confirmations", mock.Anything, testTxID).Return(int64(6), nil)
	svc.On("Confirmations", mock.Anything, "unknown").
		Return(int64(0), domain.ErrTxNotFound)
	svc.On("Confirmations", mock.Anything, "unreachable").
		Return(int64(0), feevalidation.ErrExplorerUnavailable)

	rec := doRequest(t, svc, http.MethodGet, "/v1/tx/"+testTxID+"/confirmations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(6), decode(t, rec)["confirmations"])

	rec = doRequest(t, svc, http.MethodGet, "/v1/tx/unknown/confirmations", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, svc, http.MethodGet, "/v1/tx/unreachable/confirmations", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCycleInfo(t *testing.T) {
	info := &feevalidation.CycleInfo{
		Height:                1250,
		Cycle:                 domain.Cycle{HeightOfFirstBlock: 1200, Duration: 100},
		Index:                 11,
		NumPastCycles:         2,
		FirstBlockOfPastCycle: 1000,
	}

	svc := &mockFeeValidationService{}
	svc.On("CycleInfo", uint32(1250), 2).Return(info, nil)
	svc.On("CycleInfo", uint32(1250), 0).Return(info, nil)
	svc.On("CycleInfo", uint32(50), 0).Return(nil, domain.ErrCycleNotFound)

	rec := doRequest(t, svc, http.MethodGet, "/v1/cycles/1250?past=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	require.Equal(t, float64(1200), res["firstBlock"])
	require.Equal(t, float64(1299), res["lastBlock"])
	require.Equal(t, float64(1000), res["firstBlockOfPastCycle"])

	rec = doRequest(t, svc, http.MethodGet, "/v1/cycles/1250", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, svc, http.MethodGet, "/v1/cycles/50", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	for _, path := range []string{
		"/v1/cycles/0", "/v1/cycles/abc", "/v1/cycles/-1",
		"/v1/cycles/1250?past=-1", "/v1/cycles/1250?past=x",
	} {
		rec = doRequest(t, svc, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestFeeParams(t *testing.T) {
	svc := &mockFeeValidationService{}
	svc.On("FeeParamsAt", domain.RoleMaker, domain.FeeCurrencyBurn, uint32(700)).
		Return(domain.ParamSnapshot{Height: 700, MinFee: 5, FeeRate: 50})

	rec := doRequest(t, svc, http.MethodGet, "/v1/params/700?role=maker&currency=burn", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	require.Equal(t, float64(5), res["minFee"])
	require.Equal(t, float64(50), res["feeRate"])
	require.Equal(t, "burn", res["currency"])

	for _, path := range []string{
		"/v1/params/700?role=maker", "/v1/params/700?currency=base",
		"/v1/params/0?role=maker&currency=base",
	} {
		rec = doRequest(t, svc, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
