package feevalidation

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/application/cycle"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
	"github.com/tdex-network/tdex-feevalidator/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentValidations = 8

var (
	ErrServiceUnavailable  = fmt.Errorf("service is unavailable, retry later")
	ErrExplorerUnavailable = fmt.Errorf("block explorer is unavailable, retry later")
)

// CycleInfo describes the governance cycle covering a given height.
type CycleInfo struct {
	Height                uint32
	Cycle                 domain.Cycle
	Index                 int
	NumPastCycles         int
	FirstBlockOfPastCycle uint32
}

// Service binds the validation engine to its collaborators: it fetches fee
// txs from the block explorer, runs the engine and keeps the audit trail of
// every terminated validation.
type Service struct {
	validator    *Validator
	fetcher      ports.TxFetcher
	repoManager  ports.RepoManager
	cycles       *cycle.Cache
	feeReceivers []string
}

func NewService(
	validator *Validator,
	fetcher ports.TxFetcher,
	repoManager ports.RepoManager,
	feeReceivers []string,
) (*Service, error) {
	if validator == nil {
		return nil, fmt.Errorf("missing validator")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("missing tx fetcher")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	receivers := make([]string, len(feeReceivers))
	copy(receivers, feeReceivers)

	return &Service{
		validator:    validator,
		fetcher:      fetcher,
		repoManager:  repoManager,
		cycles:       cycle.NewCache(repoManager.ParamHistoryStore()),
		feeReceivers: receivers,
	}, nil
}

// NewRequest builds a validation request. If the chain height is not given,
// the current height of the ledger state is used.
func (s *Service) NewRequest(
	txID string, tradeAmount uint64,
	currency domain.FeeCurrency, role domain.Role,
	referenceHeight, chainHeight *uint32,
) (*domain.ValidationRequest, error) {
	height := s.repoManager.ParamHistoryStore().CurrentChainHeight()
	if chainHeight != nil {
		height = *chainHeight
	}
	return domain.NewValidationRequest(
		txID, tradeAmount, currency, role, referenceHeight, height,
	)
}

// Validate runs the validation of the given request and stores its audit
// record. A tx unknown to the explorer is validated as malformed, while any
// other explorer failure is returned as an error since no terminal status
// can be determined.
func (s *Service) Validate(
	ctx context.Context, req *domain.ValidationRequest,
) (*domain.ValidationRecord, error) {
	var result Result

	switch req.Currency() {
	case domain.FeeCurrencyBase:
		txJSON, err := s.fetcher.GetTransactionJSON(ctx, req.TxID())
		if err != nil {
			if !errors.Is(err, domain.ErrTxNotFound) {
				stats.RecordFetchFailure()
				log.WithError(err).Warnf("failed to fetch fee tx %s", req.TxID())
				return nil, ErrExplorerUnavailable
			}
			log.Infof("fee tx %s not found by explorer", req.TxID())
		}
		result = s.validator.ValidateBaseFeeTx(req, txJSON, s.feeReceivers)
	case domain.FeeCurrencyBurn:
		result = s.validator.ValidateBurnFeeTx(req)
	default:
		return nil, domain.ErrInvalidFeeCurrency
	}

	record := domain.NewValidationRecord(req)
	record.Status = result.Status
	record.Title = result.Title
	record.Description = result.Description
	record.EffectiveHeight = result.EffectiveHeight
	record.ExpectedFee = result.ExpectedFee
	record.ActualFee = result.ActualFee
	if result.EffectiveHeight > 0 {
		record.CycleIndex = s.cycles.CycleIndexAtHeight(result.EffectiveHeight)
	}

	if err := s.repoManager.ValidationRecordRepository().AddValidationRecord(
		ctx, *record,
	); err != nil {
		log.WithError(err).Warnf("failed to store validation record %s", record.ID)
		return nil, ErrServiceUnavailable
	}

	stats.RecordValidation(
		req.Currency().String(), req.Role().String(), result.Status.String(),
	)
	return record, nil
}

// ValidateBatch validates the given requests concurrently. Records are
// returned in the same order of the requests. The first failure cancels
// the validations not yet started. In that case the records of the
// validations already terminated, stored anyway, are returned along with
// the error, while the entries of the others are nil.
func (s *Service) ValidateBatch(
	ctx context.Context, reqs []*domain.ValidationRequest,
) ([]*domain.ValidationRecord, error) {
	records := make([]*domain.ValidationRecord, len(reqs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentValidations)

	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := s.Validate(ctx, req)
			if err != nil {
				return fmt.Errorf("tx %s: %w", req.TxID(), err)
			}
			records[i] = record
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return records, err
	}
	return records, nil
}

// Confirmations returns the number of confirmations of the given tx, 0 if
// it's in mempool or -1 if the explorer returned a malformed response.
func (s *Service) Confirmations(ctx context.Context, txID string) (int64, error) {
	txJSON, err := s.fetcher.GetTransactionJSON(ctx, txID)
	if err != nil {
		if errors.Is(err, domain.ErrTxNotFound) {
			return 0, err
		}
		stats.RecordFetchFailure()
		log.WithError(err).Warnf("failed to fetch tx %s", txID)
		return 0, ErrExplorerUnavailable
	}

	chainHeight, err := s.fetcher.GetBlockHeight(ctx)
	if err != nil {
		stats.RecordFetchFailure()
		log.WithError(err).Warn(
			"failed to fetch chain tip, falling back to ledger height",
		)
		chainHeight = s.repoManager.ParamHistoryStore().CurrentChainHeight()
	}

	return s.validator.TxConfirmations(txID, txJSON, chainHeight), nil
}

func (s *Service) GetValidation(
	ctx context.Context, id string,
) (*domain.ValidationRecord, error) {
	return s.repoManager.ValidationRecordRepository().GetValidationRecord(ctx, id)
}

func (s *Service) ListValidationsForTx(
	ctx context.Context, txID string,
) ([]domain.ValidationRecord, error) {
	return s.repoManager.ValidationRecordRepository().GetValidationRecordsForTx(
		ctx, txID,
	)
}

// CycleInfo returns the cycle covering the given height and the height of
// the first block of the cycle numPastCycles before it.
func (s *Service) CycleInfo(height uint32, numPastCycles int) (*CycleInfo, error) {
	if numPastCycles < 0 {
		return nil, fmt.Errorf("number of past cycles must not be negative")
	}

	c, ok := s.cycles.CycleAtHeight(height)
	if !ok {
		return nil, domain.ErrCycleNotFound
	}

	return &CycleInfo{
		Height:                height,
		Cycle:                 c,
		Index:                 s.cycles.IndexOf(c),
		NumPastCycles:         numPastCycles,
		FirstBlockOfPastCycle: s.cycles.HeightOfFirstBlockOfPastCycle(height, numPastCycles),
	}, nil
}

// FeeParamsAt returns the fee parameters in effect at the given height.
func (s *Service) FeeParamsAt(
	role domain.Role, currency domain.FeeCurrency, height uint32,
) domain.ParamSnapshot {
	store := s.repoManager.ParamHistoryStore()
	minFee, feeRate := domain.FeeParams(role, currency)
	return domain.ParamSnapshot{
		Height:  height,
		MinFee:  store.ValueAt(minFee, height),
		FeeRate: store.ValueAt(feeRate, height),
	}
}
