package inmemory

import (
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
)

type RepoManager struct {
	paramHistoryStore          *ParamHistoryStore
	validationRecordRepository domain.ValidationRecordRepository
}

func NewRepoManager(genesisHeight uint32) ports.RepoManager {
	return &RepoManager{
		paramHistoryStore:          NewParamHistoryStore(genesisHeight),
		validationRecordRepository: NewValidationRecordRepositoryImpl(),
	}
}

func (d *RepoManager) ParamHistoryStore() ports.WritableParamHistoryStore {
	return d.paramHistoryStore
}

func (d *RepoManager) ValidationRecordRepository() domain.ValidationRecordRepository {
	return d.validationRecordRepository
}

func (d *RepoManager) Close() {}
