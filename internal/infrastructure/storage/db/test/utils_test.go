package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

func makeRandomValidationRecord(txID string) *domain.ValidationRecord {
	refHeight := genesisHeight + uint32(randomIntInRange(1, 1000))
	req, _ := domain.NewValidationRequest(
		txID, uint64(randomIntInRange(1, 100000000)), domain.FeeCurrencyBase,
		domain.RoleTaker, &refHeight, refHeight+10,
	)
	record := domain.NewValidationRecord(req)
	record.Status = domain.StatusAckFeeOK
	record.Title = "Taker tx validation (BTC)"
	record.Description = randomHex(20)
	record.EffectiveHeight = refHeight
	record.ExpectedFee = uint64(randomIntInRange(5000, 10000))
	record.ActualFee = record.ExpectedFee
	return record
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
