package feevalidation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBurnGraceBlocks is roughly 8 hours of blocks.
	DefaultBurnGraceBlocks = uint32(48)
	// DefaultLegacyReceiverHeight is the height below which fee txs paying
	// unknown receivers are accepted. Offers that old predate the latest
	// rotations of fee receivers.
	DefaultLegacyReceiverHeight = uint32(599999)
)

var (
	// DefaultFeeTolerance is the min ratio between paid and expected fee.
	DefaultFeeTolerance = decimal.NewFromFloat(0.5)
	// DefaultOverrideTolerance is the min ratio between paid fee and the one
	// calculated with the rate of the override filter.
	DefaultOverrideTolerance = decimal.NewFromFloat(0.7)
)

// Config holds the tweakable thresholds of the leniency rules. They are
// empirical values meant to allow for a fee rate change that has not yet
// propagated to the paying side.
type Config struct {
	FeeTolerance         decimal.Decimal
	OverrideTolerance    decimal.Decimal
	BurnGraceBlocks      uint32
	LegacyReceiverHeight uint32
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		FeeTolerance:         DefaultFeeTolerance,
		OverrideTolerance:    DefaultOverrideTolerance,
		BurnGraceBlocks:      DefaultBurnGraceBlocks,
		LegacyReceiverHeight: DefaultLegacyReceiverHeight,
	}
}

// Validate checks the ratios are in range (0, 1] and the grace window is not
// empty.
func (c Config) Validate() error {
	one := decimal.NewFromInt(1)
	if !c.FeeTolerance.IsPositive() || c.FeeTolerance.GreaterThan(one) {
		return fmt.Errorf("fee tolerance must be in range (0, 1]")
	}
	if !c.OverrideTolerance.IsPositive() || c.OverrideTolerance.GreaterThan(one) {
		return fmt.Errorf("override tolerance must be in range (0, 1]")
	}
	if c.BurnGraceBlocks == 0 {
		return fmt.Errorf("burn grace blocks must be greater than zero")
	}
	return nil
}
