package domain

// Cycle is a span of blocks during which governance parameters may change
// by voting. Cycles are comparable by value.
type Cycle struct {
	HeightOfFirstBlock uint32
	Duration           uint32
}

// HeightOfLastBlock ...
func (c Cycle) HeightOfLastBlock() uint32 {
	return c.HeightOfFirstBlock + c.Duration - 1
}

// Contains returns whether the given height is part of the cycle.
func (c Cycle) Contains(height uint32) bool {
	return height >= c.HeightOfFirstBlock && height <= c.HeightOfLastBlock()
}

// Validate ...
func (c Cycle) Validate() error {
	if c.Duration == 0 {
		return ErrInvalidCycle
	}
	return nil
}

// Follows returns whether the cycle starts right after the given one.
func (c Cycle) Follows(prev Cycle) bool {
	return c.HeightOfFirstBlock == prev.HeightOfLastBlock()+1
}
