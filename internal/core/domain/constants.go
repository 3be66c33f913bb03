package domain

const (
	// MinParamValue is the protocol minimum of any fee parameter value.
	MinParamValue = uint64(1)

	// MainnetGenesisHeight is the height of the block where the embedded
	// ledger has been created on mainnet.
	MainnetGenesisHeight = uint32(571747)
	// TestnetGenesisHeight ...
	TestnetGenesisHeight = uint32(1943000)
	// RegtestGenesisHeight ...
	RegtestGenesisHeight = uint32(111)
)
