package ports

import "context"

// TxFetcher retrieves the raw JSON describing a transaction from a
// block-explorer-style API.
type TxFetcher interface {
	// GetTransactionJSON returns the JSON of the tx with the given id.
	GetTransactionJSON(ctx context.Context, txID string) (string, error)
	// GetBlockHeight returns the height of the chain tip.
	GetBlockHeight(ctx context.Context) (uint32, error)
}
