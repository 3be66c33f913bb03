package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"
)

var validate = cli.Command{
	Name:  "validate",
	Usage: "validate the fee tx of a trade",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "txid",
			Usage:    "the id of the fee tx",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "amount",
			Usage: "the trade amount in satoshis",
		},
		&cli.StringFlag{
			Name:  "currency",
			Usage: "the currency the fee is paid with: base or burn",
			Value: "base",
		},
		&cli.StringFlag{
			Name:  "role",
			Usage: "the role of the fee payer: maker or taker",
			Value: "taker",
		},
		&cli.UintFlag{
			Name:  "ref_height",
			Usage: "the height of the offer, omit if unknown",
		},
		&cli.UintFlag{
			Name:  "chain_height",
			Usage: "the chain height, defaults to the one known by the daemon",
		},
	},
	Action: validateAction,
}

var validateBatch = cli.Command{
	Name:  "validatebatch",
	Usage: "validate the fee txs listed in a JSON file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "path of the JSON file with the list of requests",
			Required: true,
		},
	},
	Action: validateBatchAction,
}

func validateAction(c *cli.Context) error {
	body := map[string]interface{}{
		"txid":        c.String("txid"),
		"tradeAmount": c.Uint64("amount"),
		"currency":    c.String("currency"),
		"role":        c.String("role"),
	}
	if c.IsSet("ref_height") {
		body["referenceHeight"] = c.Uint("ref_height")
	}
	if c.IsSet("chain_height") {
		body["chainHeight"] = c.Uint("chain_height")
	}

	return callDaemon(c, http.MethodPost, "/v1/fee/validate", body)
}

func validateBatchAction(c *cli.Context) error {
	file, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	var requests []map[string]interface{}
	if err := json.Unmarshal(file, &requests); err != nil {
		return fmt.Errorf("file must contain a JSON list of requests: %w", err)
	}

	return callDaemon(
		c, http.MethodPost, "/v1/fee/validate/batch",
		map[string]interface{}{"requests": requests},
	)
}
