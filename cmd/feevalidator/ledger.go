package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"
)

var ledger = cli.Command{
	Name:  "ledger",
	Usage: "feed the daemon with governance params, cycles and burn txs",
	Subcommands: []*cli.Command{
		{
			Name:  "addparam",
			Usage: "record a governance change of a fee parameter",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "param",
					Usage:    "the name of the fee parameter, eg. DEFAULT_TAKER_FEE_BSQ",
					Required: true,
				},
				&cli.UintFlag{
					Name:     "height",
					Usage:    "the activation height of the new value",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "value",
					Usage:    "the new value of the parameter",
					Required: true,
				},
			},
			Action: addParamAction,
		},
		{
			Name:  "addcycle",
			Usage: "append a governance cycle",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:     "first_block",
					Usage:    "the height of the first block of the cycle",
					Required: true,
				},
				&cli.UintFlag{
					Name:     "duration",
					Usage:    "the number of blocks of the cycle",
					Required: true,
				},
			},
			Action: addCycleAction,
		},
		{
			Name:  "addburntx",
			Usage: "record a confirmed burn tx",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "txid",
					Usage:    "the id of the burn tx",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Usage:    "the burnt amount in smallest units",
					Required: true,
				},
				&cli.UintFlag{
					Name:  "height",
					Usage: "the height of the block including the tx",
				},
			},
			Action: addBurnTxAction,
		},
		{
			Name: "import",
			Usage: "import a ledger snapshot from a JSON file with optional " +
				"'cycles', 'params' and 'burnTxs' lists",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Usage:    "path of the JSON snapshot",
					Required: true,
				},
			},
			Action: importLedgerAction,
		},
	},
}

type ledgerSnapshot struct {
	Cycles  []map[string]interface{} `json:"cycles"`
	Params  []map[string]interface{} `json:"params"`
	BurnTxs []map[string]interface{} `json:"burnTxs"`
}

func addParamAction(c *cli.Context) error {
	change := map[string]interface{}{
		"param":            c.String("param"),
		"activationHeight": c.Uint("height"),
		"value":            c.Uint64("value"),
	}
	return callDaemon(
		c, http.MethodPost, "/v1/ledger/params",
		map[string]interface{}{"changes": []interface{}{change}},
	)
}

func addCycleAction(c *cli.Context) error {
	cycle := map[string]interface{}{
		"firstBlock": c.Uint("first_block"),
		"duration":   c.Uint("duration"),
	}
	return callDaemon(
		c, http.MethodPost, "/v1/ledger/cycles",
		map[string]interface{}{"cycles": []interface{}{cycle}},
	)
}

func addBurnTxAction(c *cli.Context) error {
	tx := map[string]interface{}{
		"txid":        c.String("txid"),
		"burntAmount": c.Uint64("amount"),
		"blockHeight": c.Uint("height"),
	}
	return callDaemon(
		c, http.MethodPost, "/v1/ledger/burntxs",
		map[string]interface{}{"burnTxs": []interface{}{tx}},
	)
}

// importLedgerAction sends cycles first so that the daemon can resolve the
// cycle of any validation as soon as params and burn txs are known.
func importLedgerAction(c *cli.Context) error {
	file, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	var snapshot ledgerSnapshot
	if err := json.Unmarshal(file, &snapshot); err != nil {
		return fmt.Errorf("invalid ledger snapshot: %w", err)
	}
	if len(snapshot.Cycles)+len(snapshot.Params)+len(snapshot.BurnTxs) <= 0 {
		return fmt.Errorf("ledger snapshot is empty")
	}

	if len(snapshot.Cycles) > 0 {
		if err := callDaemon(
			c, http.MethodPost, "/v1/ledger/cycles",
			map[string]interface{}{"cycles": snapshot.Cycles},
		); err != nil {
			return fmt.Errorf("importing cycles: %w", err)
		}
	}
	if len(snapshot.Params) > 0 {
		if err := callDaemon(
			c, http.MethodPost, "/v1/ledger/params",
			map[string]interface{}{"changes": snapshot.Params},
		); err != nil {
			return fmt.Errorf("importing params: %w", err)
		}
	}
	if len(snapshot.BurnTxs) > 0 {
		if err := callDaemon(
			c, http.MethodPost, "/v1/ledger/burntxs",
			map[string]interface{}{"burnTxs": snapshot.BurnTxs},
		); err != nil {
			return fmt.Errorf("importing burn txs: %w", err)
		}
	}
	return nil
}
