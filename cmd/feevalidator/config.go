package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  rpcServerKey,
		Usage: "fee validator daemon url",
		Value: "http://localhost:9955",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "the network the daemon is running on: mainnet, testnet or regtest",
		Value: "mainnet",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the feevalidator CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&networkFlag,
			},
		},
	},
}

func configAction(c *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintln(c.App.Writer, key+": "+state[key])
	}
	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		rpcServerKey: c.String(rpcServerKey),
		"network":    c.String("network"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s %s has been set\n", key, value)
	return nil
}
