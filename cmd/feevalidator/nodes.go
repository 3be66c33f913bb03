package main

import (
	"encoding/json"
	"strings"

	"github.com/tdex-network/tdex-feevalidator/pkg/btcnodes"
	"github.com/urfave/cli/v2"
)

var nodes = cli.Command{
	Name:  "nodes",
	Usage: "print the list of full nodes for the given option",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "option",
			Usage: "one of provided, custom, public",
			Value: btcnodes.NodesProvided.String(),
		},
		&cli.StringFlag{
			Name:  "nodes",
			Usage: "comma separated list of custom nodes <host:port>",
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "mainnet, testnet or regtest, defaults to the one in local state",
		},
	},
	Action: nodesAction,
}

type nodeInfo struct {
	HostName     *string `json:"hostName,omitempty"`
	OnionAddress *string `json:"onionAddress,omitempty"`
	Address      *string `json:"address,omitempty"`
	Port         int     `json:"port"`
	Operator     *string `json:"operator,omitempty"`
}

func nodesAction(c *cli.Context) error {
	option, err := btcnodes.ParseNodesOption(c.String("option"))
	if err != nil {
		return err
	}

	netName := c.String("network")
	if netName == "" {
		netName = "mainnet"
		if state, err := getState(); err == nil && state["network"] != "" {
			netName = state["network"]
		}
	}
	net, err := btcnodes.NetworkParams(netName)
	if err != nil {
		return err
	}

	var custom []string
	if s := c.String("nodes"); s != "" {
		custom = strings.Split(s, ",")
	}

	list, err := btcnodes.Nodes(option, custom, net)
	if err != nil {
		return err
	}

	infos := make([]nodeInfo, 0, len(list))
	for _, n := range list {
		infos = append(infos, nodeInfo{
			n.HostName, n.OnionAddress, n.Address, n.Port, n.Operator,
		})
	}

	resp, err := json.Marshal(infos)
	if err != nil {
		return err
	}
	return printRespJSON(c, string(resp))
}
