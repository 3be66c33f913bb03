package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var cycle = cli.Command{
	Name:  "cycle",
	Usage: "get the governance cycle covering a height",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:     "height",
			Usage:    "the block height",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "past",
			Usage: "number of cycles to go back to get the first block of",
		},
	},
	Action: cycleAction,
}

var params = cli.Command{
	Name:  "params",
	Usage: "get the fee parameters in effect at a height",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:     "height",
			Usage:    "the block height",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "currency",
			Usage: "the fee currency: base or burn",
			Value: "base",
		},
		&cli.StringFlag{
			Name:  "role",
			Usage: "maker or taker",
			Value: "taker",
		},
	},
	Action: paramsAction,
}

func cycleAction(c *cli.Context) error {
	return callDaemon(
		c, http.MethodGet,
		fmt.Sprintf("/v1/cycles/%d?past=%d", c.Uint("height"), c.Uint("past")),
		nil,
	)
}

func paramsAction(c *cli.Context) error {
	query := url.Values{}
	query.Set("role", c.String("role"))
	query.Set("currency", c.String("currency"))

	return callDaemon(
		c, http.MethodGet,
		fmt.Sprintf("/v1/params/%d?%s", c.Uint("height"), query.Encode()),
		nil,
	)
}
