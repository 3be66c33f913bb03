package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var validation = cli.Command{
	Name:  "validation",
	Usage: "get a validation record by id, or all those of a fee tx",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the validation record",
		},
		&cli.StringFlag{
			Name:  "txid",
			Usage: "the id of the fee tx",
		},
	},
	Action: validationAction,
}

var confirmations = cli.Command{
	Name:  "confirmations",
	Usage: "get the number of confirmations of a tx",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "txid",
			Usage:    "the id of the tx",
			Required: true,
		},
	},
	Action: confirmationsAction,
}

func validationAction(c *cli.Context) error {
	id, txid := c.String("id"), c.String("txid")
	if (id == "") == (txid == "") {
		return &invalidUsageError{c, c.Command.Name}
	}

	if id != "" {
		return callDaemon(
			c, http.MethodGet, "/v1/fee/validations/"+url.PathEscape(id), nil,
		)
	}
	return callDaemon(
		c, http.MethodGet, fmt.Sprintf("/v1/tx/%s/validations", url.PathEscape(txid)),
		nil,
	)
}

func confirmationsAction(c *cli.Context) error {
	return callDaemon(
		c, http.MethodGet,
		fmt.Sprintf("/v1/tx/%s/confirmations", url.PathEscape(c.String("txid"))),
		nil,
	)
}
