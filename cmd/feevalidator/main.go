package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/tdex-feevalidator/pkg/httputil"
	"github.com/urfave/cli/v2"
)

const (
	datadirEnvKey = "FEEVALIDATOR_CLI_DATADIR"
	stateFilename = "state.json"
	rpcServerKey  = "rpcserver"
)

var defaultDatadir = btcutil.AppDataDir("feevalidator-cli", false)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "feevalidator"
	app.Usage = "Command line interface for the fee validator daemon"
	app.Commands = append(
		app.Commands,
		&config,
		&validate,
		&validateBatch,
		&validation,
		&confirmations,
		&cycle,
		&params,
		&ledger,
		&nodes,
	)
	return app
}

func datadir() string {
	if dir := os.Getenv(datadirEnvKey); len(dir) > 0 {
		return dir
	}
	return defaultDatadir
}

func statePath() string {
	return filepath.Join(datadir(), stateFilename)
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath())
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	dir := datadir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath()); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath(), jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getDaemonURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	url, ok := state[rpcServerKey]
	if !ok || len(url) <= 0 {
		return "", errors.New("set rpcserver with `config set rpcserver`")
	}
	return strings.TrimSuffix(url, "/"), nil
}

// callDaemon sends the request to the daemon and prints the indented JSON
// response. A non-200 status is returned as error with the daemon message.
func callDaemon(
	c *cli.Context, method, path string, body interface{},
) error {
	url, err := getDaemonURL()
	if err != nil {
		return err
	}

	var bodyString string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyString = string(b)
	}

	status, resp, err := httputil.NewHTTPRequest(
		context.Background(), nil, method, url+path, bodyString,
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %w", err)
	}
	if status != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal([]byte(resp), &e); err == nil && e.Error != "" {
			return fmt.Errorf("%s (%d)", e.Error, status)
		}
		return fmt.Errorf("daemon returned status %d: %s", status, resp)
	}

	return printRespJSON(c, resp)
}

func printRespJSON(c *cli.Context, resp string) error {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(resp), "", "\t"); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}
	fmt.Fprintln(c.App.Writer, out.String())
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[feevalidator] %v\n", err)
	}
	os.Exit(1)
}
