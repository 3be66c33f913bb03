package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTxID = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

type recordedRequest struct {
	method string
	uri    string
	body   map[string]interface{}
}

func newFakeDaemon(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	// Requests are sequential, one per CLI run.
	requests := make([]recordedRequest, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, uri: r.URL.RequestURI()}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/tx/unknown/confirmations" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"transaction not found"}`))
			return
		}
		w.Write([]byte(`{"status":"ACK_FEE_OK"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func runCLI(args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"feevalidator"}, args...))
	return out.String(), err
}

func setupCLI(t *testing.T) (*[]recordedRequest, string) {
	datadir := t.TempDir()
	t.Setenv(datadirEnvKey, datadir)

	srv, requests := newFakeDaemon(t)
	_, err := runCLI("config", "init", "--rpcserver", srv.URL+"/")
	require.NoError(t, err)
	return requests, datadir
}

func TestConfig(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		t.Setenv(datadirEnvKey, t.TempDir())

		_, err := runCLI("config")
		require.Error(t, err)

		_, err = runCLI("confirmations", "--txid", testTxID)
		require.Error(t, err)
	})

	t.Run("init and set", func(t *testing.T) {
		_, datadir := setupCLI(t)
		require.FileExists(t, filepath.Join(datadir, stateFilename))

		out, err := runCLI("config", "set", "network", "regtest")
		require.NoError(t, err)
		require.Contains(t, out, "network regtest has been set")

		out, err = runCLI("config")
		require.NoError(t, err)
		require.Contains(t, out, "network: regtest")
		require.Contains(t, out, "rpcserver: http://")

		_, err = runCLI("config", "set", "network")
		require.Error(t, err)
	})

	t.Run("corrupted state", func(t *testing.T) {
		_, datadir := setupCLI(t)
		err := os.WriteFile(filepath.Join(datadir, stateFilename), []byte("{"), 0644)
		require.NoError(t, err)

		_, err = runCLI("config")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	requests, _ := setupCLI(t)

	out, err := runCLI(
		"validate", "--txid", testTxID, "--amount", "1000000",
		"--currency", "burn", "--role", "maker", "--ref_height", "650000",
	)
	require.NoError(t, err)
	require.Contains(t, out, "ACK_FEE_OK")

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/v1/fee/validate", req.uri)
	require.Equal(t, testTxID, req.body["txid"])
	require.Equal(t, float64(1000000), req.body["tradeAmount"])
	require.Equal(t, "burn", req.body["currency"])
	require.Equal(t, "maker", req.body["role"])
	require.Equal(t, float64(650000), req.body["referenceHeight"])
	require.NotContains(t, req.body, "chainHeight")

	_, err = runCLI("validate", "--amount", "1000000")
	require.Error(t, err)
}

func TestValidateBatch(t *testing.T) {
	requests, datadir := setupCLI(t)

	file := filepath.Join(datadir, "batch.json")
	err := os.WriteFile(file, []byte(`[
		{"txid":"`+testTxID+`","tradeAmount":1000000,"currency":"base","role":"taker"},
		{"txid":"`+testTxID+`","tradeAmount":2000000,"currency":"base","role":"maker"}
	]`), 0644)
	require.NoError(t, err)

	_, err = runCLI("validatebatch", "--file", file)
	require.NoError(t, err)
	require.Len(t, *requests, 1)
	require.Equal(t, "/v1/fee/validate/batch", (*requests)[0].uri)
	require.Len(t, (*requests)[0].body["requests"], 2)

	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0644))
	_, err = runCLI("validatebatch", "--file", file)
	require.Error(t, err)
}

func TestQueries(t *testing.T) {
	requests, _ := setupCLI(t)

	tests := []struct {
		args        []string
		expectedURI string
	}{
		{[]string{"validation", "--id", "5d3b4a1c"}, "/v1/fee/validations/5d3b4a1c"},
		{[]string{"validation", "--txid", testTxID}, "/v1/tx/" + testTxID + "/validations"},
		{[]string{"confirmations", "--txid", testTxID}, "/v1/tx/" + testTxID + "/confirmations"},
		{[]string{"cycle", "--height", "650000", "--past", "3"}, "/v1/cycles/650000?past=3"},
		{[]string{"cycle", "--height", "650000"}, "/v1/cycles/650000?past=0"},
		{
			[]string{"params", "--height", "650000", "--role", "maker", "--currency", "burn"},
			"/v1/params/650000?currency=burn&role=maker",
		},
	}

	for i, tt := range tests {
		_, err := runCLI(tt.args...)
		require.NoError(t, err)
		require.Len(t, *requests, i+1)
		require.Equal(t, http.MethodGet, (*requests)[i].method)
		require.Equal(t, tt.expectedURI, (*requests)[i].uri)
	}

	t.Run("daemon error", func(t *testing.T) {
		_, err := runCLI("confirmations", "--txid", "unknown")
		require.EqualError(t, err, "transaction not found (404)")
	})

	t.Run("invalid usage", func(t *testing.T) {
		_, err := runCLI("validation")
		require.Error(t, err)

		_, err = runCLI("validation", "--id", "5d3b4a1c", "--txid", testTxID)
		require.Error(t, err)
	})
}

func TestLedger(t *testing.T) {
	requests, datadir := setupCLI(t)

	_, err := runCLI(
		"ledger", "addparam", "--param", "DEFAULT_TAKER_FEE_BSQ",
		"--height", "650000", "--value", "200",
	)
	require.NoError(t, err)
	_, err = runCLI("ledger", "addcycle", "--first_block", "571747", "--duration", "4320")
	require.NoError(t, err)
	_, err = runCLI(
		"ledger", "addburntx", "--txid", testTxID, "--amount", "500", "--height", "650010",
	)
	require.NoError(t, err)

	require.Len(t, *requests, 3)
	for i, uri := range []string{
		"/v1/ledger/params", "/v1/ledger/cycles", "/v1/ledger/burntxs",
	} {
		require.Equal(t, http.MethodPost, (*requests)[i].method)
		require.Equal(t, uri, (*requests)[i].uri)
	}

	change := (*requests)[0].body["changes"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "DEFAULT_TAKER_FEE_BSQ", change["param"])
	require.Equal(t, float64(650000), change["activationHeight"])
	require.Equal(t, float64(200), change["value"])

	cycle := (*requests)[1].body["cycles"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, float64(571747), cycle["firstBlock"])
	require.Equal(t, float64(4320), cycle["duration"])

	tx := (*requests)[2].body["burnTxs"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, testTxID, tx["txid"])
	require.Equal(t, float64(500), tx["burntAmount"])
	require.Equal(t, float64(650010), tx["blockHeight"])

	t.Run("import", func(t *testing.T) {
		*requests = (*requests)[:0]

		file := filepath.Join(datadir, "ledger.json")
		err := os.WriteFile(file, []byte(`{
			"params": [{"param":"MIN_TAKER_FEE_BSQ","activationHeight":650000,"value":10}],
			"cycles": [
				{"firstBlock":571747,"duration":4320},
				{"firstBlock":576067,"duration":4320}
			]
		}`), 0644)
		require.NoError(t, err)

		_, err = runCLI("ledger", "import", "--file", file)
		require.NoError(t, err)
		require.Len(t, *requests, 2)
		require.Equal(t, "/v1/ledger/cycles", (*requests)[0].uri)
		require.Len(t, (*requests)[0].body["cycles"], 2)
		require.Equal(t, "/v1/ledger/params", (*requests)[1].uri)
		require.Len(t, (*requests)[1].body["changes"], 1)

		require.NoError(t, os.WriteFile(file, []byte(`{}`), 0644))
		_, err = runCLI("ledger", "import", "--file", file)
		require.Error(t, err)

		require.NoError(t, os.WriteFile(file, []byte(`[]`), 0644))
		_, err = runCLI("ledger", "import", "--file", file)
		require.Error(t, err)
		require.Len(t, *requests, 2)
	})

	t.Run("invalid usage", func(t *testing.T) {
		_, err := runCLI("ledger", "addparam", "--param", "MIN_TAKER_FEE_BSQ")
		require.Error(t, err)

		_, err = runCLI("ledger", "addburntx", "--amount", "10")
		require.Error(t, err)
	})
}

func TestNodes(t *testing.T) {
	t.Setenv(datadirEnvKey, t.TempDir())

	tests := []struct {
		name        string
		args        []string
		expectedLen int
	}{
		{"provided mainnet", []string{"nodes"}, 11},
		{"provided testnet", []string{"nodes", "--network", "testnet"}, 0},
		{"custom", []string{
			"nodes", "--option", "custom", "--nodes", "127.0.0.1:18444,[::1]",
			"--network", "regtest",
		}, 2},
		{"public", []string{"nodes", "--option", "public"}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(tt.args...)
			require.NoError(t, err)

			var list []map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &list))
			require.Len(t, list, tt.expectedLen)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := runCLI("nodes", "--option", "all")
		require.Error(t, err)

		_, err = runCLI("nodes", "--network", "simnet")
		require.Error(t, err)

		_, err = runCLI("nodes", "--option", "custom", "--nodes", "localhost")
		require.Error(t, err)
	})
}
