package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultClient is used when no client is given to NewHTTPRequest.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// NewHTTPRequest makes an http call with the given method, url, body and
// headers, and returns status code and body of the response.
func NewHTTPRequest(
	ctx context.Context, client *http.Client,
	method, url, bodyString string, header map[string]string,
) (int, string, error) {
	if client == nil {
		client = DefaultClient
	}

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
	case http.MethodPost, http.MethodPut:
		body = strings.NewReader(bodyString)
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, "", err
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, "", fmt.Errorf("failed to read response body: %w", err)
	}

	return rs.StatusCode, string(bodyBytes), nil
}
