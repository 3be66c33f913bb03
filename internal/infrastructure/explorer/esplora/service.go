package esplora

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
	"github.com/tdex-network/tdex-feevalidator/internal/core/ports"
	"github.com/tdex-network/tdex-feevalidator/pkg/circuitbreaker"
	"github.com/tdex-network/tdex-feevalidator/pkg/httputil"
	"go.uber.org/ratelimit"
)

type response struct {
	status int
	body   string
}

type esplora struct {
	apiURL  string
	client  *http.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewService returns a new esplora service as a ports.TxFetcher interface.
// Requests are rate limited to the given number per second, if positive.
func NewService(
	apiURL string, requestTimeout time.Duration, requestsPerSecond int,
) (ports.TxFetcher, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("missing explorer url")
	}
	if requestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be a positive duration")
	}

	limiter := ratelimit.NewUnlimited()
	if requestsPerSecond > 0 {
		limiter = ratelimit.New(requestsPerSecond)
	}

	service := &esplora{
		apiURL:  strings.TrimRight(apiURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		limiter: limiter,
		cb:      circuitbreaker.NewCircuitBreaker("esplora"),
	}

	if _, err := service.GetBlockHeight(context.Background()); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

// GetTransactionJSON returns the raw JSON of the given tx. The response is
// not parsed, it's up to the validation engine to make sense of it.
func (e *esplora) GetTransactionJSON(
	ctx context.Context, txID string,
) (string, error) {
	url := fmt.Sprintf("%s/tx/%s", e.apiURL, txID)
	resp, err := e.get(ctx, url)
	if err != nil {
		return "", err
	}

	switch resp.status {
	case http.StatusOK:
		return resp.body, nil
	// the explorer responds with 400 to malformed txids.
	case http.StatusNotFound, http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", domain.ErrTxNotFound, resp.body)
	default:
		return "", fmt.Errorf("unexpected response %d: %s", resp.status, resp.body)
	}
}

// GetBlockHeight returns the height of the chain tip.
func (e *esplora) GetBlockHeight(ctx context.Context) (uint32, error) {
	url := fmt.Sprintf("%s/blocks/tip/height", e.apiURL)
	resp, err := e.get(ctx, url)
	if err != nil {
		return 0, err
	}
	if resp.status != http.StatusOK {
		return 0, fmt.Errorf("unexpected response %d: %s", resp.status, resp.body)
	}

	height, err := strconv.ParseUint(strings.TrimSpace(resp.body), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid block height: %w", err)
	}
	return uint32(height), nil
}

// get makes a rate limited GET request through the circuit breaker. Only
// network errors and server errors count as failures for the breaker, any
// other response is returned to the caller. A request aborted by the caller
// is not a failure of the explorer.
func (e *esplora) get(ctx context.Context, url string) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.limiter.Take()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var abortErr error
	resp, err := e.cb.Execute(func() (interface{}, error) {
		status, body, err := httputil.NewHTTPRequest(
			ctx, e.client, http.MethodGet, url, "", nil,
		)
		if err != nil {
			if ctx.Err() != nil {
				abortErr = err
				return nil, nil
			}
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("explorer error %d: %s", status, body)
		}
		return &response{status, body}, nil
	})
	if err != nil {
		return nil, err
	}
	if abortErr != nil {
		return nil, abortErr
	}
	return resp.(*response), nil
}
