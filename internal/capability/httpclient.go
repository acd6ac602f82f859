// SPDX-License-Identifier: MIT

package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/elroyic/Podcast-Generator-sub001/internal/errors"
	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/resilience"
	"github.com/elroyic/Podcast-Generator-sub001/internal/telemetry"
	"golang.org/x/time/rate"
)

// maxErrBody caps how much of a non-2xx response body we read, enough for
// diagnostics without risking unbounded memory use on a misbehaving peer.
const maxErrBody = 8 * 1024

// HTTPClientOptions configures a single capability's HTTPClient.
type HTTPClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int // retries on transport errors (once by default), never on semantic errors
	Backoff    time.Duration
	RateLimit  rate.Limit
	RateBurst  int
}

// HTTPClient is the shared request/response plumbing behind every
// capability client: timeout, up to MaxRetries retries on transport failure, a
// per-capability rate limiter, and a circuit breaker that short-circuits
// calls to a capability that is currently failing.
type HTTPClient struct {
	name       string
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
}

// NewHTTPClient constructs the shared client for a named capability (used
// for tracing spans, metrics labels, and circuit breaker identity).
func NewHTTPClient(name string, opts HTTPClientOptions) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 180 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}

	return &HTTPClient{
		name:       name,
		baseURL:    opts.BaseURL,
		http:       &http.Client{Timeout: opts.Timeout},
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		limiter:    rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		breaker:    resilience.New(name, 3, 5, time.Minute, 30*time.Second),
	}
}

// DoJSON POSTs body as JSON to baseURL+path and decodes the JSON response
// into out. Transport errors (connection refused, timeout) are retried up
// to MaxRetries times (once by default); a non-2xx response is treated as a
// semantic failure and is not retried.
func (c *HTTPClient) DoJSON(ctx context.Context, path string, body, out any) error {
	ctx, span := telemetry.StartCapabilitySpan(ctx, c.name)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s: rate limiter wait", c.name), err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Fatal(fmt.Sprintf("%s: marshal request", c.name), err)
	}

	logger := log.FromContext(ctx, "capability").With().Str("capability", c.name).Logger()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn().Int("attempt", attempt).Err(lastErr).Msg("retrying capability call")
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s: context cancelled during retry", c.name), ctx.Err())
			}
		}

		err := c.breaker.ExecuteClassified(func() error {
			return c.doOnce(ctx, path, payload, out)
		}, func(err error) bool {
			return apperrors.KindOf(err) != apperrors.KindSemantic
		})
		if err == nil {
			return nil
		}
		if err == resilience.ErrCircuitOpen {
			return apperrors.Capacity(fmt.Sprintf("%s: circuit open", c.name), err)
		}
		lastErr = err
		if apperrors.KindOf(err) != apperrors.KindTransient {
			return err
		}
	}
	return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s: exhausted retries", c.name), lastErr)
}

func (c *HTTPClient) doOnce(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Fatal(fmt.Sprintf("%s: build request", c.name), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s: transport", c.name), err)
	}
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return apperrors.Semantic(
			fmt.Sprintf("%s: status %d: %s", c.name, resp.StatusCode, string(errBody)),
			nil,
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Semantic(fmt.Sprintf("%s: decode response", c.name), err)
	}
	return nil
}

// Ping performs a lightweight GET {baseURL}/health liveness probe for the
// capability, used by internal/health's per-capability checkers. It
// bypasses the circuit breaker and retry policy: a probe should fail fast
// and reflect the peer's current state, not this client's call history.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return apperrors.Fatal(fmt.Sprintf("%s: build health request", c.name), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s: health transport", c.name), err)
	}
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.Semantic(fmt.Sprintf("%s: health status %d", c.name, resp.StatusCode), nil)
	}
	return nil
}

// ClampConfidence constrains a reviewer's reported confidence to [0,1],
// matching the defensive clamp the original light-reviewer service applies
// before returning its score.
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
