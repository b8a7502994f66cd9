package sbiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bizon-consulting/backend/internal/metrics"
)

var ErrNotFound = errors.New("sbiz endpoint not found")

const maxBodyBytes = 8 << 20

type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sbiz http error: %d %s", e.Status, e.URL)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type Options struct {
	Timeout         time.Duration
	FallbackTimeout time.Duration
	HTTPClient      *http.Client
}

type Client struct {
	provider        Provider
	http            *http.Client
	timeout         time.Duration
	fallbackTimeout time.Duration
	log             zerolog.Logger
}

func NewClient(p Provider, opts Options, log zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.FallbackTimeout <= 0 {
		opts.FallbackTimeout = 5 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		provider:        p,
		http:            opts.HTTPClient,
		timeout:         opts.Timeout,
		fallbackTimeout: opts.FallbackTimeout,
		log:             log.With().Str("component", "sbiz").Logger(),
	}
}

// Call issues a GET for one endpoint key. A 404 from the primary URL makes
// the client walk the provider's alternates; the first 2xx wins. Any other
// failure is returned as is.
func (c *Client) Call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	for k, vs := range c.provider.AuthParams(endpoint) {
		if _, ok := query[k]; !ok {
			query[k] = vs
		}
	}

	start := time.Now()
	primary := c.provider.URL(endpoint)
	body, err := c.get(ctx, primary, query, c.timeout)
	if err == nil {
		c.record(endpoint, metrics.OutcomeSuccess, start)
		c.log.Debug().Str("endpoint", endpoint).Str("url", primary).Str("params", params.Encode()).Msg("sbiz call ok")
		return body, nil
	}
	c.log.Warn().Err(err).Str("endpoint", endpoint).Str("url", primary).Str("params", params.Encode()).Msg("sbiz call failed")

	if errors.Is(err, ErrNotFound) {
		for _, alt := range c.provider.Alternates(endpoint) {
			altQuery := query
			if strings.Contains(alt, "?") {
				altQuery = nil
			}
			altBody, altErr := c.get(ctx, alt, altQuery, c.fallbackTimeout)
			if altErr != nil {
				c.log.Debug().Err(altErr).Str("endpoint", endpoint).Str("url", alt).Msg("sbiz alternate failed")
				continue
			}
			c.record(endpoint, metrics.OutcomeFallback, start)
			c.log.Info().Str("endpoint", endpoint).Str("url", alt).Msg("sbiz alternate ok")
			return altBody, nil
		}
	}
	c.record(endpoint, metrics.OutcomeError, start)
	return nil, err
}

func (c *Client) get(ctx context.Context, rawURL string, query url.Values, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := rawURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build sbiz request: %w", err)
	}
	for k, vs := range c.provider.Headers() {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sbiz request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Status: resp.StatusCode, URL: rawURL}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read sbiz response: %w", err)
	}
	return json.RawMessage(b), nil
}

func (c *Client) record(endpoint, outcome string, start time.Time) {
	metrics.SbizRequests.WithLabelValues(endpoint, outcome).Inc()
	metrics.SbizRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
