package external_payment_gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

var ErrTimeout = errors.New("gateway timeout")
var ErrServer = errors.New("gateway 5xx")
var ErrClient = errors.New("gateway 4xx")
var ErrCircuitOpen = errors.New("circuit open")
var ErrDecode = errors.New("gateway response decode")

// HTTPError is returned for any non-2xx answer. Body keeps the raw payload so
// callers can surface the gateway's own error message.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway responded with status %d", e.Status)
}

func (e *HTTPError) Unwrap() error {
	if e.Status >= 500 {
		return ErrServer
	}
	return ErrClient
}

// Recorder receives per-request outcomes. *observability.Metrics satisfies it.
type Recorder interface {
	ObserveGatewayRequest(gateway, method, result string)
	GatewayInFlightAdd(gateway string, delta float64)
}

type Config struct {
	// Name labels metrics and the circuit breaker.
	Name    string
	BaseURL string
	Headers map[string]string
	Timeout time.Duration

	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.rec = r }
}

// Client is a JSON-over-HTTP client guarded by a circuit breaker. Only
// timeouts, transport failures and 5xx count against the breaker.
type Client struct {
	name    string
	baseURL *url.URL
	headers map[string]string
	timeout time.Duration

	http *http.Client
	cb   *gobreaker.CircuitBreaker
	rec  Recorder
}

func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Client{
		name:    cfg.Name,
		baseURL: base,
		headers: cfg.Headers,
		timeout: cfg.Timeout,
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}

	threshold := cfg.FailureThreshold
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrClient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("layer", "gateway").Str("gateway", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
		},
	})
	return c, nil
}

// Do sends body as JSON (when non-nil) to path, relative to the base URL, and
// decodes a 2xx answer into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.rec != nil {
		c.rec.GatewayInFlightAdd(c.name, 1)
		defer c.rec.GatewayInFlightAdd(c.name, -1)
	}

	raw, err := c.cb.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if err != nil {
		err = classify(err)
		c.observe(method, err)
		log.Ctx(ctx).Warn().Err(err).Str("layer", "gateway").Str("gateway", c.name).Str("method", method).Str("path", path).Msg("gateway call failed")
		return err
	}

	c.observe(method, nil)
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw.([]byte), out); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	// path arrives already escaped
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: payload}
	}
	return payload, nil
}

func classify(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrCircuitOpen, err)
	}
	if errors.Is(err, ErrServer) || errors.Is(err, ErrClient) {
		return err
	}
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

func (c *Client) observe(method string, err error) {
	if c.rec == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrCircuitOpen):
		result = "circuit_open"
	case errors.Is(err, ErrTimeout):
		result = "timeout"
	case errors.Is(err, ErrServer):
		result = "server_error"
	case errors.Is(err, ErrClient):
		result = "client_error"
	default:
		result = "error"
	}
	c.rec.ObserveGatewayRequest(c.name, method, result)
}

// State reports the breaker state, used by health checks.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}
