package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joestump/tool-advisor/internal/metrics"
)

const (
	optionsPath   = "/api/options"
	recommendPath = "/api/recommend"

	// maxBodyBytes bounds how much of an upstream response is read.
	maxBodyBytes = 4 << 20
)

// Client talks to the recommendation server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the server at baseURL. A zero timeout
// means no client-side deadline beyond the request context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a Client using hc for transport.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: hc}
}

// Response is the outcome of a recommendation request that reached the
// server and returned JSON. Raw is the whole body; Result is set only for
// 2xx responses.
type Response struct {
	Status int
	Raw    Value
	Result *Result
}

// OK reports whether the server answered with a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Options fetches the selectable workpieces and tool materials. Any failure
// is returned; callers fall back to EmptyOptions.
func (c *Client) Options(ctx context.Context) (*Options, error) {
	status, body, err := c.do(ctx, http.MethodGet, optionsPath, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues(optionsPath, metrics.OutcomeServerError).Inc()
		return nil, fmt.Errorf("options: server returned %d", status)
	}

	opts := EmptyOptions()
	if err := json.Unmarshal(body, opts); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(optionsPath, metrics.OutcomeInvalidBody).Inc()
		return nil, fmt.Errorf("options: %w: %v", ErrInvalidBody, err)
	}
	if opts.Workpieces == nil {
		opts.Workpieces = []string{}
	}
	if opts.ToolMaterials == nil {
		opts.ToolMaterials = []string{}
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(optionsPath, metrics.OutcomeOK).Inc()
	return opts, nil
}

// Recommend normalizes and validates req, then posts it to the server. Validation failures
// return ErrValidation without any network traffic. A non-2xx status with a
// JSON body is not an error: it is returned as a Response with OK() false.
func (c *Client) Recommend(ctx context.Context, req Request) (*Response, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		metrics.ValidationFailuresTotal.Inc()
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, recommendPath, payload)
	if err != nil {
		return nil, err
	}

	raw, err := ParseValue(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(recommendPath, metrics.OutcomeInvalidBody).Inc()
		return nil, fmt.Errorf("recommend: %w: %v", ErrInvalidBody, err)
	}

	resp := &Response{Status: status, Raw: raw}
	if !resp.OK() {
		metrics.UpstreamRequestsTotal.WithLabelValues(recommendPath, metrics.OutcomeServerError).Inc()
		return resp, nil
	}

	rec, ok := raw.Lookup("recommendation")
	if !ok {
		metrics.UpstreamRequestsTotal.WithLabelValues(recommendPath, metrics.OutcomeInvalidBody).Inc()
		return nil, fmt.Errorf("recommend: %w: missing recommendation", ErrInvalidBody)
	}
	result, err := NewResult(rec)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(recommendPath, metrics.OutcomeInvalidBody).Inc()
		return nil, fmt.Errorf("recommend: %w: %v", ErrInvalidBody, err)
	}
	resp.Result = result

	metrics.UpstreamRequestsTotal.WithLabelValues(recommendPath, metrics.OutcomeOK).Inc()
	return resp, nil
}

// do performs one request and returns the status and body. Transport
// failures are returned as *NetworkError; a body over maxBodyBytes is
// ErrBodyTooLarge.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	metrics.UpstreamDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, metrics.OutcomeNetworkError).Inc()
		return 0, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, metrics.OutcomeNetworkError).Inc()
		return 0, nil, &NetworkError{Op: "read " + path, Err: err}
	}
	if len(respBody) > maxBodyBytes {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, metrics.OutcomeTooLarge).Inc()
		return 0, nil, fmt.Errorf("%s %s: %w (limit %d bytes)", method, path, ErrBodyTooLarge, maxBodyBytes)
	}
	return resp.StatusCode, respBody, nil
}

// requestID forwards the inbound request id, or mints one for calls made
// outside an HTTP request (the CLI).
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
