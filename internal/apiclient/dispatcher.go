// internal/apiclient/dispatcher.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/metrics"
)

const (
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies the server to upstream APIs.
	DefaultUserAgent = "MCP-API-Server/1.0.0"
	// maxBodyBytes caps how much of an upstream body is read.
	maxBodyBytes = 10 << 20
)

var validate = validator.New()

// endpointClient carries the per-endpoint HTTP settings fixed at construction.
type endpointClient struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// Dispatcher builds, executes and normalizes outbound calls for registered
// endpoints. It owns its credential store.
type Dispatcher struct {
	registry    *endpoints.Registry
	credentials *Credentials
	clients     map[string]*endpointClient
	timeout     time.Duration
	userAgent   string
	transport   http.RoundTripper
	metrics     *metrics.Aggregator
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout overrides the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header sent to every endpoint.
func WithUserAgent(ua string) Option {
	return func(disp *Dispatcher) {
		if strings.TrimSpace(ua) != "" {
			disp.userAgent = ua
		}
	}
}

// WithCredentials installs a pre-populated credential store.
func WithCredentials(c *Credentials) Option {
	return func(disp *Dispatcher) {
		if c != nil {
			disp.credentials = c
		}
	}
}

// WithTransport sets the RoundTripper used by every endpoint client.
func WithTransport(rt http.RoundTripper) Option {
	return func(disp *Dispatcher) {
		disp.transport = rt
	}
}

// WithMetrics records every outbound call in agg.
func WithMetrics(agg *metrics.Aggregator) Option {
	return func(disp *Dispatcher) {
		disp.metrics = agg
	}
}

// New creates a dispatcher for reg and initializes one client per endpoint.
func New(reg *endpoints.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:    reg,
		credentials: NewCredentials(),
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.clients = make(map[string]*endpointClient, reg.Len())
	for key, ep := range reg.All() {
		d.clients[key] = &endpointClient{
			baseURL: ep.BaseURL,
			http:    &http.Client{Timeout: d.timeout, Transport: d.transport},
			headers: map[string]string{
				"Content-Type": "application/json",
				"User-Agent":   d.userAgent,
			},
		}
	}
	return d
}

// Registry returns the endpoint registry the dispatcher serves.
func (d *Dispatcher) Registry() *endpoints.Registry { return d.registry }

// Metrics returns the aggregator calls are recorded in, or nil.
func (d *Dispatcher) Metrics() *metrics.Aggregator { return d.metrics }

// Timeout returns the per-call timeout.
func (d *Dispatcher) Timeout() time.Duration { return d.timeout }

// SetCredential stores or overwrites the secret for an endpoint. Calls that
// start afterwards use the new secret.
func (d *Dispatcher) SetCredential(endpointKey, secret string) {
	d.credentials.Set(endpointKey, secret)
}

// HasCredential reports whether a non-empty secret is stored for endpointKey.
func (d *Dispatcher) HasCredential(endpointKey string) bool {
	secret, ok := d.credentials.Get(endpointKey)
	return ok && secret != ""
}

// LoadCredentialsFromEnv seeds credentials from <KEY>_API_KEY variables.
func (d *Dispatcher) LoadCredentialsFromEnv(lookup func(string) (string, bool)) []string {
	return d.credentials.LoadFromEnv(d.registry, lookup)
}

// Dispatch executes req and always returns an envelope; no error escapes.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	ep, ok := d.registry.Lookup(req.Endpoint)
	if !ok {
		return Fail("Unknown endpoint: %s", req.Endpoint)
	}
	client, ok := d.clients[req.Endpoint]
	if !ok {
		return Fail("Client not initialized for endpoint: %s", req.Endpoint)
	}

	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	if err := validate.Struct(req); err != nil {
		return Fail("Unsupported method: %s", req.Method)
	}

	params := MergeParams(ep.DefaultParams, req.Params)
	// Keys are canonicalized so injected auth replaces any caller spelling.
	headers := make(map[string]string, len(client.headers)+len(req.Headers)+1)
	for k, v := range client.headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range req.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	if ep.RequiresAuth {
		secret, ok := d.credentials.Get(req.Endpoint)
		if !ok || secret == "" {
			return Fail("API key required for endpoint: %s", req.Endpoint)
		}
		applyAuth(ep, secret, params, headers)
	}

	httpReq, err := buildHTTPRequest(ctx, client.baseURL, req, params, headers)
	if err != nil {
		return Fail("%s", err.Error())
	}

	logging.LogRequest("TOOL->API", logging.RequestID(ctx), req.Endpoint, "", fmt.Sprintf("%s %s", httpReq.Method, redactedURL(httpReq.URL)))
	start := time.Now()
	resp, err := client.http.Do(httpReq)
	if err != nil {
		msg := transportMessage(err, d.timeout)
		d.metrics.Record(req.Endpoint, 0, false, time.Since(start))
		logging.LogEvent("API request failed: endpoint=%s err=%v", req.Endpoint, msg)
		return Response{Success: false, Error: msg}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		d.metrics.Record(req.Endpoint, resp.StatusCode, false, time.Since(start))
		return Response{Success: false, Error: fmt.Sprintf("failed to read response: %v", err), StatusCode: resp.StatusCode}
	}
	logging.LogRequest("API->TOOL", logging.RequestID(ctx), req.Endpoint, "", fmt.Sprintf("status=%d bytes=%d duration=%s", resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond)))

	success := resp.StatusCode >= 200 && resp.StatusCode < 400
	d.metrics.Record(req.Endpoint, resp.StatusCode, success, time.Since(start))
	data := decodeBody(body)
	if success {
		return Response{Success: true, Data: data, StatusCode: resp.StatusCode}
	}
	return Response{
		Success:    false,
		Error:      upstreamMessage(body, resp.StatusCode),
		StatusCode: resp.StatusCode,
	}
}

// MergeParams overlays override on defaults; override wins on collision.
func MergeParams(defaults, override map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(override))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func applyAuth(ep endpoints.Endpoint, secret string, params map[string]any, headers map[string]string) {
	switch ep.AuthType {
	case endpoints.AuthAPIKey:
		if ep.AuthHeader != "" {
			params[ep.AuthHeader] = secret
		}
	case endpoints.AuthBearer:
		headers["Authorization"] = "Bearer " + secret
	case endpoints.AuthBasic:
		headers["Authorization"] = "Basic " + secret
	}
}

func buildHTTPRequest(ctx context.Context, baseURL string, req Request, params map[string]any, headers map[string]string) (*http.Request, error) {
	u, err := url.Parse(joinURL(baseURL, req.Path))
	if err != nil {
		return nil, fmt.Errorf("invalid request url: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		EncodeParams(q, params)
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	method := req.method()
	if req.Body != nil && (method == http.MethodPost || method == http.MethodPut) {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// joinURL appends path to base with exactly one slash between them.
func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// decodeBody keeps JSON bodies as raw JSON so key order survives; anything
// else is returned as text.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}

// upstreamMessage prefers a server-supplied message field.
func upstreamMessage(body []byte, status int) string {
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload.Message.(string); ok && msg != "" {
			return msg
		}
		if nested, ok := payload.Error.(map[string]any); ok {
			if msg, ok := nested["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if status > 0 {
		return fmt.Sprintf("Request failed with status code %d", status)
	}
	return "Unknown error"
}

func transportMessage(err error, timeout time.Duration) string {
	if err == nil {
		return "Unknown error"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Sprintf("timeout of %s exceeded", timeout)
		}
		if urlErr.Err != nil {
			return urlErr.Err.Error()
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}

// redactedURL drops the query string, which may carry an API key.
func redactedURL(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	return clean.String()
}
