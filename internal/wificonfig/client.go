package wificonfig

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/version"
)

const (
	// DefaultBaseURL is the robot API as seen from a client on the robot's hotspot.
	// NetworkManager's shared mode puts the robot at 10.42.0.1 and the API is
	// reverse-proxied under /api.
	DefaultBaseURL = "http://10.42.0.1" + BasePath

	// BasePath is the same-origin path the robot API is proxied under
	BasePath = "/api"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request correlation ID
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is kept for display
	maxErrorBody = 4096
)

// Client is an HTTP client for the robot's WiFi configuration API
type Client struct {
	// BaseURL is the API base including the proxy path (e.g., "http://10.42.0.1/api")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the robot API at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Host returns the host part of BaseURL, used in troubleshooting output
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Health checks that the robot API is up (GET /health)
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isOK(resp.StatusCode) {
		return NewHTTPError(resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// GetStatus retrieves the robot's current WiFi configuration (GET /wifi).
// Any non-2xx response or transport failure is returned as a *ConfigError.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	resp, err := c.do(ctx, http.MethodGet, "/wifi", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isOK(resp.StatusCode) {
		return nil, NewHTTPError(resp.StatusCode, readErrorBody(resp.Body))
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, NewParseError("failed to parse WiFi status", err)
	}
	return &status, nil
}

// FetchStatus retrieves the current WiFi configuration for seeding a form.
//
// Failures are logged and reported as nil, meaning "no prior configuration":
// a robot that has never been configured is the normal first-run state, so
// the operator is never shown an initial-load error.
func (c *Client) FetchStatus(ctx context.Context) *Status {
	status, err := c.GetStatus(ctx)
	if err != nil {
		logging.Warn("Ignoring WiFi status load failure",
			zap.String("base_url", c.BaseURL),
			zap.Error(err),
		)
		return nil
	}
	return status
}

// Submit sends new WiFi credentials to the robot (POST /wifi).
// An empty password is omitted from the body. On a non-2xx response the
// returned *ConfigError carries the response text in Body.
func (c *Client) Submit(ctx context.Context, creds Credentials) error {
	payload, err := json.Marshal(newWifiRequest(creds))
	if err != nil {
		return NewParseError("failed to encode WiFi request", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/wifi", payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isOK(resp.StatusCode) {
		return NewHTTPError(resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// Clear asks the robot to forget its WiFi network and return to hotspot mode
// (POST /wifi/clear).
func (c *Client) Clear(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/wifi/clear", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isOK(resp.StatusCode) {
		return NewHTTPError(resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// do performs a single request; a JSON body is sent when payload is non-nil
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, NewNetworkError("failed to create "+method+" request", err, c.Host())
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.LogAPICall(requestID, method, req.URL.String(), 0, time.Since(start))
		return nil, NewNetworkError(method+" "+path+" failed", err, c.Host())
	}
	logging.LogAPICall(requestID, method, req.URL.String(), resp.StatusCode, time.Since(start))

	return resp, nil
}

func isOK(code int) bool {
	return code >= 200 && code < 300
}

// readErrorBody reads an error response as plain text, verbatim.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(data)
}
