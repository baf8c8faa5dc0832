package crafty

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "craftctl/0.1"
)

// ErrInvalidURL is returned when a panel address is empty or unparseable.
var ErrInvalidURL = errors.New("invalid panel URL")

// Options configure a Client.
type Options struct {
	// InsecureSkipVerify disables TLS certificate validation. Crafty panels
	// ship with a self-signed certificate, so most self-hosted instances
	// need this. Prefer installing the panel certificate where possible.
	InsecureSkipVerify bool
	// Timeout applies per request. Zero uses the 10s default.
	Timeout time.Duration
}

// Client talks to the Crafty Controller v2 HTTP API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a Client bound to the given panel address. The scheme
// defaults to https when omitted and the base URL always ends in exactly
// one slash.
func NewClient(rawURL string, opts Options) (*Client, error) {
	base, err := normalizeBaseURL(rawURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: defaultUserAgent,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidURL)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/") + "/", nil
}

// envelope is the shape every panel response shares.
type envelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorData string          `json:"error_data"`
}

// do issues one request and unwraps the shared response envelope. token may
// be empty for the login call. When out is non-nil the envelope's data field
// is decoded into it.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	var env envelope
	if len(raw) > 0 {
		// A body that is not the envelope (proxy error pages and the like)
		// is treated as an empty envelope so HTTP status mapping still runs.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return newAuthError(resp.StatusCode)
		}
		return &APIError{HTTPStatus: resp.StatusCode, Code: env.Error, Message: env.ErrorData}
	}
	if env.Status != "ok" {
		return &APIError{HTTPStatus: resp.StatusCode, Code: env.Error, Message: env.ErrorData}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return wrapNetworkError(err)
}
