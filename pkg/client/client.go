package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/internal/contract"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

const (
	// DefaultBaseURL is the hosted form service.
	DefaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"
	// DefaultTimeout bounds each request unless overridden.
	DefaultTimeout = 15 * time.Second

	maxBodyBytes    = 4 << 20
	maxMessageBytes = 200
)

// Client talks to the remote form service.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	timeout  time.Duration
	contract *contract.Contract
	checks   bool
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := parseBaseURL(raw)
		if err != nil {
			return err
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient sets the transport. The client is cloned, not mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
		return nil
	}
}

// WithTimeout bounds every request. Zero disables the per-request bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout < 0 {
			return fmt.Errorf("client: timeout must not be negative, got %s", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithContract checks payloads against ct instead of the embedded document.
func WithContract(ct *contract.Contract) Option {
	return func(c *Client) error {
		if ct != nil {
			c.contract = ct
			c.checks = true
		}
		return nil
	}
}

// WithoutContract disables payload checks.
func WithoutContract() Option {
	return func(c *Client) error {
		c.contract = nil
		c.checks = false
		return nil
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// New builds a client for the hosted service unless WithBaseURL says
// otherwise.
func New(options ...Option) (*Client, error) {
	base, err := parseBaseURL(DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		checks:  true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.checks && c.contract == nil {
		ct, err := contract.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("client: load contract: %w", err)
		}
		c.contract = ct
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.contract != nil && !declaredServer(c.contract.Servers(), c.baseURL) {
		c.logger.Debug("base url not declared by contract",
			slog.String("base_url", c.baseURL.String()),
			slog.Any("servers", c.contract.Servers()),
		)
	}
	return c, nil
}

func declaredServer(servers []string, base *url.URL) bool {
	want := strings.TrimRight(base.String(), "/")
	for _, server := range servers {
		if strings.TrimRight(server, "/") == want {
			return true
		}
	}
	return false
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type createUserRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// CreateUser registers rollNumber/name with the service. Any 2xx status
// counts as success; the response body is ignored.
func (c *Client) CreateUser(ctx context.Context, rollNumber, name string) error {
	body, err := json.Marshal(createUserRequest{RollNumber: rollNumber, Name: name})
	if err != nil {
		return &RequestError{Op: OpCreateUser, Err: err}
	}
	if c.checks {
		if err := c.contract.ValidateCreateUser(body); err != nil {
			return &RequestError{Op: OpCreateUser, Err: err}
		}
	}

	_, err = c.do(ctx, OpCreateUser, http.MethodPost, contract.PathCreateUser, nil, body)
	return err
}

// GetForm fetches the schema assigned to rollNumber. The body is checked
// against the contract, decoded, stripped of markup and validated.
func (c *Client) GetForm(ctx context.Context, rollNumber string) (schema.Form, error) {
	query := url.Values{"rollNumber": []string{rollNumber}}
	data, err := c.do(ctx, OpGetForm, http.MethodGet, contract.PathGetForm, query, nil)
	if err != nil {
		return schema.Form{}, err
	}
	if c.checks {
		if err := c.contract.ValidateFormResponse(data); err != nil {
			return schema.Form{}, &RequestError{Op: OpGetForm, StatusCode: http.StatusOK, Err: err}
		}
	}

	var env schema.Response
	if err := json.Unmarshal(data, &env); err != nil {
		return schema.Form{}, &RequestError{Op: OpGetForm, StatusCode: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Form == nil {
		return schema.Form{}, &RequestError{Op: OpGetForm, StatusCode: http.StatusOK, Err: errors.New("response carries no form")}
	}

	form := env.Form.Sanitized()
	if err := form.Validate(); err != nil {
		return schema.Form{}, &RequestError{Op: OpGetForm, StatusCode: http.StatusOK, Err: err}
	}
	return form, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request to path. Statuses the contract does not document are
// logged but still classified by their class.
func (c *Client) do(ctx context.Context, op Op, method, path string, query url.Values, body []byte) ([]byte, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed", slog.String("op", string(op)), slog.Any("error", err))
		return nil, &RequestError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.logger.DebugContext(ctx, "request completed",
		slog.String("op", string(op)),
		slog.String("method", method),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)
	if c.contract != nil && !c.contract.Accepts(path, method, resp.StatusCode) {
		c.logger.WarnContext(ctx, "undocumented response status",
			slog.String("op", string(op)),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var cause error
		if msg := serverMessage(data); msg != "" {
			cause = errors.New(msg)
		}
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: cause}
	}
	if err != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}

// serverMessage pulls a human-readable reason out of an error body.
func serverMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
		return ""
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > maxMessageBytes {
		msg = msg[:maxMessageBytes]
	}
	return msg
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("client: base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("client: base url %q has no host", raw)
	}
	return u, nil
}
