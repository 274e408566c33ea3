package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/metrics"
	"github.com/gauthierbraillon/winelocals/internal/session"
)

const defaultBaseURL = "https://api.guiawinelocals.com/api"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client is an account API client. Tokens are passed per call.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     zerolog.Logger
}

// NewClient creates a new account API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		logger:     log.WithComponent("account"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, identifier, password string) (session.Session, error) {
	if identifier == "" {
		return session.Session{}, fmt.Errorf("identifier: %w", ErrMissingField)
	}
	if password == "" {
		return session.Session{}, fmt.Errorf("password: %w", ErrMissingField)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/local", "", loginRequest{Identifier: identifier, Password: password}, "login")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return session.Session{}, err
	}

	var sess session.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return session.Session{}, fmt.Errorf("failed to parse login response: %w", err)
	}
	if sess.JWT == "" {
		return session.Session{}, fmt.Errorf("login response without token: %w", ErrUnauthorized)
	}
	return sess, nil
}

// Orders lists the user's orders of the given type.
func (c *Client) Orders(ctx context.Context, jwt string, typ OrderType) ([]Order, error) {
	path := "/users/orders?type=" + url.QueryEscape(string(typ))
	body, err := c.doRequest(ctx, http.MethodGet, path, jwt, nil, "orders")
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := decodeList(body, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders response: %w", err)
	}
	return orders, nil
}

// Vouchers lists the user's vouchers.
func (c *Client) Vouchers(ctx context.Context, jwt string) ([]Voucher, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/vouchers", jwt, nil, "vouchers")
	if err != nil {
		return nil, err
	}

	var vouchers []Voucher
	if err := decodeList(body, &vouchers); err != nil {
		return nil, fmt.Errorf("failed to parse vouchers response: %w", err)
	}
	return vouchers, nil
}

// ChangePassword validates the form and, only if it is valid, submits it.
func (c *Client) ChangePassword(ctx context.Context, jwt string, form PasswordChange) error {
	if err := form.Validate(); err != nil {
		return err
	}

	req := passwordRequest{CurrentPassword: form.Current, Password: form.New}
	if _, err := c.doRequest(ctx, http.MethodPut, "/users/me", jwt, req, "password"); err != nil {
		return err
	}
	c.logger.Info().Msg("password changed")
	return nil
}

// decodeList accepts a bare array, a {"data": [...]} envelope and null.
func decodeList(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return err
		}
		if len(env.Data) == 0 {
			return nil
		}
		trimmed = env.Data
	}
	return json.Unmarshal(trimmed, out)
}

func (c *Client) doRequest(ctx context.Context, method, path, jwt string, payload any, endpoint string) ([]byte, error) {
	authenticated := endpoint != "login"
	if authenticated && jwt == "" {
		return nil, ErrUnauthorized
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", jwt))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(endpoint, 0)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordAPIRequest(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Str("endpoint", endpoint).Int(log.FieldStatus, resp.StatusCode).Msg("account API error")
		return nil, handleAPIError(endpoint, resp.StatusCode)
	}

	return body, nil
}
