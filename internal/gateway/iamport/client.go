package iamport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Client is the surface the subscription core needs from the payment
// gateway. The concrete implementation talks to the Iamport REST API.
type Client interface {
	GetPayment(ctx context.Context, impUID string) (*PaymentAttestation, error)
	CancelPayment(ctx context.Context, impUID, merchantUID string) error
	UnscheduleRecurring(ctx context.Context, customerUID string) error
}

// Config carries gateway credentials and endpoint, injected from the
// application config.
type Config struct {
	BaseURL string
	Key     string
	Secret  string
	Timeout time.Duration
}

// client holds a short-lived bearer token for its own lifetime. The token
// cache is per client instance, not process-wide; refresh is guarded by a
// mutex so concurrent requests reuse one token (a duplicate refresh is
// harmless, a torn read is not).
type client struct {
	cfg  Config
	http *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// envelope is Iamport's standard response wrapper.
type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// getToken exchanges the long-lived key/secret for a bearer token, caching
// it for the lifetime of this client.
func (c *client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	body, err := c.post(ctx, "/users/getToken", map[string]string{
		"imp_key":    c.cfg.Key,
		"imp_secret": c.cfg.Secret,
	}, "")
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) && gwErr.Kind == KindUpstream {
			return "", &GatewayError{Kind: KindAuth, StatusCode: gwErr.StatusCode, Err: gwErr.Err}
		}
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", &GatewayError{Kind: KindAuth, Err: fmt.Errorf("malformed token response")}
	}

	c.token = tok.AccessToken
	return c.token, nil
}

func (c *client) GetPayment(ctx context.Context, impUID string) (*PaymentAttestation, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/payments/"+impUID, token)
	if err != nil {
		return nil, err
	}

	var att PaymentAttestation
	if err := json.Unmarshal(body, &att); err != nil {
		return nil, &GatewayError{Kind: KindUpstream, Err: fmt.Errorf("decode payment: %w", err)}
	}
	return &att, nil
}

// CancelPayment requests a refund/cancel of a captured charge. merchantUID
// is optional; the compensation path omits it.
func (c *client) CancelPayment(ctx context.Context, impUID, merchantUID string) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	payload := map[string]string{"imp_uid": impUID}
	if merchantUID != "" {
		payload["merchant_uid"] = merchantUID
	}

	_, err = c.post(ctx, "/payments/cancel", payload, token)
	return err
}

func (c *client) UnscheduleRecurring(ctx context.Context, customerUID string) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	_, err = c.post(ctx, "/subscribe/payments/unschedule", map[string]string{
		"customer_uid": customerUID,
	}, token)
	return err
}

func (c *client) get(ctx context.Context, path, token string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req)
}

func (c *client) post(ctx context.Context, path string, payload any, token string) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req)
}

func (c *client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Kind: KindUnavailable, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, bytes.TrimSpace(raw)),
		}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &GatewayError{Kind: KindUpstream, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	// Iamport reports application-level failures with HTTP 200 + code != 0.
	if env.Code != 0 {
		return nil, &GatewayError{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("gateway code %d: %s", env.Code, env.Message),
		}
	}
	return env.Response, nil
}
