package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one agent call end to end.
const DefaultTimeout = 20 * time.Second

// Client calls a single agent service.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient injects a custom transport (tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client for the agent at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs one message/send call and returns the agent's data object.
// Timeouts, transport failures and JSON-RPC errors all surface as errors; the
// caller treats them uniformly as collaborator failure.
func (c *Client) Send(ctx context.Context, capability string, payload map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := Request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "message/send",
		Params: &Params{
			Capability: capability,
			Message: Message{
				Kind:      "message",
				MessageID: uuid.NewString(),
				Role:      "user",
				Parts: []Part{{
					Kind:     "data",
					Metadata: map[string]any{"mimeType": "application/json"},
					Data:     payload,
				}},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent call %s: %w", capability, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent call %s: http %d", capability, httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("agent call %s: rpc %d: %s", capability, resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil || resp.Result.Data == nil {
		return map[string]any{}, nil
	}
	return resp.Result.Data, nil
}
