// Package mcptool provides the orchestrator's client for the MCP tool
// service. Each call opens a fresh SSE connection, runs the tool with a
// bounded timeout and tears the connection down again.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/digilab/a2ui"
	"github.com/digilab/a2ui/internal/logging"
)

// DefaultTimeout bounds one tool call end to end, connection setup included.
const DefaultTimeout = 8 * time.Second

// Client calls tools on one MCP SSE endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the tool service at baseURL. The URL may point at
// the service root or directly at its /sse endpoint.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/sse") {
		base += "/sse"
	}
	c := &Client{
		baseURL: base,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call invokes one tool and returns its structured result. Transport
// failures, timeouts and tool errors all surface as errors.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	mc, err := client.NewSSEMCPClient(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("tool client %s: %w", name, err)
	}
	defer mc.Close()

	if err := mc.Start(ctx); err != nil {
		return nil, fmt.Errorf("tool connect %s: %w", name, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "a2ui", Version: a2ui.Version}
	if _, err := mc.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("tool initialize %s: %w", name, err)
	}

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = args

	result, err := mc.CallTool(ctx, callReq)
	if err != nil {
		return nil, fmt.Errorf("tool call %s: %w", name, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("tool call %s: %s", name, firstText(result.Content))
	}

	data, err := decodeResult(result)
	if err != nil {
		return nil, fmt.Errorf("tool call %s: %w", name, err)
	}

	c.logger.Debug("tool call completed", "tool", name)
	return data, nil
}

// decodeResult prefers the structured payload and falls back to parsing the
// first text content as JSON.
func decodeResult(result *mcp.CallToolResult) (map[string]any, error) {
	if result.StructuredContent != nil {
		if m, ok := result.StructuredContent.(map[string]any); ok {
			return m, nil
		}
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("structured content: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("structured content: %w", err)
		}
		return m, nil
	}

	text := firstText(result.Content)
	if text == "" {
		return nil, fmt.Errorf("empty tool result")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("parse tool result: %w", err)
	}
	return m, nil
}

func firstText(contents []mcp.Content) string {
	for _, content := range contents {
		if tc, ok := mcp.AsTextContent(content); ok {
			return tc.Text
		}
	}
	return ""
}
