// Package a2a implements the agent collaborator envelope: a JSON-RPC 2.0
// message/send call carrying a capability name and one JSON data part. It
// provides both the orchestrator-side client and the router used by agent
// services.
package a2a

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string  `json:"jsonrpc"`
	ID      string  `json:"id"`
	Method  string  `json:"method"`
	Params  *Params `json:"params,omitempty"`
}

// Params carries the capability and the message payload.
type Params struct {
	Capability string  `json:"capability"`
	Message    Message `json:"message"`
}

// Message wraps the data parts of one agent call.
type Message struct {
	Kind      string `json:"kind"`
	MessageID string `json:"messageId"`
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
}

// Part is a single typed payload segment. Agents only consume the first data
// part.
type Part struct {
	Kind     string         `json:"kind"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Result  *Result   `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// Result wraps a successful agent reply.
type Result struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes used by agents.
const (
	CodeMethodNotFound    = -32601
	CodeUnknownCapability = -32602
	CodeInternalError     = -32603
)

// Card is the agent descriptor served at /.well-known/agent-card.json.
type Card struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Capabilities []string `json:"capabilities"`
	Protocol     string   `json:"protocol"`
	Version      string   `json:"version,omitempty"`
}
