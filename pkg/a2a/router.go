package a2a

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digilab/a2ui/internal/logging"
)

// HandlerFunc implements one agent capability. It receives the first data
// part of the message and returns the result data object.
type HandlerFunc func(ctx context.Context, data map[string]any) (map[string]any, error)

// Router dispatches message/send calls to capability handlers and serves the
// agent card. It implements http.Handler.
type Router struct {
	card     Card
	handlers map[string]HandlerFunc
	logger   *slog.Logger
	mux      chi.Router
}

// NewRouter creates a router for one agent.
func NewRouter(card Card, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Router{
		card:     card,
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
	mux := chi.NewRouter()
	mux.Post("/", r.handleRPC)
	mux.Get("/.well-known/agent-card.json", r.handleCard)
	r.mux = mux
	return r
}

// Handle registers a capability handler and advertises it on the card.
func (r *Router) Handle(capability string, fn HandlerFunc) {
	r.handlers[capability] = fn
	for _, c := range r.card.Capabilities {
		if c == capability {
			return
		}
	}
	r.card.Capabilities = append(r.card.Capabilities, capability)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) handleCard(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(r.card); err != nil {
		r.logger.Error("agent card encode failed", "error", err)
	}
}

func (r *Router) handleRPC(w http.ResponseWriter, req *http.Request) {
	var rpc Request
	if err := json.NewDecoder(req.Body).Decode(&rpc); err != nil || rpc.JSONRPC != "2.0" {
		http.Error(w, "Invalid JSON-RPC", http.StatusBadRequest)
		return
	}

	if rpc.Method != "message/send" {
		r.reply(w, Response{JSONRPC: "2.0", ID: rpc.ID, Error: &RPCError{
			Code: CodeMethodNotFound, Message: "Method not found",
		}})
		return
	}

	capability := ""
	data := map[string]any{}
	if rpc.Params != nil {
		capability = rpc.Params.Capability
		if len(rpc.Params.Message.Parts) > 0 && rpc.Params.Message.Parts[0].Data != nil {
			data = rpc.Params.Message.Parts[0].Data
		}
	}

	fn, ok := r.handlers[capability]
	if !ok {
		r.reply(w, Response{JSONRPC: "2.0", ID: rpc.ID, Error: &RPCError{
			Code: CodeUnknownCapability, Message: "Unknown capability",
		}})
		return
	}

	result, err := fn(req.Context(), data)
	if err != nil {
		r.logger.Error("capability failed", "capability", capability, "error", err)
		r.reply(w, Response{JSONRPC: "2.0", ID: rpc.ID, Error: &RPCError{
			Code: CodeInternalError, Message: err.Error(),
		}})
		return
	}

	r.reply(w, Response{JSONRPC: "2.0", ID: rpc.ID, Result: &Result{Status: "ok", Data: result}})
}

func (r *Router) reply(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		r.logger.Error("rpc response encode failed", "error", err)
	}
}
