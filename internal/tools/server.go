package tools

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/digilab/a2ui"
	"github.com/digilab/a2ui/internal/logging"
)

// Server exposes the demo tools over the MCP SSE transport.
type Server struct {
	mcpServer *server.MCPServer
	latency   time.Duration
	logger    *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLatency injects an artificial delay per tool call, so the streamed
// progress updates are visible in the demo UI.
func WithLatency(d time.Duration) ServerOption {
	return func(s *Server) { s.latency = d }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates the tool server and registers all tools.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("a2ui-tools", a2ui.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Serve starts the SSE transport on addr and blocks until ctx is cancelled
// or the listener fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://localhost"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("tool server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: rules_lookup
	s.mcpServer.AddTool(mcp.NewTool("rules_lookup",
		mcp.WithDescription("Look up the demo conditions for a toeslag regeling and year."),
		mcp.WithString("regeling", mcp.Description("Regeling name: huur or zorg")),
		mcp.WithNumber("jaar", mcp.Description("Calculation year, defaults to 2025")),
		mcp.WithOutputSchema[RulesResult](),
	), mcp.NewStructuredToolHandler(s.handleRulesLookup))

	// TOOL: doc_checklist
	s.mcpServer.AddTool(mcp.NewTool("doc_checklist",
		mcp.WithDescription("List the documents needed for an application."),
		mcp.WithString("regeling", mcp.Description("Regeling name: huur or zorg")),
		mcp.WithString("situatie", mcp.Description("Household situation in free text")),
		mcp.WithOutputSchema[ChecklistResult](),
	), mcp.NewStructuredToolHandler(s.handleDocChecklist))

	// TOOL: risk_notes
	s.mcpServer.AddTool(mcp.NewTool("risk_notes",
		mcp.WithDescription("Derive rule-based attention points from the submitted inputs."),
		mcp.WithString("inkomen", mcp.Description("Yearly income")),
		mcp.WithString("vermogen", mcp.Description("Assets")),
		mcp.WithString("situatie", mcp.Description("Household situation in free text")),
		mcp.WithOutputSchema[RiskResult](),
	), mcp.NewStructuredToolHandler(s.handleRiskNotes))

	// TOOL: extract_entities
	s.mcpServer.AddTool(mcp.NewTool("extract_entities",
		mcp.WithDescription("Extract date, amount and subject from free text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Case text")),
		mcp.WithOutputSchema[Entities](),
	), mcp.NewStructuredToolHandler(s.handleExtractEntities))

	// TOOL: classify_case
	s.mcpServer.AddTool(mcp.NewTool("classify_case",
		mcp.WithDescription("Classify a bezwaar case with demo rules."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Case text")),
		mcp.WithOutputSchema[Classification](),
	), mcp.NewStructuredToolHandler(s.handleClassifyCase))

	// TOOL: policy_snippets
	s.mcpServer.AddTool(mcp.NewTool("policy_snippets",
		mcp.WithDescription("Return policy snippets for a case type."),
		mcp.WithString("type", mcp.Description("Case type from classify_case")),
		mcp.WithOutputSchema[SnippetsResult](),
	), mcp.NewStructuredToolHandler(s.handlePolicySnippets))

	// TOOL: bd_search
	s.mcpServer.AddTool(mcp.NewTool("bd_search",
		mcp.WithDescription("Search curated Overheid.nl content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
		mcp.WithNumber("k", mcp.Description("Number of results, defaults to 5")),
		mcp.WithOutputSchema[SearchResult](),
	), mcp.NewStructuredToolHandler(s.handleSearch))
}

// pause applies the configured artificial latency, honoring cancellation.
func (s *Server) pause(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleRulesLookup(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RulesResult, error) {
	if err := s.pause(ctx); err != nil {
		return RulesResult{}, err
	}
	regeling, _ := args["regeling"].(string)
	return RulesLookup(regeling, asInt(args["jaar"])), nil
}

func (s *Server) handleDocChecklist(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ChecklistResult, error) {
	if err := s.pause(ctx); err != nil {
		return ChecklistResult{}, err
	}
	regeling, _ := args["regeling"].(string)
	situatie, _ := args["situatie"].(string)
	return DocChecklist(regeling, situatie), nil
}

func (s *Server) handleRiskNotes(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RiskResult, error) {
	if err := s.pause(ctx); err != nil {
		return RiskResult{}, err
	}
	return RiskNotes(args), nil
}

func (s *Server) handleExtractEntities(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (Entities, error) {
	if err := s.pause(ctx); err != nil {
		return Entities{}, err
	}
	text, _ := args["text"].(string)
	return ExtractEntities(text), nil
}

func (s *Server) handleClassifyCase(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (Classification, error) {
	if err := s.pause(ctx); err != nil {
		return Classification{}, err
	}
	text, _ := args["text"].(string)
	return ClassifyCase(text), nil
}

func (s *Server) handlePolicySnippets(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SnippetsResult, error) {
	if err := s.pause(ctx); err != nil {
		return SnippetsResult{}, err
	}
	caseType, _ := args["type"].(string)
	return PolicySnippets(caseType), nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SearchResult, error) {
	if err := s.pause(ctx); err != nil {
		return SearchResult{}, err
	}
	query, _ := args["query"].(string)
	return Search(query, asInt(args["k"])), nil
}

// asInt coerces a decoded JSON argument to int, returning 0 when absent.
func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		var n int
		if _, err := fmt.Sscanf(x, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
