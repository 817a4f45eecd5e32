package orchestrator

import (
	"context"
	"strings"

	"github.com/digilab/a2ui/internal/genui"
	"github.com/digilab/a2ui/internal/metrics"
	"github.com/digilab/a2ui/pkg/blocks"
)

// runSearchFlow answers a free-text question with generated UI blocks:
// sources from the bd_search tool, composition by the genui agent, and the
// deterministic local composition when the agent cannot deliver. Every block
// that reaches the client has passed the sanitizer.
func (o *Orchestrator) runSearchFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	query := strings.TrimSpace(asString(payload["query"]))
	if query == "" {
		return nil
	}
	surfaceID := SurfaceGenuiSearch

	// A new run replaces the surface wholesale, discarding the previous one.
	o.hub.OpenSurface(sessionID, surfaceID, surfaceTitles[surfaceID],
		o.emptyModel("A2UI: Nieuwe zoekrun gestart…"))
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Zoekopdracht ontvangen…"),
		step:    strp("start"),
	})
	o.setResults(sessionID, surfaceID, []any{})
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Bronnen ophalen (MCP)…"),
		step:    strp("bd_search"),
	})
	o.pause()

	searchResp, err := o.callTool(ctx, sessionID, surfaceID, "bd_search",
		map[string]any{"query": query, "k": 5}, "bd_search")
	var citations []any
	if err == nil {
		citations = anyList(searchResp["items"])
	}

	o.setResults(sessionID, surfaceID, []any{
		map[string]any{"kind": "citations", "title": "Bronnen (MCP)", "items": citations},
	})
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: UI-blokken samenstellen (A2A)…"),
		step:    strp("compose_blocks"),
	})
	o.pause()

	composed, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Genui, "compose_ui",
		map[string]any{"query": query, "citations": citations}, "compose_blocks")

	var rawBlocks []any
	source := "fallback"
	reason := "agent_unavailable"
	if err != nil {
		metrics.Fallbacks.WithLabelValues("genui/search", "agent_unavailable").Inc()
		rawBlocks = rawToAny(genui.FallbackBlocks(query, citationMaps(citations)))
	} else {
		rawBlocks = anyList(composed["blocks"])
		source = asString(composed["ui_source"])
		reason = asString(composed["ui_source_reason"])
		if source == "" {
			source = "fallback"
		}
		if source == "fallback" && reason != "" && reason != "ok" {
			metrics.Fallbacks.WithLabelValues("genui/search", reason).Inc()
		}
		if len(rawBlocks) == 0 {
			rawBlocks = rawToAny(genui.FallbackBlocks(query, citationMaps(citations)))
		}
	}

	o.setResults(sessionID, surfaceID, blockList(blocks.Sanitize(rawBlocks)))
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(false),
		message: strp("A2UI: Klaar."),
		step:    strp("done"),
		source:  strp(source),
		reason:  strp(reason),
	})
	return nil
}

func citationMaps(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
