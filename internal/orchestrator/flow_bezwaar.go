package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/digilab/a2ui/internal/metrics"
)

type bezwaarInput struct {
	Text string `mapstructure:"text"`
}

// runBezwaarFlow triages a bezwaar letter: entity extraction, classification
// and policy snippets from the tool service, then a structured draft from
// the bezwaar agent. Tool failures leave their part empty; an agent failure
// switches the draft to the deterministic fallback.
func (o *Orchestrator) runBezwaarFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	in, err := decodeInput[bezwaarInput](payload)
	if err != nil {
		return fmt.Errorf("decode bezwaar input: %w", err)
	}
	if in.Text == "" {
		in.Text = asString(payload["raw_text"])
	}
	surfaceID := SurfaceBezwaar

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Analyse gestart…"),
		step:    strp("start"),
	})
	o.setResults(sessionID, surfaceID, []any{})
	o.pause()

	entities, err := o.callTool(ctx, sessionID, surfaceID, "extract_entities",
		map[string]any{"text": in.Text}, "extract-entities")
	if err != nil {
		entities = map[string]any{}
	}
	o.pause()

	classification, err := o.callTool(ctx, sessionID, surfaceID, "classify_case",
		map[string]any{"text": in.Text}, "classify-case")
	if err != nil {
		classification = map[string]any{}
	}
	o.pause()

	snippetsResp, err := o.callTool(ctx, sessionID, surfaceID, "policy_snippets",
		map[string]any{"type": asString(classification["type"])}, "policy-snippets")
	var snippets []any
	if err == nil {
		snippets = anyList(snippetsResp["snippets"])
	}
	o.pause()

	structured, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Bezwaar, "structure_bezwaar", map[string]any{
		"raw_text":       in.Text,
		"entities":       entities,
		"classification": classification,
		"snippets":       snippets,
	}, "structuring-via-agent")
	if err != nil {
		metrics.Fallbacks.WithLabelValues("bezwaar/analyse", "agent_unavailable").Inc()
		structured = map[string]any{}
	}
	o.pause()

	draft, source, reason := parseDraft(structured)
	if source == "fallback" && reason != "" && reason != "ok" {
		metrics.Fallbacks.WithLabelValues("bezwaar/analyse", reason).Inc()
	}

	overview, _ := structured["overview"].(map[string]any)
	if overview == nil {
		overview = map[string]any{
			"type":      asString(classification["type"]),
			"reden":     asString(classification["reason"]),
			"datum":     entities["datum"],
			"onderwerp": entities["onderwerp"],
			"bedrag":    entities["bedrag"],
			"snippets":  snippets,
		}
	}

	results := []any{
		map[string]any{"kind": "overzicht", "title": "Zaakoverzicht", "data": overview},
		map[string]any{"kind": "kernpunten", "title": "Kernpunten", "items": anyList(structured["key_points"])},
		map[string]any{"kind": "acties", "title": "Aanbevolen acties", "items": anyList(structured["actions"])},
		map[string]any{"kind": "concept", "title": "Conceptreactie", "body": draft},
	}
	o.setResults(sessionID, surfaceID, results)
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

// parseDraft resolves the draft text and its provenance. An explicit
// draft_source field wins over the "[Bron: X]" prefix; the prefix is always
// stripped before the text reaches the client.
func parseDraft(structured map[string]any) (draft, source, reason string) {
	draft = asString(structured["draft_response"])
	source = asString(structured["draft_source"])
	reason = asString(structured["draft_source_reason"])

	prefixSource := ""
	switch {
	case strings.HasPrefix(draft, "[Bron: Gemini]"):
		prefixSource = "gemini"
		draft = strings.TrimPrefix(draft, "[Bron: Gemini]")
	case strings.HasPrefix(draft, "[Bron: Fallback]"):
		prefixSource = "fallback"
		draft = strings.TrimPrefix(draft, "[Bron: Fallback]")
	}
	draft = strings.TrimLeft(draft, "\n ")

	if source == "" {
		source = prefixSource
	}
	if source == "" {
		source = "fallback"
	}
	if reason == "" {
		reason = "agent_unavailable"
	}
	if draft == "" {
		draft = "Er is geen conceptreactie beschikbaar. Probeer het later opnieuw."
	}
	return draft, source, reason
}
