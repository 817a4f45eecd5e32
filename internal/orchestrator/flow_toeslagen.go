package orchestrator

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/digilab/a2ui/internal/metrics"
)

type toeslagenInput struct {
	Regeling string `mapstructure:"regeling"`
	Jaar     int    `mapstructure:"jaar"`
	Inkomen  string `mapstructure:"inkomen"`
	Vermogen string `mapstructure:"vermogen"`
	Situatie string `mapstructure:"situatie"`
}

// runToeslagenFlow checks a toeslag application: rules, document checklist
// and risk notes from the tool service, then enrichment via the toeslagen
// agent. Every stage is published as a patch; collaborator failures degrade
// the result but never abort the flow.
func (o *Orchestrator) runToeslagenFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	in, err := decodeInput[toeslagenInput](payload)
	if err != nil {
		return fmt.Errorf("decode toeslagen input: %w", err)
	}
	surfaceID := SurfaceToeslagen

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Check gestart…"),
		step:    strp("start"),
	})
	o.setResults(sessionID, surfaceID, []any{})
	o.pause()

	var results []any

	// Stage: rules. A failed tool stage still publishes its card, degraded to
	// an empty item list, and the flow continues.
	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Voorwaarden ophalen (MCP)…"),
		step:    strp("collecting-rules"),
	})
	o.pause()
	rules, err := o.callTool(ctx, sessionID, surfaceID, "rules_lookup",
		map[string]any{"regeling": in.Regeling, "jaar": in.Jaar}, "collecting-rules")
	if err != nil {
		rules = map[string]any{}
	}
	results = append(results, map[string]any{
		"kind":  "voorwaarden",
		"title": "Voorwaarden (demo)",
		"items": itemsOrEmpty(rules["voorwaarden"]),
	})
	o.setResults(sessionID, surfaceID, results)
	o.pause()

	// Stage: document checklist.
	checklist, err := o.callTool(ctx, sessionID, surfaceID, "doc_checklist",
		map[string]any{"regeling": in.Regeling, "situatie": in.Situatie}, "collecting-checklist")
	if err != nil {
		checklist = map[string]any{}
	}
	results = append(results, map[string]any{
		"kind":  "documenten",
		"title": "Documenten",
		"items": itemsOrEmpty(checklist["documenten"]),
	})
	o.setResults(sessionID, surfaceID, results)
	o.pause()

	// Stage: risk notes.
	risks, err := o.callTool(ctx, sessionID, surfaceID, "risk_notes", map[string]any{
		"inkomen":  in.Inkomen,
		"vermogen": in.Vermogen,
		"situatie": in.Situatie,
	}, "collecting-risk-notes")
	if err != nil {
		risks = map[string]any{}
	}
	results = append(results, map[string]any{
		"kind":  "aandachtspunten",
		"title": "Aandachtspunten",
		"items": itemsOrEmpty(risks["aandachtspunten"]),
	})
	o.setResults(sessionID, surfaceID, results)
	o.pause()

	// Stage: agent enrichment over whatever the tools produced.
	items := enrichmentItems(results)
	enriched, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Toeslagen,
		"explain_toeslagen", map[string]any{"items": items}, "enriching-via-agent")

	source := "agent"
	reason := "ok"
	verrijking := map[string]any{
		"kind":   "verrijking",
		"title":  "Verrijking",
		"source": "agent",
	}
	if err != nil {
		metrics.Fallbacks.WithLabelValues("toeslagen/check", "agent_unavailable").Inc()
		source = "fallback"
		reason = "agent_unavailable"
		verrijking["source"] = "fallback"
		verrijking["items"] = fallbackEnrichment(items)
	} else {
		verrijking["items"] = itemsOrEmpty(enriched["items"])
	}
	results = append(results, verrijking)
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

// itemsOrEmpty is anyList with a non-nil guarantee, so degraded cards carry
// an empty list instead of null.
func itemsOrEmpty(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{}
}

// enrichmentItems flattens the checklist and risk entries into the item list
// the agent expects.
func enrichmentItems(results []any) []any {
	var items []any
	for _, r := range results {
		rm, ok := r.(map[string]any)
		if !ok {
			continue
		}
		kind := asString(rm["kind"])
		if kind != "documenten" && kind != "aandachtspunten" {
			continue
		}
		for _, it := range anyList(rm["items"]) {
			switch v := it.(type) {
			case string:
				items = append(items, map[string]any{"category": kind, "text": v})
			case map[string]any:
				items = append(items, map[string]any{"category": kind, "text": asString(v["text"])})
			}
		}
	}
	return items
}

// fallbackEnrichment annotates items without the agent: no priorities, just
// a generic explanation so the surface still renders something useful.
func fallbackEnrichment(items []any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		im, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, map[string]any{
			"category":       im["category"],
			"text":           im["text"],
			"priority":       "onbekend",
			"b1_explanation": "Geen verrijking beschikbaar. Controleer dit punt zelf of probeer het later opnieuw.",
		})
	}
	return out
}

// decodeInput maps a loose event payload onto a typed flow input.
func decodeInput[T any](payload map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(payload); err != nil {
		return out, err
	}
	return out, nil
}
