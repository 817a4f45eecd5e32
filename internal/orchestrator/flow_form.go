package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/digilab/a2ui/internal/genui"
	"github.com/digilab/a2ui/internal/metrics"
	"github.com/digilab/a2ui/pkg/blocks"
)

// runFormGenerateFlow asks the genui agent for a form matching the query.
// Whatever happens, exactly one usable form block reaches the surface: the
// minimal deterministic form is the floor, never an empty result.
func (o *Orchestrator) runFormGenerateFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	query := strings.TrimSpace(asString(payload["query"]))
	surfaceID := SurfaceGenuiForm

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Formulier samenstellen…"),
		step:    strp("compose_form"),
	})
	o.setResults(sessionID, surfaceID, []any{})
	o.pause()

	composed, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Genui, "compose_form",
		map[string]any{"query": query}, "compose_form")

	source := "fallback"
	reason := "agent_unavailable"
	var form blocks.Form
	found := false
	if err != nil {
		metrics.Fallbacks.WithLabelValues("genui_form/generate", "agent_unavailable").Inc()
	} else {
		if s := asString(composed["ui_source"]); s != "" {
			source = s
		}
		if r := asString(composed["ui_source_reason"]); r != "" {
			reason = r
		}
		for _, b := range blocks.Sanitize(anyList(composed["blocks"])) {
			if f, ok := b.(blocks.Form); ok && len(f.Fields) > 0 {
				form = f
				found = true
				break
			}
		}
	}
	if !found {
		form = blocks.MinimalForm(query)
		if source != "fallback" {
			source = "fallback"
			reason = "no_form"
		}
	}

	o.setForm(sessionID, &formState{query: query, form: form})
	o.setResults(sessionID, surfaceID, []any{form})
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(false),
		message: strp("A2UI: Vul het formulier in."),
		step:    strp("done"),
		source:  strp(source),
		reason:  strp(reason),
	})
	return nil
}

type formChangeInput struct {
	FormID string         `mapstructure:"formId"`
	Values map[string]any `mapstructure:"values"`
}

// runFormChangeFlow reconciles the in-progress form against the values
// entered so far: extension fields appear when their trigger holds and are
// pruned the moment it is retracted. The agent proposes the fields; the
// deterministic rules are the fallback.
func (o *Orchestrator) runFormChangeFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	in, err := decodeInput[formChangeInput](payload)
	if err != nil {
		return fmt.Errorf("decode form change: %w", err)
	}
	surfaceID := SurfaceGenuiForm

	st := o.formFor(sessionID)
	if st == nil {
		st = &formState{form: blocks.MinimalForm("")}
	}

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Formulier bijwerken…"),
		step:    strp("propose_fields"),
	})
	o.pause()

	proposed, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Genui, "propose_fields",
		map[string]any{"formId": in.FormID, "values": in.Values}, "propose_fields")

	var form blocks.Form
	if err != nil {
		metrics.Fallbacks.WithLabelValues("genui_form/change", "agent_unavailable").Inc()
		form = genui.ExtendForm(st.form, in.Values)
	} else {
		form = applyProposedFields(st.form, proposed)
	}

	st.form = form
	o.setForm(sessionID, st)
	o.setResults(sessionID, surfaceID, []any{form})
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(false),
		message: strp("A2UI: Formulier bijgewerkt."),
		step:    strp("done"),
	})
	return nil
}

// applyProposedFields swaps the form's extension fields for the agent's
// proposal. Base fields are untouched; proposals without the extension
// prefix are namespaced so pruning keeps working.
func applyProposedFields(form blocks.Form, proposed map[string]any) blocks.Form {
	kept := make([]blocks.Field, 0, len(form.Fields))
	for _, f := range form.Fields {
		if !genui.IsExtension(f) {
			kept = append(kept, f)
		}
	}

	for _, rf := range anyList(proposed["fields"]) {
		fm, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		field := blocks.SanitizeField(blocks.Field{
			ID:          asString(fm["id"]),
			Label:       asString(fm["label"]),
			Type:        asString(fm["type"]),
			Placeholder: asString(fm["placeholder"]),
		})
		if req, ok := fm["required"].(bool); ok {
			field.Required = req
		}
		if !genui.IsExtension(field) {
			field.ID = "ext:" + field.ID
		}
		kept = append(kept, field)
	}

	form.Fields = kept
	return form
}

type formSubmitInput struct {
	FormID string         `mapstructure:"formId"`
	Values map[string]any `mapstructure:"values"`
}

// runFormSubmitFlow closes a form run with a submission summary. Nothing is
// persisted; the demo stops at the acknowledgement.
func (o *Orchestrator) runFormSubmitFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	in, err := decodeInput[formSubmitInput](payload)
	if err != nil {
		return fmt.Errorf("decode form submit: %w", err)
	}
	surfaceID := SurfaceGenuiForm

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Verzending verwerken…"),
		step:    strp("submit"),
	})
	o.pause()

	formID := in.FormID
	if formID == "" {
		if st := o.formFor(sessionID); st != nil {
			formID = st.form.FormID
		}
	}

	results := []any{
		blocks.Callout{
			Kind:  blocks.KindCallout,
			Title: "Verzonden (demo)",
			Body: fmt.Sprintf("Formulier %s is ontvangen met %d ingevulde velden. "+
				"Er wordt niets opgeslagen; dit is een demo.", formID, len(in.Values)),
		},
		blocks.Notice{
			Kind:  blocks.KindNotice,
			Title: "Let op",
			Body:  "Dit is demo-informatie. Raadpleeg officiële pagina’s voor actuele details.",
		},
	}
	o.setResults(sessionID, surfaceID, results)
	o.setForm(sessionID, nil)
	o.pause()

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(false),
		message: strp("A2UI: Verzonden."),
		step:    strp("done"),
	})
	return nil
}
