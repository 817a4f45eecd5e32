package agents

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/digilab/a2ui/internal/genui"
	"github.com/digilab/a2ui/internal/logging"
	"github.com/digilab/a2ui/pkg/a2a"
	"github.com/digilab/a2ui/pkg/blocks"
)

const genuiMaxTokens = 900

type genuiAgent struct {
	gemini *Gemini
	logger *slog.Logger
}

// NewGenuiRouter builds the genui agent: it composes UI blocks from search
// results (Gemini or fallback), serves the wizard decision tree, generates
// forms and proposes extension fields.
func NewGenuiRouter(logger *slog.Logger, gemini *Gemini) *a2a.Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	agent := &genuiAgent{gemini: gemini, logger: logger}
	router := a2a.NewRouter(a2a.Card{
		Name:        "genui-agent",
		Description: "Composes UI blocks (A2UI-friendly) from search results (Gemini or fallback).",
		Protocol:    "a2a-jsonrpc",
	}, logger)
	router.Handle("compose_ui", agent.handleComposeUI)
	router.Handle("compose_wizard", agent.handleComposeWizard)
	router.Handle("compose_form", agent.handleComposeForm)
	router.Handle("propose_fields", agent.handleProposeFields)
	return router
}

func composeSystemInstruction() string {
	return "Je maakt UI-blokken voor een agent-gedreven interface (A2UI).\n" +
		"Return EXACTLY één JSON object en niets anders.\n" +
		"Geen markdown, geen uitleg, geen code fences.\n\n" +
		"Toegestane kinds: callout, citations, accordion, next_questions, notice.\n" +
		"Gebruik exact deze keys:\n" +
		"- callout: {kind,title,body}\n" +
		"- citations: {kind,title,items:[{title,url,snippet}]}\n" +
		"- accordion: {kind,title,items:[{q,a}]}\n" +
		"- next_questions: {kind,title,items:[string]}\n" +
		"- notice: {kind,title,body}\n\n" +
		"Regels:\n" +
		"- Nederlands (B1/B2)\n" +
		"- Geen persoonsgegevens\n" +
		"- citations-blok gebruikt exact de meegegeven citations (niet verzinnen)\n" +
		"- Minimaal 4 blokken, maximaal 6\n" +
		"- Callout max 6 regels\n" +
		"- Accordion 2-4 Q/A\n" +
		"- Next_questions 3-5 items\n"
}

func (a *genuiAgent) handleComposeUI(ctx context.Context, data map[string]any) (map[string]any, error) {
	query := strings.TrimSpace(asString(data["query"]))
	citations, _ := data["citations"].([]any)

	shaped, reason := a.compose(ctx, query, citations)
	if shaped != nil {
		return composeResult(shaped, "gemini", reason), nil
	}

	fallback := genui.FallbackBlocks(query, citationMaps(citations))
	return composeResult(fallback, "fallback", reason), nil
}

// compose runs the Gemini composition with a repair pass for bad JSON.
func (a *genuiAgent) compose(ctx context.Context, query string, citations []any) ([]map[string]any, string) {
	if a.gemini == nil {
		return nil, ReasonNoAPIKey
	}

	example := map[string]any{
		"blocks": []any{
			map[string]any{"kind": "callout", "title": "Kern", "body": "Korte kern (max 6 regels)."},
			map[string]any{"kind": "citations", "title": "Bronnen", "items": citations},
			map[string]any{"kind": "accordion", "title": "Veelgestelde vragen", "items": []any{
				map[string]any{"q": "Vraag?", "a": "Antwoord."},
				map[string]any{"q": "Vraag?", "a": "Antwoord."},
			}},
			map[string]any{"kind": "next_questions", "title": "Vervolgvraag", "items": []any{"Vraag 1", "Vraag 2", "Vraag 3"}},
		},
	}
	payload := map[string]any{"query": query, "citations": citations}

	prompt := "Maak UI-blokken (A2UI) op basis van de vraag en de bronnen.\n" +
		"Return ONLY JSON.\n\n" +
		"Voorbeeldvorm (gebruik dezelfde keys):\n" + mustJSON(example) +
		"\n\nInput:\n" + mustJSON(payload)

	text, reason := a.gemini.Generate(ctx, prompt, GenerateOptions{
		SystemInstruction: composeSystemInstruction(),
		MaxOutputTokens:   genuiMaxTokens,
		JSONOnly:          true,
	})
	if text == "" {
		return nil, reason
	}

	if obj := extractJSON(text); obj != nil {
		if shaped := shapeBlocks(obj, citations); shaped != nil {
			return shaped, ReasonOK
		}
	}

	a.logger.Warn("gemini composition returned bad json, attempting repair")
	repaired, repairReason := a.repair(ctx, text, citations)
	if repaired != nil {
		if shaped := shapeBlocks(repaired, citations); shaped != nil {
			return shaped, ReasonOK
		}
	}
	if repairReason != "" {
		return nil, repairReason
	}
	return nil, "bad_json"
}

// repair asks the model to press its previous output into an explicit
// template. Second and last chance before the deterministic fallback.
func (a *genuiAgent) repair(ctx context.Context, badOutput string, citations []any) (map[string]any, string) {
	template := map[string]any{
		"blocks": []any{
			map[string]any{"kind": "callout", "title": "Kern", "body": ""},
			map[string]any{"kind": "citations", "title": "Bronnen", "items": citations},
			map[string]any{"kind": "accordion", "title": "Veelgestelde vragen", "items": []any{
				map[string]any{"q": "", "a": ""},
				map[string]any{"q": "", "a": ""},
			}},
			map[string]any{"kind": "next_questions", "title": "Vervolgvraag", "items": []any{"", "", ""}},
			map[string]any{"kind": "notice", "title": "Let op", "body": ""},
		},
	}

	prompt := "Converteer de onderstaande output naar EXACT één valide JSON object dat exact het TEMPLATE volgt.\n" +
		"Return ONLY JSON.\n\nTEMPLATE:\n" + mustJSON(template) + "\n\nOUTPUT:\n" + badOutput

	text, reason := a.gemini.Generate(ctx, prompt, GenerateOptions{
		SystemInstruction: composeSystemInstruction(),
		MaxOutputTokens:   genuiMaxTokens,
		JSONOnly:          true,
	})
	if text == "" {
		return nil, "repair_" + reason
	}
	obj := extractJSON(text)
	if obj == nil {
		return nil, "repair_bad_json"
	}
	return obj, ""
}

func (a *genuiAgent) handleComposeWizard(ctx context.Context, data map[string]any) (map[string]any, error) {
	rawPath, _ := data["path"].([]any)
	path := make([]string, 0, len(rawPath))
	for _, p := range rawPath {
		if s := asString(p); s != "" {
			path = append(path, s)
		}
	}

	// The wizard tree is deterministic on purpose: navigation must behave the
	// same on every run.
	return composeResult(genui.WizardStep(path), "fallback", "deterministic"), nil
}

func (a *genuiAgent) handleComposeForm(ctx context.Context, data map[string]any) (map[string]any, error) {
	query := strings.TrimSpace(asString(data["query"]))

	form, reason := a.composeForm(ctx, query)
	source := "gemini"
	if form == nil {
		source = "fallback"
		minimal := blocks.MinimalForm(query)
		form = formToMap(minimal)
	}

	return map[string]any{
		"blocks":           []any{form},
		"ui_source":        source,
		"ui_source_reason": reason,
	}, nil
}

func (a *genuiAgent) composeForm(ctx context.Context, query string) (map[string]any, string) {
	if a.gemini == nil {
		return nil, ReasonNoAPIKey
	}

	example := map[string]any{
		"blocks": []any{map[string]any{
			"kind":   "form",
			"formId": "form_voorbeeld",
			"title":  "Aanvraag",
			"fields": []any{
				map[string]any{"id": "inkomen", "label": "Uw inkomen per jaar", "type": "number", "required": true},
				map[string]any{"id": "heeft_partner", "label": "Heeft u een partner?", "type": "select", "options": []any{"ja", "nee"}},
			},
			"submitLabel": "Versturen",
		}},
	}

	prompt := "Maak één formulier (A2UI form-blok) om de vraag van de gebruiker af te handelen.\n" +
		"Return ONLY JSON met exact de voorbeeldkeys. Veldtypes: text, textarea, select, email, number, date.\n" +
		"Maximaal 6 velden, Nederlands (B1).\n\n" +
		"Voorbeeldvorm:\n" + mustJSON(example) +
		"\n\nVraag:\n" + query

	text, reason := a.gemini.Generate(ctx, prompt, GenerateOptions{
		MaxOutputTokens: genuiMaxTokens,
		JSONOnly:        true,
	})
	if text == "" {
		return nil, reason
	}

	obj := extractJSON(text)
	if obj == nil {
		return nil, "bad_json"
	}
	rawBlocks, _ := obj["blocks"].([]any)
	for _, b := range blocks.Sanitize(rawBlocks) {
		if form, ok := b.(blocks.Form); ok && len(form.Fields) > 0 {
			return formToMap(form), ReasonOK
		}
	}
	return nil, "no_form"
}

func (a *genuiAgent) handleProposeFields(ctx context.Context, data map[string]any) (map[string]any, error) {
	values, _ := data["values"].(map[string]any)

	fields := genui.ExtensionFields(values)
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldToMap(f))
	}
	return map[string]any{"fields": out}, nil
}

func composeResult(shaped []map[string]any, source, reason string) map[string]any {
	out := make([]any, len(shaped))
	for i, b := range shaped {
		out[i] = b
	}
	return map[string]any{
		"blocks":           out,
		"ui_source":        source,
		"ui_source_reason": reason,
	}
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

// formToMap and fieldToMap round-trip typed blocks back into the generic
// JSON shape the envelope carries.
func formToMap(f blocks.Form) map[string]any {
	return roundTrip(f)
}

func fieldToMap(f blocks.Field) map[string]any {
	return roundTrip(f)
}

func roundTrip(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
