package agents

import (
	"context"
	"log/slog"
	"strings"

	"github.com/digilab/a2ui/pkg/a2a"
)

// NewToeslagenRouter builds the toeslagen agent: it enriches checklist items
// and attention points with a priority and a B1-level explanation.
func NewToeslagenRouter(logger *slog.Logger) *a2a.Router {
	router := a2a.NewRouter(a2a.Card{
		Name:        "toeslagen-agent",
		Description: "Verrijkt toeslagen-checklist en aandachtspunten met B1-uitleg en prioriteit (demo).",
		Protocol:    "a2a-jsonrpc",
	}, logger)
	router.Handle("explain_toeslagen", handleExplainToeslagen)
	return router
}

func handleExplainToeslagen(ctx context.Context, data map[string]any) (map[string]any, error) {
	items, _ := data["items"].([]any)

	enriched := make([]any, 0, len(items))
	for _, it := range items {
		im, ok := it.(map[string]any)
		if !ok {
			continue
		}
		text := asString(im["text"])
		enriched = append(enriched, map[string]any{
			"category":       im["category"],
			"text":           text,
			"priority":       priorityFor(text),
			"b1_explanation": b1Explain(text),
		})
	}

	return map[string]any{"items": enriched}, nil
}

func priorityFor(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "grens"), strings.Contains(t, "inkomen"), strings.Contains(t, "vermogen"):
		return "hoog"
	case strings.Contains(t, "controle"), strings.Contains(t, "contract"):
		return "midden"
	default:
		return "laag"
	}
}

// b1Explain returns one or two plain-language sentences for a checklist item.
func b1Explain(text string) string {
	t := strings.ToLower(strings.TrimRight(text, "."))
	switch {
	case strings.Contains(t, "inkomen"):
		return "We controleren of uw inkomen niet te hoog is. Lever uw inkomensgegevens aan als bewijs."
	case strings.Contains(t, "huurcontract"):
		return "Dit laat zien dat u de woning echt huurt. Stuur een kopie van het huurcontract mee."
	case strings.Contains(t, "vermogen"):
		return "We kijken ook naar spaargeld en beleggingen. Geef uw vermogen op over het juiste jaar."
	case strings.Contains(t, "adres"):
		return "U moet op het adres staan ingeschreven. Controleer dit in de BRP."
	default:
		return "Dit punt is belangrijk voor de beoordeling. Zorg dat u de informatie op tijd aanlevert."
	}
}
