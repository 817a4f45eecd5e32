// Package genui holds the deterministic UI composition shared by the genui
// agent and the orchestrator's fallback path. Everything here returns raw
// block maps; the caller runs them through the sanitizer before publishing.
package genui

import (
	"fmt"
	"strconv"
	"strings"
)

// FAQFor picks the demo FAQ entries matching the query topic.
func FAQFor(query string) []map[string]any {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "bezwaar"):
		return []map[string]any{
			{"q": "Binnen welke termijn kan ik bezwaar maken?", "a": "Meestal binnen 6 weken (situatie-afhankelijk). Controleer de bronpagina."},
			{"q": "Wat moet er in een bezwaar staan?", "a": "In elk geval kenmerk/aanslagnummer, datum en motivatie (placeholders in demo)."},
		}
	case strings.Contains(q, "betal"), strings.Contains(q, "uitstel"):
		return []map[string]any{
			{"q": "Kan ik uitstel of een regeling aanvragen?", "a": "Vaak wel: online of via formulier, afhankelijk van situatie."},
			{"q": "Welke gegevens heb ik nodig?", "a": "Vaak: openstaand bedrag, termijnvoorkeur, en inzicht in inkomsten/uitgaven."},
		}
	case strings.Contains(q, "toeslag"):
		return []map[string]any{
			{"q": "Welke voorwaarden gelden meestal?", "a": "Inkomen/vermogen, huur/huishouden en jaar/situatie zijn bepalend. Check de officiële pagina."},
			{"q": "Welke documenten zijn vaak nodig?", "a": "Bijv. huurgegevens en bewijs van inkomen/vermogen (afhankelijk van situatie)."},
		}
	default:
		return []map[string]any{
			{"q": "Wat laat deze tegel zien?", "a": "De UI wordt opgebouwd uit blokken op basis van data (A2UI)."},
			{"q": "Waarom niet direct HTML genereren?", "a": "Veiligheid/consistentie: alleen whitelisted blokken worden gerenderd."},
		}
	}
}

// NextQuestionsFor picks the demo follow-up questions for the query topic.
func NextQuestionsFor(query string) []string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "bezwaar"):
		return []string{"Welke gegevens moet ik meesturen?", "Kan ik uitstel van betaling krijgen bij bezwaar?", "Hoe lang duurt een bezwaarprocedure?"}
	case strings.Contains(q, "betal"), strings.Contains(q, "uitstel"):
		return []string{"Hoe vraag ik een betalingsregeling aan?", "Welke termijnen zijn mogelijk?", "Wat als ik niets doe?"}
	case strings.Contains(q, "toeslag"):
		return []string{"Kan ik huurtoeslag krijgen?", "Welke inkomensgrenzen gelden?", "Wat moet ik doorgeven als mijn situatie wijzigt?"}
	default:
		return []string{"Hoe maak ik bezwaar?", "Ik kan niet op tijd betalen — betalingsregeling?", "Kan ik huurtoeslag krijgen?"}
	}
}

// FallbackBlocks composes the deterministic block set used whenever the genui
// agent is unavailable or returns an unusable result.
func FallbackBlocks(query string, citations []map[string]any) []map[string]any {
	body := fmt.Sprintf("Vraag: %s\n\n", query)
	if len(citations) > 0 {
		title, _ := citations[0]["title"].(string)
		snippet, _ := citations[0]["snippet"].(string)
		if title != "" {
			body += fmt.Sprintf("Top-bron: %s\n%s\n\n", title, snippet)
		}
	}
	body += "Dit is een deterministische fallback. Met Gemini kan de agent dynamisch kiezen welke blokken het meest relevant zijn."

	items := make([]any, 0, len(citations))
	for _, c := range citations {
		items = append(items, c)
	}

	return []map[string]any{
		{"kind": "callout", "title": "Kern (fallback)", "body": body},
		{"kind": "citations", "title": "Bronnen", "items": items},
		{"kind": "accordion", "title": "Veelgestelde vragen (demo)", "items": FAQFor(query)},
		{"kind": "next_questions", "title": "Vervolgvraag", "items": NextQuestionsFor(query)},
		{"kind": "notice", "title": "Let op", "body": "Dit is demo-informatie. Raadpleeg officiële pagina’s voor actuele details."},
	}
}

// truthy interprets common form values: checkbox booleans, ja/nee strings
// and numbers.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		return s == "ja" || s == "yes" || s == "true" || s == "1"
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return false
	}
}

func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
