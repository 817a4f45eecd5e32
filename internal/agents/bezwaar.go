package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/digilab/a2ui/internal/logging"
	"github.com/digilab/a2ui/pkg/a2a"
)

// Generation guards for the bezwaar draft.
const (
	bezwaarMaxTokens = 520
	bezwaarMinChars  = 220
)

// candidateModels is the retry ladder used when the configured model is not
// available (http_404). Other failures abort immediately.
var candidateModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

type bezwaarAgent struct {
	gemini *Gemini
	logger *slog.Logger
}

// NewBezwaarRouter builds the bezwaar agent: it structures a bezwaar letter
// into an overview, key points and actions, and drafts a concept reply with
// Gemini or the deterministic fallback.
func NewBezwaarRouter(logger *slog.Logger, gemini *Gemini) *a2a.Router {
	if logger == nil {
		logger = logging.NewNop()
	}
	agent := &bezwaarAgent{gemini: gemini, logger: logger}
	router := a2a.NewRouter(a2a.Card{
		Name:        "bezwaar-agent",
		Description: "Structureert bezwaarbrieven en genereert conceptreactie (Gemini of fallback) (demo).",
		Protocol:    "a2a-jsonrpc",
	}, logger)
	router.Handle("structure_bezwaar", agent.handleStructureBezwaar)
	return router
}

func (a *bezwaarAgent) handleStructureBezwaar(ctx context.Context, data map[string]any) (map[string]any, error) {
	rawText := asString(data["raw_text"])
	entities, _ := data["entities"].(map[string]any)
	classification, _ := data["classification"].(map[string]any)
	snippets, _ := data["snippets"].([]any)

	overview := map[string]any{
		"type":      stringOr(classification, "type", "Onbekend"),
		"reden":     stringOr(classification, "reason", "Onbekend"),
		"datum":     stringOr(entities, "datum", "Onbekend"),
		"onderwerp": stringOr(entities, "onderwerp", "Onbekend"),
		"bedrag":    stringOr(entities, "bedrag", ""),
		"timeline": []any{
			"Ontvangst bezwaar (demo).",
			"Controle ontvankelijkheid en stukken.",
			"Beoordeling inhoudelijke gronden.",
			"Besluit en verzending reactie.",
		},
		"snippets": snippets,
	}

	keyPoints := []string{
		"Bezwaar bevat een duidelijke betwisting van de grondslag/hoogte (demo).",
		"Vraag om onderbouwing met inkomensgegevens (demo).",
		"Controleer termijnen en ontvankelijkheid (demo).",
	}
	actions := []string{
		"Vraag om inkomensgegevens van het relevante jaar (demo).",
		"Controleer betaal- en aanslaggeschiedenis (demo).",
		"Leg vast welke gegevens zijn gebruikt bij de beoordeling (demo).",
	}

	draft, reason := a.draft(ctx, rawText, overview, keyPoints, actions)
	source := "gemini"
	if draft == "" {
		source = "fallback"
		draft = "[Bron: Fallback]\n" + deterministicDraft(overview, actions)
	} else {
		draft = "[Bron: Gemini]\n" + draft
	}

	a.logger.Info("bezwaar draft composed", "draft_source", source, "reason", reason)

	return map[string]any{
		"overview":            overview,
		"key_points":          toAny(keyPoints),
		"actions":             toAny(actions),
		"draft_source":        source,
		"draft_source_reason": reason,
		"draft_response":      draft,
	}, nil
}

// draft walks the model ladder. Only http_404 moves on to the next model;
// every other failure aborts with its reason.
func (a *bezwaarAgent) draft(ctx context.Context, rawText string, overview map[string]any, keyPoints, actions []string) (string, string) {
	if a.gemini == nil {
		return "", ReasonNoAPIKey
	}

	prompt := buildDraftPrompt(rawText, overview, keyPoints, actions)
	models := ladder(a.gemini.Model())

	for _, model := range models {
		text, reason := a.gemini.Generate(ctx, prompt, GenerateOptions{
			Model:           model,
			Temperature:     0.25,
			MaxOutputTokens: bezwaarMaxTokens,
			MinChars:        bezwaarMinChars,
		})
		if text != "" {
			a.logger.Info("gemini draft succeeded", "model", model)
			return text, ReasonOK
		}
		if reason != "http_404" {
			a.logger.Info("gemini draft aborted", "model", model, "reason", reason)
			return "", reason
		}
	}
	return "", "http_404_all"
}

// ladder puts the configured model first, then the defaults.
func ladder(primary string) []string {
	if primary == "" {
		return candidateModels
	}
	models := []string{primary}
	for _, m := range candidateModels {
		if m != primary {
			models = append(models, m)
		}
	}
	return models
}

func buildDraftPrompt(rawText string, overview map[string]any, keyPoints, actions []string) string {
	if len(rawText) > 1500 {
		rawText = rawText[:1500]
	}

	var b strings.Builder
	b.WriteString("Je bent een medewerker van een overheidsorganisatie. ")
	b.WriteString("Schrijf een concept-reactie op een bezwaarbrief.\n\n")
	b.WriteString("VEREISTE FORMAT (houd exact aan):\n")
	b.WriteString("1) Aanhef: 'Geachte heer/mevrouw,'\n")
	b.WriteString("2) Alinia 1: ontvangstbevestiging + korte samenvatting van het bezwaar (max 2 zinnen)\n")
	b.WriteString("3) Alinia 2: wat we gaan doen (herbeoordeling) + welke informatie we mogelijk nog nodig hebben\n")
	b.WriteString("4) Bulletlijst: 3-5 concrete gevraagde stukken/gegevens\n")
	b.WriteString("5) Alinia 3: vervolgstappen + termijnindicatie (algemeen) + disclaimer concept\n")
	b.WriteString("6) Afsluiting: 'Met vriendelijke groet,' + '[Naam behandelaar] (concept)'\n\n")
	b.WriteString("LENGTE: 120–180 woorden. TOON: zakelijk, neutraal, zorgvuldig. ")
	b.WriteString("GEEN PERSOONSGEGEVENS (gebruik placeholders).\n\n")
	fmt.Fprintf(&b, "Zaakoverzicht (demo): %v\n\n", overview)
	b.WriteString("Belangrijke punten (demo):\n")
	for _, kp := range limit(keyPoints, 4) {
		fmt.Fprintf(&b, "- %s\n", kp)
	}
	b.WriteString("\nAanbevolen acties (demo):\n")
	for _, act := range limit(actions, 4) {
		fmt.Fprintf(&b, "- %s\n", act)
	}
	b.WriteString("\nBezwaarbrief (demo, ingekort):\n")
	b.WriteString(rawText)
	return b.String()
}

// deterministicDraft is the Gemini-free concept reply.
func deterministicDraft(overview map[string]any, actions []string) string {
	typ := stringOr(overview, "type", "Onbekend")
	onderwerp := stringOr(overview, "onderwerp", "uw bezwaar")
	datum := stringOr(overview, "datum", "onbekende datum")
	reden := stringOr(overview, "reden", "onbekend")
	bedrag := stringOr(overview, "bedrag", "")

	var bullets strings.Builder
	for _, act := range limit(actions, 3) {
		fmt.Fprintf(&bullets, "- %s\n", act)
	}
	if bullets.Len() == 0 {
		bullets.WriteString("- Aanvullende onderbouwing aanleveren (demo).\n")
	}

	bedragzin := ""
	if bedrag != "" {
		bedragzin = fmt.Sprintf(" Het genoemde bedrag is %s.", bedrag)
	}

	return fmt.Sprintf(
		"Geachte heer/mevrouw,\n\n"+
			"Wij bevestigen de ontvangst van uw bezwaar d.d. %s over %s.%s "+
			"Op basis van uw brief lijkt de kern van het bezwaar: %s.\n\n"+
			"Om uw zaak (%s) zorgvuldig te beoordelen, hebben wij mogelijk aanvullende informatie nodig. "+
			"Wij verzoeken u daarom om (waar relevant) de volgende stukken/gegevens aan te leveren:\n%s\n"+
			"Na ontvangst van de aanvullende informatie herbeoordelen wij de beslissing en ontvangt u een schriftelijke reactie. "+
			"Dit is een concepttekst voor interne beoordeling; een behandelaar controleert en finaliseert de inhoud.\n\n"+
			"Met vriendelijke groet,\n[Naam behandelaar] (concept)\n",
		datum, onderwerp, bedragzin, reden, typ, strings.TrimRight(bullets.String(), "\n")+"\n",
	)
}

func stringOr(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
