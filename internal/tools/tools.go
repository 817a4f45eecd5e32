// Package tools implements the deterministic demo tools behind the MCP tool
// service: toeslagen rule lookups, document checklists, risk notes and the
// bezwaar triage helpers. No real persoonsgegevens; simple heuristics and
// dummy snippets only.
package tools

import (
	"regexp"
	"strconv"
	"strings"
)

// Voorwaarde is one condition of a regeling.
type Voorwaarde struct {
	ID   string `json:"id" jsonschema_description:"Condition identifier"`
	Text string `json:"text" jsonschema_description:"Condition text"`
}

// RulesResult is the outcome of a rules lookup.
type RulesResult struct {
	Regeling    string       `json:"regeling"`
	Jaar        int          `json:"jaar"`
	Voorwaarden []Voorwaarde `json:"voorwaarden"`
	Opmerking   string       `json:"opmerking"`
}

// ChecklistResult lists the documents needed for an application.
type ChecklistResult struct {
	Regeling   string   `json:"regeling"`
	Situatie   string   `json:"situatie"`
	Documenten []string `json:"documenten"`
}

// RiskNote is one rule-based attention point.
type RiskNote struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// RiskResult is the outcome of a risk scan.
type RiskResult struct {
	Aandachtspunten []RiskNote `json:"aandachtspunten"`
}

// Entities holds heuristically extracted case facts.
type Entities struct {
	Datum     *string `json:"datum"`
	Bedrag    *string `json:"bedrag"`
	Onderwerp string  `json:"onderwerp"`
}

// Classification is a rule-based case classification.
type Classification struct {
	Type       string  `json:"type"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// SnippetsResult carries policy snippets for a case type.
type SnippetsResult struct {
	Snippets []string `json:"snippets"`
}

// RulesLookup returns the demo conditions for a regeling and year.
func RulesLookup(regeling string, jaar int) RulesResult {
	regeling = strings.ToLower(strings.TrimSpace(regeling))
	if jaar == 0 {
		jaar = 2025
	}

	result := RulesResult{
		Regeling:  regeling,
		Jaar:      jaar,
		Opmerking: "Demo-voorwaarden (niet juridisch bindend).",
	}
	if result.Regeling == "" {
		result.Regeling = "onbekend"
	}

	switch regeling {
	case "huur", "huurtoeslag":
		result.Voorwaarden = []Voorwaarde{
			{ID: "H1", Text: "U bent 18 jaar of ouder."},
			{ID: "H2", Text: "Uw huur is binnen de (demo) grens voor het gekozen jaar."},
			{ID: "H3", Text: "Uw inkomen en vermogen vallen binnen (demo) grenzen."},
			{ID: "H4", Text: "U staat ingeschreven op het adres."},
		}
		if jaar >= 2025 {
			result.Voorwaarden = append(result.Voorwaarden, Voorwaarde{
				ID: "H5", Text: "Let op: (demo) grenswaarden kunnen per jaar verschillen.",
			})
		}
	case "zorg", "zorgtoeslag":
		result.Voorwaarden = []Voorwaarde{
			{ID: "Z1", Text: "U bent 18 jaar of ouder."},
			{ID: "Z2", Text: "U heeft een Nederlandse zorgverzekering."},
			{ID: "Z3", Text: "Uw inkomen en vermogen vallen binnen (demo) grenzen."},
		}
	default:
		result.Voorwaarden = []Voorwaarde{
			{ID: "X1", Text: "Regeling onbekend: kies huur of zorg (demo)."},
		}
	}

	return result
}

// DocChecklist returns the demo document checklist for a regeling and
// household situation.
func DocChecklist(regeling, situatie string) ChecklistResult {
	regeling = strings.ToLower(strings.TrimSpace(regeling))
	situatie = strings.ToLower(strings.TrimSpace(situatie))

	docs := []string{
		"Identiteitsbewijs (kopie/gegevens)",
		"Inkomensgegevens (loonstrook/jaaropgave)",
	}

	switch regeling {
	case "huur", "huurtoeslag":
		docs = append(docs, "Huurcontract", "Overzicht huurprijs + servicekosten")
	case "zorg", "zorgtoeslag":
		docs = append(docs, "Polis/gegevens zorgverzekering")
	}

	if strings.Contains(situatie, "partner") || strings.Contains(situatie, "samen") {
		docs = append(docs, "Gegevens partner (inkomen/vermogen)")
	}
	if strings.Contains(situatie, "kind") || strings.Contains(situatie, "gezin") {
		docs = append(docs, "Gegevens kinderen (indien relevant)")
	}

	result := ChecklistResult{Regeling: regeling, Situatie: situatie, Documenten: docs}
	if result.Regeling == "" {
		result.Regeling = "onbekend"
	}
	return result
}

// RiskNotes derives rule-based attention points from the submitted inputs.
// Expected keys: inkomen, vermogen, situatie.
func RiskNotes(inputs map[string]any) RiskResult {
	inkomen := toFloat(inputs["inkomen"])
	vermogen := toFloat(inputs["vermogen"])
	situatie := strings.ToLower(toString(inputs["situatie"]))

	var notes []RiskNote
	if inkomen >= 45000 {
		notes = append(notes, RiskNote{Code: "R1", Text: "Inkomen lijkt hoog; controleer (demo) inkomensgrenzen."})
	} else if inkomen > 0 && inkomen < 15000 {
		notes = append(notes, RiskNote{Code: "R2", Text: "Laag inkomen: let op (demo) bewijsstukken en wijzigingen door het jaar."})
	}
	if vermogen >= 80000 {
		notes = append(notes, RiskNote{Code: "R3", Text: "Vermogen lijkt hoog; controleer (demo) vermogensgrenzen."})
	}
	if strings.Contains(situatie, "wissel") || strings.Contains(situatie, "scheid") {
		notes = append(notes, RiskNote{Code: "R4", Text: "Gezinssituatie verandert: wijzigingen tijdig doorgeven (demo)."})
	}
	if strings.Contains(situatie, "student") {
		notes = append(notes, RiskNote{Code: "R5", Text: "Studenten: let op inkomen bijbaan en inschrijving (demo)."})
	}
	if len(notes) == 0 {
		notes = append(notes, RiskNote{Code: "R0", Text: "Geen opvallende aandachtspunten op basis van demo-regels."})
	}

	return RiskResult{Aandachtspunten: notes}
}

var (
	dateRe   = regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`)
	amountRe = regexp.MustCompile(`\b€?\s?(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)\b`)
)

// ExtractEntities pulls a date, an amount and a subject keyword out of free
// text. Rough heuristics, good enough for the demo.
func ExtractEntities(text string) Entities {
	result := Entities{Onderwerp: "onbekend"}

	if m := dateRe.FindStringSubmatch(text); m != nil {
		result.Datum = &m[1]
	}
	if m := amountRe.FindStringSubmatch(text); m != nil {
		result.Bedrag = &m[1]
	}

	tl := strings.ToLower(text)
	if strings.Contains(tl, "toeslag") {
		result.Onderwerp = "toeslag"
	}
	if strings.Contains(tl, "huur") {
		result.Onderwerp = "huurtoeslag"
	}
	if strings.Contains(tl, "zorg") {
		result.Onderwerp = "zorgtoeslag"
	}
	if strings.Contains(tl, "boete") || strings.Contains(tl, "naheff") {
		result.Onderwerp = "boete/naheffing"
	}
	if strings.Contains(tl, "aanslag") {
		result.Onderwerp = "aanslag"
	}

	return result
}

// ClassifyCase performs a rule-based case classification.
func ClassifyCase(text string) Classification {
	tl := strings.ToLower(text)

	c := Classification{
		Type:       "Algemeen bezwaar",
		Reason:     "Onvoldoende informatie",
		Confidence: 0.65,
	}
	if strings.Contains(tl, "toeslag") {
		c.Type = "Toeslagen"
		c.Reason = "Berekening/grondslag betwist"
	}
	if strings.Contains(tl, "boete") || strings.Contains(tl, "naheff") {
		c.Type = "Boete/Naheffing"
		c.Reason = "Verwijtbaarheid/proportionaliteit betwist"
	}
	if strings.Contains(tl, "aanslag") {
		c.Type = "Aanslag"
		c.Reason = "Hoogte/grondslag betwist"
	}
	if strings.Contains(tl, "termijn") || strings.Contains(tl, "te laat") {
		c.Reason = "Termijn/ontvankelijkheid"
	}

	return c
}

// PolicySnippets returns the dummy policy snippets for a case type.
func PolicySnippets(caseType string) SnippetsResult {
	ct := strings.ToLower(caseType)

	switch {
	case strings.Contains(ct, "toeslag"):
		return SnippetsResult{Snippets: []string{
			"Beoordeel de grondslag en relevante inkomens-/vermogensgegevens (demo).",
			"Check wijzigingen in situatie binnen het berekeningsjaar (demo).",
		}}
	case strings.Contains(ct, "boete"), strings.Contains(ct, "naheff"):
		return SnippetsResult{Snippets: []string{
			"Toets proportionaliteit en verwijtbaarheid (demo).",
			"Controleer of de motivering voldoende is en termijnen kloppen (demo).",
		}}
	default:
		return SnippetsResult{Snippets: []string{
			"Controleer de feiten, berekening en motivering (demo).",
			"Check ontvankelijkheid, termijnen en gevraagde stukken (demo).",
		}}
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(x, ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
