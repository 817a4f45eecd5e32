package genui

import "strings"

// wizard decision tree for the toeslagen triage: topic, then one follow-up,
// then an advice leaf.

func startStep() []map[string]any {
	return []map[string]any{
		decision("wizard_topic", "Waar gaat uw vraag over?", "Kies een onderwerp", []opt{
			{"Huurtoeslag", "huurtoeslag"},
			{"Zorgtoeslag", "zorgtoeslag"},
			{"Bezwaar maken", "bezwaar"},
		}),
	}
}

type opt struct {
	label string
	value string
}

func decision(id, question, title string, options []opt) map[string]any {
	items := make([]any, 0, len(options))
	for _, o := range options {
		items = append(items, map[string]any{"label": o.label, "value": o.value})
	}
	return map[string]any{
		"kind":     "decision",
		"id":       id,
		"title":    title,
		"question": question,
		"options":  items,
	}
}

func leaf(advies, topic string) []map[string]any {
	next := make([]any, 0, 3)
	for _, q := range NextQuestionsFor(topic) {
		next = append(next, q)
	}
	return []map[string]any{
		{"kind": "callout", "title": "Advies (demo)", "body": advies},
		{"kind": "next_questions", "title": "Vervolgvraag", "items": next},
	}
}

// WizardStep returns the blocks for the current position in the decision
// tree. An empty path yields the start question; an unknown path restarts
// with a notice.
func WizardStep(path []string) []map[string]any {
	if len(path) == 0 {
		return startStep()
	}

	switch path[0] {
	case "huurtoeslag":
		if len(path) == 1 {
			return []map[string]any{
				decision("wizard_woonsituatie", "Wat is uw woonsituatie?", "Woonsituatie", []opt{
					{"Alleenwonend", "alleen"},
					{"Met partner", "partner"},
					{"Met kinderen", "gezin"},
				}),
			}
		}
		switch path[1] {
		case "partner":
			return leaf("Met een partner tellen beide inkomens mee voor de huurtoeslag. Controleer de gezamenlijke (demo) grenzen en geef wijzigingen op tijd door.", "huurtoeslag")
		case "gezin":
			return leaf("Met kinderen kan de huurgrens anders uitpakken. Controleer de (demo) voorwaarden voor uw huishouden en de kindgegevens.", "huurtoeslag")
		default:
			return leaf("Als alleenwonende tellen alleen uw eigen inkomen en vermogen mee. Controleer de (demo) huur- en inkomensgrenzen voor uw jaar.", "huurtoeslag")
		}
	case "zorgtoeslag":
		if len(path) == 1 {
			return []map[string]any{
				decision("wizard_verzekering", "Heeft u een Nederlandse zorgverzekering?", "Zorgverzekering", []opt{
					{"Ja", "ja"},
					{"Nee", "nee"},
				}),
			}
		}
		if path[1] == "nee" {
			return leaf("Zonder Nederlandse zorgverzekering heeft u meestal geen recht op zorgtoeslag. Sluit eerst een verzekering af en check daarna de (demo) voorwaarden.", "zorgtoeslag")
		}
		return leaf("Met een Nederlandse zorgverzekering hangt uw recht af van inkomen en vermogen. Controleer de (demo) grenzen voor uw jaar.", "zorgtoeslag")
	case "bezwaar":
		if len(path) == 1 {
			return []map[string]any{
				decision("wizard_onderwerp", "Waartegen wilt u bezwaar maken?", "Onderwerp", []opt{
					{"Aanslag", "aanslag"},
					{"Boete of naheffing", "boete"},
					{"Toeslagbeslissing", "toeslag"},
				}),
			}
		}
		switch path[1] {
		case "boete":
			return leaf("Bij een boete of naheffing loont het om verwijtbaarheid en proportionaliteit te betwisten. Let op de bezwaartermijn van 6 weken (demo).", "bezwaar")
		case "toeslag":
			return leaf("Bij een toeslagbeslissing draait bezwaar vaak om de berekening of grondslag. Verzamel uw inkomens- en huishoudgegevens (demo).", "bezwaar")
		default:
			return leaf("Bij een aanslag controleert u eerst de berekening en motivering. Maak binnen 6 weken bezwaar (demo).", "bezwaar")
		}
	default:
		blocks := []map[string]any{
			{"kind": "notice", "title": "Let op", "body": "Onbekende keuze " + strings.Join(path, " › ") + "; de wizard begint opnieuw."},
		}
		return append(blocks, startStep()...)
	}
}
