package orchestrator

import (
	"github.com/digilab/a2ui/internal/genui"
	"github.com/digilab/a2ui/pkg/blocks"
)

// Surface ids.
const (
	SurfaceHome        = "home"
	SurfaceToeslagen   = "toeslagen"
	SurfaceBezwaar     = "bezwaar"
	SurfaceGenuiSearch = "genui_search"
	SurfaceGenuiTree   = "genui_tree"
	SurfaceGenuiForm   = "genui_form"
)

var surfaceTitles = map[string]string{
	SurfaceHome:        "Belastingdienst Assistants",
	SurfaceToeslagen:   "Toeslagen Check",
	SurfaceBezwaar:     "Bezwaar Assistent",
	SurfaceGenuiSearch: "Generatieve UI — Zoeken",
	SurfaceGenuiTree:   "Generatieve UI — Wizard",
	SurfaceGenuiForm:   "Generatieve UI — Formulier",
}

func (o *Orchestrator) emptyModel(message string) map[string]any {
	return map[string]any{
		"status": map[string]any{
			"loading":     false,
			"message":     message,
			"step":        "idle",
			"lastRefresh": o.hub.Now(),
		},
		"results": []any{},
	}
}

// defaultModel builds the model a surface starts with when opened via
// navigation.
func (o *Orchestrator) defaultModel(surfaceID string) map[string]any {
	switch surfaceID {
	case SurfaceToeslagen:
		return o.emptyModel("A2UI: Vul de gegevens in en klik op Check.")
	case SurfaceBezwaar:
		return o.emptyModel("A2UI: Plak een bezwaarbrief en klik op Analyseer.")
	case SurfaceGenuiSearch:
		return o.emptyModel("A2UI: Stel een vraag en klik op Zoek.")
	case SurfaceGenuiTree:
		model := o.emptyModel("A2UI: Beantwoord de vragen om een advies te krijgen.")
		model["results"] = blockList(blocks.Sanitize(rawToAny(genui.WizardStep(nil))))
		return model
	case SurfaceGenuiForm:
		return o.emptyModel("A2UI: Beschrijf wat u wilt aanvragen en klik op Genereer.")
	default:
		return o.emptyModel("A2UI: Kies een assistent om te starten.")
	}
}

// OpenSurface publishes surface/open with the surface's default model. An
// unknown target falls back to home.
func (o *Orchestrator) OpenSurface(sessionID, surfaceID string) {
	title, ok := surfaceTitles[surfaceID]
	if !ok {
		surfaceID = SurfaceHome
		title = surfaceTitles[SurfaceHome]
	}
	o.hub.OpenSurface(sessionID, surfaceID, title, o.defaultModel(surfaceID))
}

func rawToAny(raw []map[string]any) []any {
	out := make([]any, len(raw))
	for i, m := range raw {
		out[i] = m
	}
	return out
}

func blockList(bs []blocks.Block) []any {
	out := make([]any, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}
