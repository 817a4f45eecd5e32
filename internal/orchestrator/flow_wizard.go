package orchestrator

import (
	"context"

	"github.com/digilab/a2ui/internal/genui"
	"github.com/digilab/a2ui/internal/metrics"
	"github.com/digilab/a2ui/pkg/blocks"
)

type wizardInput struct {
	NodeID string `mapstructure:"nodeId"`
	Value  string `mapstructure:"value"`
}

// runWizardFlow advances the decision-tree wizard by one step. The path so
// far lives with the session; reaching a leaf (no further decision block)
// resets it so the next choice starts over.
func (o *Orchestrator) runWizardFlow(ctx context.Context, sessionID string, payload map[string]any) error {
	in, err := decodeInput[wizardInput](payload)
	if err != nil {
		return err
	}
	surfaceID := SurfaceGenuiTree

	path := o.wizardPath(sessionID)
	if in.NodeID == "wizard_topic" || len(path) == 0 {
		path = nil
	}
	if in.Value != "" {
		path = append(path, in.Value)
	}

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp("A2UI: Volgende stap bepalen…"),
		step:    strp("wizard_step"),
	})
	o.pause()

	pathPayload := make([]any, len(path))
	for i, p := range path {
		pathPayload[i] = p
	}

	composed, err := o.callAgent(ctx, sessionID, surfaceID, o.agents.Genui, "compose_wizard",
		map[string]any{"path": pathPayload}, "compose_wizard")

	var rawBlocks []any
	source := "fallback"
	reason := "deterministic"
	if err != nil {
		metrics.Fallbacks.WithLabelValues("genui_tree/choose", "agent_unavailable").Inc()
		reason = "agent_unavailable"
		rawBlocks = rawToAny(genui.WizardStep(path))
	} else {
		rawBlocks = anyList(composed["blocks"])
		if s := asString(composed["ui_source"]); s != "" {
			source = s
		}
		if r := asString(composed["ui_source_reason"]); r != "" {
			reason = r
		}
		if len(rawBlocks) == 0 {
			rawBlocks = rawToAny(genui.WizardStep(path))
		}
	}

	sanitized := blocks.Sanitize(rawBlocks)
	o.setResults(sessionID, surfaceID, blockList(sanitized))
	o.pause()

	// At a leaf the path resets; an open decision keeps it for the next step.
	if hasDecision(sanitized) {
		o.setWizardPath(sessionID, path)
	} else {
		o.setWizardPath(sessionID, nil)
	}

	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(false),
		message: strp("A2UI: Klaar."),
		step:    strp("done"),
		source:  strp(source),
		reason:  strp(reason),
	})
	return nil
}

func hasDecision(bs []blocks.Block) bool {
	for _, b := range bs {
		if b.BlockKind() == blocks.KindDecision {
			return true
		}
	}
	return false
}
