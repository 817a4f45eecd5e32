package orchestrator

import (
	"context"

	"github.com/digilab/a2ui/internal/metrics"
)

// Event is one client event as received by the ingress.
type Event struct {
	SessionID string         `json:"sessionId"`
	SurfaceID string         `json:"surfaceId"`
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload"`
}

// Ack is the synchronous intake response. Flow progress arrives on the
// session stream, never here.
type Ack struct {
	OK      bool `json:"ok"`
	Ignored bool `json:"ignored,omitempty"`
}

// aliases maps historical event names onto their canonical form.
var aliases = map[string]string{
	"nav/navigate":      "nav/open",
	"toeslagen/start":   "toeslagen/check",
	"bezwaar/analyze":   "bezwaar/analyse",
	"genui_search/run":  "genui/search",
	"genui/form":        "genui_form/generate",
	"genui/form_change": "genui_form/change",
	"genui_tree/select": "genui_tree/choose",
}

// Handle validates an event and dispatches its flow. Navigation is handled
// synchronously; flows run in their own goroutine with a fresh context so
// they outlive the intake request. Unknown event names are acknowledged and
// ignored.
func (o *Orchestrator) Handle(ctx context.Context, ev Event) Ack {
	if _, ok := o.hub.Get(ev.SessionID); !ok {
		return Ack{OK: false}
	}

	name := ev.Name
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	payload := ev.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	switch name {
	case "nav/open":
		target, _ := payload["surfaceId"].(string)
		o.OpenSurface(ev.SessionID, target)
		return Ack{OK: true}
	case "toeslagen/check":
		o.dispatch(ev.SessionID, name, payload, o.runToeslagenFlow)
	case "bezwaar/analyse":
		o.dispatch(ev.SessionID, name, payload, o.runBezwaarFlow)
	case "genui/search":
		o.dispatch(ev.SessionID, name, payload, o.runSearchFlow)
	case "genui_tree/choose":
		o.dispatch(ev.SessionID, name, payload, o.runWizardFlow)
	case "genui_form/generate":
		o.dispatch(ev.SessionID, name, payload, o.runFormGenerateFlow)
	case "genui_form/change":
		o.dispatch(ev.SessionID, name, payload, o.runFormChangeFlow)
	case "genui/form_submit":
		o.dispatch(ev.SessionID, name, payload, o.runFormSubmitFlow)
	default:
		o.logger.Debug("ignoring unknown client event", "name", ev.Name)
		return Ack{OK: true, Ignored: true}
	}

	return Ack{OK: true}
}

// dispatch runs a flow in the background. The intake context ends with the
// HTTP request, so the flow gets a fresh one.
func (o *Orchestrator) dispatch(sessionID, name string, payload map[string]any, run func(ctx context.Context, sessionID string, payload map[string]any) error) {
	go func() {
		o.logger.Info("flow started", "flow", name, "session_id", sessionID)
		if err := run(context.Background(), sessionID, payload); err != nil {
			metrics.FlowRuns.WithLabelValues(name, "error").Inc()
			o.logger.Error("flow failed", "flow", name, "session_id", sessionID, "error", err)
			return
		}
		metrics.FlowRuns.WithLabelValues(name, "ok").Inc()
		o.logger.Info("flow finished", "flow", name, "session_id", sessionID)
	}()
}
