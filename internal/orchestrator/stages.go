package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/digilab/a2ui/internal/metrics"
	"github.com/digilab/a2ui/pkg/patch"
)

// status mutates the surface's status object. Nil fields are left untouched;
// lastRefresh always moves.
type status struct {
	loading *bool
	message *string
	step    *string
	source  *string
	reason  *string
}

func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }

func (o *Orchestrator) setStatus(sessionID, surfaceID string, st status) {
	var patches []patch.Patch
	if st.loading != nil {
		patches = append(patches, patch.Replace("/status/loading", *st.loading))
	}
	if st.message != nil {
		patches = append(patches, patch.Replace("/status/message", *st.message))
	}
	if st.step != nil {
		patches = append(patches, patch.Replace("/status/step", *st.step))
	}
	if st.source != nil {
		patches = append(patches, patch.Replace("/status/source", *st.source))
	}
	if st.reason != nil {
		patches = append(patches, patch.Replace("/status/sourceReason", *st.reason))
	}
	patches = append(patches, patch.Replace("/status/lastRefresh", o.hub.Now()))
	o.hub.PushUpdate(sessionID, surfaceID, patches)
}

func (o *Orchestrator) setResults(sessionID, surfaceID string, results []any) {
	o.hub.PushUpdate(sessionID, surfaceID, []patch.Patch{
		patch.Replace("/results", results),
	})
}

// pause is the pacing delay between stages.
func (o *Orchestrator) pause() {
	if o.tick > 0 {
		time.Sleep(o.tick)
	}
}

// callTool runs one tool call and traces it into the status line, duration
// in milliseconds included. The error is returned for the caller to degrade
// on; it is never propagated to the client.
func (o *Orchestrator) callTool(ctx context.Context, sessionID, surfaceID, tool string, args map[string]any, step string) (map[string]any, error) {
	timer := prometheus.NewTimer(metrics.CollaboratorCalls.WithLabelValues("tool", tool))
	t0 := time.Now()
	result, err := o.tools.Call(ctx, tool, args)
	timer.ObserveDuration()

	dt := time.Since(t0).Milliseconds()
	if step == "" {
		step = tool
	}
	if err != nil {
		o.logger.Warn("tool call failed", "tool", tool, "error", err)
		o.setStatus(sessionID, surfaceID, status{
			loading: boolp(true),
			message: strp(fmt.Sprintf("MCP: %s mislukt (%dms)", tool, dt)),
			step:    strp(step),
		})
		return nil, err
	}
	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp(fmt.Sprintf("MCP: %s (%dms)", tool, dt)),
		step:    strp(step),
	})
	return result, nil
}

// callAgent runs one agent call with the same tracing contract as callTool.
func (o *Orchestrator) callAgent(ctx context.Context, sessionID, surfaceID string, agent AgentCaller, capability string, payload map[string]any, step string) (map[string]any, error) {
	timer := prometheus.NewTimer(metrics.CollaboratorCalls.WithLabelValues("agent", capability))
	t0 := time.Now()
	result, err := agent.Send(ctx, capability, payload)
	timer.ObserveDuration()

	dt := time.Since(t0).Milliseconds()
	if step == "" {
		step = capability
	}
	if err != nil {
		o.logger.Warn("agent call failed", "capability", capability, "error", err)
		o.setStatus(sessionID, surfaceID, status{
			loading: boolp(true),
			message: strp(fmt.Sprintf("A2A: %s mislukt (%dms)", capability, dt)),
			step:    strp(step),
		})
		return nil, err
	}
	o.setStatus(sessionID, surfaceID, status{
		loading: boolp(true),
		message: strp(fmt.Sprintf("A2A: %s (%dms)", capability, dt)),
		step:    strp(step),
	})
	return result, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func anyList(v any) []any {
	list, _ := v.([]any)
	return list
}
