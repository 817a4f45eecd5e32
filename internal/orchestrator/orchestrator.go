// Package orchestrator implements the client event intake and the demo
// flows: paced multi-step runs that call the tool and agent collaborators
// and publish their progress as data model patches on the session stream.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/digilab/a2ui/internal/logging"
	"github.com/digilab/a2ui/pkg/blocks"
	"github.com/digilab/a2ui/pkg/session"
)

// ToolCaller invokes one named tool on the MCP collaborator.
type ToolCaller interface {
	Call(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// AgentCaller sends one capability call to an A2A agent.
type AgentCaller interface {
	Send(ctx context.Context, capability string, payload map[string]any) (map[string]any, error)
}

// Agents groups the agent collaborators by role.
type Agents struct {
	Toeslagen AgentCaller
	Bezwaar   AgentCaller
	Genui     AgentCaller
}

// DefaultTick paces consecutive flow stages so streamed progress stays
// visible in the demo UI.
const DefaultTick = 600 * time.Millisecond

// Orchestrator owns the flows. It publishes exclusively through the hub and
// keeps only small per-session UI state (wizard path, in-progress form).
type Orchestrator struct {
	hub    *session.Hub
	tools  ToolCaller
	agents Agents
	tick   time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	wizards map[string][]string
	forms   map[string]*formState
}

type formState struct {
	query string
	form  blocks.Form
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTick overrides the stage pacing delay. Zero disables pacing (tests).
func WithTick(d time.Duration) Option {
	return func(o *Orchestrator) { o.tick = d }
}

// New creates the orchestrator.
func New(hub *session.Hub, tools ToolCaller, agents Agents, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		hub:     hub,
		tools:   tools,
		agents:  agents,
		tick:    DefaultTick,
		logger:  logging.NewNop(),
		wizards: make(map[string][]string),
		forms:   make(map[string]*formState),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ReleaseSession discards the per-session flow state. Wired as the hub's
// drop hook so state cannot outlive its session.
func (o *Orchestrator) ReleaseSession(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.wizards, sessionID)
	delete(o.forms, sessionID)
}

func (o *Orchestrator) wizardPath(sessionID string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.wizards[sessionID]
}

func (o *Orchestrator) setWizardPath(sessionID string, path []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if path == nil {
		delete(o.wizards, sessionID)
		return
	}
	o.wizards[sessionID] = path
}

func (o *Orchestrator) formFor(sessionID string) *formState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.forms[sessionID]
}

func (o *Orchestrator) setForm(sessionID string, st *formState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st == nil {
		delete(o.forms, sessionID)
		return
	}
	o.forms[sessionID] = st
}
