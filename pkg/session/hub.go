// Package session implements the process-wide session hub: the registry of
// connected clients, the per-surface data models they see, and the ordered
// message stream that carries model updates to them.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/digilab/a2ui/internal/logging"
	"github.com/digilab/a2ui/pkg/patch"
)

// Message kinds on the server-to-client stream.
const (
	KindSessionCreated  = "session/created"
	KindSurfaceOpen     = "surface/open"
	KindDataModelUpdate = "dataModelUpdate"
)

// Message is one JSON object on a session's stream.
type Message struct {
	Kind      string         `json:"kind"`
	SessionID string         `json:"sessionId,omitempty"`
	SurfaceID string         `json:"surfaceId,omitempty"`
	Title     string         `json:"title,omitempty"`
	DataModel map[string]any `json:"dataModel,omitempty"`
	Patches   []patch.Patch  `json:"patches,omitempty"`
}

// Session is one connected client: an ordered outbound queue plus the
// authoritative copy of each surface's data model. A session owns exactly one
// stream; it is dropped when that stream closes.
type Session struct {
	ID string

	mu      sync.Mutex
	queue   chan Message
	closed  bool
	models  map[string]map[string]any
	surface string
}

// Messages returns the ordered outbound stream. The channel is closed when
// the session is dropped.
func (s *Session) Messages() <-chan Message {
	return s.queue
}

// Surface returns the most recently opened surface id.
func (s *Session) Surface() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Model returns the session's current model for a surface, or nil when the
// surface was never opened or patched.
func (s *Session) Model(surfaceID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.models[surfaceID]
}

// Hub is the injectable session registry. It is safe for concurrent use:
// flows publish while the stream handler creates and tears down sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	queueSize int
	logger    *slog.Logger
	onDrop    func(sessionID string)
	now       func() string
}

// Option configures the Hub.
type Option func(*Hub)

// WithLogger configures a logger for the Hub.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) { h.logger = logger }
}

// WithQueueSize overrides the per-session outbound buffer (default 64).
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithDropHook registers a callback invoked after a session is dropped, so
// owners of per-session state outside the hub can release it.
func WithDropHook(fn func(sessionID string)) Option {
	return func(h *Hub) { h.onDrop = fn }
}

// WithClock overrides the lastRefresh timestamp source (tests).
func WithClock(now func() string) Option {
	return func(h *Hub) { h.now = now }
}

// NewHub creates an empty session hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		sessions:  make(map[string]*Session),
		queueSize: 64,
		logger:    logging.NewNop(),
		now:       NowStamp,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NowStamp is the lastRefresh format used across the protocol: local time,
// second precision.
func NowStamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// Now returns a lastRefresh stamp from the hub's clock, so publishers stamp
// with the same (injectable) time source the hub heals with.
func (h *Hub) Now() string {
	return h.now()
}

// Create registers a new session and enqueues its session/created message as
// the first item on the stream.
func (h *Hub) Create() *Session {
	s := &Session{
		ID:     uuid.NewString(),
		queue:  make(chan Message, h.queueSize),
		models: make(map[string]map[string]any),
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.logger.Info("session created", "session_id", s.ID)
	h.Push(s.ID, Message{Kind: KindSessionCreated, SessionID: s.ID})
	return s
}

// Get looks up a session by id.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Drop tears a session down: it is deregistered, its stream is closed, and
// all of its state is discarded. Dropping an unknown id is a no-op.
func (h *Hub) Drop(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	h.logger.Info("session dropped", "session_id", id)
	if h.onDrop != nil {
		h.onDrop(id)
	}
}

// Push enqueues a message on a session's stream. Unknown or already-dropped
// sessions are silently ignored; a full queue drops the message with a
// warning rather than blocking the publishing flow (slow client).
func (h *Hub) Push(id string, msg Message) {
	s, ok := h.Get(id)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h.pushLocked(s, msg)
}

func (h *Hub) pushLocked(s *Session, msg Message) {
	if s.closed {
		return
	}
	select {
	case s.queue <- msg:
	default:
		h.logger.Warn("session queue full, dropping message",
			"session_id", s.ID,
			"kind", msg.Kind,
		)
	}
}

// OpenSurface replaces the session's model for a surface and publishes
// surface/open. The surface becomes the session's current surface.
func (h *Hub) OpenSurface(id, surfaceID, title string, model map[string]any) {
	s, ok := h.Get(id)
	if !ok {
		return
	}
	if model == nil {
		model = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[surfaceID] = model
	s.surface = surfaceID
	h.pushLocked(s, Message{
		Kind:      KindSurfaceOpen,
		SurfaceID: surfaceID,
		Title:     title,
		DataModel: model,
	})
}

// PushUpdate applies patches to the session's model for a surface and
// publishes the matching dataModelUpdate. Apply and enqueue happen under the
// session lock, so concurrent flows can interleave messages but never tear
// one. The model skeleton (status/results) is healed before applying.
func (h *Hub) PushUpdate(id, surfaceID string, patches []patch.Patch) {
	s, ok := h.Get(id)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	model := s.models[surfaceID]
	if model == nil {
		model = make(map[string]any)
		s.models[surfaceID] = model
	}
	h.healModel(model)
	patch.Apply(model, patches)
	h.pushLocked(s, Message{
		Kind:      KindDataModelUpdate,
		SurfaceID: surfaceID,
		Patches:   patches,
	})
}

// healModel backfills the required status/results skeleton. Older clients and
// flows may omit status fields; absence is healed on receipt, not assumed.
func (h *Hub) healModel(model map[string]any) {
	status, ok := model["status"].(map[string]any)
	if !ok {
		status = make(map[string]any)
		model["status"] = status
	}
	if _, ok := status["loading"]; !ok {
		status["loading"] = false
	}
	if _, ok := status["message"]; !ok {
		status["message"] = ""
	}
	if _, ok := status["step"]; !ok {
		status["step"] = "idle"
	}
	if _, ok := status["lastRefresh"]; !ok {
		status["lastRefresh"] = h.now()
	}
	if _, ok := model["results"]; !ok {
		model["results"] = []any{}
	}
}
