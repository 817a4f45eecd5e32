package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/pkg/patch"
	"github.com/digilab/a2ui/pkg/session"
)

func drain(s *session.Session) []session.Message {
	var out []session.Message
	for {
		select {
		case msg := <-s.Messages():
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHub_CreateSendsSessionCreatedFirst(t *testing.T) {
	hub := session.NewHub()
	s := hub.Create()

	msgs := drain(s)
	require.NotEmpty(t, msgs)
	assert.Equal(t, session.KindSessionCreated, msgs[0].Kind)
	assert.Equal(t, s.ID, msgs[0].SessionID)

	got, ok := hub.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, hub.Len())
}

func TestHub_PushUnknownSessionIsNoop(t *testing.T) {
	hub := session.NewHub()

	assert.NotPanics(t, func() {
		hub.Push("nope", session.Message{Kind: session.KindDataModelUpdate})
		hub.PushUpdate("nope", "home", []patch.Patch{patch.Replace("/x", 1)})
		hub.OpenSurface("nope", "home", "Home", nil)
		hub.Drop("nope")
	})
}

func TestHub_PushAfterDropIsNoop(t *testing.T) {
	hub := session.NewHub()
	s := hub.Create()
	hub.Drop(s.ID)

	assert.NotPanics(t, func() {
		hub.Push(s.ID, session.Message{Kind: session.KindDataModelUpdate})
	})
	assert.Equal(t, 0, hub.Len())
}

func TestHub_DropHookReleasesExternalState(t *testing.T) {
	var dropped []string
	hub := session.NewHub(session.WithDropHook(func(id string) {
		dropped = append(dropped, id)
	}))
	s := hub.Create()
	hub.Drop(s.ID)

	assert.Equal(t, []string{s.ID}, dropped)
}

func TestHub_PushUpdateAppliesAndPublishesInOrder(t *testing.T) {
	hub := session.NewHub()
	s := hub.Create()
	drain(s)

	hub.PushUpdate(s.ID, "toeslagen", []patch.Patch{patch.Replace("/status/loading", true)})
	hub.PushUpdate(s.ID, "toeslagen", []patch.Patch{patch.Replace("/status/step", "collecting-rules")})

	model := s.Model("toeslagen")
	v, ok := patch.Get(model, "/status/loading")
	require.True(t, ok)
	assert.Equal(t, true, v)
	v, _ = patch.Get(model, "/status/step")
	assert.Equal(t, "collecting-rules", v)

	msgs := drain(s)
	require.Len(t, msgs, 2)
	assert.Equal(t, session.KindDataModelUpdate, msgs[0].Kind)
	assert.Equal(t, "collecting-rules", msgs[1].Patches[0].Value)
}

func TestHub_PushUpdateHealsStatusSkeleton(t *testing.T) {
	hub := session.NewHub(session.WithClock(func() string { return "2026-01-01 12:00:00" }))
	s := hub.Create()

	hub.PushUpdate(s.ID, "fresh", []patch.Patch{patch.Replace("/status/message", "hoi")})

	model := s.Model("fresh")
	v, ok := patch.Get(model, "/status/loading")
	require.True(t, ok)
	assert.Equal(t, false, v)
	v, _ = patch.Get(model, "/status/lastRefresh")
	assert.Equal(t, "2026-01-01 12:00:00", v)
	_, ok = patch.Get(model, "/results")
	assert.True(t, ok)
}

func TestHub_OpenSurfaceReplacesModel(t *testing.T) {
	hub := session.NewHub()
	s := hub.Create()
	drain(s)

	hub.PushUpdate(s.ID, "genui_search", []patch.Patch{patch.Replace("/old", true)})
	hub.OpenSurface(s.ID, "genui_search", "Zoeken", map[string]any{"results": []any{}})

	model := s.Model("genui_search")
	_, ok := patch.Get(model, "/old")
	assert.False(t, ok)
	assert.Equal(t, "genui_search", s.Surface())

	msgs := drain(s)
	last := msgs[len(msgs)-1]
	assert.Equal(t, session.KindSurfaceOpen, last.Kind)
	assert.Equal(t, "Zoeken", last.Title)
}

func TestHub_QueueFullDropsInsteadOfBlocking(t *testing.T) {
	hub := session.NewHub(session.WithQueueSize(2))
	s := hub.Create() // one slot used by session/created

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Push(s.ID, session.Message{Kind: session.KindDataModelUpdate})
		}
		close(done)
	}()
	<-done // must not deadlock
}
