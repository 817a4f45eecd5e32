package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/pkg/patch"
	"github.com/digilab/a2ui/pkg/session"
)

func TestView_StaleSurfaceSuppression(t *testing.T) {
	v := &session.View{}
	v.Consume(session.Message{Kind: session.KindSessionCreated, SessionID: "s1"})
	v.Consume(session.Message{
		Kind:      session.KindSurfaceOpen,
		SurfaceID: "toeslagen",
		Title:     "Toeslagen Check",
		DataModel: map[string]any{"results": []any{}},
	})
	v.Consume(session.Message{
		Kind:      session.KindSurfaceOpen,
		SurfaceID: "bezwaar",
		Title:     "Bezwaar Assistent",
		DataModel: map[string]any{"results": []any{}},
	})

	// A late update from the first surface's still-running flow arrives.
	v.Consume(session.Message{
		Kind:      session.KindDataModelUpdate,
		SurfaceID: "toeslagen",
		Patches:   []patch.Patch{patch.Replace("/status/message", "stale")},
	})

	assert.Equal(t, "bezwaar", v.SurfaceID)
	_, ok := patch.Get(v.Model, "/status/message")
	assert.False(t, ok, "stale update must be discarded")

	// An update for the active surface applies.
	v.Consume(session.Message{
		Kind:      session.KindDataModelUpdate,
		SurfaceID: "bezwaar",
		Patches:   []patch.Patch{patch.Replace("/status/message", "vers")},
	})
	got, ok := patch.Get(v.Model, "/status/message")
	require.True(t, ok)
	assert.Equal(t, "vers", got)
}

func TestView_SurfaceOpenCopiesModel(t *testing.T) {
	shared := map[string]any{"results": []any{}}
	v := &session.View{}
	v.Consume(session.Message{Kind: session.KindSurfaceOpen, SurfaceID: "home", DataModel: shared})

	v.Consume(session.Message{
		Kind:      session.KindDataModelUpdate,
		SurfaceID: "home",
		Patches:   []patch.Patch{patch.Replace("/local", true)},
	})

	_, leaked := shared["local"]
	assert.False(t, leaked, "view must not mutate the published model")
}
