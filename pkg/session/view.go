package session

import "github.com/digilab/a2ui/pkg/patch"

// View is the consumer-side reconciler: it mirrors how a client maintains its
// own model copy from the stream. surface/open replaces the active surface
// and model wholesale; dataModelUpdate messages for any other surface are
// discarded (stale-update suppression — a flow may keep publishing after the
// user navigated away).
type View struct {
	SessionID string
	SurfaceID string
	Title     string
	Model     map[string]any
}

// Consume applies one stream message to the view.
func (v *View) Consume(msg Message) {
	switch msg.Kind {
	case KindSessionCreated:
		v.SessionID = msg.SessionID
	case KindSurfaceOpen:
		v.SurfaceID = msg.SurfaceID
		v.Title = msg.Title
		v.Model = make(map[string]any)
		for k, val := range msg.DataModel {
			v.Model[k] = val
		}
	case KindDataModelUpdate:
		if msg.SurfaceID != v.SurfaceID {
			return
		}
		v.Model = patch.Apply(v.Model, msg.Patches)
	}
}
