package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/internal/orchestrator"
	"github.com/digilab/a2ui/pkg/session"
)

type stubTools struct{}

func (stubTools) Call(context.Context, string, map[string]any) (map[string]any, error) {
	return nil, errors.New("unavailable")
}

type stubAgent struct{}

func (stubAgent) Send(context.Context, string, map[string]any) (map[string]any, error) {
	return nil, errors.New("unavailable")
}

func newTestServer(t *testing.T) (*Server, *session.Hub) {
	t.Helper()
	hub := session.NewHub()
	orch := orchestrator.New(hub, stubTools{}, orchestrator.Agents{
		Toeslagen: stubAgent{}, Bezwaar: stubAgent{}, Genui: stubAgent{},
	}, orchestrator.WithTick(0))
	return NewServer(hub, orch), hub
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
}

func TestClientEventValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/client-event", strings.NewReader("{nope"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing session id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/client-event",
			strings.NewReader(`{"name":"genui/search"}`))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/client-event",
			strings.NewReader(`{"sessionId":"nope","name":"genui/search"}`))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var ack orchestrator.Ack
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
		assert.False(t, ack.OK)
	})
}

func TestClientEventNavigates(t *testing.T) {
	srv, hub := newTestServer(t)
	sess := hub.Create()

	body, err := json.Marshal(orchestrator.Event{
		SessionID: sess.ID,
		Name:      "nav/open",
		Payload:   map[string]any{"surfaceId": "bezwaar"},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/client-event", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var ack orchestrator.Ack
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.True(t, ack.OK)
	assert.Equal(t, "bezwaar", sess.Surface())
}

func TestEventsStream(t *testing.T) {
	srv, hub := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readFrame := func() map[string]any {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				var m map[string]any
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &m))
				return m
			}
		}
	}

	created := readFrame()
	assert.Equal(t, session.KindSessionCreated, created["kind"])
	sessionID, _ := created["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, 1, hub.Len())

	opened := readFrame()
	assert.Equal(t, session.KindSurfaceOpen, opened["kind"])
	assert.Equal(t, "home", opened["surfaceId"])

	// Disconnecting tears the session down.
	cancel()
	assert.Eventually(t, func() bool { return hub.Len() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_")
}
