package a2a_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/pkg/a2a"
)

func newTestAgent(t *testing.T) *httptest.Server {
	t.Helper()
	router := a2a.NewRouter(a2a.Card{
		Name:     "echo-agent",
		Protocol: "a2a-jsonrpc",
	}, nil)
	router.Handle("echo", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return map[string]any{"echo": data["value"]}, nil
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	srv := newTestAgent(t)
	client := a2a.NewClient(srv.URL)

	data, err := client.Send(context.Background(), "echo", map[string]any{"value": "hoi"})
	require.NoError(t, err)
	assert.Equal(t, "hoi", data["echo"])
}

func TestClient_UnknownCapabilityIsError(t *testing.T) {
	srv := newTestAgent(t)
	client := a2a.NewClient(srv.URL)

	_, err := client.Send(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-32602")
}

func TestClient_TimeoutIsError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	client := a2a.NewClient(slow.URL, a2a.WithTimeout(20*time.Millisecond))
	_, err := client.Send(context.Background(), "echo", nil)
	assert.Error(t, err)
}

func TestRouter_MethodNotFound(t *testing.T) {
	srv := newTestAgent(t)

	body := `{"jsonrpc":"2.0","id":"1","method":"tools/call"}`
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var rpc a2a.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpc))
	require.NotNil(t, rpc.Error)
	assert.Equal(t, a2a.CodeMethodNotFound, rpc.Error.Code)
}

func TestRouter_ServesAgentCard(t *testing.T) {
	srv := newTestAgent(t)

	resp, err := http.Get(srv.URL + "/.well-known/agent-card.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	var card a2a.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, "echo-agent", card.Name)
	assert.Contains(t, card.Capabilities, "echo")
}
