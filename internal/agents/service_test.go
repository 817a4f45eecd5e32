package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/pkg/a2a"
)

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewService())
	t.Cleanup(srv.Close)
	return srv
}

func TestService_ExplainToeslagen(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/toeslagen/")

	data, err := client.Send(context.Background(), "explain_toeslagen", map[string]any{
		"items": []any{
			map[string]any{"category": "documenten", "text": "Inkomensgegevens (loonstrook/jaaropgave)"},
			map[string]any{"category": "documenten", "text": "Huurcontract"},
			map[string]any{"category": "aandachtspunten", "text": "Iets algemeens"},
		},
	})
	require.NoError(t, err)

	items, ok := data["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 3)

	first := items[0].(map[string]any)
	assert.Equal(t, "hoog", first["priority"])
	assert.Contains(t, first["b1_explanation"], "inkomen")

	second := items[1].(map[string]any)
	assert.Equal(t, "midden", second["priority"])
	assert.Contains(t, second["b1_explanation"], "huurcontract")

	third := items[2].(map[string]any)
	assert.Equal(t, "laag", third["priority"])
}

func TestService_StructureBezwaarFallback(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/bezwaar/")

	data, err := client.Send(context.Background(), "structure_bezwaar", map[string]any{
		"raw_text": "Ik ben het niet eens met de naheffing.",
		"entities": map[string]any{"datum": "12-03-2025", "onderwerp": "boete/naheffing", "bedrag": "1.250,00"},
		"classification": map[string]any{"type": "Boete/Naheffing", "reason": "Verwijtbaarheid/proportionaliteit betwist"},
		"snippets": []any{"Toets proportionaliteit en verwijtbaarheid (demo)."},
	})
	require.NoError(t, err)

	// Without an API key the agent always drafts deterministically.
	assert.Equal(t, "fallback", data["draft_source"])
	assert.Equal(t, ReasonNoAPIKey, data["draft_source_reason"])

	draft, _ := data["draft_response"].(string)
	assert.Contains(t, draft, "[Bron: Fallback]")
	assert.Contains(t, draft, "Geachte heer/mevrouw,")
	assert.Contains(t, draft, "12-03-2025")
	assert.Contains(t, draft, "Het genoemde bedrag is 1.250,00.")

	overview, _ := data["overview"].(map[string]any)
	require.NotNil(t, overview)
	assert.Equal(t, "Boete/Naheffing", overview["type"])
	assert.Len(t, overview["timeline"], 4)
	assert.Len(t, data["key_points"], 3)
	assert.Len(t, data["actions"], 3)
}

func TestService_ComposeUIFallback(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/genui/")

	data, err := client.Send(context.Background(), "compose_ui", map[string]any{
		"query": "kan ik huurtoeslag krijgen?",
		"citations": []any{
			map[string]any{"title": "Huurtoeslag aanvragen", "url": "u", "snippet": "s"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "fallback", data["ui_source"])
	assert.Equal(t, ReasonNoAPIKey, data["ui_source_reason"])

	blockList, _ := data["blocks"].([]any)
	require.Len(t, blockList, 5)
	first := blockList[0].(map[string]any)
	assert.Equal(t, "callout", first["kind"])
	assert.Contains(t, first["body"], "Top-bron: Huurtoeslag aanvragen")
}

func TestService_ComposeWizard(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/genui/")

	data, err := client.Send(context.Background(), "compose_wizard", map[string]any{
		"path": []any{"huurtoeslag"},
	})
	require.NoError(t, err)

	blockList, _ := data["blocks"].([]any)
	require.Len(t, blockList, 1)
	step := blockList[0].(map[string]any)
	assert.Equal(t, "decision", step["kind"])
	assert.Equal(t, "wizard_woonsituatie", step["id"])
}

func TestService_ComposeFormFallback(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/genui/")

	data, err := client.Send(context.Background(), "compose_form", map[string]any{
		"query": "huurtoeslag aanvragen",
	})
	require.NoError(t, err)

	assert.Equal(t, "fallback", data["ui_source"])
	blockList, _ := data["blocks"].([]any)
	require.Len(t, blockList, 1)

	form := blockList[0].(map[string]any)
	assert.Equal(t, "form", form["kind"])
	fields, _ := form["fields"].([]any)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "Uw huursituatie", field["label"])
	assert.Equal(t, true, field["required"])
}

func TestService_ProposeFields(t *testing.T) {
	srv := newTestService(t)
	client := a2a.NewClient(srv.URL + "/genui/")

	data, err := client.Send(context.Background(), "propose_fields", map[string]any{
		"formId": "form_toeslag",
		"values": map[string]any{"heeft_partner": "ja"},
	})
	require.NoError(t, err)

	fields, _ := data["fields"].([]any)
	require.Len(t, fields, 1)
	field := fields[0].(map[string]any)
	assert.Equal(t, "ext:partner_inkomen", field["id"])
	assert.Equal(t, "number", field["type"])
}

func TestService_AgentCardsAndHealth(t *testing.T) {
	srv := newTestService(t)

	for _, path := range []string{
		"/toeslagen/.well-known/agent-card.json",
		"/bezwaar/.well-known/agent-card.json",
		"/genui/.well-known/agent-card.json",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		var card a2a.Card
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
		resp.Body.Close()
		assert.NotEmpty(t, card.Name, path)
		assert.NotEmpty(t, card.Capabilities, path)
	}

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
