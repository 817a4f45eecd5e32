package genui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digilab/a2ui/pkg/blocks"
)

func TestFallbackBlocks(t *testing.T) {
	citations := []map[string]any{
		{"title": "Huurtoeslag aanvragen", "url": "https://example.test", "snippet": "Voorwaarden en aanvraag."},
	}
	raw := FallbackBlocks("kan ik huurtoeslag krijgen?", citations)
	require.Len(t, raw, 5)

	kinds := make([]string, len(raw))
	for i, b := range raw {
		kinds[i], _ = b["kind"].(string)
	}
	assert.Equal(t, []string{"callout", "citations", "accordion", "next_questions", "notice"}, kinds)

	body, _ := raw[0]["body"].(string)
	assert.Contains(t, body, "Top-bron: Huurtoeslag aanvragen")

	// The raw set survives the sanitizer untouched.
	anyBlocks := make([]any, len(raw))
	for i, b := range raw {
		anyBlocks[i] = any(b)
	}
	sanitized := blocks.Sanitize(anyBlocks)
	require.Len(t, sanitized, 5)
	for _, b := range sanitized {
		assert.NotEqual(t, blocks.KindUnrecognized, b.BlockKind())
	}
}

func TestFallbackBlocks_NoCitations(t *testing.T) {
	raw := FallbackBlocks("iets anders", nil)
	body, _ := raw[0]["body"].(string)
	assert.NotContains(t, body, "Top-bron")
}

func TestFAQAndNextQuestionsPickTopic(t *testing.T) {
	assert.Contains(t, FAQFor("hoe maak ik bezwaar")[0]["q"], "termijn")
	assert.Contains(t, NextQuestionsFor("uitstel van betaling")[0], "betalingsregeling")
	assert.Len(t, NextQuestionsFor(""), 3)
}

func TestWizardStep(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		raw := WizardStep(nil)
		require.Len(t, raw, 1)
		assert.Equal(t, "decision", raw[0]["kind"])
		assert.Equal(t, "wizard_topic", raw[0]["id"])
	})

	t.Run("topic leads to follow-up", func(t *testing.T) {
		raw := WizardStep([]string{"huurtoeslag"})
		require.Len(t, raw, 1)
		assert.Equal(t, "wizard_woonsituatie", raw[0]["id"])
	})

	t.Run("leaf has advice and follow-up questions", func(t *testing.T) {
		raw := WizardStep([]string{"zorgtoeslag", "nee"})
		require.Len(t, raw, 2)
		assert.Equal(t, "callout", raw[0]["kind"])
		assert.Equal(t, "next_questions", raw[1]["kind"])
		body, _ := raw[0]["body"].(string)
		assert.Contains(t, body, "zorgverzekering")
	})

	t.Run("unknown path restarts", func(t *testing.T) {
		raw := WizardStep([]string{"pindakaas"})
		require.Len(t, raw, 2)
		assert.Equal(t, "notice", raw[0]["kind"])
		assert.Equal(t, "wizard_topic", raw[1]["id"])
	})
}

func TestExtensionFields(t *testing.T) {
	fields := ExtensionFields(map[string]any{"heeft_partner": "ja", "aantal_kinderen": "2"})
	require.Len(t, fields, 2)
	assert.Equal(t, "ext:partner_inkomen", fields[0].ID)
	assert.Equal(t, blocks.FieldNumber, fields[0].Type)
	assert.Equal(t, "ext:kinderen_leeftijden", fields[1].ID)

	assert.Empty(t, ExtensionFields(map[string]any{"heeft_partner": "nee", "aantal_kinderen": 0}))
	assert.Empty(t, ExtensionFields(nil))
}

func TestExtendForm(t *testing.T) {
	base := blocks.Form{
		Kind:   blocks.KindForm,
		FormID: "form_toeslag",
		Fields: []blocks.Field{{ID: "inkomen", Label: "Inkomen", Type: blocks.FieldNumber}},
	}

	t.Run("adds triggered extensions once", func(t *testing.T) {
		extended := ExtendForm(base, map[string]any{"heeft_partner": true})
		require.Len(t, extended.Fields, 2)
		assert.Equal(t, "ext:partner_inkomen", extended.Fields[1].ID)

		again := ExtendForm(extended, map[string]any{"heeft_partner": true})
		assert.Len(t, again.Fields, 2)
	})

	t.Run("prunes retracted extensions", func(t *testing.T) {
		extended := ExtendForm(base, map[string]any{"heeft_partner": true, "aantal_kinderen": 1})
		require.Len(t, extended.Fields, 3)

		pruned := ExtendForm(extended, map[string]any{"heeft_partner": false, "aantal_kinderen": 1})
		require.Len(t, pruned.Fields, 2)
		assert.Equal(t, "inkomen", pruned.Fields[0].ID)
		assert.Equal(t, "ext:kinderen_leeftijden", pruned.Fields[1].ID)
	})
}
