package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_UnknownKindBecomesPlaceholder(t *testing.T) {
	for _, kind := range []string{"html", "script", "table", "hero", ""} {
		out := Sanitize([]any{map[string]any{"kind": kind, "title": "x"}})

		require.Len(t, out, 1, "kind %q", kind)
		placeholder, ok := out[0].(Unrecognized)
		require.True(t, ok, "kind %q", kind)
		assert.Equal(t, KindUnrecognized, placeholder.Kind)
		assert.Equal(t, kind, placeholder.RawKind)
		assert.NotNil(t, placeholder.Raw)
	}
}

func TestSanitize_AllowedKindsPassThrough(t *testing.T) {
	out := Sanitize([]any{
		map[string]any{"kind": "callout", "title": "Kern", "body": "tekst"},
		map[string]any{"kind": "citations", "title": "Bronnen", "items": []any{
			map[string]any{"title": "p1", "url": "https://example.org", "snippet": "s"},
		}},
		map[string]any{"kind": "next_questions", "title": "Vervolg", "items": []any{"a", "b"}},
	})

	require.Len(t, out, 3)
	assert.Equal(t, Callout{Kind: "callout", Title: "Kern", Body: "tekst"}, out[0])
	cit := out[1].(Citations)
	require.Len(t, cit.Items, 1)
	assert.Equal(t, "p1", cit.Items[0].Title)
	assert.Equal(t, []string{"a", "b"}, out[2].(NextQuestions).Items)
}

func TestSanitize_NonObjectEntriesDropped(t *testing.T) {
	out := Sanitize([]any{"junk", 42, nil, []any{}})
	assert.Empty(t, out)
}

func TestSanitize_CalloutAcceptsTextKey(t *testing.T) {
	out := Sanitize([]any{map[string]any{"kind": "notice", "title": "Let op", "text": "alt body"}})
	assert.Equal(t, "alt body", out[0].(Notice).Body)
}

func TestSanitize_AccordionAlternateKeys(t *testing.T) {
	out := Sanitize([]any{map[string]any{
		"kind":  "accordion",
		"title": "FAQ",
		"items": []any{
			map[string]any{"question": "Q1?", "answer": "A1."},
			map[string]any{"q": "Q2?", "a": "A2."},
			"junk",
		},
	}})

	acc := out[0].(Accordion)
	require.Len(t, acc.Items, 2)
	assert.Equal(t, QA{Q: "Q1?", A: "A1."}, acc.Items[0])
	assert.Equal(t, QA{Q: "Q2?", A: "A2."}, acc.Items[1])
}

func TestSanitize_DecisionTitleAndIDFallbacks(t *testing.T) {
	out := Sanitize([]any{map[string]any{
		"kind":  "decision",
		"title": "Waar gaat het over?",
		"options": []any{
			map[string]any{"label": "Huurtoeslag", "id": "huur"},
			map[string]any{"value": "zorg"},
		},
	}})

	dec := out[0].(Decision)
	assert.Equal(t, "Waar gaat het over?", dec.Question)
	require.Len(t, dec.Options, 2)
	assert.Equal(t, Option{Label: "Huurtoeslag", Value: "huur"}, dec.Options[0])
	assert.Equal(t, Option{Label: "zorg", Value: "zorg"}, dec.Options[1])
}

func TestSanitizeField_UnknownTypeDefaultsToText(t *testing.T) {
	for _, typ := range []string{"checkbox", "file", "password", ""} {
		f := SanitizeField(Field{ID: "f", Label: "F", Type: typ})
		assert.Equal(t, FieldText, f.Type, "type %q", typ)
	}
	f := SanitizeField(Field{ID: "f", Label: "F", Type: FieldNumber})
	assert.Equal(t, FieldNumber, f.Type)
}

func TestSanitize_FormFieldsAndDefaults(t *testing.T) {
	out := Sanitize([]any{map[string]any{
		"kind":  "form",
		"title": "Aanvraag",
		"fields": []any{
			map[string]any{"label": "Naam", "type": "magic"},
		},
	}})

	form := out[0].(Form)
	assert.NotEmpty(t, form.FormID)
	assert.NotEmpty(t, form.SubmitLabel)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, FieldText, form.Fields[0].Type)
	assert.Equal(t, "naam", form.Fields[0].ID)
}

func TestMinimalForm_AlwaysSubmittable(t *testing.T) {
	for _, q := range []string{"", "kan ik huurtoeslag krijgen?", "bezwaar maken", "zorg"} {
		form := MinimalForm(q)
		require.NotEmpty(t, form.Fields, "query %q", q)
		assert.Equal(t, KindForm, form.Kind)
		assert.True(t, form.Fields[0].Required)
		assert.NotEmpty(t, form.SubmitLabel)
	}
}
