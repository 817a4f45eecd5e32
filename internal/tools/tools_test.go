package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesLookup(t *testing.T) {
	t.Run("huurtoeslag gets year note from 2025", func(t *testing.T) {
		result := RulesLookup("Huurtoeslag", 2025)
		assert.Equal(t, "huurtoeslag", result.Regeling)
		require.Len(t, result.Voorwaarden, 5)
		assert.Equal(t, "H5", result.Voorwaarden[4].ID)
	})

	t.Run("huur before 2025 has four conditions", func(t *testing.T) {
		result := RulesLookup("huur", 2024)
		assert.Len(t, result.Voorwaarden, 4)
	})

	t.Run("zorg", func(t *testing.T) {
		result := RulesLookup("zorg", 2025)
		require.Len(t, result.Voorwaarden, 3)
		assert.Equal(t, "Z2", result.Voorwaarden[1].ID)
	})

	t.Run("unknown regeling", func(t *testing.T) {
		result := RulesLookup("", 0)
		assert.Equal(t, "onbekend", result.Regeling)
		assert.Equal(t, 2025, result.Jaar)
		require.Len(t, result.Voorwaarden, 1)
		assert.Equal(t, "X1", result.Voorwaarden[0].ID)
	})
}

func TestDocChecklist(t *testing.T) {
	result := DocChecklist("huur", "samenwonend met partner en kind")
	assert.Contains(t, result.Documenten, "Huurcontract")
	assert.Contains(t, result.Documenten, "Gegevens partner (inkomen/vermogen)")
	assert.Contains(t, result.Documenten, "Gegevens kinderen (indien relevant)")

	base := DocChecklist("", "")
	assert.Equal(t, "onbekend", base.Regeling)
	assert.Len(t, base.Documenten, 2)
}

func TestRiskNotes(t *testing.T) {
	t.Run("thresholds", func(t *testing.T) {
		result := RiskNotes(map[string]any{"inkomen": "50000", "vermogen": 90000.0})
		codes := noteCodes(result)
		assert.Contains(t, codes, "R1")
		assert.Contains(t, codes, "R3")
	})

	t.Run("low income with comma decimal", func(t *testing.T) {
		result := RiskNotes(map[string]any{"inkomen": "12000,50"})
		assert.Contains(t, noteCodes(result), "R2")
	})

	t.Run("situation keywords", func(t *testing.T) {
		result := RiskNotes(map[string]any{"situatie": "student, net gescheiden"})
		codes := noteCodes(result)
		assert.Contains(t, codes, "R4")
		assert.Contains(t, codes, "R5")
	})

	t.Run("no findings yields R0", func(t *testing.T) {
		result := RiskNotes(map[string]any{})
		require.Len(t, result.Aandachtspunten, 1)
		assert.Equal(t, "R0", result.Aandachtspunten[0].Code)
	})
}

func noteCodes(r RiskResult) []string {
	codes := make([]string, 0, len(r.Aandachtspunten))
	for _, n := range r.Aandachtspunten {
		codes = append(codes, n.Code)
	}
	return codes
}

func TestExtractEntities(t *testing.T) {
	result := ExtractEntities("Op 12-03-2025 kreeg ik een naheffing over mijn huurtoeslag.")
	require.NotNil(t, result.Datum)
	assert.Equal(t, "12-03-2025", *result.Datum)
	// Later keyword rules win: huur overrides toeslag, boete overrides huur.
	assert.Equal(t, "boete/naheffing", result.Onderwerp)

	amount := ExtractEntities("Het gaat om een bedrag van € 1.250,00 aan zorgtoeslag.")
	require.NotNil(t, amount.Bedrag)
	assert.Equal(t, "1.250,00", *amount.Bedrag)
	assert.Equal(t, "zorgtoeslag", amount.Onderwerp)

	empty := ExtractEntities("")
	assert.Nil(t, empty.Datum)
	assert.Nil(t, empty.Bedrag)
	assert.Equal(t, "onbekend", empty.Onderwerp)
}

func TestClassifyCase(t *testing.T) {
	c := ClassifyCase("Ik ben het niet eens met de boete, de brief kwam te laat.")
	assert.Equal(t, "Boete/Naheffing", c.Type)
	assert.Equal(t, "Termijn/ontvankelijkheid", c.Reason)
	assert.InDelta(t, 0.65, c.Confidence, 0.001)

	d := ClassifyCase("")
	assert.Equal(t, "Algemeen bezwaar", d.Type)
}

func TestPolicySnippets(t *testing.T) {
	assert.Len(t, PolicySnippets("Toeslagen").Snippets, 2)
	assert.Contains(t, PolicySnippets("Boete/Naheffing").Snippets[0], "proportionaliteit")
	assert.Contains(t, PolicySnippets("").Snippets[0], "feiten")
}
