package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_TitleMatchRanksFirst(t *testing.T) {
	result := Search("huurtoeslag aanvragen", 5)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Huurtoeslag aanvragen", result.Items[0].Title)
}

func TestSearch_KeywordBeatsSnippet(t *testing.T) {
	result := Search("kinderopvang", 3)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Kinderopvangtoeslag berekenen", result.Items[0].Title)
}

func TestSearch_NoMatchFallsBackToGeneralSet(t *testing.T) {
	result := Search("xyzzy kwijtscheldingsverzoek", 3)
	assert.Len(t, result.Items, 3)
	// General set keeps dataset order.
	assert.Equal(t, "Huurtoeslag aanvragen", result.Items[0].Title)
}

func TestSearch_DeterministicOrder(t *testing.T) {
	a := Search("bezwaar termijn", 5)
	b := Search("bezwaar termijn", 5)
	assert.Equal(t, a, b)
}

func TestSearch_KDefaultsAndClamps(t *testing.T) {
	assert.Len(t, Search("", 0).Items, 5)
	assert.Len(t, Search("bezwaar", 1).Items, 1)
}
