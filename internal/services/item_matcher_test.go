package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/pantry-match/internal/models"
)

func lotNamed(id int, name string) models.PantryLot {
	return models.PantryLot{ID: id, Name: name, Quantity: models.Quantity{Amount: 1, Unit: "each"}}
}

func TestItemMatcher_Tiers(t *testing.T) {
	tests := []struct {
		name       string
		ingredient string
		lot        string
		score      float64
		tier       models.MatchTier
	}{
		{"exact", "chicken breast", "Chicken Breast", 100, models.TierExact},
		{"exact after normalization", "2 lbs chicken breast", "Organic Chicken Breast - Fresh", 100, models.TierExact},
		{"plural variant", "eggs", "Egg", 90, models.TierPluralVariant},
		{"ingredient inside lot name", "chicken", "chicken breast", 80, models.TierContains},
		{"lot name inside ingredient", "chicken breast", "chicken", 70, models.TierContains},
		{"ingredient inside plural lot name", "tomato", "cherry tomatoes", 80, models.TierContains},
		{"synonym", "green onions", "Scallions", 60, models.TierSynonym},
		{"synonym other direction", "coriander leaves", "cilantro", 60, models.TierSynonym},
		{"keyword overlap", "brown sugar", "sugar cane syrup", 45, models.TierKeyword},
		{"keyword overlap capped below synonym", "pepper bell", "bell pepper", 59, models.TierKeyword},
	}

	m := NewItemMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.ingredient, []models.PantryLot{lotNamed(1, tt.lot)})
			require.Len(t, got, 1)
			assert.Equal(t, 1, got[0].PantryLotID)
			assert.InDelta(t, tt.score, got[0].Score, 1e-9)
			assert.Equal(t, tt.tier, got[0].Tier)
		})
	}
}

func TestItemMatcher_ExcludesWeakMatches(t *testing.T) {
	m := NewItemMatcher()

	assert.Empty(t, m.Match("milk", []models.PantryLot{lotNamed(1, "bread")}))
	// "of" and two-letter tokens never count as shared keywords
	assert.Empty(t, m.Match("cream of tartar", []models.PantryLot{lotNamed(1, "glass of ox tail")}))
}

func TestItemMatcher_PluralIsNotASubstring(t *testing.T) {
	m := NewItemMatcher()

	// "egg" is inside "eggplant" but "eggs" is not
	assert.Empty(t, m.Match("3 eggs", []models.PantryLot{lotNamed(1, "eggplant")}))
	assert.Empty(t, m.Match("eggplant", []models.PantryLot{lotNamed(1, "eggs")}))
}

func TestItemMatcher_UsesCanonicalName(t *testing.T) {
	lot := lotNamed(1, "Some Brand Thing")
	lot.CanonicalName = "butter"

	got := NewItemMatcher().Match("2 tbsp butter", []models.PantryLot{lot})
	require.Len(t, got, 1)
	assert.Equal(t, models.TierExact, got[0].Tier)
}

func TestItemMatcher_RanksByScore(t *testing.T) {
	lots := []models.PantryLot{
		lotNamed(1, "chicken thigh"),
		lotNamed(2, "chicken breast"),
		lotNamed(3, "chicken"),
		lotNamed(4, "rice"),
	}

	got := NewItemMatcher().Match("chicken breast", lots)
	require.Len(t, got, 3)

	assert.Equal(t, 2, got[0].PantryLotID)
	assert.Equal(t, models.TierExact, got[0].Tier)
	assert.Equal(t, 3, got[1].PantryLotID)
	assert.Equal(t, models.TierContains, got[1].Tier)
	assert.Equal(t, 1, got[2].PantryLotID)
	assert.Equal(t, models.TierKeyword, got[2].Tier)
}

func TestAreSynonyms(t *testing.T) {
	assert.True(t, AreSynonyms("scallions", "green onion"))
	assert.True(t, AreSynonyms("garbanzo beans", "chickpeas"))
	assert.False(t, AreSynonyms("scallion", "scallion"))
	assert.False(t, AreSynonyms("scallion", "onion"))
	assert.False(t, AreSynonyms("flour", "sugar"))
}

func TestGetMatchConfidenceLevel(t *testing.T) {
	assert.Equal(t, "high", GetMatchConfidenceLevel(100))
	assert.Equal(t, "high", GetMatchConfidenceLevel(90))
	assert.Equal(t, "medium", GetMatchConfidenceLevel(80))
	assert.Equal(t, "medium", GetMatchConfidenceLevel(70))
	assert.Equal(t, "low", GetMatchConfidenceLevel(60))
	assert.Equal(t, "low", GetMatchConfidenceLevel(40))
	assert.Equal(t, "none", GetMatchConfidenceLevel(39.9))
}
