package services

import (
	"sort"
	"strings"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// Tier scores. A lot's score is the highest tier it reaches; tiers never add up.
const (
	ScoreExact            = 100.0
	ScorePluralVariant    = 90.0
	ScoreIngredientInLot  = 80.0
	ScoreLotInIngredient  = 70.0
	ScoreSynonym          = 60.0
	ScoreKeywordFloor     = 40.0
	scoreKeywordCeiling   = 59.0
	keywordSpan           = 20.0
	MinCandidateScore     = 40.0
	minSignificantKeyword = 3
)

// keywordStopwords are never significant for keyword overlap
var keywordStopwords = map[string]bool{
	"the": true, "of": true, "and": true, "with": true, "for": true,
	"from": true, "or": true, "in": true, "on": true, "to": true,
	"into": true, "per": true, "plus": true, "style": true,
}

// ItemMatcher ranks pantry lots against a normalized ingredient name
type ItemMatcher struct{}

// NewItemMatcher creates a new item matcher
func NewItemMatcher() *ItemMatcher {
	return &ItemMatcher{}
}

// Match returns every lot scoring at least MinCandidateScore, best first.
// Equal scores are ordered by lot ID; the availability calculator applies
// its own expiration ordering on top.
func (m *ItemMatcher) Match(ingredientName string, lots []models.PantryLot) []models.MatchCandidate {
	ingredient := NormalizeIngredientName(ingredientName)

	var candidates []models.MatchCandidate
	for _, lot := range lots {
		score, tier, ok := m.scoreLot(ingredient, lotName(lot))
		if !ok {
			continue
		}
		candidates = append(candidates, models.MatchCandidate{
			PantryLotID: lot.ID,
			Score:       score,
			Tier:        tier,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].PantryLotID < candidates[j].PantryLotID
	})

	return candidates
}

// lotName returns the normalized name of a lot, falling back to
// normalizing the display name when no canonical name was stored
func lotName(lot models.PantryLot) string {
	if lot.CanonicalName != "" {
		return NormalizeIngredientName(lot.CanonicalName)
	}
	return NormalizeIngredientName(lot.Name)
}

// scoreLot applies the tiers in order and returns the first that fires.
// Tiers are ordered by score, so the first hit is the highest.
func (m *ItemMatcher) scoreLot(ingredient, lot string) (float64, models.MatchTier, bool) {
	if ingredient == "" || lot == "" {
		return 0, "", false
	}

	if ingredient == lot {
		return ScoreExact, models.TierExact, true
	}

	singularIngredient, singularLot := Singularize(ingredient), Singularize(lot)
	if singularIngredient == singularLot {
		return ScorePluralVariant, models.TierPluralVariant, true
	}

	// containment compares normalized names only, never singular forms
	if strings.Contains(lot, ingredient) {
		return ScoreIngredientInLot, models.TierContains, true
	}
	if strings.Contains(ingredient, lot) {
		return ScoreLotInIngredient, models.TierContains, true
	}

	if AreSynonyms(ingredient, lot) {
		return ScoreSynonym, models.TierSynonym, true
	}

	if score, ok := keywordScore(singularIngredient, singularLot); ok {
		return score, models.TierKeyword, true
	}

	return 0, "", false
}

// keywordScore scores shared significant tokens by Jaccard overlap,
// scaled into [ScoreKeywordFloor, ScoreSynonym)
func keywordScore(a, b string) (float64, bool) {
	ta, tb := significantTokens(a), significantTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0, false
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	if shared == 0 {
		return 0, false
	}

	union := len(ta) + len(tb) - shared
	jaccard := float64(shared) / float64(union)
	score := ScoreKeywordFloor + keywordSpan*jaccard
	if score > scoreKeywordCeiling {
		score = scoreKeywordCeiling
	}
	return score, true
}

// significantTokens returns the tokens longer than two characters that are
// not stopwords
func significantTokens(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(name) {
		if len(tok) < minSignificantKeyword || keywordStopwords[tok] {
			continue
		}
		tokens[tok] = true
	}
	return tokens
}

// GetMatchConfidenceLevel returns a human-readable confidence level
func GetMatchConfidenceLevel(score float64) string {
	switch {
	case score >= ScorePluralVariant:
		return "high"
	case score >= ScoreLotInIngredient:
		return "medium"
	case score >= MinCandidateScore:
		return "low"
	default:
		return "none"
	}
}
