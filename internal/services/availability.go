package services

import (
	"sort"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// CalculateAvailability classifies every ingredient against a pantry
// snapshot and proposes a default lot for each. Lots holding nothing are
// ignored. Quantities are never combined across lots: an ingredient that
// only several lots together could cover is partial.
func CalculateAvailability(ingredients []models.RecipeIngredient, pantry []models.PantryLot) []models.IngredientAvailability {
	active := activeLots(pantry)
	byID := make(map[int]models.PantryLot, len(active))
	for _, lot := range active {
		byID[lot.ID] = lot
	}

	matcher := NewItemMatcher()
	results := make([]models.IngredientAvailability, 0, len(ingredients))
	for _, ing := range ingredients {
		results = append(results, ingredientAvailability(matcher, ing, active, byID))
	}
	return results
}

func ingredientAvailability(matcher *ItemMatcher, ing models.RecipeIngredient, active []models.PantryLot, byID map[int]models.PantryLot) models.IngredientAvailability {
	name := ing.ParsedName
	if name == "" {
		name = ing.RawText
	}

	result := models.IngredientAvailability{
		Ingredient: ing,
		Status:     models.StatusMissing,
		Candidates: []models.CandidateOption{},
	}

	covered := false
	for _, cand := range matcher.Match(name, active) {
		lot := byID[cand.PantryLotID]
		option := models.CandidateOption{
			MatchCandidate: cand,
			LotName:        lot.Name,
			Available:      lot.Quantity,
			ExpirationDate: lot.ExpirationDate,
			CreatedAt:      lot.CreatedAt,
		}

		cmp := CompareQuantities(ing.Required, lot.Quantity)
		if !cmp.Convertible {
			result.Unconvertible = append(result.Unconvertible, option)
			continue
		}
		option.Convertible = true
		option.AvailableInRequiredUnit = cmp.Available
		option.Covers = cmp.Sufficient
		covered = covered || cmp.Sufficient
		result.Candidates = append(result.Candidates, option)
	}

	SortBySelectionOrder(result.Candidates)
	SortBySelectionOrder(result.Unconvertible)

	if len(result.Candidates) > 0 {
		first := result.Candidates[0]
		result.DefaultSelection = &first
		result.Status = models.StatusPartial
		if covered {
			result.Status = models.StatusAvailable
		}
	}

	return result
}

// SortBySelectionOrder orders candidates soonest-expiring first, lots
// without an expiration date last, then oldest stock first, then by ID
func SortBySelectionOrder(options []models.CandidateOption) {
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		switch {
		case a.ExpirationDate != nil && b.ExpirationDate == nil:
			return true
		case a.ExpirationDate == nil && b.ExpirationDate != nil:
			return false
		case a.ExpirationDate != nil && !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.PantryLotID < b.PantryLotID
	})
}

// activeLots drops lots whose amount has reached zero
func activeLots(pantry []models.PantryLot) []models.PantryLot {
	active := make([]models.PantryLot, 0, len(pantry))
	for _, lot := range pantry {
		if lot.Quantity.Amount > amountEpsilon {
			active = append(active, lot)
		}
	}
	return active
}
