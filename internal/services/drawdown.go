package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// amountEpsilon absorbs floating point noise from unit conversion; an
// amount at or below it counts as zero
const amountEpsilon = 1e-6

// LotFetcher returns the current state of a pantry lot. It must read fresh
// data, not the snapshot availability was calculated from.
type LotFetcher func(id int) (*models.PantryLot, error)

// ProcessDrawdown turns confirmed selections into a mutation plan. Nothing
// is written; the caller commits the plan atomically.
//
// A lot that has disappeared since availability was calculated yields
// ErrConcurrentModification. Unconvertible units and non-positive amounts
// are recorded in result.Errors and leave the lot untouched. Several
// selections against the same lot draw from one running balance, so each
// lot appears at most once in the plan.
func ProcessDrawdown(selections []models.DrawdownSelection, fetch LotFetcher) (*models.DrawdownResult, error) {
	result := &models.DrawdownResult{
		UpdatedLots:     []models.LotUpdate{},
		DepletedLots:    []int{},
		Insufficient:    []string{},
		Errors:          []models.DrawdownError{},
		Consumed:        []models.Consumption{},
		ExpectedAmounts: make(map[int]float64),
	}

	lots := make(map[int]*models.PantryLot)
	balances := make(map[int]float64)
	var order []int
	insufficient := make(map[string]bool)

	for _, sel := range selections {
		lot, ok := lots[sel.PantryLotID]
		if !ok {
			fetched, err := fetch(sel.PantryLotID)
			if err != nil {
				if errors.Is(err, ErrLotNotFound) {
					return nil, fmt.Errorf("lot %d: %w", sel.PantryLotID, ErrConcurrentModification)
				}
				return nil, fmt.Errorf("failed to fetch lot %d: %w", sel.PantryLotID, err)
			}
			if fetched == nil {
				return nil, fmt.Errorf("lot %d: %w", sel.PantryLotID, ErrConcurrentModification)
			}
			lot = fetched
			lots[lot.ID] = lot
			balances[lot.ID] = math.Max(lot.Quantity.Amount, 0)
			result.ExpectedAmounts[lot.ID] = lot.Quantity.Amount
			order = append(order, lot.ID)
		}

		if sel.QuantityToUse.Amount <= 0 || math.IsNaN(sel.QuantityToUse.Amount) || math.IsInf(sel.QuantityToUse.Amount, 0) {
			result.Errors = append(result.Errors, models.DrawdownError{
				Ingredient:  sel.Ingredient,
				PantryLotID: lot.ID,
				Code:        models.DrawdownInvalidQuantity,
				Message:     fmt.Sprintf("quantity to use must be positive, got %g", sel.QuantityToUse.Amount),
			})
			continue
		}

		use, ok := ConvertAmount(sel.QuantityToUse.Amount, CanonicalUnit(sel.QuantityToUse.Unit), CanonicalUnit(lot.Quantity.Unit))
		if !ok {
			result.Errors = append(result.Errors, models.DrawdownError{
				Ingredient:  sel.Ingredient,
				PantryLotID: lot.ID,
				Code:        models.DrawdownUnitMismatch,
				Message: fmt.Sprintf("cannot convert %s to %s",
					CanonicalUnit(sel.QuantityToUse.Unit), CanonicalUnit(lot.Quantity.Unit)),
			})
			continue
		}

		current := balances[lot.ID]
		subtract := math.Min(use, current)
		if subtract+amountEpsilon < use && !insufficient[sel.Ingredient] {
			insufficient[sel.Ingredient] = true
			result.Insufficient = append(result.Insufficient, sel.Ingredient)
		}

		balances[lot.ID] = math.Max(current-subtract, 0)
		result.Consumed = append(result.Consumed, models.Consumption{
			Ingredient:  sel.Ingredient,
			PantryLotID: lot.ID,
			Requested:   use,
			Consumed:    subtract,
			Unit:        lot.Quantity.Unit,
		})
	}

	for _, id := range order {
		lot := lots[id]
		remaining := balances[id]
		if remaining <= amountEpsilon {
			result.DepletedLots = append(result.DepletedLots, id)
			continue
		}
		if remaining == lot.Quantity.Amount {
			delete(result.ExpectedAmounts, id)
			continue
		}
		result.UpdatedLots = append(result.UpdatedLots, models.LotUpdate{
			ID:             id,
			NewAmount:      remaining,
			ExpectedAmount: lot.Quantity.Amount,
		})
	}

	return result, nil
}
