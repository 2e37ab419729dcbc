package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// lotsFetcher serves copies of lots so the caller's fixtures are never
// mutated by ProcessDrawdown
func lotsFetcher(lots ...models.PantryLot) (LotFetcher, *int) {
	byID := make(map[int]models.PantryLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	calls := 0
	return func(id int) (*models.PantryLot, error) {
		calls++
		lot, ok := byID[id]
		if !ok {
			return nil, ErrLotNotFound
		}
		return &lot, nil
	}, &calls
}

func selection(ingredient string, lotID int, amount float64, unit string) models.DrawdownSelection {
	return models.DrawdownSelection{
		Ingredient:    ingredient,
		PantryLotID:   lotID,
		QuantityToUse: models.Quantity{Amount: amount, Unit: unit},
	}
}

func TestProcessDrawdown_PartialUse(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "chicken breast", 2, "lb", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("chicken breast", 1, 1, "lb")}, fetch)
	require.NoError(t, err)

	require.Len(t, result.UpdatedLots, 1)
	assert.Equal(t, 1, result.UpdatedLots[0].ID)
	assert.Equal(t, 1.0, result.UpdatedLots[0].NewAmount)
	assert.Equal(t, 2.0, result.UpdatedLots[0].ExpectedAmount)
	assert.Empty(t, result.DepletedLots)
	assert.Empty(t, result.Insufficient)
	assert.Empty(t, result.Errors)
	assert.True(t, result.HasMutations())
}

func TestProcessDrawdown_DepletesAndFlagsShortfall(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "eggs", 3, "each", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("eggs", 1, 5, "each")}, fetch)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.DepletedLots)
	assert.Empty(t, result.UpdatedLots)
	assert.Equal(t, []string{"eggs"}, result.Insufficient)
	require.Len(t, result.Consumed, 1)
	assert.Equal(t, 3.0, result.Consumed[0].Consumed)
	assert.Equal(t, 5.0, result.Consumed[0].Requested)
	assert.Equal(t, 3.0, result.ExpectedAmounts[1])
}

func TestProcessDrawdown_ExactUseDepletes(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "milk", 1, "cup", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("milk", 1, 236.5882365, "ml")}, fetch)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.DepletedLots)
	assert.Empty(t, result.Insufficient)
}

func TestProcessDrawdown_ConvertsIntoLotUnit(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "butter", 1, "lb", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("butter", 1, 8, "oz")}, fetch)
	require.NoError(t, err)

	require.Len(t, result.UpdatedLots, 1)
	assert.InDelta(t, 0.5, result.UpdatedLots[0].NewAmount, 1e-9)
	require.Len(t, result.Consumed, 1)
	assert.Equal(t, "lb", result.Consumed[0].Unit)
	assert.InDelta(t, 0.5, result.Consumed[0].Consumed, 1e-9)
}

func TestProcessDrawdown_UnconvertibleLeavesLotAlone(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "flour", 500, "g", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("flour", 1, 2, "cups")}, fetch)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.DrawdownUnitMismatch, result.Errors[0].Code)
	assert.Equal(t, "cannot convert cup to g", result.Errors[0].Message)
	assert.Equal(t, 1, result.Errors[0].PantryLotID)
	assert.Empty(t, result.UpdatedLots)
	assert.Empty(t, result.DepletedLots)
	assert.Empty(t, result.ExpectedAmounts)
	assert.False(t, result.HasMutations())
}

func TestProcessDrawdown_DifferentCountUnitsDoNotConvert(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "garlic", 2, "head", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("garlic", 1, 3, "clove")}, fetch)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.DrawdownUnitMismatch, result.Errors[0].Code)
	assert.False(t, result.HasMutations())
}

func TestProcessDrawdown_EmptyFreshLotIsDeleted(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "sugar", 0, "g", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("sugar", 1, 5, "g")}, fetch)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.DepletedLots)
	assert.Empty(t, result.UpdatedLots)
	assert.Equal(t, []string{"sugar"}, result.Insufficient)
	assert.Equal(t, 0.0, result.ExpectedAmounts[1])
	assert.True(t, result.HasMutations())
}

func TestProcessDrawdown_CountUnitSpellings(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "garlic", 6, "clove", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{selection("garlic", 1, 2, "Cloves")}, fetch)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	require.Len(t, result.UpdatedLots, 1)
	assert.Equal(t, 4.0, result.UpdatedLots[0].NewAmount)
}

func TestProcessDrawdown_InvalidQuantity(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "rice", 1, "kg", nil, 0))

	for _, amount := range []float64{0, -2} {
		result, err := ProcessDrawdown([]models.DrawdownSelection{selection("rice", 1, amount, "g")}, fetch)
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.DrawdownInvalidQuantity, result.Errors[0].Code)
		assert.False(t, result.HasMutations())
	}
}

func TestProcessDrawdown_MissingLotIsConcurrentModification(t *testing.T) {
	fetch, _ := lotsFetcher(pantryLot(1, "rice", 1, "kg", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{
		selection("rice", 1, 100, "g"),
		selection("beans", 42, 1, "can"),
	}, fetch)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestProcessDrawdown_FetchFailureIsNotAConflict(t *testing.T) {
	boom := errors.New("connection reset")
	fetch := func(int) (*models.PantryLot, error) { return nil, boom }

	_, err := ProcessDrawdown([]models.DrawdownSelection{selection("rice", 1, 100, "g")}, fetch)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConcurrentModification)
}

func TestProcessDrawdown_SharedLotUsesRunningBalance(t *testing.T) {
	fetch, calls := lotsFetcher(pantryLot(1, "butter", 100, "g", nil, 0))

	result, err := ProcessDrawdown([]models.DrawdownSelection{
		selection("butter", 1, 60, "g"),
		selection("butter for frosting", 1, 60, "g"),
	}, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, []int{1}, result.DepletedLots)
	assert.Empty(t, result.UpdatedLots)
	assert.Equal(t, []string{"butter for frosting"}, result.Insufficient)
	require.Len(t, result.Consumed, 2)
	assert.Equal(t, 60.0, result.Consumed[0].Consumed)
	assert.Equal(t, 40.0, result.Consumed[1].Consumed)
	assert.Equal(t, 100.0, result.ExpectedAmounts[1])
}

func TestProcessDrawdown_LotsAppearOnce(t *testing.T) {
	fetch, _ := lotsFetcher(
		pantryLot(1, "flour", 1, "kg", nil, 0),
		pantryLot(2, "sugar", 500, "g", nil, 0),
	)

	result, err := ProcessDrawdown([]models.DrawdownSelection{
		selection("flour", 1, 200, "g"),
		selection("sugar", 2, 100, "g"),
		selection("flour for dusting", 1, 50, "g"),
	}, fetch)
	require.NoError(t, err)

	require.Len(t, result.UpdatedLots, 2)
	assert.Equal(t, 1, result.UpdatedLots[0].ID)
	assert.InDelta(t, 0.75, result.UpdatedLots[0].NewAmount, 1e-9)
	assert.Equal(t, 2, result.UpdatedLots[1].ID)
	assert.Equal(t, 400.0, result.UpdatedLots[1].NewAmount)
}

func TestProcessDrawdown_NeverOverdraws(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	units := []string{"g", "kg", "oz", "lb"}

	for i := 0; i < 200; i++ {
		lots := []models.PantryLot{
			pantryLot(1, "a", rng.Float64()*5, units[rng.Intn(len(units))], nil, 0),
			pantryLot(2, "b", rng.Float64()*500, units[rng.Intn(len(units))], nil, 0),
		}
		fetch, _ := lotsFetcher(lots...)

		var selections []models.DrawdownSelection
		for j := 0; j < 1+rng.Intn(4); j++ {
			selections = append(selections, selection("x", 1+rng.Intn(2), rng.Float64()*400+0.01, units[rng.Intn(len(units))]))
		}

		result, err := ProcessDrawdown(selections, fetch)
		require.NoError(t, err)

		consumed := map[int]float64{}
		for _, c := range result.Consumed {
			assert.GreaterOrEqual(t, c.Consumed, 0.0)
			assert.LessOrEqual(t, c.Consumed, c.Requested)
			consumed[c.PantryLotID] += c.Consumed
		}
		for _, lot := range lots {
			assert.LessOrEqual(t, consumed[lot.ID], lot.Quantity.Amount+amountEpsilon)
		}
		for _, u := range result.UpdatedLots {
			assert.Greater(t, u.NewAmount, 0.0)
			assert.Less(t, u.NewAmount, u.ExpectedAmount)
		}
	}
}
