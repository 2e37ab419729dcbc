package services

import (
	"github.com/foxxcyber/pantry-match/internal/models"
)

// Comparison is the outcome of comparing a required quantity against an
// available one. Convertible is false when the two units are in different
// categories (or are different count units); that means "cannot verify",
// not "insufficient".
type Comparison struct {
	Convertible bool
	// Required and Available are both expressed in the required unit
	Required   float64
	Available  float64
	Unit       string
	Sufficient bool
}

// ToBase converts an amount to its category's base unit. For count units
// the amount is returned unchanged.
func ToBase(amount float64, unit string) (float64, UnitCategory) {
	info := LookupUnit(unit)
	if info.Category == CategoryCount {
		return amount, CategoryCount
	}
	return amount * info.ToBase, info.Category
}

// FromBase converts an amount in the category base unit back to unit
func FromBase(amount float64, unit string) float64 {
	info := LookupUnit(unit)
	if info.Category == CategoryCount {
		return amount
	}
	return amount / info.ToBase
}

// Convertible reports whether amounts in the two units can be compared
func Convertible(from, to string) bool {
	a, b := LookupUnit(from), LookupUnit(to)
	if a.Category != b.Category {
		return false
	}
	if a.Category == CategoryCount {
		return a.Unit == b.Unit
	}
	return true
}

// ConvertAmount expresses amount (in unit from) in unit to. ok is false
// when no conversion exists.
func ConvertAmount(amount float64, from, to string) (float64, bool) {
	if !Convertible(from, to) {
		return 0, false
	}
	a, b := LookupUnit(from), LookupUnit(to)
	if a.Category == CategoryCount || a.Unit == b.Unit {
		return amount, true
	}
	return amount * a.ToBase / b.ToBase, true
}

// CompareQuantities checks an available quantity against a required one
func CompareQuantities(required, available models.Quantity) Comparison {
	availableInRequired, ok := ConvertAmount(available.Amount, available.Unit, required.Unit)
	if !ok {
		return Comparison{Convertible: false, Required: required.Amount, Unit: required.Unit}
	}

	return Comparison{
		Convertible: true,
		Required:    required.Amount,
		Available:   availableInRequired,
		Unit:        required.Unit,
		Sufficient:  availableInRequired+amountEpsilon >= required.Amount,
	}
}
