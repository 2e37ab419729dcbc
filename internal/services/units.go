package services

import (
	"strings"
)

// UnitCategory is the conversion family a unit belongs to
type UnitCategory string

const (
	CategoryWeight UnitCategory = "weight"
	CategoryVolume UnitCategory = "volume"
	CategoryCount  UnitCategory = "count"
)

// Base units per category. Count has no base: count units only compare
// to the identical unit string.
const (
	BaseWeightUnit = "g"
	BaseVolumeUnit = "ml"
	DefaultCount   = "each"
)

// UnitInfo describes a resolved unit
type UnitInfo struct {
	// Unit is the canonical unit string (e.g. "lb" for "lbs" and "pounds")
	Unit     string
	Category UnitCategory
	// ToBase is the number of base units in one Unit; zero for count units
	ToBase float64
}

// measuredUnits maps canonical weight and volume units to their factors
var measuredUnits = map[string]UnitInfo{
	// Weight (base = g)
	"mg": {Unit: "mg", Category: CategoryWeight, ToBase: 0.001},
	"g":  {Unit: "g", Category: CategoryWeight, ToBase: 1},
	"kg": {Unit: "kg", Category: CategoryWeight, ToBase: 1000},
	"oz": {Unit: "oz", Category: CategoryWeight, ToBase: 28.349523125},
	"lb": {Unit: "lb", Category: CategoryWeight, ToBase: 453.59237},

	// Volume (base = ml)
	"ml":    {Unit: "ml", Category: CategoryVolume, ToBase: 1},
	"cl":    {Unit: "cl", Category: CategoryVolume, ToBase: 10},
	"dl":    {Unit: "dl", Category: CategoryVolume, ToBase: 100},
	"l":     {Unit: "l", Category: CategoryVolume, ToBase: 1000},
	"tsp":   {Unit: "tsp", Category: CategoryVolume, ToBase: 4.92892159375},
	"tbsp":  {Unit: "tbsp", Category: CategoryVolume, ToBase: 14.78676478125},
	"fl oz": {Unit: "fl oz", Category: CategoryVolume, ToBase: 29.5735295625},
	"cup":   {Unit: "cup", Category: CategoryVolume, ToBase: 236.5882365},
	"pint":  {Unit: "pint", Category: CategoryVolume, ToBase: 473.176473},
	"quart": {Unit: "quart", Category: CategoryVolume, ToBase: 946.352946},
	"gal":   {Unit: "gal", Category: CategoryVolume, ToBase: 3785.411784},
}

// unitAliases maps spellings of weight and volume units to their canonical
// form. Count units are deliberately absent: they compare by exact string.
var unitAliases = map[string]string{
	// Weight
	"milligram":  "mg",
	"milligrams": "mg",
	"gram":       "g",
	"grams":      "g",
	"gr":         "g",
	"kilogram":   "kg",
	"kilograms":  "kg",
	"kgs":        "kg",
	"ounce":      "oz",
	"ounces":     "oz",
	"lbs":        "lb",
	"pound":      "lb",
	"pounds":     "lb",

	// Volume - small
	"milliliter":   "ml",
	"milliliters":  "ml",
	"millilitre":   "ml",
	"millilitres":  "ml",
	"centiliter":   "cl",
	"centiliters":  "cl",
	"deciliter":    "dl",
	"deciliters":   "dl",
	"teaspoon":     "tsp",
	"teaspoons":    "tsp",
	"tbs":          "tbsp",
	"tablespoon":   "tbsp",
	"tablespoons":  "tbsp",
	"floz":         "fl oz",
	"fl. oz":       "fl oz",
	"fluid ounce":  "fl oz",
	"fluid ounces": "fl oz",

	// Volume - medium and large
	"c":       "cup",
	"cups":    "cup",
	"pt":      "pint",
	"pints":   "pint",
	"qt":      "quart",
	"quarts":  "quart",
	"gallon":  "gal",
	"gallons": "gal",
	"liter":   "l",
	"liters":  "l",
	"litre":   "l",
	"litres":  "l",
}

// caseSensitiveUnits are recipe shorthands whose case carries the meaning:
// "T" is a tablespoon, "t" a teaspoon
var caseSensitiveUnits = map[string]string{
	"T": "tbsp",
	"t": "tsp",
}

// canonicalUnitString lowercases and collapses whitespace in a unit string.
// An empty unit means a bare count ("3 eggs") and becomes DefaultCount.
func canonicalUnitString(unit string) string {
	u := strings.Join(strings.Fields(strings.ToLower(unit)), " ")
	u = strings.TrimSuffix(u, ".")
	if u == "" {
		return DefaultCount
	}
	return u
}

// LookupUnit resolves a unit string to its category and conversion factor.
// Every unit resolves: anything that is not a known weight or volume unit
// is a count unit identified by its canonical string.
func LookupUnit(unit string) UnitInfo {
	if u, ok := caseSensitiveUnits[strings.TrimSuffix(strings.TrimSpace(unit), ".")]; ok {
		return measuredUnits[u]
	}
	u := canonicalUnitString(unit)
	if alias, ok := unitAliases[u]; ok {
		u = alias
	}
	if info, ok := measuredUnits[u]; ok {
		return info
	}
	return UnitInfo{Unit: u, Category: CategoryCount}
}

// UnitCategoryOf returns the category of a unit string
func UnitCategoryOf(unit string) UnitCategory {
	return LookupUnit(unit).Category
}

// BaseUnitFor returns the base unit of a category, or "" for count
func BaseUnitFor(category UnitCategory) string {
	switch category {
	case CategoryWeight:
		return BaseWeightUnit
	case CategoryVolume:
		return BaseVolumeUnit
	default:
		return ""
	}
}
