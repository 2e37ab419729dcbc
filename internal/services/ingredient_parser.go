package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// IngredientParser splits recipe lines like "1 ½ cups flour" into amount,
// unit and name
type IngredientParser struct {
	bulletPattern           *regexp.Regexp
	quantityPattern         *regexp.Regexp
	rangePattern            *regexp.Regexp
	fractionPattern         *regexp.Regexp
	wholePattern            *regexp.Regexp
	wholeAndFractionPattern *regexp.Regexp
	parenPattern            *regexp.Regexp
	unitPattern             *regexp.Regexp
	spoonShorthandPattern   *regexp.Regexp
}

// Unicode vulgar fractions mapping
var unicodeFractions = map[rune]float64{
	'\u00BC': 0.25,    // ¼
	'\u00BD': 0.5,     // ½
	'\u00BE': 0.75,    // ¾
	'\u2150': 1.0 / 7, // ⅐
	'\u2151': 1.0 / 9, // ⅑
	'\u2152': 0.1,     // ⅒
	'\u2153': 1.0 / 3, // ⅓
	'\u2154': 2.0 / 3, // ⅔
	'\u2155': 0.2,     // ⅕
	'\u2156': 0.4,     // ⅖
	'\u2157': 0.6,     // ⅗
	'\u2158': 0.8,     // ⅘
	'\u2159': 1.0 / 6, // ⅙
	'\u215A': 5.0 / 6, // ⅚
	'\u215B': 0.125,   // ⅛
	'\u215C': 0.375,   // ⅜
	'\u215D': 0.625,   // ⅝
	'\u215E': 0.875,   // ⅞
}

// Superscript digits for fractions like ¹/₂
var superscriptDigits = map[rune]int{
	'\u2070': 0, '\u00B9': 1, '\u00B2': 2, '\u00B3': 3,
	'\u2074': 4, '\u2075': 5, '\u2076': 6, '\u2077': 7,
	'\u2078': 8, '\u2079': 9,
}

// Subscript digits for fractions like ¹/₂
var subscriptDigits = map[rune]int{
	'\u2080': 0, '\u2081': 1, '\u2082': 2, '\u2083': 3,
	'\u2084': 4, '\u2085': 5, '\u2086': 6, '\u2087': 7,
	'\u2088': 8, '\u2089': 9,
}

// countUnitNormalization folds spellings of count units so "2 cloves" and
// a pantry lot stocked in "clove" compare equal
var countUnitNormalization = map[string]string{
	"pc":       "piece",
	"pcs":      "piece",
	"pieces":   "piece",
	"ct":       "count",
	"ea":       "each",
	"pk":       "pack",
	"packs":    "pack",
	"pkg":      "package",
	"packages": "package",
	"bunches":  "bunch",
	"heads":    "head",
	"cloves":   "clove",
	"sprigs":   "sprig",
	"stalks":   "stalk",
	"slices":   "slice",
	"cans":     "can",
	"jars":     "jar",
	"bags":     "bag",
	"boxes":    "box",
	"bottles":  "bottle",
	"sticks":   "stick",
	"dashes":   "dash",
	"pinches":  "pinch",
	"handfuls": "handful",
}

// CanonicalUnit returns the unit string recipes and pantry lots are stored
// with: the canonical weight or volume unit, or a singular count unit
func CanonicalUnit(unit string) string {
	u := LookupUnit(unit).Unit
	if normalized, ok := countUnitNormalization[u]; ok {
		return normalized
	}
	return u
}

// NewIngredientParser creates a new parser instance
func NewIngredientParser() *IngredientParser {
	return &IngredientParser{
		// Match list markers: "- ", "* ", "- [ ] "
		bulletPattern: regexp.MustCompile(`^\s*(?:[-*•]\s*(?:\[[ xX]?\]\s*)?)`),

		// Match quantity at start: 1, 1.5, etc.
		quantityPattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*`),

		// Match quantity range: 2-3, 2.5 - 3, 2 to 3
		rangePattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*`),

		// Match ASCII fraction: 1/2, 3/4
		fractionPattern: regexp.MustCompile(`^(\d+)/(\d+)\s*`),

		wholePattern:            regexp.MustCompile(`^(\d+)\s*`),
		wholeAndFractionPattern: regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)\s*`),
		parenPattern:            regexp.MustCompile(`\(([^)]*)\)`),

		// Match units (case insensitive) - order matters, longer patterns first
		// "1 T sugar", "2 t. salt": case decides tablespoon or teaspoon
		spoonShorthandPattern: regexp.MustCompile(`^([Tt])\.?\s+`),

		unitPattern: regexp.MustCompile(`(?i)^(tablespoons?|teaspoons?|fluid ounces?|fl\.? oz|milliliters?|millilitres?|milligrams?|kilograms?|packages?|gallons?|bottles?|bunch(?:es)?|handfuls?|ounces?|pounds?|pieces?|liters?|litres?|sprigs?|stalks?|slices?|cloves?|quarts?|pinch(?:es)?|pints?|dash(?:es)?|sticks?|heads?|grams?|box(?:es)?|cups?|cans?|jars?|bags?|tbsp|floz|tsp|tbs|pkg|gal|lbs|kgs|qt|pt|oz|lb|ml|mg|kg|cl|dl|ct|ea|pk|pc|g|l|c)\b\.?\s*`),
	}
}

// ParseLine resolves one recipe line. Amount and unit supplied by the
// recipe provider win over what is parsed from the raw text. A line
// without a unit is a bare count ("3 eggs"); a line without an amount
// ("salt to taste") defaults to one.
func (p *IngredientParser) ParseLine(line models.RecipeIngredientLine) models.RecipeIngredient {
	amount, unit, name := p.parseText(line.RawText)
	if line.Amount != nil {
		amount = *line.Amount
	}
	if line.Unit != nil {
		unit = *line.Unit
	}

	return models.RecipeIngredient{
		RawText:    line.RawText,
		ParsedName: NormalizeIngredientName(name),
		Required: models.Quantity{
			Amount: amount,
			Unit:   CanonicalUnit(unit),
		},
	}
}

// ParseLines resolves every line of a recipe
func (p *IngredientParser) ParseLines(lines []models.RecipeIngredientLine) []models.RecipeIngredient {
	ingredients := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.RawText) == "" {
			continue
		}
		ingredients = append(ingredients, p.ParseLine(line))
	}
	return ingredients
}

// parseText splits raw text into amount, unit and the remaining name text
func (p *IngredientParser) parseText(raw string) (float64, string, string) {
	remaining := strings.TrimSpace(raw)
	if loc := p.bulletPattern.FindStringIndex(remaining); loc != nil {
		remaining = remaining[loc[1]:]
	}

	// Step 1: Extract quantity (including fractions and ranges)
	remaining, amount := p.extractQuantity(remaining)

	// Step 2: Drop size notes such as "(14 oz)" so the unit after them is found
	remaining = strings.TrimSpace(p.parenPattern.ReplaceAllString(remaining, " "))

	// Step 3: Extract unit
	remaining, unit := p.extractUnit(remaining)

	// Step 4: Drop "of" in "2 cups of flour"
	remaining = strings.TrimSpace(strings.TrimPrefix(remaining, "of "))

	return amount, unit, p.cleanName(remaining)
}

// extractQuantity handles all quantity formats
func (p *IngredientParser) extractQuantity(s string) (string, float64) {
	s = strings.TrimSpace(s)
	quantity := 1.0

	// Check for range first (e.g., "2.5 - 3")
	if matches := p.rangePattern.FindStringSubmatch(s); len(matches) == 3 {
		low, _ := strconv.ParseFloat(matches[1], 64)
		high, _ := strconv.ParseFloat(matches[2], 64)
		quantity = (low + high) / 2 // Use average
		return strings.TrimSpace(s[len(matches[0]):]), quantity
	}

	// Check for whole number + Unicode fraction (e.g., "1 ½" or "1½")
	if matches := p.wholePattern.FindStringSubmatch(s); len(matches) == 2 {
		afterWhole := s[len(matches[0]):]
		rest, unicodeQty := p.extractUnicodeFraction(afterWhole)
		if unicodeQty > 0 {
			whole, _ := strconv.ParseFloat(matches[1], 64)
			return rest, whole + unicodeQty
		}
	}

	// Check for whole number + ASCII fraction (e.g., "1 1/2")
	if matches := p.wholeAndFractionPattern.FindStringSubmatch(s); len(matches) == 4 {
		whole, _ := strconv.ParseFloat(matches[1], 64)
		num, _ := strconv.ParseFloat(matches[2], 64)
		denom, _ := strconv.ParseFloat(matches[3], 64)
		if denom != 0 {
			quantity = whole + (num / denom)
		}
		return strings.TrimSpace(s[len(matches[0]):]), quantity
	}

	// Check for Unicode fractions and superscript/subscript combinations at the start
	if rest, unicodeQty := p.extractUnicodeFraction(s); unicodeQty > 0 {
		return rest, unicodeQty
	}

	// Check for simple fraction (e.g., "1/2")
	if matches := p.fractionPattern.FindStringSubmatch(s); len(matches) == 3 {
		num, _ := strconv.ParseFloat(matches[1], 64)
		denom, _ := strconv.ParseFloat(matches[2], 64)
		if denom != 0 {
			quantity = num / denom
		}
		return strings.TrimSpace(s[len(matches[0]):]), quantity
	}

	// Check for decimal or whole number (e.g., "1.5", "2")
	if matches := p.quantityPattern.FindStringSubmatch(s); len(matches) == 2 {
		quantity, _ = strconv.ParseFloat(matches[1], 64)
		s = strings.TrimSpace(s[len(matches[0]):])
	}

	return s, quantity
}

// extractUnicodeFraction handles Unicode vulgar fractions and superscript/subscript
func (p *IngredientParser) extractUnicodeFraction(s string) (string, float64) {
	runes := []rune(s)
	idx := 0

	// Skip leading whitespace
	for idx < len(runes) && unicode.IsSpace(runes[idx]) {
		idx++
	}
	if idx >= len(runes) {
		return s, 0
	}

	// Check for single Unicode vulgar fraction
	if val, ok := unicodeFractions[runes[idx]]; ok {
		return strings.TrimSpace(string(runes[idx+1:])), val
	}

	// Check for superscript/subscript fraction (e.g., ¹/₂ or ¹⁄₂)
	numerator := 0
	hasNumerator := false
	for idx < len(runes) {
		digit, ok := superscriptDigits[runes[idx]]
		if !ok {
			break
		}
		numerator = numerator*10 + digit
		hasNumerator = true
		idx++
	}

	if !hasNumerator || idx >= len(runes) || (runes[idx] != '\u2044' && runes[idx] != '/') {
		return s, 0
	}
	idx++

	denominator := 0
	hasDenominator := false
	for idx < len(runes) {
		digit, ok := subscriptDigits[runes[idx]]
		if !ok {
			break
		}
		denominator = denominator*10 + digit
		hasDenominator = true
		idx++
	}

	if !hasDenominator || denominator == 0 {
		return s, 0
	}
	return strings.TrimSpace(string(runes[idx:])), float64(numerator) / float64(denominator)
}

// extractUnit extracts the unit token, leaving canonicalisation to CanonicalUnit
func (p *IngredientParser) extractUnit(s string) (string, string) {
	s = strings.TrimSpace(s)

	if matches := p.spoonShorthandPattern.FindStringSubmatch(s); len(matches) == 2 {
		return s[len(matches[0]):], matches[1]
	}

	if matches := p.unitPattern.FindStringSubmatch(s); len(matches) >= 2 {
		unit := strings.ToLower(matches[1])
		return strings.TrimSpace(s[len(matches[0]):]), unit
	}

	return s, ""
}

// cleanName cleans up the ingredient name
func (p *IngredientParser) cleanName(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".,;:-_")
	return strings.Join(strings.Fields(s), " ")
}
