package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	parenthetical = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	// " - Fresh", " – Fresh", "—fresh": everything after a dash separator is a note
	dashSeparator = regexp.MustCompile(`\s+[-–—]+\s+|[–—]`)
	quantityToken = regexp.MustCompile(`^[\d.,/\x{00B2}\x{00B3}\x{00B9}\x{00BC}-\x{00BE}\x{2150}-\x{215E}\x{2044}\x{2070}-\x{2089}x-]*[\d\x{00B2}\x{00B3}\x{00B9}\x{00BC}-\x{00BE}\x{2150}-\x{215E}\x{2070}-\x{2089}][\d.,/\x{00B2}\x{00B3}\x{00B9}\x{00BC}-\x{00BE}\x{2150}-\x{215E}\x{2044}\x{2070}-\x{2089}x-]*$`)
	// "500g", "1.5kg", "12oz."
	numberWithUnit = regexp.MustCompile(`^[\d.,/]+([a-z]+)\.?$`)
)

// noiseWords are brand/marketing adjectives and preparation modifiers that
// never change what the ingredient is
var noiseWords = map[string]bool{
	// Marketing
	"organic": true, "natural": true, "premium": true, "fresh": true,
	"freshly": true, "quality": true, "select": true, "choice": true,
	"classic": true, "original": true, "homestyle": true, "artisan": true,
	"gourmet": true, "farm": true, "local": true, "brand": true,
	"value": true, "family": true, "size": true, "pack": true,
	"kirkland": true, "signature": true, "great": true, "kroger": true,
	"trader": true, "joes": true,

	// Preparation and size modifiers
	"chopped": true, "diced": true, "minced": true, "sliced": true,
	"grated": true, "shredded": true, "crushed": true, "peeled": true,
	"cubed": true, "halved": true, "quartered": true, "julienned": true,
	"finely": true, "roughly": true, "coarsely": true, "thinly": true,
	"large": true, "medium": true, "small": true, "extra": true,
	"boneless": true, "skinless": true, "softened": true, "melted": true,
	"room": true, "temperature": true, "divided": true, "optional": true,
	"packed": true, "heaping": true, "level": true, "about": true,
	"approximately": true, "approx": true,
}

// abbreviations expands receipt-style shorthand that pantry lots often
// carry when they were entered from a till receipt
var abbreviations = map[string]string{
	"org":   "organic",
	"whl":   "whole",
	"chkn":  "chicken",
	"brst":  "breast",
	"bnls":  "boneless",
	"sknls": "skinless",
	"lrg":   "large",
	"med":   "medium",
	"sml":   "small",
	"frsh":  "fresh",
	"frzn":  "frozen",
	"slf":   "self",
	"rsg":   "rising",
	"flr":   "flour",
	"veg":   "vegetable",
	"vegs":  "vegetables",
	"frt":   "fruit",
	"jce":   "juice",
	"mlk":   "milk",
	"chse":  "cheese",
	"brd":   "bread",
	"wht":   "white",
	"brn":   "brown",
	"grn":   "green",
	"yel":   "yellow",
	"blk":   "black",
}

// leadingStopwords are dropped from the front of a name ("of flour")
var leadingStopwords = map[string]bool{
	"of": true, "a": true, "an": true, "the": true, "some": true, "x": true,
}

// unitWords are unit tokens stripped when they directly follow a quantity
var unitWords = func() map[string]bool {
	words := map[string]bool{
		"fl": true, "t": true, "can": true, "cans": true, "jar": true, "jars": true,
		"bag": true, "bags": true, "box": true, "boxes": true, "bottle": true,
		"bottles": true, "package": true, "packages": true, "pkg": true,
		"pk": true, "ct": true, "ea": true, "each": true, "piece": true,
		"pieces": true, "pc": true, "pcs": true, "clove": true, "cloves": true,
		"bunch": true, "bunches": true, "head": true, "heads": true,
		"slice": true, "slices": true, "stick": true, "sticks": true,
		"pinch": true, "pinches": true, "dash": true, "dashes": true,
		"sprig": true, "sprigs": true, "stalk": true, "stalks": true,
		"handful": true, "handfuls": true,
	}
	for u := range measuredUnits {
		if !strings.Contains(u, " ") {
			words[u] = true
		}
	}
	for alias := range unitAliases {
		if !strings.Contains(alias, " ") {
			words[alias] = true
		}
	}
	return words
}()

// NormalizeIngredientName reduces free ingredient text to a canonical
// comparable name: "2 lbs Organic Chicken Breast – Fresh" -> "chicken breast".
// The result contains only lowercase letters and single spaces, so
// normalizing it again is a no-op. When nothing is left after stripping,
// the trimmed lowercased input is returned instead of an empty key.
func NormalizeIngredientName(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	name, _, err := transform.String(foldAccents, lowered)
	if err != nil {
		name = lowered
	}

	name = parenthetical.ReplaceAllString(name, " ")
	if loc := dashSeparator.FindStringIndex(name); loc != nil && loc[0] > 0 {
		name = name[:loc[0]]
	}
	if idx := strings.Index(name, ","); idx > 0 {
		name = name[:idx]
	}

	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	afterQuantity := false
	for _, tok := range tokens {
		if quantityToken.MatchString(tok) {
			afterQuantity = true
			continue
		}
		if m := numberWithUnit.FindStringSubmatch(tok); m != nil && unitWords[m[1]] {
			afterQuantity = true
			continue
		}
		word := cleanWord(tok)
		if afterQuantity && unitWords[strings.TrimSuffix(word, ".")] {
			continue
		}
		afterQuantity = false
		for _, part := range strings.Fields(word) {
			if full, ok := abbreviations[part]; ok {
				part = full
			}
			if noiseWords[part] {
				continue
			}
			if len(kept) == 0 && leadingStopwords[part] {
				continue
			}
			kept = append(kept, part)
		}
	}

	if len(kept) == 0 {
		return lowered
	}
	return strings.Join(kept, " ")
}

// cleanWord keeps letters, turns hyphens and slashes into spaces and drops
// everything else (digits, punctuation, apostrophes)
func cleanWord(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '/' || r == '&' || r == '+':
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// singularExceptions are words that end in "s" but are not plurals
var singularExceptions = map[string]bool{
	"swiss": true, "hummus": true, "couscous": true, "asparagus": true,
	"molasses": true, "citrus": true, "octopus": true, "hibiscus": true,
	"chess": true, "grits": true, "oats": true, "brussels": true,
	"lemongrass": true, "bass": true, "watercress": true, "anise": true,
	"series": true, "species": true, "gas": true, "plus": true,
	"news": true, "this": true,
}

// irregularSingulars covers plurals the suffix rules get wrong
var irregularSingulars = map[string]string{
	"leaves":    "leaf",
	"loaves":    "loaf",
	"halves":    "half",
	"knives":    "knife",
	"calves":    "calf",
	"geese":     "goose",
	"mice":      "mouse",
	"teeth":     "tooth",
	"feet":      "foot",
	"children":  "child",
	"cookies":   "cookie",
	"pies":      "pie",
	"ties":      "tie",
	"shoes":     "shoe",
	"olives":    "olive",
	"chives":    "chive",
	"cloves":    "clove",
	"endives":   "endive",
	"anchovies": "anchovy",
}

// Singularize returns the singular form of every word in a normalized name
func Singularize(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = singularWord(w)
	}
	return strings.Join(words, " ")
}

func singularWord(w string) string {
	if s, ok := irregularSingulars[w]; ok {
		return s
	}
	if len(w) <= 3 || singularExceptions[w] || strings.HasSuffix(w, "ss") ||
		strings.HasSuffix(w, "us") || strings.HasSuffix(w, "is") || !strings.HasSuffix(w, "s") {
		return w
	}

	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes"),
		strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	default:
		return w[:len(w)-1]
	}
}
