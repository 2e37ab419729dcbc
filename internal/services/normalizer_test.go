package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"quantity brand and note", "2 lbs Organic Chicken Breast – Fresh", "chicken breast"},
		{"plain", "flour", "flour"},
		{"unit after quantity", "2 cups flour", "flour"},
		{"leading of", "2 cups of flour", "flour"},
		{"glued unit", "500g Flour", "flour"},
		{"vulgar fraction", "½ cup sugar", "sugar"},
		{"parenthetical and comma note", "1 (14 oz) can diced tomatoes, drained", "tomatoes"},
		{"preparation modifiers", "3 large eggs, beaten", "eggs"},
		{"accents", "Crème Fraîche", "creme fraiche"},
		{"receipt shorthand", "ORG CHKN BRST", "chicken breast"},
		{"hyphenated", "all-purpose flour", "all purpose flour"},
		{"extra whitespace", "  green    onions  ", "green onions"},
		{"trailing punctuation", "salt.", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIngredientName(tt.raw))
		})
	}
}

func TestNormalizeIngredientName_EmptyFallsBackToInput(t *testing.T) {
	assert.Equal(t, "(optional)", NormalizeIngredientName("(optional)"))
	assert.Equal(t, "fresh", NormalizeIngredientName("  Fresh "))
	assert.Equal(t, "2", NormalizeIngredientName("2"))
}

func TestNormalizeIngredientName_Idempotent(t *testing.T) {
	inputs := []string{
		"2 lbs Organic Chicken Breast – Fresh",
		"1 (14 oz) can diced tomatoes, drained",
		"Crème Fraîche",
		"(optional)",
		"Fresh",
		"2",
		"x 2 of the best",
		"1½ cups self-rising flour",
		"¹/₂ tsp salt",
		"",
	}

	for _, in := range inputs {
		once := NormalizeIngredientName(in)
		assert.Equal(t, once, NormalizeIngredientName(once), "input %q", in)
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"eggs":         "egg",
		"tomatoes":     "tomato",
		"berries":      "berry",
		"peaches":      "peach",
		"boxes":        "box",
		"leaves":       "leaf",
		"green onions": "green onion",
		"swiss":        "swiss",
		"hummus":       "hummus",
		"glass":        "glass",
		"molasses":     "molasses",
		"oats":         "oats",
		"pies":         "pie",
		"cookies":      "cookie",
		"chicken":      "chicken",
		"bay leaves":   "bay leaf",
		"peas":         "pea",
	}

	for in, want := range tests {
		assert.Equal(t, want, Singularize(in), "input %q", in)
	}
}
