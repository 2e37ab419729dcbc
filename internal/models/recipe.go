package models

import (
	"encoding/json"
	"time"
)

// Recipe is a stored recipe with its raw ingredient lines
type Recipe struct {
	ID          int                    `json:"id"`
	OwnerID     int                    `json:"owner_id"`
	Title       string                 `json:"title"`
	Ingredients []RecipeIngredientLine `json:"ingredients"`
	CreatedAt   time.Time              `json:"created_at"`
}

// RecipeIngredientLine is an ingredient as the recipe provider supplies it.
// Amount and Unit are optional; when absent they are parsed from RawText.
type RecipeIngredientLine struct {
	RawText string   `json:"raw_text"`
	Amount  *float64 `json:"amount,omitempty"`
	Unit    *string  `json:"unit,omitempty"`
}

// UnmarshalJSON accepts either a bare string ("2 cups flour") or an object
func (l *RecipeIngredientLine) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*l = RecipeIngredientLine{RawText: raw}
		return nil
	}

	type line RecipeIngredientLine
	var obj line
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = RecipeIngredientLine(obj)
	return nil
}

// CreateRecipeRequest is the request body for storing a recipe
type CreateRecipeRequest struct {
	Title       string                 `json:"title"`
	Ingredients []RecipeIngredientLine `json:"ingredients"`
}

// AvailabilityRequest checks ad-hoc ingredient lines against the pantry
type AvailabilityRequest struct {
	Ingredients []RecipeIngredientLine `json:"ingredients"`
}

// CompleteRecipeRequest carries the selections the user confirmed
type CompleteRecipeRequest struct {
	Selections []DrawdownSelection `json:"selections"`
}

// CompletionSummary is returned once a drawdown has been committed
type CompletionSummary struct {
	ID          string         `json:"id"`
	OwnerID     int            `json:"owner_id"`
	RecipeID    int            `json:"recipe_id"`
	Attempts    int            `json:"attempts"`
	Result      DrawdownResult `json:"result"`
	ArchiveKey  string         `json:"archive_key,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}
