package models

import (
	"time"
)

// Quantity is an amount expressed in a unit
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// PantryLot is one batch/purchase of an ingredient in a user's pantry
type PantryLot struct {
	ID      int `json:"id"`
	OwnerID int `json:"owner_id"`

	// Name is what the user typed, CanonicalName its normalized form
	Name          string `json:"name"`
	CanonicalName string `json:"canonical_name"`

	Quantity Quantity `json:"quantity"`
	Category string   `json:"category,omitempty"`

	ExpirationDate *time.Time `json:"expiration_date,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePantryLotRequest is the request body for adding a lot
type CreatePantryLotRequest struct {
	Name           string     `json:"name"`
	Amount         float64    `json:"amount"`
	Unit           string     `json:"unit"`
	Category       string     `json:"category,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// RecipeIngredient is a recipe line resolved for one completion attempt
type RecipeIngredient struct {
	RawText    string   `json:"raw_text"`
	ParsedName string   `json:"parsed_name"`
	Required   Quantity `json:"required"`
}

// MatchTier identifies which matching rule produced a candidate
type MatchTier string

const (
	TierExact         MatchTier = "exact"
	TierPluralVariant MatchTier = "plural_variant"
	TierContains      MatchTier = "contains"
	TierKeyword       MatchTier = "keyword"
	TierSynonym       MatchTier = "synonym"
)

// MatchCandidate is a pantry lot that matched an ingredient name
type MatchCandidate struct {
	PantryLotID int       `json:"pantry_lot_id"`
	Score       float64   `json:"score"`
	Tier        MatchTier `json:"tier"`
}

// CandidateOption is a match candidate enriched with the lot data the
// caller needs to confirm a selection
type CandidateOption struct {
	MatchCandidate

	LotName        string     `json:"lot_name"`
	Available      Quantity   `json:"available"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// AvailableInRequiredUnit is only meaningful when Convertible is true
	Convertible             bool    `json:"convertible"`
	AvailableInRequiredUnit float64 `json:"available_in_required_unit"`
	Covers                  bool    `json:"covers"`
}

// AvailabilityStatus classifies how well the pantry covers an ingredient
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusPartial   AvailabilityStatus = "partial"
	StatusMissing   AvailabilityStatus = "missing"
)

// IngredientAvailability is the availability verdict for one ingredient
type IngredientAvailability struct {
	Ingredient       RecipeIngredient   `json:"ingredient"`
	Status           AvailabilityStatus `json:"status"`
	Candidates       []CandidateOption  `json:"candidates"`
	Unconvertible    []CandidateOption  `json:"unconvertible,omitempty"`
	DefaultSelection *CandidateOption   `json:"default_selection,omitempty"`
}

// DrawdownSelection is a confirmed choice of lot and amount for an ingredient
type DrawdownSelection struct {
	Ingredient    string   `json:"ingredient"`
	PantryLotID   int      `json:"pantry_lot_id"`
	QuantityToUse Quantity `json:"quantity_to_use"`
}

// LotUpdate sets a lot to a new amount, provided it still holds ExpectedAmount
type LotUpdate struct {
	ID             int     `json:"id"`
	NewAmount      float64 `json:"new_amount"`
	ExpectedAmount float64 `json:"-"`
}

// DrawdownErrorCode classifies a per-selection drawdown problem
type DrawdownErrorCode string

const (
	DrawdownUnitMismatch    DrawdownErrorCode = "unit_category_mismatch"
	DrawdownInvalidQuantity DrawdownErrorCode = "invalid_quantity"
)

// DrawdownError is a per-selection problem that did not mutate the lot
type DrawdownError struct {
	Ingredient  string            `json:"ingredient"`
	PantryLotID int               `json:"pantry_lot_id"`
	Code        DrawdownErrorCode `json:"code"`
	Message     string            `json:"message"`
}

// Consumption records what a single selection actually took from a lot,
// in the lot's unit
type Consumption struct {
	Ingredient  string  `json:"ingredient"`
	PantryLotID int     `json:"pantry_lot_id"`
	Requested   float64 `json:"requested"`
	Consumed    float64 `json:"consumed"`
	Unit        string  `json:"unit"`
}

// DrawdownResult is the full mutation plan for one recipe completion
type DrawdownResult struct {
	UpdatedLots  []LotUpdate     `json:"updated_lots"`
	DepletedLots []int           `json:"depleted_lots"`
	Insufficient []string        `json:"insufficient"`
	Errors       []DrawdownError `json:"errors"`
	Consumed     []Consumption   `json:"consumed"`

	// ExpectedAmounts holds the freshly read amount of every touched lot
	ExpectedAmounts map[int]float64 `json:"-"`
}

// HasMutations reports whether the plan changes any lot
func (r *DrawdownResult) HasMutations() bool {
	return len(r.UpdatedLots) > 0 || len(r.DepletedLots) > 0
}
