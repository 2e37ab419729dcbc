package services

import (
	"context"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// PantryRepository is the pantry store the engine reads from and commits to
type PantryRepository interface {
	// ListActiveLots returns the owner's lots that still hold something
	ListActiveLots(ctx context.Context, ownerID int) ([]models.PantryLot, error)
	// GetLot returns ErrLotNotFound when the lot does not exist
	GetLot(ctx context.Context, id int) (*models.PantryLot, error)
	// ApplyDrawdown commits every update and deletion of a plan atomically.
	// It returns ErrWriteConflict when a lot no longer holds the amount in
	// result.ExpectedAmounts.
	ApplyDrawdown(ctx context.Context, ownerID int, result *models.DrawdownResult) error
	// RecordCompletion logs a committed completion
	RecordCompletion(ctx context.Context, summary *models.CompletionSummary) error
}

// RecipeProvider supplies the ingredient lines of a recipe
type RecipeProvider interface {
	GetIngredients(ctx context.Context, recipeID int) ([]models.RecipeIngredientLine, error)
}

// CompletionArchive stores completion summaries outside the database
type CompletionArchive interface {
	ArchiveCompletion(ctx context.Context, summary *models.CompletionSummary) (string, error)
}
