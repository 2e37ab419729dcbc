package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// maxDrawdownAttempts is the first attempt plus one retry on conflict
const maxDrawdownAttempts = 2

// PantryService runs availability checks and recipe completions against
// the pantry store
type PantryService struct {
	pantry  PantryRepository
	recipes RecipeProvider
	archive CompletionArchive
	parser  *IngredientParser
	log     *zap.Logger
	now     func() time.Time
}

// NewPantryService creates a new pantry service. archive may be nil.
func NewPantryService(pantry PantryRepository, recipes RecipeProvider, archive CompletionArchive, log *zap.Logger) *PantryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PantryService{
		pantry:  pantry,
		recipes: recipes,
		archive: archive,
		parser:  NewIngredientParser(),
		log:     log,
		now:     time.Now,
	}
}

// CheckRecipe reports availability of every ingredient of a recipe
func (s *PantryService) CheckRecipe(ctx context.Context, ownerID, recipeID int) ([]models.IngredientAvailability, error) {
	lines, err := s.recipes.GetIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.CheckIngredients(ctx, ownerID, lines)
}

// CheckIngredients reports availability of ad-hoc ingredient lines
func (s *PantryService) CheckIngredients(ctx context.Context, ownerID int, lines []models.RecipeIngredientLine) ([]models.IngredientAvailability, error) {
	lots, err := s.pantry.ListActiveLots(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}

	ingredients := s.parser.ParseLines(lines)
	return CalculateAvailability(ingredients, lots), nil
}

// CompleteRecipe draws the confirmed selections down from the pantry. The
// whole drawdown, fresh re-read included, is retried once when the pantry
// changes underneath it; a second conflict returns ErrConcurrentModification.
func (s *PantryService) CompleteRecipe(ctx context.Context, ownerID, recipeID int, selections []models.DrawdownSelection) (*models.CompletionSummary, error) {
	if recipeID > 0 {
		if _, err := s.recipes.GetIngredients(ctx, recipeID); err != nil {
			return nil, err
		}
	}

	fetch := func(id int) (*models.PantryLot, error) {
		lot, err := s.pantry.GetLot(ctx, id)
		if err != nil {
			return nil, err
		}
		if lot.OwnerID != ownerID {
			return nil, fmt.Errorf("lot %d: %w", id, ErrNotLotOwner)
		}
		return lot, nil
	}

	var (
		result  *models.DrawdownResult
		attempt int
	)
	for attempt = 1; ; attempt++ {
		var err error
		result, err = s.attemptDrawdown(ctx, ownerID, selections, fetch)
		if err == nil {
			break
		}
		if !isConflict(err) {
			return nil, err
		}
		if attempt >= maxDrawdownAttempts {
			s.log.Warn("drawdown conflict after retry",
				zap.Int("owner_id", ownerID),
				zap.Int("recipe_id", recipeID),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrConcurrentModification, err)
		}
		s.log.Info("drawdown conflict, retrying",
			zap.Int("owner_id", ownerID),
			zap.Int("recipe_id", recipeID),
			zap.Error(err))
	}

	summary := &models.CompletionSummary{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		RecipeID:    recipeID,
		Attempts:    attempt,
		Result:      *result,
		CompletedAt: s.now().UTC(),
	}

	s.log.Info("recipe completed",
		zap.String("completion_id", summary.ID),
		zap.Int("owner_id", ownerID),
		zap.Int("recipe_id", recipeID),
		zap.Int("updated", len(result.UpdatedLots)),
		zap.Int("depleted", len(result.DepletedLots)),
		zap.Strings("insufficient", result.Insufficient),
		zap.Int("errors", len(result.Errors)))

	if s.archive != nil {
		key, err := s.archive.ArchiveCompletion(ctx, summary)
		if err != nil {
			s.log.Error("failed to archive completion",
				zap.String("completion_id", summary.ID),
				zap.Error(err))
		} else {
			summary.ArchiveKey = key
		}
	}

	if err := s.pantry.RecordCompletion(ctx, summary); err != nil {
		s.log.Error("failed to record completion",
			zap.String("completion_id", summary.ID),
			zap.Error(err))
	}

	return summary, nil
}

func (s *PantryService) attemptDrawdown(ctx context.Context, ownerID int, selections []models.DrawdownSelection, fetch LotFetcher) (*models.DrawdownResult, error) {
	result, err := ProcessDrawdown(selections, fetch)
	if err != nil {
		return nil, err
	}
	if !result.HasMutations() {
		return result, nil
	}
	if err := s.pantry.ApplyDrawdown(ctx, ownerID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func isConflict(err error) bool {
	return errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrWriteConflict)
}

// NewPantryLot validates a create request and fills in the canonical name
// and unit the matcher and converter work with
func NewPantryLot(ownerID int, req *models.CreatePantryLotRequest) (*models.PantryLot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidLot)
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidLot)
	}

	return &models.PantryLot{
		OwnerID:        ownerID,
		Name:           name,
		CanonicalName:  NormalizeIngredientName(name),
		Quantity:       models.Quantity{Amount: req.Amount, Unit: CanonicalUnit(req.Unit)},
		Category:       strings.TrimSpace(req.Category),
		ExpirationDate: req.ExpirationDate,
	}, nil
}
