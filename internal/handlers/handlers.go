package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/pantry-match/internal/middleware"
	"github.com/foxxcyber/pantry-match/internal/models"
	"github.com/foxxcyber/pantry-match/internal/services"
)

// Store is the persistence the handlers need beyond the engine's pantry port
type Store interface {
	services.PantryRepository

	CreateLot(ctx context.Context, lot *models.PantryLot) (*models.PantryLot, error)
	DeleteLot(ctx context.Context, id int, ownerID int) error
	ListCompletions(ctx context.Context, ownerID int, limit int) ([]models.CompletionSummary, error)

	CreateRecipe(ctx context.Context, ownerID int, req *models.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id int) (*models.Recipe, error)
	ListRecipes(ctx context.Context, ownerID int) ([]models.Recipe, error)
}

// Handler holds all handler dependencies
type Handler struct {
	store  Store
	pantry *services.PantryService
	log    *zap.Logger
}

// New creates a new Handler instance
func New(store Store, pantry *services.PantryService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:  store,
		pantry: pantry,
		log:    log,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

func getUserID(c *fiber.Ctx) (int, error) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return 0, errors.New("user not authenticated")
	}
	return userID, nil
}

// serviceError maps engine and store errors onto HTTP statuses
func (h *Handler) serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrLotNotFound):
		return Error(c, fiber.StatusNotFound, "pantry lot not found")
	case errors.Is(err, services.ErrNotLotOwner):
		return Error(c, fiber.StatusForbidden, "you do not own this pantry lot")
	case errors.Is(err, services.ErrRecipeNotFound):
		return Error(c, fiber.StatusNotFound, "recipe not found")
	case errors.Is(err, services.ErrInvalidLot):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConcurrentModification):
		return Error(c, fiber.StatusConflict, services.ErrConcurrentModification.Error())
	}

	h.log.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return Error(c, fiber.StatusInternalServerError, fallback)
}
