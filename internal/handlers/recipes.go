package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-match/internal/models"
)

// CreateRecipe stores a recipe for the current user
func (h *Handler) CreateRecipe(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return Error(c, fiber.StatusBadRequest, "title is required")
	}
	if len(req.Ingredients) == 0 {
		return Error(c, fiber.StatusBadRequest, "at least one ingredient is required")
	}

	recipe, err := h.store.CreateRecipe(c.Context(), userID, &req)
	if err != nil {
		return h.serviceError(c, err, "failed to create recipe")
	}

	return Created(c, recipe)
}

// ListRecipes returns the current user's recipes
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	recipes, err := h.store.ListRecipes(c.Context(), userID)
	if err != nil {
		return h.serviceError(c, err, "failed to list recipes")
	}

	return SuccessWithMeta(c, recipes, len(recipes), len(recipes), 0)
}

// GetRecipe returns a single recipe
func (h *Handler) GetRecipe(c *fiber.Ctx) error {
	recipe, userID, err := h.ownedRecipe(c)
	if err != nil || userID == 0 {
		return err
	}
	return Success(c, recipe)
}

// GetRecipeAvailability checks a stored recipe against the pantry
func (h *Handler) GetRecipeAvailability(c *fiber.Ctx) error {
	recipe, userID, err := h.ownedRecipe(c)
	if err != nil || userID == 0 {
		return err
	}

	availability, err := h.pantry.CheckRecipe(c.Context(), userID, recipe.ID)
	if err != nil {
		return h.serviceError(c, err, "failed to check availability")
	}

	return Success(c, availability)
}

// CompleteRecipe draws the confirmed selections down from the pantry
func (h *Handler) CompleteRecipe(c *fiber.Ctx) error {
	recipe, userID, err := h.ownedRecipe(c)
	if err != nil || userID == 0 {
		return err
	}

	var req models.CompleteRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Selections) == 0 {
		return Error(c, fiber.StatusBadRequest, "at least one selection is required")
	}

	summary, err := h.pantry.CompleteRecipe(c.Context(), userID, recipe.ID, req.Selections)
	if err != nil {
		return h.serviceError(c, err, "failed to complete recipe")
	}

	return Success(c, summary)
}

// ownedRecipe loads the :id recipe and checks it belongs to the caller.
// When it returns a zero user ID the response has already been written.
func (h *Handler) ownedRecipe(c *fiber.Ctx) (*models.Recipe, int, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, 0, Error(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, 0, Error(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	recipe, err := h.store.GetRecipe(c.Context(), id)
	if err != nil {
		return nil, 0, h.serviceError(c, err, "failed to get recipe")
	}
	if recipe.OwnerID != userID {
		return nil, 0, Error(c, fiber.StatusNotFound, "recipe not found")
	}

	return recipe, userID, nil
}
