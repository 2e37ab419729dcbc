package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/pantry-match/internal/models"
	"github.com/foxxcyber/pantry-match/internal/services"
)

// ListPantry returns the current user's active pantry lots
func (h *Handler) ListPantry(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	lots, err := h.store.ListActiveLots(c.Context(), userID)
	if err != nil {
		return h.serviceError(c, err, "failed to list pantry")
	}

	return SuccessWithMeta(c, lots, len(lots), len(lots), 0)
}

// CreatePantryLot adds a lot to the current user's pantry
func (h *Handler) CreatePantryLot(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.CreatePantryLotRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	lot, err := services.NewPantryLot(userID, &req)
	if err != nil {
		return h.serviceError(c, err, "failed to create pantry lot")
	}

	created, err := h.store.CreateLot(c.Context(), lot)
	if err != nil {
		return h.serviceError(c, err, "failed to create pantry lot")
	}

	return Created(c, created)
}

// DeletePantryLot removes a lot from the current user's pantry
func (h *Handler) DeletePantryLot(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid pantry lot id")
	}

	if err := h.store.DeleteLot(c.Context(), id, userID); err != nil {
		return h.serviceError(c, err, "failed to delete pantry lot")
	}

	return Success(c, fiber.Map{"deleted": id})
}

// CheckAvailability checks ad-hoc ingredient lines against the pantry
func (h *Handler) CheckAvailability(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Ingredients) == 0 {
		return Error(c, fiber.StatusBadRequest, "at least one ingredient is required")
	}

	availability, err := h.pantry.CheckIngredients(c.Context(), userID, req.Ingredients)
	if err != nil {
		return h.serviceError(c, err, "failed to check availability")
	}

	return Success(c, availability)
}

// ListCompletions returns the current user's recent recipe completions
func (h *Handler) ListCompletions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	completions, err := h.store.ListCompletions(c.Context(), userID, limit)
	if err != nil {
		return h.serviceError(c, err, "failed to list completions")
	}

	return SuccessWithMeta(c, completions, len(completions), limit, 0)
}
