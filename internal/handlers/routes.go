package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api behind auth
func RegisterRoutes(app *fiber.App, h *Handler, auth fiber.Handler) {
	api := app.Group("/api", auth)

	// Pantry routes
	pantry := api.Group("/pantry")
	pantry.Get("/", h.ListPantry)
	pantry.Post("/", h.CreatePantryLot)
	pantry.Post("/availability", h.CheckAvailability)
	pantry.Delete("/:id", h.DeletePantryLot)

	// Recipe routes
	recipes := api.Group("/recipes")
	recipes.Get("/", h.ListRecipes)
	recipes.Post("/", h.CreateRecipe)
	recipes.Get("/:id", h.GetRecipe)
	recipes.Get("/:id/availability", h.GetRecipeAvailability)
	recipes.Post("/:id/complete", h.CompleteRecipe)

	api.Get("/completions", h.ListCompletions)
}
