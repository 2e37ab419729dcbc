package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/pantry-match/internal/models"
	"github.com/foxxcyber/pantry-match/internal/services"
)

var _ services.RecipeProvider = (*DB)(nil)

// CreateRecipe stores a recipe and its ingredient lines
func (db *DB) CreateRecipe(ctx context.Context, ownerID int, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	recipe := &models.Recipe{OwnerID: ownerID, Title: req.Title}
	err = tx.QueryRow(ctx, `
		INSERT INTO recipes (owner_id, title, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, ownerID, req.Title).Scan(&recipe.ID, &recipe.CreatedAt)
	if err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for i, line := range req.Ingredients {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, position, raw_text, amount, unit)
			VALUES ($1, $2, $3, $4, $5)
		`, recipe.ID, i, line.RawText, line.Amount, line.Unit)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to insert ingredients: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	recipe.Ingredients = req.Ingredients
	return recipe, nil
}

// GetRecipe returns a recipe with its ingredient lines
func (db *DB) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, title, created_at FROM recipes WHERE id = $1
	`, id).Scan(&recipe.ID, &recipe.OwnerID, &recipe.Title, &recipe.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrRecipeNotFound
		}
		return nil, err
	}

	recipe.Ingredients, err = db.listIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// ListRecipes returns the owner's recipes without their ingredients
func (db *DB) ListRecipes(ctx context.Context, ownerID int) ([]models.Recipe, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, title, created_at
		FROM recipes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Title, &r.CreatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// GetIngredients returns a recipe's ingredient lines in order
func (db *DB) GetIngredients(ctx context.Context, recipeID int) ([]models.RecipeIngredientLine, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)`, recipeID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.ErrRecipeNotFound
	}
	return db.listIngredients(ctx, recipeID)
}

func (db *DB) listIngredients(ctx context.Context, recipeID int) ([]models.RecipeIngredientLine, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT raw_text, amount, unit
		FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.RecipeIngredientLine{}
	for rows.Next() {
		var line models.RecipeIngredientLine
		if err := rows.Scan(&line.RawText, &line.Amount, &line.Unit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
