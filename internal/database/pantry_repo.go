package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/pantry-match/internal/models"
	"github.com/foxxcyber/pantry-match/internal/services"
)

var _ services.PantryRepository = (*DB)(nil)

const pantryLotColumns = `
	id, owner_id, name, canonical_name, amount, unit,
	COALESCE(category, ''), expiration_date, created_at, updated_at
`

func scanPantryLot(row pgx.Row) (*models.PantryLot, error) {
	lot := &models.PantryLot{}
	err := row.Scan(
		&lot.ID, &lot.OwnerID, &lot.Name, &lot.CanonicalName,
		&lot.Quantity.Amount, &lot.Quantity.Unit,
		&lot.Category, &lot.ExpirationDate,
		&lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// ListActiveLots returns the owner's lots that still hold something,
// soonest-expiring first
func (db *DB) ListActiveLots(ctx context.Context, ownerID int) ([]models.PantryLot, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+pantryLotColumns+`
		FROM pantry_lots
		WHERE owner_id = $1 AND amount > 0
		ORDER BY expiration_date ASC NULLS LAST, created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := []models.PantryLot{}
	for rows.Next() {
		lot, err := scanPantryLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *lot)
	}

	return lots, rows.Err()
}

// GetLot returns a lot by ID regardless of owner
func (db *DB) GetLot(ctx context.Context, id int) (*models.PantryLot, error) {
	lot, err := scanPantryLot(db.Pool.QueryRow(ctx, `
		SELECT `+pantryLotColumns+`
		FROM pantry_lots
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrLotNotFound
		}
		return nil, err
	}
	return lot, nil
}

// CreateLot inserts a prepared lot and returns it as stored
func (db *DB) CreateLot(ctx context.Context, lot *models.PantryLot) (*models.PantryLot, error) {
	return scanPantryLot(db.Pool.QueryRow(ctx, `
		INSERT INTO pantry_lots (
			owner_id, name, canonical_name, amount, unit,
			category, expiration_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NOW(), NOW())
		RETURNING `+pantryLotColumns,
		lot.OwnerID, lot.Name, lot.CanonicalName, lot.Quantity.Amount, lot.Quantity.Unit,
		lot.Category, lot.ExpirationDate,
	))
}

// DeleteLot removes a lot owned by ownerID
func (db *DB) DeleteLot(ctx context.Context, id int, ownerID int) error {
	var lotOwner int
	err := db.Pool.QueryRow(ctx, `SELECT owner_id FROM pantry_lots WHERE id = $1`, id).Scan(&lotOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return services.ErrLotNotFound
		}
		return err
	}
	if lotOwner != ownerID {
		return services.ErrNotLotOwner
	}

	result, err := db.Pool.Exec(ctx, `DELETE FROM pantry_lots WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return services.ErrLotNotFound
	}

	return nil
}

// ApplyDrawdown commits a drawdown plan in one transaction. Every row is
// only touched if it still holds the amount the plan was computed from;
// otherwise nothing is written and ErrWriteConflict is returned.
func (db *DB) ApplyDrawdown(ctx context.Context, ownerID int, result *models.DrawdownResult) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := applyUpdates(ctx, tx, ownerID, result.UpdatedLots); err != nil {
		return err
	}
	if err := applyDeletions(ctx, tx, ownerID, result.DepletedLots, result.ExpectedAmounts); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ApplyUpdates sets new amounts on lots, each guarded by its expected amount
func (db *DB) ApplyUpdates(ctx context.Context, ownerID int, updates []models.LotUpdate) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := applyUpdates(ctx, tx, ownerID, updates); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ApplyDeletions removes depleted lots. A lot with an entry in expected is
// only removed while it still holds that amount.
func (db *DB) ApplyDeletions(ctx context.Context, ownerID int, ids []int, expected map[int]float64) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := applyDeletions(ctx, tx, ownerID, ids, expected); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyUpdates(ctx context.Context, tx pgx.Tx, ownerID int, updates []models.LotUpdate) error {
	for _, u := range updates {
		if u.NewAmount < 0 {
			return fmt.Errorf("lot %d: negative amount %g", u.ID, u.NewAmount)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE pantry_lots
			SET amount = $3, updated_at = NOW()
			WHERE id = $1 AND owner_id = $2 AND amount = $4
		`, u.ID, ownerID, u.NewAmount, u.ExpectedAmount)
		if err != nil {
			return fmt.Errorf("failed to update lot %d: %w", u.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("lot %d: %w", u.ID, services.ErrWriteConflict)
		}
	}
	return nil
}

func applyDeletions(ctx context.Context, tx pgx.Tx, ownerID int, ids []int, expected map[int]float64) error {
	for _, id := range ids {
		var expectedAmount *float64
		if amount, ok := expected[id]; ok {
			expectedAmount = &amount
		}
		tag, err := tx.Exec(ctx, `
			DELETE FROM pantry_lots
			WHERE id = $1 AND owner_id = $2
				AND ($3::double precision IS NULL OR amount = $3)
		`, id, ownerID, expectedAmount)
		if err != nil {
			return fmt.Errorf("failed to delete lot %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("lot %d: %w", id, services.ErrWriteConflict)
		}
	}
	return nil
}

// RecordCompletion logs a committed completion
func (db *DB) RecordCompletion(ctx context.Context, summary *models.CompletionSummary) error {
	result, err := json.Marshal(summary.Result)
	if err != nil {
		return fmt.Errorf("failed to encode completion result: %w", err)
	}

	var recipeID *int
	if summary.RecipeID > 0 {
		recipeID = &summary.RecipeID
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO pantry_completions (id, owner_id, recipe_id, attempts, result, archive_key, completed_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`, summary.ID, summary.OwnerID, recipeID, summary.Attempts, result, summary.ArchiveKey, summary.CompletedAt)
	return err
}

// ListCompletions returns the owner's most recent completions
func (db *DB) ListCompletions(ctx context.Context, ownerID int, limit int) ([]models.CompletionSummary, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, owner_id, COALESCE(recipe_id, 0), attempts, result,
			COALESCE(archive_key, ''), completed_at
		FROM pantry_completions
		WHERE owner_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.CompletionSummary{}
	for rows.Next() {
		var c models.CompletionSummary
		var result []byte
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.RecipeID, &c.Attempts, &result, &c.ArchiveKey, &c.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(result, &c.Result); err != nil {
			return nil, fmt.Errorf("failed to decode completion %s: %w", c.ID, err)
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}
