package services

import "errors"

var (
	ErrLotNotFound    = errors.New("pantry lot not found")
	ErrNotLotOwner    = errors.New("not the owner of this pantry lot")
	ErrRecipeNotFound = errors.New("recipe not found")

	ErrInvalidLot = errors.New("invalid pantry lot")

	// ErrWriteConflict is returned by a store when a lot no longer holds the
	// amount a drawdown plan was computed from
	ErrWriteConflict = errors.New("pantry lot changed during write")

	// ErrConcurrentModification means a drawdown could not be applied
	// because the pantry changed underneath it, even after a retry
	ErrConcurrentModification = errors.New("pantry was modified concurrently, please review and try again")
)
