package vote

import (
	"context"

	"inputvote/backend/internal/models"
)

// Store is the persistence the engine and aggregator need.
type Store interface {
	// GameExists reports whether gameID is in the catalog.
	GameExists(ctx context.Context, gameID int64) (bool, error)

	// GetVote returns the row for (gameID, userID), or nil when there is none.
	GetVote(ctx context.Context, gameID int64, userID uint) (*models.Vote, error)

	// UpsertVote reads the current state of (gameID, userID), passes it to next
	// and persists the result as one atomic step. It returns ErrStoreConflict
	// when a concurrent writer created the row first.
	UpsertVote(ctx context.Context, gameID int64, userID uint, next func(State) State) (State, error)

	// CountVotes returns the number of non-deleted votes per choice. Choices
	// without votes may be missing from the map.
	CountVotes(ctx context.Context, gameID int64) (map[models.Choice]int64, error)
}
