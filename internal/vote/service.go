package vote

import (
	"context"
	"errors"
	"fmt"

	"inputvote/backend/internal/models"

	"go.uber.org/zap"
)

// Service applies vote transitions and computes tallies on top of a Store.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) requireGame(ctx context.Context, gameID int64) error {
	ok, err := s.store.GameExists(ctx, gameID)
	if err != nil {
		return fmt.Errorf("look up game %d: %w", gameID, err)
	}
	if !ok {
		return ErrGameNotFound
	}
	return nil
}

// SubmitVote casts choice for userID on gameID following the toggle rule and
// returns the tally after the write.
func (s *Service) SubmitVote(ctx context.Context, gameID int64, userID uint, choice models.Choice) (Summary, error) {
	if !choice.Valid() {
		return Summary{}, ErrInvalidChoice
	}
	if err := s.requireGame(ctx, gameID); err != nil {
		return Summary{}, err
	}

	next := func(cur State) State { return Apply(cur, choice) }

	state, err := s.store.UpsertVote(ctx, gameID, userID, next)
	if errors.Is(err, ErrStoreConflict) {
		// The row was created under us; the retry reads it and locks it.
		s.log.Debug("vote conflict, retrying", zap.Int64("game_id", gameID), zap.Uint("user_id", userID))
		state, err = s.store.UpsertVote(ctx, gameID, userID, next)
	}
	if err != nil {
		if errors.Is(err, ErrStoreConflict) {
			return Summary{}, err
		}
		return Summary{}, fmt.Errorf("store vote: %w", err)
	}

	s.log.Info("vote applied",
		zap.Int64("game_id", gameID),
		zap.Uint("user_id", userID),
		zap.Stringer("submitted", choice),
		zap.Stringer("status", state.Status),
	)

	t, err := s.tally(ctx, gameID)
	if err != nil {
		return Summary{}, err
	}
	current, _ := state.Current()
	return Summary{Tally: t, UserChoice: current}, nil
}
