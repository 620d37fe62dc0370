package vote

import (
	"context"
	"fmt"

	"inputvote/backend/internal/models"
)

// Tally is the vote count of a game. Counts always holds every valid choice.
type Tally struct {
	Counts map[models.Choice]int64
	Total  int64
}

// Summary is a tally together with the requesting user's current choice
// (ChoiceNone when anonymous or not voted).
type Summary struct {
	Tally
	UserChoice models.Choice
}

func emptyTally() Tally {
	counts := make(map[models.Choice]int64, len(models.Choices))
	for _, c := range models.Choices {
		counts[c] = 0
	}
	return Tally{Counts: counts}
}

// Tally counts the active votes of a known game.
func (s *Service) Tally(ctx context.Context, gameID int64) (Tally, error) {
	if err := s.requireGame(ctx, gameID); err != nil {
		return Tally{}, err
	}
	return s.tally(ctx, gameID)
}

func (s *Service) tally(ctx context.Context, gameID int64) (Tally, error) {
	counts, err := s.store.CountVotes(ctx, gameID)
	if err != nil {
		return Tally{}, fmt.Errorf("count votes for game %d: %w", gameID, err)
	}

	t := emptyTally()
	for choice, n := range counts {
		if !choice.Valid() {
			continue
		}
		t.Counts[choice] = n
		t.Total += n
	}
	return t, nil
}

// CurrentChoice returns the active choice of userID for gameID, or ChoiceNone.
func (s *Service) CurrentChoice(ctx context.Context, gameID int64, userID uint) (models.Choice, error) {
	v, err := s.store.GetVote(ctx, gameID, userID)
	if err != nil {
		return models.ChoiceNone, fmt.Errorf("load vote: %w", err)
	}
	choice, _ := StateOf(v).Current()
	return choice, nil
}

// GetTally returns the tally of gameID and, when userID is set, that user's choice.
func (s *Service) GetTally(ctx context.Context, gameID int64, userID *uint) (Summary, error) {
	t, err := s.Tally(ctx, gameID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Tally: t}
	if userID != nil {
		summary.UserChoice, err = s.CurrentChoice(ctx, gameID, *userID)
		if err != nil {
			return Summary{}, err
		}
	}
	return summary, nil
}
