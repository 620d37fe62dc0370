package vote

import "inputvote/backend/internal/models"

// Status is the lifecycle position of a (game, user) vote.
type Status int

const (
	NoVote Status = iota
	Active
	Deleted
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Deleted:
		return "deleted"
	default:
		return "none"
	}
}

// State is a Status plus the choice carried by the row. Choice is ChoiceNone
// only for NoVote.
type State struct {
	Status Status
	Choice models.Choice
}

// StateOf maps a stored row (nil when absent) onto a State.
func StateOf(v *models.Vote) State {
	if v == nil {
		return State{Status: NoVote}
	}
	if v.Deleted {
		return State{Status: Deleted, Choice: v.Choice}
	}
	return State{Status: Active, Choice: v.Choice}
}

// Current returns the choice a reader should see. Deleted and absent votes
// look the same.
func (s State) Current() (models.Choice, bool) {
	if s.Status != Active {
		return models.ChoiceNone, false
	}
	return s.Choice, true
}

// Apply computes the state after submitted is cast on top of s.
// Submitting the active choice again retracts it; anything else makes
// submitted the active choice.
func Apply(s State, submitted models.Choice) State {
	if s.Status == Active && s.Choice == submitted {
		return State{Status: Deleted, Choice: s.Choice}
	}
	return State{Status: Active, Choice: submitted}
}
