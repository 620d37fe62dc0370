package vote

import (
	"context"
	"errors"
	"sync"
	"testing"

	"inputvote/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteKey struct {
	game int64
	user uint
}

// memStore is an in-memory Store. conflicts makes the next N upserts fail
// with ErrStoreConflict before touching any state.
type memStore struct {
	mu        sync.Mutex
	games     map[int64]bool
	votes     map[voteKey]*models.Vote
	conflicts int
	upserts   int
}

func newMemStore(games ...int64) *memStore {
	m := &memStore{games: map[int64]bool{}, votes: map[voteKey]*models.Vote{}}
	for _, g := range games {
		m.games[g] = true
	}
	return m
}

func (m *memStore) GameExists(_ context.Context, gameID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games[gameID], nil
}

func (m *memStore) GetVote(_ context.Context, gameID int64, userID uint) (*models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[voteKey{gameID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) UpsertVote(_ context.Context, gameID int64, userID uint, next func(State) State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.conflicts > 0 {
		m.conflicts--
		return State{}, ErrStoreConflict
	}

	key := voteKey{gameID, userID}
	s := next(StateOf(m.votes[key]))
	m.votes[key] = &models.Vote{GameID: gameID, UserID: userID, Choice: s.Choice, Deleted: s.Status == Deleted}
	return s, nil
}

func (m *memStore) CountVotes(_ context.Context, gameID int64) (map[models.Choice]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[models.Choice]int64{}
	for k, v := range m.votes {
		if k.game == gameID && !v.Deleted {
			counts[v.Choice]++
		}
	}
	return counts, nil
}

func (m *memStore) seed(gameID int64, userID uint, choice models.Choice, deleted bool) {
	m.votes[voteKey{gameID, userID}] = &models.Vote{GameID: gameID, UserID: userID, Choice: choice, Deleted: deleted}
}

func TestTallyEmptyGameIsZeroFilled(t *testing.T) {
	svc := NewService(newMemStore(100), nil)

	tally, err := svc.Tally(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, map[models.Choice]int64{kb: 0, ctrl: 0}, tally.Counts)
	assert.EqualValues(t, 0, tally.Total)
}

func TestTallyExcludesDeletedVotes(t *testing.T) {
	store := newMemStore(100)
	store.seed(100, 1, kb, false)
	store.seed(100, 2, kb, false)
	store.seed(100, 3, ctrl, false)
	store.seed(100, 4, kb, true)
	svc := NewService(store, nil)

	tally, err := svc.Tally(context.Background(), 100)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tally.Counts[kb])
	assert.EqualValues(t, 1, tally.Counts[ctrl])
	assert.EqualValues(t, 3, tally.Total)
}

func TestGetTallyUnknownGame(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, err := svc.GetTally(context.Background(), 42, nil)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGetTallyUserChoice(t *testing.T) {
	store := newMemStore(100)
	store.seed(100, 1, ctrl, false)
	store.seed(100, 2, kb, true)
	svc := NewService(store, nil)
	ctx := context.Background()

	one, two, three := uint(1), uint(2), uint(3)

	s, err := svc.GetTally(ctx, 100, &one)
	require.NoError(t, err)
	assert.Equal(t, ctrl, s.UserChoice)

	s, err = svc.GetTally(ctx, 100, &two)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceNone, s.UserChoice, "deleted vote reads as no vote")

	s, err = svc.GetTally(ctx, 100, &three)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceNone, s.UserChoice)

	s, err = svc.GetTally(ctx, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceNone, s.UserChoice)
}

func TestSubmitVoteToggle(t *testing.T) {
	svc := NewService(newMemStore(100), nil)
	ctx := context.Background()

	s, err := svc.SubmitVote(ctx, 100, 1, kb)
	require.NoError(t, err)
	assert.Equal(t, kb, s.UserChoice)
	assert.EqualValues(t, 1, s.Counts[kb])
	assert.EqualValues(t, 1, s.Total)

	s, err = svc.SubmitVote(ctx, 100, 1, kb)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceNone, s.UserChoice)
	assert.EqualValues(t, 0, s.Counts[kb])
	assert.EqualValues(t, 0, s.Total)

	choice, err := svc.CurrentChoice(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceNone, choice)
}

func TestSubmitVoteSwitch(t *testing.T) {
	svc := NewService(newMemStore(100), nil)
	ctx := context.Background()

	_, err := svc.SubmitVote(ctx, 100, 1, kb)
	require.NoError(t, err)
	s, err := svc.SubmitVote(ctx, 100, 1, ctrl)
	require.NoError(t, err)

	assert.Equal(t, ctrl, s.UserChoice)
	assert.EqualValues(t, 0, s.Counts[kb])
	assert.EqualValues(t, 1, s.Counts[ctrl])
	assert.EqualValues(t, 1, s.Total)
}

func TestSubmitVoteRevivesWithNewChoice(t *testing.T) {
	store := newMemStore(100)
	store.seed(100, 1, kb, true)
	svc := NewService(store, nil)

	s, err := svc.SubmitVote(context.Background(), 100, 1, ctrl)
	require.NoError(t, err)
	assert.Equal(t, ctrl, s.UserChoice)
	assert.EqualValues(t, 0, s.Counts[kb])
	assert.EqualValues(t, 1, s.Counts[ctrl])
}

func TestSubmitVoteInvalidChoice(t *testing.T) {
	store := newMemStore(100)
	svc := NewService(store, nil)

	_, err := svc.SubmitVote(context.Background(), 100, 1, models.Choice(3))
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Zero(t, store.upserts)
	assert.Empty(t, store.votes)
}

func TestSubmitVoteUnknownGame(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	_, err := svc.SubmitVote(context.Background(), 100, 1, kb)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Zero(t, store.upserts)
}

func TestSubmitVoteRetriesOnceOnConflict(t *testing.T) {
	store := newMemStore(100)
	store.conflicts = 1
	svc := NewService(store, nil)

	s, err := svc.SubmitVote(context.Background(), 100, 1, ctrl)
	require.NoError(t, err)
	assert.Equal(t, ctrl, s.UserChoice)
	assert.Equal(t, 2, store.upserts)
}

func TestSubmitVoteSurfacesRepeatedConflict(t *testing.T) {
	store := newMemStore(100)
	store.conflicts = 2
	svc := NewService(store, nil)

	_, err := svc.SubmitVote(context.Background(), 100, 1, ctrl)
	assert.ErrorIs(t, err, ErrStoreConflict)
	assert.Equal(t, 2, store.upserts)
	assert.Empty(t, store.votes)
}

type failingStore struct{ *memStore }

func (failingStore) CountVotes(context.Context, int64) (map[models.Choice]int64, error) {
	return nil, errors.New("connection refused")
}

func TestStoreErrorsPropagate(t *testing.T) {
	svc := NewService(failingStore{newMemStore(100)}, nil)

	_, err := svc.Tally(context.Background(), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, err, ErrGameNotFound)
}

func TestConcurrentSubmissionsKeepOneVotePerUser(t *testing.T) {
	store := newMemStore(100)
	svc := NewService(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			choice := kb
			if i%2 == 0 {
				choice = ctrl
			}
			_, err := svc.SubmitVote(context.Background(), 100, uint(i%4), choice)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.votes, 4)
}
