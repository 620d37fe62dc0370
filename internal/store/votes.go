package store

import (
	"context"
	"errors"

	"inputvote/backend/internal/models"
	"inputvote/backend/internal/vote"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteStore persists votes with gorm. It implements vote.Store.
type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

var _ vote.Store = (*VoteStore)(nil)

func (s *VoteStore) GameExists(ctx context.Context, gameID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Where("app_id = ?", gameID).Count(&n).Error
	return n > 0, err
}

func (s *VoteStore) GetVote(ctx context.Context, gameID int64, userID uint) (*models.Vote, error) {
	var v models.Vote
	err := s.db.WithContext(ctx).Where("game_id = ? AND user_id = ?", gameID, userID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertVote locks an existing row for the duration of the transaction so
// concurrent toggles of the same pair apply one after the other. A missing row
// cannot be locked; two first votes race on the unique index and the loser
// gets vote.ErrStoreConflict.
func (s *VoteStore) UpsertVote(ctx context.Context, gameID int64, userID uint, next func(vote.State) vote.State) (vote.State, error) {
	var result vote.State

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("game_id = ? AND user_id = ?", gameID, userID).
			First(&current).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = next(vote.StateOf(nil))
			row := models.Vote{
				GameID:  gameID,
				UserID:  userID,
				Choice:  result.Choice,
				Deleted: result.Status == vote.Deleted,
			}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return vote.ErrStoreConflict
				}
				return err
			}
			return nil
		case err != nil:
			return err
		}

		result = next(vote.StateOf(&current))
		return tx.Model(&current).Updates(map[string]interface{}{
			"choice":  result.Choice,
			"deleted": result.Status == vote.Deleted,
		}).Error
	})
	if err != nil {
		return vote.State{}, err
	}
	return result, nil
}

type choiceCount struct {
	Choice models.Choice
	Count  int64
}

func (s *VoteStore) CountVotes(ctx context.Context, gameID int64) (map[models.Choice]int64, error) {
	var rows []choiceCount
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("choice, COUNT(*) AS count").
		Where("game_id = ? AND deleted = ?", gameID, false).
		Group("choice").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Choice]int64, len(rows))
	for _, r := range rows {
		counts[r.Choice] = r.Count
	}
	return counts, nil
}
