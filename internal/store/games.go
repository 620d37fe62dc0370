package store

import (
	"context"

	"inputvote/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 1000

// GameStore is the game catalog.
type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

// UpsertGames inserts games or renames existing ones. Later entries win when
// the same AppID appears more than once, since Postgres refuses to update one
// row twice in a single statement.
func (s *GameStore) UpsertGames(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}

	seen := make(map[int64]int, len(games))
	unique := make([]models.Game, 0, len(games))
	for _, g := range games {
		if i, ok := seen[g.AppID]; ok {
			unique[i].Name = g.Name
			continue
		}
		seen[g.AppID] = len(unique)
		unique = append(unique, models.Game{AppID: g.AppID, Name: g.Name})
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "app_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		CreateInBatches(&unique, upsertBatchSize).Error
}
