package catalog

import (
	"context"
	"fmt"
	"strings"

	"inputvote/backend/internal/models"

	"go.uber.org/zap"
)

// App is one entry of an external game list.
type App struct {
	ID   int64
	Name string
}

// Source supplies the full list of known apps.
type Source interface {
	Apps(ctx context.Context) ([]App, error)
}

// Store persists the catalog.
type Store interface {
	UpsertGames(ctx context.Context, games []models.Game) error
}

// Refresher copies a Source into the local catalog.
type Refresher struct {
	source Source
	store  Store
	log    *zap.Logger
}

func NewRefresher(source Source, store Store, log *zap.Logger) *Refresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{source: source, store: store, log: log}
}

// Refresh fetches every app and upserts it, returning how many entries were
// written. Entries without a positive id or a name are skipped.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	apps, err := r.source.Apps(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch app list: %w", err)
	}

	games := make([]models.Game, 0, len(apps))
	for _, app := range apps {
		name := strings.TrimSpace(app.Name)
		if app.ID <= 0 || name == "" {
			continue
		}
		games = append(games, models.Game{AppID: app.ID, Name: name})
	}

	if err := r.store.UpsertGames(ctx, games); err != nil {
		return 0, fmt.Errorf("upsert games: %w", err)
	}

	r.log.Info("games updated", zap.Int("fetched", len(apps)), zap.Int("upserted", len(games)))
	return len(games), nil
}
