package steam

import (
	"context"

	"inputvote/backend/internal/catalog"
)

// CatalogSource adapts the app list to catalog.Source.
type CatalogSource struct {
	Client *Client
}

func (s CatalogSource) Apps(ctx context.Context) ([]catalog.App, error) {
	apps, err := s.Client.AppList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.App, len(apps))
	for i, a := range apps {
		out[i] = catalog.App{ID: a.AppID, Name: a.Name}
	}
	return out, nil
}
