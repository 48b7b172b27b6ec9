package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// Search runs a free-text query across songs, artists, albums and playlists.
// Results are not cached; each call hits the API.
func Search(ctx context.Context, client *api.Client, query string, limit int) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}

	var results models.SearchResults
	if err := client.Get(ctx, "/search?"+q.Encode(), &results); err != nil {
		return nil, err
	}
	return &results, nil
}
