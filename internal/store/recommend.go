package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// The recommendation endpoints are read-only and carry no client state; the
// scoring and mixing algorithms live entirely server-side, like the mood
// chain suggestions.

// SimilarSongs fetches songs similar to the given song, scored and explained
// by the server.
func SimilarSongs(ctx context.Context, client *api.Client, songID string, limit int) (*models.SimilarSongs, error) {
	if songID == "" {
		return nil, fmt.Errorf("%w: song id is required", shared.ErrInvalidInput)
	}

	path := "/recommendations/similar/" + songID
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var similar models.SimilarSongs
	if err := client.Get(ctx, path, &similar); err != nil {
		return nil, err
	}
	return &similar, nil
}

// Discover fetches the sectioned discovery recommendations, limit songs per
// section.
func Discover(ctx context.Context, client *api.Client, limit int) (*models.Discover, error) {
	path := "/recommendations/discover"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var discover models.Discover
	if err := client.Get(ctx, path, &discover); err != nil {
		return nil, err
	}
	return &discover, nil
}

// PersonalMix asks the server for a mix targeting the given mood and duration
// in minutes. An empty mood means no mood filter.
func PersonalMix(ctx context.Context, client *api.Client, mood models.Mood, durationMinutes int) (*models.PersonalMix, error) {
	if mood != "" && !mood.Valid() {
		return nil, fmt.Errorf("%w: unknown mood %q", shared.ErrInvalidInput, mood)
	}

	q := url.Values{}
	if mood != "" {
		q.Set("mood", string(mood))
	}
	if durationMinutes > 0 {
		q.Set("duration_minutes", fmt.Sprintf("%d", durationMinutes))
	}

	path := "/recommendations/mix"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var mix models.PersonalMix
	if err := client.Get(ctx, path, &mix); err != nil {
		return nil, err
	}
	return &mix, nil
}
