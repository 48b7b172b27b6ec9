package main

import (
	"context"
	"fmt"

	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/store"
	"github.com/urfave/cli/v3"
)

// Search runs a free-text query across the library.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	results, err := store.Search(ctx, r.client, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))

	if len(results.Songs) > 0 {
		r.writePlain("\nSongs:\n")
		for _, s := range results.Songs {
			r.writePlain("  %s - %s\n", s.Artist, s.Title)
		}
	}
	if len(results.Artists) > 0 {
		r.writePlain("\nArtists:\n")
		for _, a := range results.Artists {
			r.writePlain("  %s\n", a)
		}
	}
	if len(results.Albums) > 0 {
		r.writePlain("\nAlbums:\n")
		for _, a := range results.Albums {
			r.writePlain("  %s\n", a)
		}
	}
	if len(results.Playlists) > 0 {
		r.writePlain("\nPlaylists:\n")
		for _, p := range results.Playlists {
			r.writePlain("  %s (%d songs)\n", p.Name, p.SongCount)
		}
	}

	if len(results.Songs)+len(results.Artists)+len(results.Albums)+len(results.Playlists) == 0 {
		r.writePlain("no matches\n")
	}
	return nil
}
