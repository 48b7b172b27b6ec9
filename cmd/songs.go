package main

import (
	"context"
	"fmt"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/store"
	"github.com/urfave/cli/v3"
)

// SongsList fetches and prints pages of the song library.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	patch := store.FilterPatch{}
	if v := cmd.String("search"); v != "" {
		patch.Search = &v
	}
	if v := cmd.String("artist"); v != "" {
		patch.Artist = &v
	}
	if v := cmd.String("album"); v != "" {
		patch.Album = &v
	}
	if v := cmd.String("genre"); v != "" {
		patch.Genre = &v
	}
	if cmd.Bool("favorites") {
		fav := true
		favPtr := &fav
		patch.IsFavorite = &favPtr
	}
	if v := cmd.String("sort"); v != "" {
		patch.Sort = &v
	}
	if v := cmd.String("order"); v != "" {
		patch.Order = &v
	}

	if err := r.library.SetFilters(ctx, patch); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	for page := 1; page < cmd.Int("pages") && r.library.HasMore(); page++ {
		if err := r.library.LoadMore(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	songs := r.library.Songs()
	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d of %d)", len(songs), r.library.TrackCount()))
	for i, s := range songs {
		marker := " "
		if s.IsFavorite {
			marker = "♥"
		}
		r.writePlain("%3d. %s %s - %s [%s]\n", i+1, marker, s.Artist, s.Title, shared.FormatDuration(s.DurationSeconds))
	}
	if r.library.HasMore() {
		r.writePlain("\n(more pages available, use --pages)\n")
	}
	return nil
}

// SongsGet shows a single song.
func (r *Runner) SongsGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, err := r.library.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSongNotFound, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, true)
	}

	r.writePlain("Title: %s\n", song.Title)
	r.writePlain("Artist: %s\n", song.Artist)
	r.writePlain("Album: %s\n", song.Album)
	r.writePlain("Duration: %s\n", shared.FormatDuration(song.DurationSeconds))
	r.writePlain("Plays: %d\n", song.PlayCount)
	r.writePlain("Favorite: %v\n", song.IsFavorite)
	r.writePlain("Stream: %s\n", r.client.StreamURL(song.ID))
	return nil
}

// SongsUpdate patches song metadata.
func (r *Runner) SongsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	partial := models.SongUpdate{}
	changed := false
	if v := cmd.String("title"); v != "" {
		partial.Title = &v
		changed = true
	}
	if v := cmd.String("artist"); v != "" {
		partial.Artist = &v
		changed = true
	}
	if v := cmd.String("album"); v != "" {
		partial.Album = &v
		changed = true
	}
	if v := cmd.String("genre"); v != "" {
		partial.Genre = &v
		changed = true
	}
	if v := cmd.Int("year"); v > 0 {
		partial.Year = &v
		changed = true
	}
	if v := cmd.Int("rating"); v >= 0 {
		partial.Rating = &v
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	song, err := r.library.Update(ctx, id, partial)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("updated %s - %s\n", song.Artist, song.Title)
}

// SongsFavorite toggles the favorite flag.
func (r *Runner) SongsFavorite(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, err := r.library.ToggleFavorite(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	state := "unfavorited"
	if song.IsFavorite {
		state = "favorited"
	}
	return r.writePlain("%s %s - %s\n", state, song.Artist, song.Title)
}

// SongsDelete removes a song from the library.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.library.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("deleted %s\n", id)
}

// SongsPlay records a play event.
func (r *Runner) SongsPlay(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	record := models.PlayRecord{
		SongID:                  id,
		DurationListenedSeconds: cmd.Int("listened"),
		Completed:               cmd.Bool("completed"),
	}
	if err := r.stats.RecordPlay(ctx, record); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("recorded play for %s\n", id)
}

// SongsCached lists songs from the offline cache.
func (r *Runner) SongsCached(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.library.CachedSongs(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read song cache: %w", err)
	}

	if len(songs) == 0 {
		return r.writePlain("song cache is empty, run `songs list` while online\n")
	}

	r.writePlainHeader(fmt.Sprintf("Cached songs (%d)", len(songs)))
	for i, s := range songs {
		r.writePlain("%3d. %s - %s\n", i+1, s.Artist, s.Title)
	}
	return nil
}
