package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/krolx/nicemusic/internal/formatter"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList fetches and prints the user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.playlists.Fetch(ctx, true); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	items := r.playlists.Items()
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", r.playlists.Total()))
	for i, p := range items {
		r.writePlain("%3d. %s (%d songs, %s)\n", i+1, p.Name, p.SongCount, shared.FormatDuration(p.TotalDurationSeconds))
	}
	return nil
}

// PlaylistsShow prints a playlist with its songs.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	detail, err := r.playlists.Open(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	r.writePlainHeader(detail.Name)
	if detail.Description != "" {
		r.writePlain("%s\n\n", detail.Description)
	}
	for _, s := range detail.Songs {
		r.writePlain("%3d. %s - %s [%s]\n", s.Position+1, s.Artist, s.Title, shared.FormatDuration(s.DurationSeconds))
	}
	return nil
}

// PlaylistsCreate creates a playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	created, err := r.playlists.Create(ctx, models.PlaylistCreate{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("created playlist %s (%s)\n", created.Name, created.ID)
}

// PlaylistsUpdate patches playlist metadata.
func (r *Runner) PlaylistsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	partial := models.PlaylistUpdate{}
	changed := false
	if v := cmd.String("name"); v != "" {
		partial.Name = &v
		changed = true
	}
	if v := cmd.String("description"); v != "" {
		partial.Description = &v
		changed = true
	}
	if cmd.IsSet("public") {
		public := cmd.Bool("public")
		partial.IsPublic = &public
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	updated, err := r.playlists.Update(ctx, id, partial)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("updated playlist %s\n", updated.Name)
}

// PlaylistsDelete deletes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.playlists.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("deleted playlist %s\n", id)
}

// PlaylistsAdd adds a song to a playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.playlists.AddSong(ctx, cmd.String("playlist"), cmd.String("song"), cmd.Int("position")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("added %s to %s\n", cmd.String("song"), cmd.String("playlist"))
}

// PlaylistsRemove removes a song from a playlist.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.playlists.RemoveSong(ctx, cmd.String("playlist"), cmd.String("song")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("removed %s from %s\n", cmd.String("song"), cmd.String("playlist"))
}

// PlaylistsReorder applies a new song order to a playlist.
func (r *Runner) PlaylistsReorder(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("song")
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --song", shared.ErrMissingArgument)
	}

	playlistID := cmd.String("playlist")
	if _, err := r.playlists.Open(ctx, playlistID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, err)
	}

	if err := r.playlists.Reorder(ctx, playlistID, ids); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("reordered %s\n", playlistID)
}

// PlaylistsExport writes a playlist to disk in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	detail, err := r.playlists.Open(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaylistNotFound, err)
	}

	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(detail, output)
		if err != nil {
			return err
		}
		r.writePlain("wrote %s and %s\n", result.SongsFile, result.MetadataFile)
	case "markdown", "md":
		var coverURL string
		if cmd.Bool("cover") && detail.CoverImagePath != "" {
			coverURL = r.client.PlaylistCoverURL(detail.ID)
		}
		result, err := formatter.WriteMarkdownExport(detail, output, coverURL)
		if err != nil {
			return err
		}
		r.writePlain("wrote %s\n", strings.Join(result.Files, ", "))
	case "txt", "text":
		file, err := formatter.WriteTextExport(detail, output)
		if err != nil {
			return err
		}
		r.writePlain("wrote %s\n", file)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
