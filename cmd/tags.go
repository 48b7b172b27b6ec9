package main

import (
	"context"
	"fmt"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

// TagsList fetches and prints the user's tags.
func (r *Runner) TagsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.tags.Fetch(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	items := r.tags.Items()
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Tags (%d)", len(items)))
	for i, tag := range items {
		color := ""
		if tag.Color != "" {
			color = " " + tag.Color
		}
		r.writePlain("%3d. %s%s\n", i+1, tag.Name, color)
	}
	return nil
}

// TagsCreate creates a tag.
func (r *Runner) TagsCreate(ctx context.Context, cmd *cli.Command) error {
	created, err := r.tags.Create(ctx, models.TagCreate{
		Name:  cmd.String("name"),
		Color: cmd.String("color"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("created tag %s (%s)\n", created.Name, created.ID)
}

// TagsUpdate patches a tag's name or color.
func (r *Runner) TagsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: tag id", shared.ErrMissingArgument)
	}

	partial := models.TagUpdate{}
	changed := false
	if v := cmd.String("name"); v != "" {
		partial.Name = &v
		changed = true
	}
	if v := cmd.String("color"); v != "" {
		partial.Color = &v
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	updated, err := r.tags.Update(ctx, id, partial)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagNotFound, err)
	}

	return r.writePlain("updated tag %s\n", updated.Name)
}

// TagsDelete deletes a tag, detaching it from every song.
func (r *Runner) TagsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: tag id", shared.ErrMissingArgument)
	}

	if err := r.tags.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagNotFound, err)
	}
	return r.writePlain("deleted tag %s\n", id)
}

// TagsAdd attaches a tag to a song.
func (r *Runner) TagsAdd(ctx context.Context, cmd *cli.Command) error {
	song, err := r.tags.AddToSong(ctx, cmd.String("song"), cmd.String("tag"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("%s - %s now tagged: %s\n", song.Artist, song.Title, tagNames(song.Tags))
}

// TagsRemove detaches a tag from a song.
func (r *Runner) TagsRemove(ctx context.Context, cmd *cli.Command) error {
	song, err := r.tags.RemoveFromSong(ctx, cmd.String("song"), cmd.String("tag"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if len(song.Tags) == 0 {
		return r.writePlain("%s - %s has no tags left\n", song.Artist, song.Title)
	}
	return r.writePlain("%s - %s now tagged: %s\n", song.Artist, song.Title, tagNames(song.Tags))
}

func tagNames(tags []models.Tag) string {
	names := ""
	for i, tag := range tags {
		if i > 0 {
			names += ", "
		}
		names += tag.Name
	}
	return names
}
