package main

import (
	"context"
	"fmt"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/store"
	"github.com/urfave/cli/v3"
)

// RecommendSimilar prints songs similar to the given one, with the server's
// similarity scores and reasons.
func (r *Runner) RecommendSimilar(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	similar, err := store.SimilarSongs(ctx, r.client, id, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(similar, true)
	}

	r.writePlainHeader(fmt.Sprintf("Similar to %s - %s", similar.SourceSong.Artist, similar.SourceSong.Title))
	if len(similar.Items) == 0 {
		return r.writePlain("no similar songs found\n")
	}
	for i, item := range similar.Items {
		r.writePlain("%3d. %s - %s (%.2f)\n", i+1, item.Song.Artist, item.Song.Title, item.SimilarityScore)
		for _, reason := range item.Reasons {
			r.writePlain("      %s\n", reason)
		}
	}
	return nil
}

// RecommendDiscover prints the sectioned discovery recommendations.
func (r *Runner) RecommendDiscover(ctx context.Context, cmd *cli.Command) error {
	discover, err := store.Discover(ctx, r.client, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(discover, true)
	}

	if len(discover.Sections) == 0 {
		return r.writePlain("nothing to discover yet, listen to more music\n")
	}

	for _, section := range discover.Sections {
		r.writePlainHeader(section.Title)
		for i, song := range section.Items {
			r.writePlain("%3d. %s - %s\n", i+1, song.Artist, song.Title)
		}
		r.writePlain("\n")
	}
	return nil
}

// RecommendMix prints a personal mix for the given mood and target duration.
func (r *Runner) RecommendMix(ctx context.Context, cmd *cli.Command) error {
	mood := models.Mood(cmd.String("mood"))
	mix, err := store.PersonalMix(ctx, r.client, mood, cmd.Int("duration"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(mix, true)
	}

	title := "Personal mix"
	if mix.Mood != "" {
		title = fmt.Sprintf("Personal mix (%s)", mix.Mood)
	}
	r.writePlainHeader(title)
	for i, song := range mix.Songs {
		r.writePlain("%3d. %s - %s [%s]\n", i+1, song.Artist, song.Title, shared.FormatDuration(song.DurationSeconds))
	}
	r.writePlain("\nTotal: %s\n", shared.FormatDuration(mix.TotalDurationSeconds))
	return nil
}
