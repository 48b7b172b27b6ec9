package main

import (
	"context"
	"fmt"

	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

// StatsOverview prints aggregate listening statistics.
func (r *Runner) StatsOverview(ctx context.Context, cmd *cli.Command) error {
	overview, err := r.stats.FetchOverview(ctx, cmd.String("period"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(overview, true)
	}

	r.writePlainHeader(fmt.Sprintf("Listening overview (%s)", cmd.String("period")))
	r.writePlain("Plays: %d\n", overview.TotalPlays)
	r.writePlain("Time listened: %s\n", shared.FormatDuration(overview.TotalDurationSeconds))
	r.writePlain("Unique songs: %d\n", overview.UniqueSongs)
	r.writePlain("Unique artists: %d\n", overview.UniqueArtists)
	if overview.MostPlayedGenre != "" {
		r.writePlain("Top genre: %s\n", overview.MostPlayedGenre)
	}

	if len(overview.ListeningByHour) > 0 {
		r.writePlain("\nBy hour:\n")
		for _, h := range overview.ListeningByHour {
			if h.Count > 0 {
				r.writePlain("  %02d:00  %d\n", h.Hour, h.Count)
			}
		}
	}
	return nil
}

// StatsTopSongs prints the most played songs.
func (r *Runner) StatsTopSongs(ctx context.Context, cmd *cli.Command) error {
	items, err := r.stats.TopSongs(ctx, cmd.String("period"), cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Top songs (%s)", cmd.String("period")))
	for i, item := range items {
		r.writePlain("%3d. %s - %s (%d plays)\n", i+1, item.Song.Artist, item.Song.Title, item.PlayCount)
	}
	return nil
}

// StatsTopArtists prints the most played artists.
func (r *Runner) StatsTopArtists(ctx context.Context, cmd *cli.Command) error {
	items, err := r.stats.TopArtists(ctx, cmd.String("period"), cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Top artists (%s)", cmd.String("period")))
	for i, item := range items {
		r.writePlain("%3d. %s (%d plays)\n", i+1, item.Artist, item.PlayCount)
	}
	return nil
}

// StatsHistory prints pages of listening history.
func (r *Runner) StatsHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.stats.FetchHistory(ctx, true); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	for page := 1; page < cmd.Int("pages") && r.stats.HasMore(); page++ {
		if err := r.stats.LoadMoreHistory(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	history := r.stats.History()
	if cmd.Bool("json") {
		return r.writeJSON(history, true)
	}

	r.writePlainHeader(fmt.Sprintf("History (%d entries)", len(history)))
	for _, h := range history {
		marker := " "
		if h.Skipped {
			marker = "⏭"
		} else if h.Completed {
			marker = "✓"
		}
		r.writePlain("%s %s  %s - %s\n", h.PlayedAt.Format("2006-01-02 15:04"), marker, h.Song.Artist, h.Song.Title)
	}
	return nil
}
