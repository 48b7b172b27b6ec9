package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChainsList fetches and prints the user's mood chains.
func (r *Runner) ChainsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.chains.Fetch(ctx, true); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	items := r.chains.Items()
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Mood chains (%d)", r.chains.Total()))
	for i, c := range items {
		auto := ""
		if c.IsAutoGenerated {
			auto = " (auto)"
		}
		r.writePlain("%3d. %s%s [%s, %d songs, %d plays]\n", i+1, c.Name, auto, c.TransitionStyle, c.SongCount, c.PlayCount)
	}
	return nil
}

// ChainsShow prints a chain with its songs and transition graph.
func (r *Runner) ChainsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: chain id", shared.ErrMissingArgument)
	}

	detail, err := r.chains.Open(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrChainNotFound, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s [%s]", detail.Name, detail.TransitionStyle))
	if detail.Description != "" {
		r.writePlain("%s\n\n", detail.Description)
	}
	for _, s := range detail.Songs {
		r.writePlain("%3d. %s - %s (weight %.2f)\n", s.Position+1, s.Artist, s.Title, s.TransitionWeight)
	}
	if len(detail.Transitions) > 0 {
		r.writePlain("\nTransitions:\n")
		for _, t := range detail.Transitions {
			r.writePlain("  %s → %s (%.2f, %d plays)\n", t.FromSongID, t.ToSongID, t.Weight, t.PlayCount)
		}
	}
	return nil
}

// ChainsCreate creates a mood chain.
func (r *Runner) ChainsCreate(ctx context.Context, cmd *cli.Command) error {
	created, err := r.chains.Create(ctx, models.MoodChainCreate{
		Name:            cmd.String("name"),
		Description:     cmd.String("description"),
		TransitionStyle: models.TransitionStyle(cmd.String("style")),
		SongIDs:         cmd.StringSlice("song"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("created chain %s (%s)\n", created.Name, created.ID)
}

// ChainsFromHistory asks the server to build a chain from listening history.
func (r *Runner) ChainsFromHistory(ctx context.Context, cmd *cli.Command) error {
	created, err := r.chains.FromHistory(ctx, models.ChainFromHistory{
		Name:     cmd.String("name"),
		MinPlays: cmd.Int("min-plays"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("generated chain %s with %d songs\n", created.Name, created.SongCount)
}

// ChainsUpdate patches chain metadata.
func (r *Runner) ChainsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: chain id", shared.ErrMissingArgument)
	}

	partial := models.MoodChainUpdate{}
	changed := false
	if v := cmd.String("name"); v != "" {
		partial.Name = &v
		changed = true
	}
	if v := cmd.String("description"); v != "" {
		partial.Description = &v
		changed = true
	}
	if v := cmd.String("style"); v != "" {
		style := models.TransitionStyle(v)
		partial.TransitionStyle = &style
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	updated, err := r.chains.Update(ctx, id, partial)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("updated chain %s\n", updated.Name)
}

// ChainsDelete deletes a mood chain.
func (r *Runner) ChainsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: chain id", shared.ErrMissingArgument)
	}

	if err := r.chains.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("deleted chain %s\n", id)
}

// ChainsAdd adds a song to a chain.
func (r *Runner) ChainsAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.chains.AddSong(ctx, cmd.String("chain"), cmd.String("song"), cmd.Int("position")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("added %s to %s\n", cmd.String("song"), cmd.String("chain"))
}

// ChainsRemove removes a song from a chain.
func (r *Runner) ChainsRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.chains.RemoveSong(ctx, cmd.String("chain"), cmd.String("song")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("removed %s from %s\n", cmd.String("song"), cmd.String("chain"))
}

// ChainsReorder applies a new song order to a chain.
func (r *Runner) ChainsReorder(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("song")
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --song", shared.ErrMissingArgument)
	}

	chainID := cmd.String("chain")
	if _, err := r.chains.Open(ctx, chainID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrChainNotFound, err)
	}

	if err := r.chains.Reorder(ctx, chainID, ids); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("reordered %s\n", chainID)
}

// ChainsTransitions replaces a chain's transition graph. Each edge is
// given as from:to or from:to:weight.
func (r *Runner) ChainsTransitions(ctx context.Context, cmd *cli.Command) error {
	edges := cmd.StringSlice("edge")
	if len(edges) == 0 {
		return fmt.Errorf("%w: at least one --edge", shared.ErrMissingArgument)
	}

	transitions := make([]models.Transition, 0, len(edges))
	for _, edge := range edges {
		parts := strings.Split(edge, ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("%w: edge %q, want from:to[:weight]", shared.ErrInvalidFlag, edge)
		}
		t := models.Transition{FromSongID: parts[0], ToSongID: parts[1], Weight: 1.0}
		if len(parts) > 2 {
			w, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return fmt.Errorf("%w: edge weight %q", shared.ErrInvalidFlag, parts[2])
			}
			t.Weight = w
		}
		transitions = append(transitions, t)
	}

	chainID := cmd.String("chain")
	if _, err := r.chains.Open(ctx, chainID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrChainNotFound, err)
	}

	if err := r.chains.SetTransitions(ctx, chainID, transitions); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("set %d transitions on %s\n", len(transitions), chainID)
}

// ChainsNext prints next-song suggestions for a chain.
func (r *Runner) ChainsNext(ctx context.Context, cmd *cli.Command) error {
	suggestions, err := r.chains.Next(ctx, cmd.String("chain"), cmd.String("after"), cmd.Int("count"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	if len(suggestions) == 0 {
		return r.writePlain("no suggestions, the chain may be empty\n")
	}

	r.writePlainHeader("Suggestions")
	for i, s := range suggestions {
		r.writePlain("%d. %s - %s (weight %.2f, %s)\n", i+1, s.Artist, s.Title, s.Weight, s.Reason)
	}
	return nil
}

// ChainsPlayed records a played transition so the server reinforces it.
func (r *Runner) ChainsPlayed(ctx context.Context, cmd *cli.Command) error {
	if err := r.chains.RecordTransition(ctx, cmd.String("chain"), cmd.String("from"), cmd.String("to")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("recorded transition\n")
}
