package main

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/uploads"
	"github.com/urfave/cli/v3"
)

// Upload queues the given audio files and drains the queue through the
// worker pool, printing progress as it goes.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("%w: at least one audio file", shared.ErrMissingArgument)
	}

	probe := cmd.Bool("probe")
	queued := 0
	for _, path := range files {
		var meta map[string]string
		if probe {
			if probed, err := uploads.ProbeMeta(path); err == nil {
				meta = probed
			} else {
				r.logger.Debug("tag probe failed", "file", path, "error", err)
			}
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		item, err := r.queue.Add(path, mimeType, meta)
		if err != nil {
			r.writePlain("skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		queued++
		r.logger.Debug("queued upload", "file", item.Name, "id", item.ID)
	}

	if queued == 0 {
		return fmt.Errorf("%w: no uploadable files", shared.ErrUnsupportedFormat)
	}

	prog := make(chan uploads.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			switch update.Phase {
			case uploads.Complete, uploads.Failed:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	opts := uploads.ProcessOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		OnUploaded: r.library.Insert,
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = r.config.Uploads.Workers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = r.config.Uploads.RateLimit
	}

	result, err := r.processor.Process(ctx, prog, opts)
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}

	r.writePlainln("%d uploaded, %d failed", result.Succeeded, result.Failed)
	if result.Failed > 0 {
		for _, item := range r.queue.Items() {
			if item.Status == uploads.StatusError {
				r.writePlain("  ✗ %s: %s\n", item.Name, item.Err)
			}
		}
	}

	r.queue.ClearCompleted()
	return nil
}
