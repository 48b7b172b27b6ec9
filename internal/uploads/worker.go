package uploads

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"golang.org/x/time/rate"
)

// Uploader is the slice of the API client the processor needs.
type Uploader interface {
	UploadSong(ctx context.Context, filePath string, overrides map[string]string, progress api.ProgressFunc) (*models.SongUploadResult, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
}

// ProcessOpts configures a batch upload run.
type ProcessOpts struct {
	NumWorkers int                    // Concurrent uploads (default: 3)
	RateLimit  float64                // Upload starts per second (default: 5)
	OnUploaded func(song models.Song) // Called once per successful upload
}

// Result summarizes a batch upload run.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
}

// Processor drains the pending items of a queue through a bounded worker
// pool. Queue state transitions and progress are recorded on the queue
// itself; the optional channel mirrors them for live display.
type Processor struct {
	queue  *Queue
	client Uploader
	logger *log.Logger
}

// NewProcessor creates a processor over the given queue and client.
func NewProcessor(queue *Queue, client Uploader, logger *log.Logger) *Processor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Processor{queue: queue, client: client, logger: logger}
}

// Process uploads every pending item and blocks until the batch settles.
// Items added after the run starts are not picked up. Progress updates use
// select with default to prevent blocking.
func (p *Processor) Process(ctx context.Context, prog chan<- ProgressUpdate, opts ProcessOpts) (*Result, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: upload client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	ids := p.queue.Pending()
	result := &Result{Total: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan job, len(ids))
	outcomes := make(chan bool, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, jobs, outcomes, prog, opts, len(ids))
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			jobs <- job{id: id, step: i + 1}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for ok := range outcomes {
		if ok {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	p.logger.Info("upload batch finished", "total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

type job struct {
	id   string
	step int
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan job, outcomes chan<- bool, prog chan<- ProgressUpdate, opts ProcessOpts, total int) {
	defer wg.Done()

	for j := range jobs {
		item, ok := p.queue.markUploading(j.id)
		if !ok {
			// Removed from the queue before a worker claimed it.
			continue
		}

		p.sendProgress(prog, startedUpdate(item, j.step, total))

		report := func(pct int) {
			p.queue.setProgress(item.ID, pct)
			p.sendProgress(prog, progressUpdate(item, j.step, total, pct))
		}

		uploaded, err := p.client.UploadSong(ctx, item.Path, item.Meta, report)
		if err != nil {
			p.queue.markError(item.ID, err)
			p.sendProgress(prog, failedUpdate(item, j.step, total, err))
			p.logger.Warn("upload failed", "file", item.Name, "error", err)
			outcomes <- false
			continue
		}

		p.queue.markSuccess(item.ID, uploaded.ID)
		p.sendProgress(prog, completedUpdate(item, j.step, total, uploaded.ID))

		if opts.OnUploaded != nil {
			if song, err := p.client.GetSong(ctx, uploaded.ID); err == nil {
				opts.OnUploaded(*song)
			} else {
				p.logger.Warn("uploaded song fetch failed", "song", uploaded.ID, "error", err)
			}
		}

		outcomes <- true
	}
}

func (p *Processor) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
