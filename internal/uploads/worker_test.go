package uploads

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	tu "github.com/krolx/nicemusic/internal/testing"
)

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("Uploads Every Pending Item", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)
		q.Add("/music/b.mp3", "", nil)
		q.Add("/music/c.mp3", "", nil)

		uploader := &tu.MockUploader{
			Song:    models.Song{ID: "song-x", Title: "Uploaded"},
			Reports: []int{30, 70, 100},
		}
		processor := NewProcessor(q, uploader, nil)

		result, err := processor.Process(ctx, nil, ProcessOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 3 || result.Succeeded != 3 || result.Failed != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if got := len(uploader.Uploaded()); got != 3 {
			t.Errorf("expected 3 uploads, got %d", got)
		}

		for _, item := range q.Items() {
			if item.Status != StatusSuccess {
				t.Errorf("expected %s successful, got %s", item.Name, item.Status)
			}
			if item.Progress != 100 {
				t.Errorf("expected %s at 100, got %d", item.Name, item.Progress)
			}
			if item.SongID == "" {
				t.Errorf("expected %s to carry the server song id", item.Name)
			}
		}
	})

	t.Run("Failure Marks Item And Counts", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)

		uploader := &tu.MockUploader{UploadErr: errors.New("connection reset")}
		processor := NewProcessor(q, uploader, nil)

		result, err := processor.Process(ctx, nil, ProcessOpts{})
		if err != nil {
			t.Fatalf("expected the batch itself to settle, got %v", err)
		}
		if result.Failed != 1 || result.Succeeded != 0 {
			t.Errorf("unexpected result %+v", result)
		}

		item := q.Items()[0]
		if item.Status != StatusError {
			t.Errorf("expected error state, got %s", item.Status)
		}
		if item.Err != "connection reset" {
			t.Errorf("unexpected message %q", item.Err)
		}
	})

	t.Run("Skips Items Removed Before Claim", func(t *testing.T) {
		q := NewQueue()
		kept, _ := q.Add("/music/a.mp3", "", nil)
		removed, _ := q.Add("/music/b.mp3", "", nil)

		uploader := &tu.MockUploader{Song: models.Song{ID: "song-x"}}
		processor := NewProcessor(q, uploader, nil)

		// Collect ids first, drop one, then process to exercise the claim
		// check inside the worker.
		q.Remove(removed.ID)

		result, err := processor.Process(ctx, nil, ProcessOpts{NumWorkers: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Succeeded != 1 {
			t.Errorf("expected one upload, got %d", result.Succeeded)
		}
		if got, _ := q.Get(kept.ID); got.Status != StatusSuccess {
			t.Errorf("expected the kept item uploaded, got %s", got.Status)
		}
	})

	t.Run("Notifies Per Successful Upload", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)
		q.Add("/music/b.mp3", "", nil)

		uploader := &tu.MockUploader{Song: models.Song{Title: "Fetched"}}
		processor := NewProcessor(q, uploader, nil)

		var mu sync.Mutex
		var notified []models.Song
		_, err := processor.Process(ctx, nil, ProcessOpts{
			OnUploaded: func(song models.Song) {
				mu.Lock()
				notified = append(notified, song)
				mu.Unlock()
			},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(notified) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(notified))
		}
		if notified[0].Title != "Fetched" {
			t.Errorf("expected the full fetched song, got %q", notified[0].Title)
		}
	})

	t.Run("Song Fetch Failure Does Not Fail The Upload", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)

		uploader := &tu.MockUploader{
			Song:    models.Song{ID: "song-x"},
			SongErr: errors.New("not found"),
		}
		processor := NewProcessor(q, uploader, nil)

		notified := 0
		result, err := processor.Process(ctx, nil, ProcessOpts{
			OnUploaded: func(models.Song) { notified++ },
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Succeeded != 1 {
			t.Errorf("expected the upload counted as success, got %+v", result)
		}
		if notified != 0 {
			t.Error("expected no notification when the fetch fails")
		}
	})

	t.Run("Empty Queue Is A No-Op", func(t *testing.T) {
		processor := NewProcessor(NewQueue(), &tu.MockUploader{}, nil)

		result, err := processor.Process(ctx, nil, ProcessOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 0 {
			t.Errorf("expected an empty result, got %+v", result)
		}
	})

	t.Run("Nil Client", func(t *testing.T) {
		processor := NewProcessor(NewQueue(), nil, nil)

		_, err := processor.Process(ctx, nil, ProcessOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})
}

func TestProcessProgress(t *testing.T) {
	t.Run("Reports Phases Over The Channel", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)

		uploader := &tu.MockUploader{
			Song:    models.Song{ID: "song-x"},
			Reports: []int{50, 100},
		}
		processor := NewProcessor(q, uploader, nil)

		prog := make(chan ProgressUpdate, 16)
		_, err := processor.Process(context.Background(), prog, ProcessOpts{NumWorkers: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(prog)

		var phases []Phase
		for update := range prog {
			phases = append(phases, update.Phase)
		}
		if len(phases) < 3 {
			t.Fatalf("expected start, progress and completion updates, got %v", phases)
		}
		if phases[0] != Upload {
			t.Errorf("expected the run to open with an upload update, got %v", phases[0])
		}
		if phases[len(phases)-1] != Complete {
			t.Errorf("expected a completion update last, got %v", phases[len(phases)-1])
		}
	})

	t.Run("Full Channel Never Blocks The Batch", func(t *testing.T) {
		q := NewQueue()
		q.Add("/music/a.mp3", "", nil)
		q.Add("/music/b.mp3", "", nil)

		uploader := &tu.MockUploader{
			Song:    models.Song{ID: "song-x"},
			Reports: []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}
		processor := NewProcessor(q, uploader, nil)

		// Capacity one and no reader: every further send must be dropped,
		// not block the workers.
		prog := make(chan ProgressUpdate, 1)
		result, err := processor.Process(context.Background(), prog, ProcessOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Succeeded != 2 {
			t.Errorf("expected both uploads to finish, got %+v", result)
		}
	})
}
