package uploads

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/krolx/nicemusic/internal/shared"
)

// Status is the lifecycle state of a queued upload.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Item is a single queued upload.
type Item struct {
	ID       string            // Client-assigned queue identity
	Path     string            // Local file path
	Name     string            // Display name (base filename)
	Size     int64             // File size in bytes, 0 when unknown
	Meta     map[string]string // Metadata overrides sent as form fields
	Progress int               // 0-100; 100 exactly once successful
	Status   Status
	Err      string // Display message when Status is error
	SongID   string // Server-assigned song id when Status is success
}

// Audio formats accepted by the server. Validation checks the MIME type
// first and falls back to the file extension, since OS file pickers often
// report empty or generic types.
var allowedMIMETypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/flac":   true,
	"audio/x-flac": true,
	"audio/ogg":    true,
	"audio/vorbis": true,
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/aac":    true,
	"audio/mp4":    true,
	"audio/x-m4a":  true,
}

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
}

// Queue holds upload items in insertion order. Adding, removing and status
// transitions are all local; the network work happens in [Processor].
type Queue struct {
	mu    sync.Mutex
	items []Item
}

// NewQueue creates an empty upload queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Items returns a copy of the queue in insertion order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Get returns the item with the given id.
func (q *Queue) Get(id string) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Len returns the number of queued items in any state.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Add validates and enqueues a local file for upload. Unsupported formats
// are rejected without creating an item. The MIME type may be empty, in
// which case only the extension is checked.
func (q *Queue) Add(path, mimeType string, meta map[string]string) (Item, error) {
	if !Accepted(path, mimeType) {
		return Item{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, filepath.Base(path))
	}

	item := Item{
		ID:     shared.GenerateID(),
		Path:   path,
		Name:   filepath.Base(path),
		Meta:   meta,
		Status: StatusPending,
	}

	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	return item, nil
}

// Remove deletes the item with the given id regardless of its state. An
// in-flight upload keeps running; its later progress reports are dropped.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// ClearCompleted removes successful items only, preserving the relative
// order of everything else. Errored items stay visible until removed
// explicitly.
func (q *Queue) ClearCompleted() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	removed := 0
	for _, it := range q.items {
		if it.Status == StatusSuccess {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	q.items = kept
	return removed
}

// ClearAll empties the queue.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Pending returns the ids of items still waiting to upload.
func (q *Queue) Pending() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var ids []string
	for _, it := range q.items {
		if it.Status == StatusPending {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// markUploading transitions a pending item to uploading. Returns false when
// the item was removed or already claimed.
func (q *Queue) markUploading(id string) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id && q.items[i].Status == StatusPending {
			q.items[i].Status = StatusUploading
			q.items[i].Progress = 0
			q.items[i].Err = ""
			return q.items[i], true
		}
	}
	return Item{}, false
}

// setProgress records upload progress. Values never regress; a stale report
// lower than the current value is dropped.
func (q *Queue) setProgress(id string, pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			if pct > q.items[i].Progress {
				q.items[i].Progress = pct
			}
			return
		}
	}
}

// markSuccess finalizes an item, forcing progress to 100.
func (q *Queue) markSuccess(id, songID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Status = StatusSuccess
			q.items[i].Progress = 100
			q.items[i].SongID = songID
			return
		}
	}
}

// markError records a failed upload, keeping whatever progress was reached.
func (q *Queue) markError(id string, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Status = StatusError
			q.items[i].Err = err.Error()
			return
		}
	}
}

// Accepted reports whether a file is an uploadable audio format. The MIME
// type wins when it is a recognized audio type; empty or generic types fall
// back to the extension allow-list.
func Accepted(path, mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	if allowedMIMETypes[mimeType] {
		return true
	}

	// Empty and generic types, and unknown audio/* subtypes, defer to the
	// extension. Any other concrete type is a definitive rejection.
	switch {
	case mimeType == "", mimeType == "application/octet-stream", strings.HasPrefix(mimeType, "audio/"):
		return allowedExtensions[strings.ToLower(filepath.Ext(path))]
	default:
		return false
	}
}
