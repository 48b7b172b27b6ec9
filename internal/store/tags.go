package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// Tags is the store for the user's song tags. The tag list is small and
// unpaginated; attach and detach operate on songs and return the song's
// updated tag set, which is passed through without touching the list.
type Tags struct {
	mu      sync.Mutex
	client  *api.Client
	logger  *log.Logger
	items   []models.Tag
	lastErr string
}

// NewTags creates a tag store backed by the given client.
func NewTags(client *api.Client, logger *log.Logger) *Tags {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Tags{client: client, logger: logger}
}

// Items returns a copy of the loaded tags.
func (t *Tags) Items() []models.Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Tag, len(t.items))
	copy(out, t.items)
	return out
}

// Err returns the display message recorded by the last failed action.
func (t *Tags) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Fetch replaces the collection with the server's tag list.
func (t *Tags) Fetch(ctx context.Context) error {
	var list models.TagList
	if err := t.client.Get(ctx, "/tags", &list); err != nil {
		t.recordErr(err)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = list.Items
	t.lastErr = ""
	return nil
}

// Create sends the new tag and prepends it locally. Tag names are unique per
// account; a duplicate comes back as a conflict from the server.
func (t *Tags) Create(ctx context.Context, input models.TagCreate) (*models.Tag, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: tag name is required", shared.ErrInvalidInput)
	}
	if !validHexColor(input.Color) {
		return nil, fmt.Errorf("%w: color must be a hex value like #FF5733", shared.ErrInvalidInput)
	}

	var created models.Tag
	if err := t.client.Post(ctx, "/tags", input, &created); err != nil {
		t.recordErr(err)
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append([]models.Tag{created}, t.items...)
	return &created, nil
}

// Update sends a partial change and replaces the matching entry by identity.
func (t *Tags) Update(ctx context.Context, id string, partial models.TagUpdate) (*models.Tag, error) {
	if partial.Color != nil && !validHexColor(*partial.Color) {
		return nil, fmt.Errorf("%w: color must be a hex value like #FF5733", shared.ErrInvalidInput)
	}

	var updated models.Tag
	if err := t.client.Patch(ctx, "/tags/"+id, partial, &updated); err != nil {
		t.recordErr(err)
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			t.items[i] = updated
			break
		}
	}
	return &updated, nil
}

// Remove deletes the tag remotely and drops it locally. The server cascades
// the deletion to every song the tag was attached to.
func (t *Tags) Remove(ctx context.Context, id string) error {
	if err := t.client.Delete(ctx, "/tags/"+id, nil); err != nil {
		t.recordErr(err)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			break
		}
	}
	return nil
}

// AddToSong attaches a tag to a song and returns the song with its updated
// tag set.
func (t *Tags) AddToSong(ctx context.Context, songID, tagID string) (*models.SongWithTags, error) {
	payload := map[string]string{"tag_id": tagID}

	var song models.SongWithTags
	if err := t.client.Post(ctx, "/songs/"+songID+"/tags", payload, &song); err != nil {
		t.recordErr(err)
		return nil, err
	}
	return &song, nil
}

// RemoveFromSong detaches a tag from a song and returns the song with its
// updated tag set.
func (t *Tags) RemoveFromSong(ctx context.Context, songID, tagID string) (*models.SongWithTags, error) {
	var song models.SongWithTags
	if err := t.client.Delete(ctx, "/songs/"+songID+"/tags/"+tagID, &song); err != nil {
		t.recordErr(err)
		return nil, err
	}
	return &song, nil
}

func (t *Tags) recordErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastErr = err.Error()
}

// validHexColor accepts an empty color or a #RRGGBB value.
func validHexColor(color string) bool {
	if color == "" {
		return true
	}
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for _, c := range color[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
