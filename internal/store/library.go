package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/repositories"
	"github.com/krolx/nicemusic/internal/shared"
)

// FilterPatch is a partial change to [models.SongFilters]. Nil fields are
// left at their current values; set fields replace them.
type FilterPatch struct {
	Search     *string
	Artist     *string
	Album      *string
	Genre      *string
	IsFavorite **bool
	YearFrom   *int
	YearTo     *int
	Sort       *string
	Order      *string
}

// Library is the store for the user's song collection.
type Library struct {
	mu      sync.Mutex
	client  *api.Client
	cache   *repositories.SongCacheRepository
	logger  *log.Logger
	songs   []models.Song
	cursor  Pagination
	filters models.SongFilters
	loading bool
	lastErr string
}

// LibraryOpts configures a [Library].
type LibraryOpts struct {
	Client *api.Client
	Cache  *repositories.SongCacheRepository // optional offline cache
	Logger *log.Logger
	Limit  int
}

// NewLibrary creates a library store backed by the given client.
func NewLibrary(opts LibraryOpts) *Library {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	return &Library{
		client: opts.Client,
		cache:  opts.Cache,
		logger: opts.Logger,
		cursor: Pagination{Page: 1, Limit: opts.Limit},
		filters: models.SongFilters{
			Sort:  "created_at",
			Order: "desc",
		},
	}
}

// Songs returns a copy of the current collection.
func (l *Library) Songs() []models.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Song, len(l.songs))
	copy(out, l.songs)
	return out
}

// TrackCount returns the remote total, not the number of loaded items.
func (l *Library) TrackCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor.Total
}

// IsEmpty reports whether the collection has no tracks at all.
func (l *Library) IsEmpty() bool {
	return l.TrackCount() == 0
}

// Loading reports whether a fetch is in flight.
func (l *Library) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the display message recorded by the last failed action.
func (l *Library) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// HasMore reports whether pages beyond the cursor exist.
func (l *Library) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor.HasMore()
}

// Filters returns the current filter value object.
func (l *Library) Filters() models.SongFilters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// Fetch loads the page at the cursor. With reset, the cursor returns to page
// one and the collection is replaced; otherwise the page is appended. The
// loading flag is set for the duration of the call and cleared on both
// outcomes. On failure the cause is recorded for display and returned.
func (l *Library) Fetch(ctx context.Context, reset bool) error {
	l.mu.Lock()
	if reset {
		l.cursor.Page = 1
	}
	query := songQuery(l.filters, l.cursor)
	l.loading = true
	l.lastErr = ""
	l.mu.Unlock()

	var page models.Page[models.Song]
	err := l.client.Get(ctx, "/songs?"+query.Encode(), &page)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false

	if err != nil {
		l.lastErr = err.Error()
		return err
	}

	if reset {
		l.songs = page.Items
	} else {
		l.songs = append(l.songs, page.Items...)
	}
	l.cursor.apply(page.Total, page.Page, page.Limit, page.Pages)

	l.writeCache(reset, page.Items)
	return nil
}

// LoadMore advances the cursor and appends the next page. It is a no-op when
// no further pages exist or a fetch is already in flight.
func (l *Library) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.cursor.HasMore() {
		l.mu.Unlock()
		return nil
	}
	l.cursor.Page++
	l.mu.Unlock()

	return l.Fetch(ctx, false)
}

// SetFilters merges patch into the current filters and performs a reset fetch.
func (l *Library) SetFilters(ctx context.Context, patch FilterPatch) error {
	l.mu.Lock()
	mergeFilters(&l.filters, patch)
	l.mu.Unlock()

	return l.Fetch(ctx, true)
}

// SetSort sorts by field and performs a reset fetch. Selecting the current
// sort field flips the order; selecting a new field keeps the current order.
func (l *Library) SetSort(ctx context.Context, field string) error {
	l.mu.Lock()
	if l.filters.Sort == field {
		if l.filters.Order == "asc" {
			l.filters.Order = "desc"
		} else {
			l.filters.Order = "asc"
		}
	} else {
		l.filters.Sort = field
	}
	l.mu.Unlock()

	return l.Fetch(ctx, true)
}

// Get fetches a single song by id. The collection is not touched.
func (l *Library) Get(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := l.client.Get(ctx, "/songs/"+id, &song); err != nil {
		l.recordErr(err)
		return nil, err
	}
	return &song, nil
}

// Update sends a partial change and replaces the matching entry by identity.
// When the id is not in the loaded collection the remote update still
// succeeds and local state is left untouched.
func (l *Library) Update(ctx context.Context, id string, partial models.SongUpdate) (*models.Song, error) {
	var updated models.Song
	if err := l.client.Patch(ctx, "/songs/"+id, partial, &updated); err != nil {
		l.recordErr(err)
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.songs {
		if l.songs[i].ID == id {
			l.songs[i] = updated
			break
		}
	}

	return &updated, nil
}

// ToggleFavorite flips a song's favorite flag.
func (l *Library) ToggleFavorite(ctx context.Context, id string) (*models.Song, error) {
	l.mu.Lock()
	current := false
	for i := range l.songs {
		if l.songs[i].ID == id {
			current = l.songs[i].IsFavorite
			break
		}
	}
	l.mu.Unlock()

	next := !current
	return l.Update(ctx, id, models.SongUpdate{IsFavorite: &next})
}

// Remove deletes the song remotely, drops it from the collection and
// decrements the total (floored at zero).
func (l *Library) Remove(ctx context.Context, id string) error {
	if err := l.client.Delete(ctx, "/songs/"+id, nil); err != nil {
		l.recordErr(err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.songs {
		if l.songs[i].ID == id {
			l.songs = append(l.songs[:i], l.songs[i+1:]...)
			break
		}
	}
	l.cursor.decTotal()

	if l.cache != nil {
		if err := l.cache.Remove(id); err != nil {
			l.logger.Warn("failed to update song cache", "error", err)
		}
	}

	return nil
}

// Insert prepends a song to the collection and increments the total without
// a refetch. Used when an upload completes and the server returns the new
// song's identity.
func (l *Library) Insert(song models.Song) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.songs = append([]models.Song{song}, l.songs...)
	l.cursor.incTotal()
}

// CachedSongs lists the offline song cache, most recently cached first.
func (l *Library) CachedSongs(limit int) ([]models.Song, error) {
	if l.cache == nil {
		return nil, nil
	}
	return l.cache.List(limit)
}

func (l *Library) recordErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = err.Error()
}

// writeCache mirrors the fetched page into the offline cache. Failures are
// logged, never surfaced; the cache is best-effort. Caller holds l.mu.
func (l *Library) writeCache(reset bool, items []models.Song) {
	if l.cache == nil {
		return
	}

	var err error
	if reset {
		err = l.cache.Replace(items)
	} else {
		err = l.cache.Append(items)
	}
	if err != nil {
		l.logger.Warn("failed to update song cache", "error", err)
	}
}

func mergeFilters(f *models.SongFilters, patch FilterPatch) {
	if patch.Search != nil {
		f.Search = *patch.Search
	}
	if patch.Artist != nil {
		f.Artist = *patch.Artist
	}
	if patch.Album != nil {
		f.Album = *patch.Album
	}
	if patch.Genre != nil {
		f.Genre = *patch.Genre
	}
	if patch.IsFavorite != nil {
		f.IsFavorite = *patch.IsFavorite
	}
	if patch.YearFrom != nil {
		f.YearFrom = *patch.YearFrom
	}
	if patch.YearTo != nil {
		f.YearTo = *patch.YearTo
	}
	if patch.Sort != nil {
		f.Sort = *patch.Sort
	}
	if patch.Order != nil {
		f.Order = *patch.Order
	}
}
