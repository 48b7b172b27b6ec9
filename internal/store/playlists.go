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

// Playlists is the store for the user's playlists. Besides the paginated
// list it caches the detail of the most recently opened playlist, which is
// the target of the song add/remove/reorder operations.
type Playlists struct {
	mu      sync.Mutex
	client  *api.Client
	logger  *log.Logger
	items   []models.Playlist
	cursor  Pagination
	current *models.PlaylistDetail
	loading bool
	lastErr string
}

// NewPlaylists creates a playlist store backed by the given client.
func NewPlaylists(client *api.Client, logger *log.Logger) *Playlists {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Playlists{
		client: client,
		logger: logger,
		cursor: Pagination{Page: 1, Limit: DefaultLimit},
	}
}

// Items returns a copy of the loaded playlists.
func (p *Playlists) Items() []models.Playlist {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Playlist, len(p.items))
	copy(out, p.items)
	return out
}

// Current returns the cached detail of the last opened playlist, or nil.
func (p *Playlists) Current() *models.PlaylistDetail {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	detail := *p.current
	detail.Songs = make([]models.PlaylistSong, len(p.current.Songs))
	copy(detail.Songs, p.current.Songs)
	return &detail
}

// Loading reports whether a fetch is in flight.
func (p *Playlists) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the display message recorded by the last failed action.
func (p *Playlists) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// HasMore reports whether pages beyond the cursor exist.
func (p *Playlists) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.HasMore()
}

// Total returns the remote playlist count.
func (p *Playlists) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.Total
}

// Fetch loads the page at the cursor, replacing the collection on reset and
// appending otherwise.
func (p *Playlists) Fetch(ctx context.Context, reset bool) error {
	p.mu.Lock()
	if reset {
		p.cursor.Page = 1
	}
	query := pageQuery(p.cursor)
	p.loading = true
	p.lastErr = ""
	p.mu.Unlock()

	var page models.Page[models.Playlist]
	err := p.client.Get(ctx, "/playlists?"+query.Encode(), &page)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		p.lastErr = err.Error()
		return err
	}

	if reset {
		p.items = page.Items
	} else {
		p.items = append(p.items, page.Items...)
	}
	p.cursor.apply(page.Total, page.Page, page.Limit, page.Pages)
	return nil
}

// LoadMore advances the cursor and appends the next page; no-op when no
// further pages exist or a fetch is in flight.
func (p *Playlists) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || !p.cursor.HasMore() {
		p.mu.Unlock()
		return nil
	}
	p.cursor.Page++
	p.mu.Unlock()

	return p.Fetch(ctx, false)
}

// Create sends the new playlist, prepends it locally and increments the
// total. No refetch.
func (p *Playlists) Create(ctx context.Context, input models.PlaylistCreate) (*models.Playlist, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	var created models.Playlist
	if err := p.client.Post(ctx, "/playlists", input, &created); err != nil {
		p.recordErr(err)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append([]models.Playlist{created}, p.items...)
	p.cursor.incTotal()
	return &created, nil
}

// Update sends a partial change and replaces the matching entry by identity.
func (p *Playlists) Update(ctx context.Context, id string, partial models.PlaylistUpdate) (*models.Playlist, error) {
	var updated models.Playlist
	if err := p.client.Patch(ctx, "/playlists/"+id, partial, &updated); err != nil {
		p.recordErr(err)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i] = updated
			break
		}
	}
	if p.current != nil && p.current.ID == id {
		p.current.Playlist = updated
	}

	return &updated, nil
}

// Remove deletes the playlist remotely, drops it locally and decrements the
// total, floored at zero.
func (p *Playlists) Remove(ctx context.Context, id string) error {
	if err := p.client.Delete(ctx, "/playlists/"+id, nil); err != nil {
		p.recordErr(err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}
	if p.current != nil && p.current.ID == id {
		p.current = nil
	}
	p.cursor.decTotal()
	return nil
}

// Open fetches a playlist's detail and caches it as the current playlist.
func (p *Playlists) Open(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	var detail models.PlaylistDetail
	if err := p.client.Get(ctx, "/playlists/"+id, &detail); err != nil {
		p.recordErr(err)
		return nil, err
	}

	p.mu.Lock()
	p.current = &detail
	p.mu.Unlock()
	return p.Current(), nil
}

// AddSong appends (or inserts at position, when >= 0) a song to a playlist,
// then refreshes the cached detail from the response.
func (p *Playlists) AddSong(ctx context.Context, playlistID, songID string, position int) error {
	payload := map[string]any{"song_id": songID}
	if position >= 0 {
		payload["position"] = position
	}

	var detail models.PlaylistDetail
	if err := p.client.Post(ctx, "/playlists/"+playlistID+"/songs", payload, &detail); err != nil {
		p.recordErr(err)
		return err
	}

	p.applyDetail(&detail)
	return nil
}

// RemoveSong removes a song from a playlist and refetches the detail so
// positions stay authoritative.
func (p *Playlists) RemoveSong(ctx context.Context, playlistID, songID string) error {
	var detail models.PlaylistDetail
	if err := p.client.Delete(ctx, "/playlists/"+playlistID+"/songs/"+songID, nil); err != nil {
		p.recordErr(err)
		return err
	}

	if err := p.client.Get(ctx, "/playlists/"+playlistID, &detail); err != nil {
		p.recordErr(err)
		return err
	}

	p.applyDetail(&detail)
	return nil
}

// Reorder optimistically applies the new song order to the cached detail,
// then sends it. On failure the tentative order is discarded by refetching
// the authoritative detail; no inverse diff is computed.
func (p *Playlists) Reorder(ctx context.Context, playlistID string, songIDs []string) error {
	p.mu.Lock()
	if p.current != nil && p.current.ID == playlistID {
		p.current.Songs = reorderPlaylistSongs(p.current.Songs, songIDs)
	}
	p.mu.Unlock()

	payload := map[string]any{"song_ids": songIDs}
	if err := p.client.Put(ctx, "/playlists/"+playlistID+"/songs/order", payload, nil); err != nil {
		p.recordErr(err)
		if _, refetchErr := p.Open(ctx, playlistID); refetchErr != nil {
			p.logger.Warn("failed to restore playlist order after reorder failure", "playlist", playlistID, "error", refetchErr)
		}
		return err
	}

	return nil
}

func (p *Playlists) applyDetail(detail *models.PlaylistDetail) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = detail
	for i := range p.items {
		if p.items[i].ID == detail.ID {
			p.items[i] = detail.Playlist
			break
		}
	}
}

func (p *Playlists) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err.Error()
}

// reorderPlaylistSongs returns songs arranged per ids, appending any songs
// missing from ids at the end in their previous order.
func reorderPlaylistSongs(songs []models.PlaylistSong, ids []string) []models.PlaylistSong {
	byID := make(map[string]models.PlaylistSong, len(songs))
	for _, s := range songs {
		byID[s.SongID] = s
	}

	out := make([]models.PlaylistSong, 0, len(songs))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			s.Position = len(out)
			out = append(out, s)
			seen[id] = true
		}
	}
	for _, s := range songs {
		if !seen[s.SongID] {
			s.Position = len(out)
			out = append(out, s)
		}
	}

	return out
}
