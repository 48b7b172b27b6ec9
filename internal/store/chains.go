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

// Chains is the store for mood chains. The transition graph and suggestion
// weights live server-side; this store only tracks membership, order and the
// cached detail of the chain being edited or played.
type Chains struct {
	mu      sync.Mutex
	client  *api.Client
	logger  *log.Logger
	items   []models.MoodChain
	cursor  Pagination
	current *models.MoodChainDetail
	loading bool
	lastErr string
}

// NewChains creates a mood chain store backed by the given client.
func NewChains(client *api.Client, logger *log.Logger) *Chains {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Chains{
		client: client,
		logger: logger,
		cursor: Pagination{Page: 1, Limit: DefaultLimit},
	}
}

// Items returns a copy of the loaded chains.
func (c *Chains) Items() []models.MoodChain {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.MoodChain, len(c.items))
	copy(out, c.items)
	return out
}

// Current returns the cached detail of the last opened chain, or nil.
func (c *Chains) Current() *models.MoodChainDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	detail := *c.current
	detail.Songs = make([]models.ChainSong, len(c.current.Songs))
	copy(detail.Songs, c.current.Songs)
	detail.Transitions = make([]models.Transition, len(c.current.Transitions))
	copy(detail.Transitions, c.current.Transitions)
	return &detail
}

// Loading reports whether a fetch is in flight.
func (c *Chains) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the display message recorded by the last failed action.
func (c *Chains) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// HasMore reports whether pages beyond the cursor exist.
func (c *Chains) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.HasMore()
}

// Total returns the remote chain count.
func (c *Chains) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.Total
}

// Fetch loads the page at the cursor, replacing on reset and appending
// otherwise.
func (c *Chains) Fetch(ctx context.Context, reset bool) error {
	c.mu.Lock()
	if reset {
		c.cursor.Page = 1
	}
	query := pageQuery(c.cursor)
	c.loading = true
	c.lastErr = ""
	c.mu.Unlock()

	var page models.Page[models.MoodChain]
	err := c.client.Get(ctx, "/mood-chains?"+query.Encode(), &page)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.lastErr = err.Error()
		return err
	}

	if reset {
		c.items = page.Items
	} else {
		c.items = append(c.items, page.Items...)
	}
	c.cursor.apply(page.Total, page.Page, page.Limit, page.Pages)
	return nil
}

// LoadMore advances the cursor and appends the next page; no-op when no
// further pages exist or a fetch is in flight.
func (c *Chains) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.cursor.HasMore() {
		c.mu.Unlock()
		return nil
	}
	c.cursor.Page++
	c.mu.Unlock()

	return c.Fetch(ctx, false)
}

// Create sends the new chain, prepends it locally and increments the total.
func (c *Chains) Create(ctx context.Context, input models.MoodChainCreate) (*models.MoodChain, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: chain name is required", shared.ErrInvalidInput)
	}
	if input.TransitionStyle != "" && !input.TransitionStyle.Valid() {
		return nil, fmt.Errorf("%w: unknown transition style %q", shared.ErrInvalidInput, input.TransitionStyle)
	}

	var created models.MoodChain
	if err := c.client.Post(ctx, "/mood-chains", input, &created); err != nil {
		c.recordErr(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.MoodChain{created}, c.items...)
	c.cursor.incTotal()
	return &created, nil
}

// FromHistory asks the server to generate a chain from listening history and
// prepends the result.
func (c *Chains) FromHistory(ctx context.Context, input models.ChainFromHistory) (*models.MoodChain, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: chain name is required", shared.ErrInvalidInput)
	}

	var created models.MoodChain
	if err := c.client.Post(ctx, "/mood-chains/from-history", input, &created); err != nil {
		c.recordErr(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.MoodChain{created}, c.items...)
	c.cursor.incTotal()
	return &created, nil
}

// Update sends a partial change and replaces the matching entry by identity.
func (c *Chains) Update(ctx context.Context, id string, partial models.MoodChainUpdate) (*models.MoodChain, error) {
	if partial.TransitionStyle != nil && !partial.TransitionStyle.Valid() {
		return nil, fmt.Errorf("%w: unknown transition style %q", shared.ErrInvalidInput, *partial.TransitionStyle)
	}

	var updated models.MoodChain
	if err := c.client.Patch(ctx, "/mood-chains/"+id, partial, &updated); err != nil {
		c.recordErr(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = updated
			break
		}
	}
	if c.current != nil && c.current.ID == id {
		c.current.MoodChain = updated
	}

	return &updated, nil
}

// Remove deletes the chain remotely, drops it locally and decrements the
// total, floored at zero.
func (c *Chains) Remove(ctx context.Context, id string) error {
	if err := c.client.Delete(ctx, "/mood-chains/"+id, nil); err != nil {
		c.recordErr(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if c.current != nil && c.current.ID == id {
		c.current = nil
	}
	c.cursor.decTotal()
	return nil
}

// Open fetches a chain's detail, including its songs and transition graph,
// and caches it as the current chain.
func (c *Chains) Open(ctx context.Context, id string) (*models.MoodChainDetail, error) {
	var detail models.MoodChainDetail
	if err := c.client.Get(ctx, "/mood-chains/"+id, &detail); err != nil {
		c.recordErr(err)
		return nil, err
	}

	c.mu.Lock()
	c.current = &detail
	c.mu.Unlock()
	return c.Current(), nil
}

// AddSong adds a song to a chain and refreshes the cached detail.
func (c *Chains) AddSong(ctx context.Context, chainID, songID string, position int) error {
	payload := map[string]any{"song_id": songID}
	if position >= 0 {
		payload["position"] = position
	}

	var detail models.MoodChainDetail
	if err := c.client.Post(ctx, "/mood-chains/"+chainID+"/songs", payload, &detail); err != nil {
		c.recordErr(err)
		return err
	}

	c.applyDetail(&detail)
	return nil
}

// RemoveSong removes a song from a chain, then refetches the detail since the
// server also prunes transitions touching the removed song.
func (c *Chains) RemoveSong(ctx context.Context, chainID, songID string) error {
	if err := c.client.Delete(ctx, "/mood-chains/"+chainID+"/songs/"+songID, nil); err != nil {
		c.recordErr(err)
		return err
	}

	var detail models.MoodChainDetail
	if err := c.client.Get(ctx, "/mood-chains/"+chainID, &detail); err != nil {
		c.recordErr(err)
		return err
	}

	c.applyDetail(&detail)
	return nil
}

// Reorder optimistically reorders the cached chain songs, then sends the new
// order. A remote failure refetches the authoritative detail.
func (c *Chains) Reorder(ctx context.Context, chainID string, songIDs []string) error {
	c.mu.Lock()
	if c.current != nil && c.current.ID == chainID {
		c.current.Songs = reorderChainSongs(c.current.Songs, songIDs)
	}
	c.mu.Unlock()

	payload := map[string]any{"song_ids": songIDs}
	if err := c.client.Put(ctx, "/mood-chains/"+chainID+"/songs/order", payload, nil); err != nil {
		c.recordErr(err)
		if _, refetchErr := c.Open(ctx, chainID); refetchErr != nil {
			c.logger.Warn("failed to restore chain order after reorder failure", "chain", chainID, "error", refetchErr)
		}
		return err
	}

	return nil
}

// SetTransitions replaces the chain's transition graph. Edges referencing
// songs outside the chain are rejected locally before any request is sent.
func (c *Chains) SetTransitions(ctx context.Context, chainID string, transitions []models.Transition) error {
	c.mu.Lock()
	if c.current != nil && c.current.ID == chainID {
		if err := c.current.ValidateTransitions(transitions); err != nil {
			c.mu.Unlock()
			c.recordErr(err)
			return fmt.Errorf("%w: %s", shared.ErrInvalidInput, err)
		}
	}
	c.mu.Unlock()

	payload := map[string]any{"transitions": transitions}
	var detail models.MoodChainDetail
	if err := c.client.Put(ctx, "/mood-chains/"+chainID+"/transitions", payload, &detail); err != nil {
		c.recordErr(err)
		return err
	}

	c.applyDetail(&detail)
	return nil
}

// Next asks the server for next-song suggestions after the given song.
func (c *Chains) Next(ctx context.Context, chainID, afterSongID string, count int) ([]models.NextSuggestion, error) {
	path := "/mood-chains/" + chainID + "/next?current_song_id=" + afterSongID
	if count > 0 {
		path += fmt.Sprintf("&count=%d", count)
	}

	var out struct {
		Suggestions []models.NextSuggestion `json:"suggestions"`
	}
	if err := c.client.Get(ctx, path, &out); err != nil {
		c.recordErr(err)
		return nil, err
	}
	return out.Suggestions, nil
}

// RecordTransition tells the server which transition was actually played so
// it can reinforce the edge weight.
func (c *Chains) RecordTransition(ctx context.Context, chainID, fromSongID, toSongID string) error {
	payload := map[string]any{
		"from_song_id": fromSongID,
		"to_song_id":   toSongID,
	}
	if err := c.client.Post(ctx, "/mood-chains/"+chainID+"/played", payload, nil); err != nil {
		c.recordErr(err)
		return err
	}
	return nil
}

func (c *Chains) applyDetail(detail *models.MoodChainDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = detail
	for i := range c.items {
		if c.items[i].ID == detail.ID {
			c.items[i] = detail.MoodChain
			break
		}
	}
}

func (c *Chains) recordErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err.Error()
}

func reorderChainSongs(songs []models.ChainSong, ids []string) []models.ChainSong {
	byID := make(map[string]models.ChainSong, len(songs))
	for _, s := range songs {
		byID[s.SongID] = s
	}

	out := make([]models.ChainSong, 0, len(songs))
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
