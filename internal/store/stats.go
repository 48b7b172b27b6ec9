package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// Stats is the read-mostly store for listening statistics. The overview and
// top lists are fetched whole; history is paginated like the other
// collections. Recording a play is fire-and-forget here, the aggregates are
// not recomputed locally.
type Stats struct {
	mu       sync.Mutex
	client   *api.Client
	logger   *log.Logger
	overview *models.Overview
	history  []models.HistoryItem
	cursor   Pagination
	loading  bool
	lastErr  string
}

// NewStats creates a statistics store backed by the given client.
func NewStats(client *api.Client, logger *log.Logger) *Stats {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Stats{
		client: client,
		logger: logger,
		cursor: Pagination{Page: 1, Limit: DefaultLimit},
	}
}

// Overview returns the cached aggregate statistics, or nil before the first
// successful fetch.
func (s *Stats) Overview() *models.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overview == nil {
		return nil
	}
	copied := *s.overview
	return &copied
}

// History returns a copy of the loaded history entries.
func (s *Stats) History() []models.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

// Loading reports whether a history fetch is in flight.
func (s *Stats) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display message recorded by the last failed action.
func (s *Stats) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// HasMore reports whether history pages beyond the cursor exist.
func (s *Stats) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.HasMore()
}

// FetchOverview loads the aggregate statistics for the given period, e.g.
// "week", "month", "year" or "all".
func (s *Stats) FetchOverview(ctx context.Context, period string) (*models.Overview, error) {
	path := "/stats/overview"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}

	var overview models.Overview
	if err := s.client.Get(ctx, path, &overview); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.overview = &overview
	s.mu.Unlock()
	return &overview, nil
}

// TopSongs returns the most played songs over the period.
func (s *Stats) TopSongs(ctx context.Context, period string, limit int) ([]models.TopSong, error) {
	var out models.TopSongs
	if err := s.client.Get(ctx, "/stats/top-songs?"+periodQuery(period, limit).Encode(), &out); err != nil {
		s.recordErr(err)
		return nil, err
	}
	return out.Items, nil
}

// TopArtists returns the most played artists over the period.
func (s *Stats) TopArtists(ctx context.Context, period string, limit int) ([]models.TopArtist, error) {
	var out models.TopArtists
	if err := s.client.Get(ctx, "/stats/top-artists?"+periodQuery(period, limit).Encode(), &out); err != nil {
		s.recordErr(err)
		return nil, err
	}
	return out.Items, nil
}

// FetchHistory loads the history page at the cursor, replacing the
// collection on reset and appending otherwise.
func (s *Stats) FetchHistory(ctx context.Context, reset bool) error {
	s.mu.Lock()
	if reset {
		s.cursor.Page = 1
	}
	query := pageQuery(s.cursor)
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	var page models.Page[models.HistoryItem]
	err := s.client.Get(ctx, "/stats/history?"+query.Encode(), &page)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lastErr = err.Error()
		return err
	}

	if reset {
		s.history = page.Items
	} else {
		s.history = append(s.history, page.Items...)
	}
	s.cursor.apply(page.Total, page.Page, page.Limit, page.Pages)
	return nil
}

// LoadMoreHistory advances the cursor and appends the next history page;
// no-op when no further pages exist or a fetch is in flight.
func (s *Stats) LoadMoreHistory(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.cursor.HasMore() {
		s.mu.Unlock()
		return nil
	}
	s.cursor.Page++
	s.mu.Unlock()

	return s.FetchHistory(ctx, false)
}

// RecordPlay reports a play event. The cached overview and history are left
// stale until their next fetch.
func (s *Stats) RecordPlay(ctx context.Context, record models.PlayRecord) error {
	if record.SongID == "" {
		return fmt.Errorf("%w: song id is required", shared.ErrInvalidInput)
	}
	if err := s.client.Post(ctx, "/stats/play", record, nil); err != nil {
		s.recordErr(err)
		return err
	}
	return nil
}

func (s *Stats) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}

func periodQuery(period string, limit int) url.Values {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	return q
}
