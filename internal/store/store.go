// Package store implements the client-side state containers for the music
// library: one store per resource (library songs, playlists, mood chains,
// statistics, session, preferences), all composing over one shared
// [api.Client].
//
// Each store exclusively owns a collection and its pagination cursor.
// Mutating actions perform exactly one network call and update local state
// from the response; there are no automatic retries beyond the adapter's
// single token-refresh retry. Overlapping calls on one store are not
// serialized; the last response to resolve wins. Cross-store copies of the
// same song are by value and can go stale; the library deliberately does not
// push updates into playlist or chain snapshots.
//
// Stores record a failure as a display string (readable via Err) and still
// return the error to the caller, which decides how to surface it.
package store

import (
	"net/url"
	"strconv"

	"github.com/krolx/nicemusic/internal/models"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 20

// Pagination tracks a store's cursor over a remote collection.
type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

// HasMore reports whether pages beyond the current cursor exist.
func (p Pagination) HasMore() bool {
	return p.Page < p.Pages
}

// apply updates the cursor from a response envelope.
func (p *Pagination) apply(total, page, limit, pages int) {
	p.Total = total
	p.Page = page
	if limit > 0 {
		p.Limit = limit
	}
	p.Pages = pages
}

// decTotal decrements the total, floored at zero, and recomputes page count.
func (p *Pagination) decTotal() {
	if p.Total > 0 {
		p.Total--
	}
	p.recount()
}

// incTotal increments the total and recomputes page count.
func (p *Pagination) incTotal() {
	p.Total++
	p.recount()
}

func (p *Pagination) recount() {
	if p.Limit <= 0 {
		p.Pages = 0
		return
	}
	p.Pages = (p.Total + p.Limit - 1) / p.Limit
}

// pageQuery encodes the cursor as query parameters.
func pageQuery(p Pagination) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	return q
}

// songQuery encodes filters plus the cursor for the songs endpoint.
func songQuery(f models.SongFilters, p Pagination) url.Values {
	q := pageQuery(p)

	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Artist != "" {
		q.Set("artist", f.Artist)
	}
	if f.Album != "" {
		q.Set("album", f.Album)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.IsFavorite != nil {
		q.Set("is_favorite", strconv.FormatBool(*f.IsFavorite))
	}
	if f.YearFrom > 0 {
		q.Set("year_from", strconv.Itoa(f.YearFrom))
	}
	if f.YearTo > 0 {
		q.Set("year_to", strconv.Itoa(f.YearTo))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Order != "" {
		q.Set("order", f.Order)
	}

	return q
}
