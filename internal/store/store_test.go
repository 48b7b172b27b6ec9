package store

import (
	"testing"

	"github.com/krolx/nicemusic/internal/models"
)

func TestPagination(t *testing.T) {
	t.Run("HasMore", func(t *testing.T) {
		p := Pagination{Page: 1, Pages: 3}
		if !p.HasMore() {
			t.Error("expected more pages past page 1 of 3")
		}

		p.Page = 3
		if p.HasMore() {
			t.Error("expected no more pages on the last page")
		}

		empty := Pagination{Page: 1, Pages: 0}
		if empty.HasMore() {
			t.Error("expected no more pages for an empty collection")
		}
	})

	t.Run("Apply", func(t *testing.T) {
		p := Pagination{Page: 1, Limit: 20}
		p.apply(45, 2, 20, 3)

		if p.Total != 45 || p.Page != 2 || p.Limit != 20 || p.Pages != 3 {
			t.Errorf("unexpected cursor %+v", p)
		}
	})

	t.Run("Apply Keeps Limit When Response Omits It", func(t *testing.T) {
		p := Pagination{Page: 1, Limit: 20}
		p.apply(45, 2, 0, 3)

		if p.Limit != 20 {
			t.Errorf("expected limit preserved, got %d", p.Limit)
		}
	})

	t.Run("IncTotal Recounts Pages", func(t *testing.T) {
		p := Pagination{Page: 1, Limit: 20, Total: 40, Pages: 2}
		p.incTotal()

		if p.Total != 41 {
			t.Errorf("expected total 41, got %d", p.Total)
		}
		if p.Pages != 3 {
			t.Errorf("expected 3 pages for 41 items at 20 per page, got %d", p.Pages)
		}
	})

	t.Run("DecTotal Floors At Zero", func(t *testing.T) {
		p := Pagination{Page: 1, Limit: 20, Total: 0}
		p.decTotal()

		if p.Total != 0 {
			t.Errorf("expected total to stay at zero, got %d", p.Total)
		}

		p.Total = 21
		p.decTotal()
		if p.Total != 20 || p.Pages != 1 {
			t.Errorf("expected 20 items on 1 page, got %d on %d", p.Total, p.Pages)
		}
	})
}

func TestQueries(t *testing.T) {
	t.Run("Page Query", func(t *testing.T) {
		q := pageQuery(Pagination{Page: 2, Limit: 50})

		if q.Get("page") != "2" || q.Get("limit") != "50" {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("Song Query Omits Zero Filters", func(t *testing.T) {
		q := songQuery(models.SongFilters{}, Pagination{Page: 1, Limit: 20})

		for _, key := range []string{"search", "artist", "album", "genre", "is_favorite", "year_from", "year_to", "sort", "order"} {
			if q.Has(key) {
				t.Errorf("expected %s to be omitted, got %q", key, q.Get(key))
			}
		}
	})

	t.Run("Song Query Encodes Filters", func(t *testing.T) {
		fav := true
		f := models.SongFilters{
			Search:     "night",
			Artist:     "Boards of Canada",
			IsFavorite: &fav,
			YearFrom:   1998,
			Sort:       "title",
			Order:      "asc",
		}
		q := songQuery(f, Pagination{Page: 1, Limit: 20})

		if q.Get("search") != "night" {
			t.Errorf("unexpected search %q", q.Get("search"))
		}
		if q.Get("artist") != "Boards of Canada" {
			t.Errorf("unexpected artist %q", q.Get("artist"))
		}
		if q.Get("is_favorite") != "true" {
			t.Errorf("unexpected is_favorite %q", q.Get("is_favorite"))
		}
		if q.Get("year_from") != "1998" {
			t.Errorf("unexpected year_from %q", q.Get("year_from"))
		}
		if q.Get("sort") != "title" || q.Get("order") != "asc" {
			t.Errorf("unexpected sort %q %q", q.Get("sort"), q.Get("order"))
		}
	})
}
