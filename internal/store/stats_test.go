package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchOverview Caches Result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("period"); got != "month" {
				t.Errorf("unexpected period %q", got)
			}
			json.NewEncoder(w).Encode(models.Overview{TotalPlays: 42, UniqueSongs: 7})
		}))
		defer server.Close()

		stats := NewStats(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		if stats.Overview() != nil {
			t.Fatal("expected no overview before the first fetch")
		}

		overview, err := stats.FetchOverview(ctx, "month")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if overview.TotalPlays != 42 {
			t.Errorf("unexpected overview %+v", overview)
		}
		if cached := stats.Overview(); cached == nil || cached.UniqueSongs != 7 {
			t.Error("expected the overview cached")
		}
	})

	t.Run("TopSongs Decodes Items", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("unexpected limit %q", got)
			}
			json.NewEncoder(w).Encode(models.TopSongs{
				Items: []models.TopSong{{Song: models.Song{ID: "song-1", Title: "First"}, PlayCount: 12}},
			})
		}))
		defer server.Close()

		stats := NewStats(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		songs, err := stats.TopSongs(ctx, "week", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 || songs[0].PlayCount != 12 {
			t.Errorf("unexpected songs %v", songs)
		}
	})

	t.Run("History Pagination", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			json.NewEncoder(w).Encode(models.Page[models.HistoryItem]{
				Items: []models.HistoryItem{{ID: "play-" + strconv.Itoa(page)}},
				Total: 2, Page: page, Limit: 1, Pages: 2,
			})
		}))
		defer server.Close()

		stats := NewStats(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		if err := stats.FetchHistory(ctx, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := stats.LoadMoreHistory(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		history := stats.History()
		if len(history) != 2 || history[1].ID != "play-2" {
			t.Errorf("unexpected history %v", history)
		}
		if stats.HasMore() {
			t.Error("expected the cursor exhausted")
		}

		before := hits
		stats.LoadMoreHistory(ctx)
		if hits != before {
			t.Error("expected no request past the last page")
		}
	})

	t.Run("RecordPlay Requires A Song", func(t *testing.T) {
		stats := NewStats(api.NewClient(api.Opts{}), nil)

		err := stats.RecordPlay(ctx, models.PlayRecord{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("RecordPlay Posts The Event", func(t *testing.T) {
		var record models.PlayRecord
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&record)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		stats := NewStats(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		err := stats.RecordPlay(ctx, models.PlayRecord{SongID: "song-1", Completed: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record.SongID != "song-1" || !record.Completed {
			t.Errorf("unexpected payload %+v", record)
		}
	})
}
