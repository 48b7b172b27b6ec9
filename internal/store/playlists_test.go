package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

func morningDetail() models.PlaylistDetail {
	return models.PlaylistDetail{
		Playlist: models.Playlist{ID: "pl-1", Name: "Morning", SongCount: 3},
		Songs: []models.PlaylistSong{
			{SongID: "song-1", Position: 0, Title: "First"},
			{SongID: "song-2", Position: 1, Title: "Second"},
			{SongID: "song-3", Position: 2, Title: "Third"},
		},
	}
}

func TestPlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Prepends And Counts", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/playlists", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var input models.PlaylistCreate
				json.NewDecoder(r.Body).Decode(&input)
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(models.Playlist{ID: "pl-new", Name: input.Name})
			default:
				json.NewEncoder(w).Encode(models.Page[models.Playlist]{
					Items: []models.Playlist{{ID: "pl-1", Name: "Morning"}},
					Total: 1, Page: 1, Limit: 20, Pages: 1,
				})
			}
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		playlists := NewPlaylists(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		if err := playlists.Fetch(ctx, true); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		created, err := playlists.Create(ctx, models.PlaylistCreate{Name: "Evening"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if created.ID != "pl-new" {
			t.Errorf("expected the created playlist back, got %s", created.ID)
		}

		items := playlists.Items()
		if items[0].ID != "pl-new" {
			t.Errorf("expected the new playlist first, got %s", items[0].ID)
		}
		if playlists.Total() != 2 {
			t.Errorf("expected total 2, got %d", playlists.Total())
		}
	})

	t.Run("Create Rejects Blank Name", func(t *testing.T) {
		playlists := NewPlaylists(api.NewClient(api.Opts{}), nil)

		_, err := playlists.Create(ctx, models.PlaylistCreate{Name: "   "})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("Open Caches Detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(morningDetail())
		}))
		defer server.Close()

		playlists := NewPlaylists(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		detail, err := playlists.Open(ctx, "pl-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(detail.Songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(detail.Songs))
		}

		cached := playlists.Current()
		if cached == nil || cached.ID != "pl-1" {
			t.Error("expected the detail cached as current")
		}

		// The returned detail is a copy; mutating it must not leak back.
		detail.Songs[0].Title = "Mutated"
		if playlists.Current().Songs[0].Title != "First" {
			t.Error("expected the cached detail isolated from callers")
		}
	})

	t.Run("Remove Clears Matching Current", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/playlists/pl-1", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodDelete:
				w.WriteHeader(http.StatusNoContent)
			default:
				json.NewEncoder(w).Encode(morningDetail())
			}
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		playlists := NewPlaylists(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		playlists.Open(ctx, "pl-1")

		if err := playlists.Remove(ctx, "pl-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlists.Current() != nil {
			t.Error("expected the cached detail cleared")
		}
	})
}

func TestPlaylistReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Tentative Order Before Sending", func(t *testing.T) {
		var gotOrder []string
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/playlists/pl-1", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(morningDetail())
		})
		mux.HandleFunc(api.BasePath+"/playlists/pl-1/songs/order", func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				SongIDs []string `json:"song_ids"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			gotOrder = payload.SongIDs
			w.WriteHeader(http.StatusNoContent)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		playlists := NewPlaylists(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		playlists.Open(ctx, "pl-1")

		if err := playlists.Reorder(ctx, "pl-1", []string{"song-3", "song-1", "song-2"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(gotOrder) != 3 || gotOrder[0] != "song-3" {
			t.Errorf("expected the order sent, got %v", gotOrder)
		}

		songs := playlists.Current().Songs
		if songs[0].SongID != "song-3" || songs[0].Position != 0 {
			t.Errorf("expected song-3 first at position 0, got %s at %d", songs[0].SongID, songs[0].Position)
		}
		if songs[2].SongID != "song-2" || songs[2].Position != 2 {
			t.Errorf("expected song-2 last at position 2, got %s at %d", songs[2].SongID, songs[2].Position)
		}
	})

	t.Run("Failure Restores Authoritative Order", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/playlists/pl-1", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(morningDetail())
		})
		mux.HandleFunc(api.BasePath+"/playlists/pl-1/songs/order", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"detail":"playlist changed concurrently"}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		playlists := NewPlaylists(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		playlists.Open(ctx, "pl-1")

		err := playlists.Reorder(ctx, "pl-1", []string{"song-3", "song-1", "song-2"})
		if err == nil {
			t.Fatal("expected the reorder error surfaced")
		}

		songs := playlists.Current().Songs
		if songs[0].SongID != "song-1" {
			t.Errorf("expected the server order restored, got %s first", songs[0].SongID)
		}
	})

	t.Run("Unknown IDs Keep Remaining Songs", func(t *testing.T) {
		songs := reorderPlaylistSongs(morningDetail().Songs, []string{"song-2", "song-missing"})

		if len(songs) != 3 {
			t.Fatalf("expected all songs kept, got %d", len(songs))
		}
		if songs[0].SongID != "song-2" {
			t.Errorf("expected song-2 first, got %s", songs[0].SongID)
		}
		if songs[1].SongID != "song-1" || songs[2].SongID != "song-3" {
			t.Error("expected unlisted songs appended in their previous order")
		}
		for i, s := range songs {
			if s.Position != i {
				t.Errorf("expected position %d, got %d", i, s.Position)
			}
		}
	})
}
