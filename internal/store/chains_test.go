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

func focusDetail() models.MoodChainDetail {
	return models.MoodChainDetail{
		MoodChain: models.MoodChain{ID: "chain-1", Name: "Deep Focus", TransitionStyle: models.StyleSmooth},
		Songs: []models.ChainSong{
			{SongID: "song-1", Position: 0, Title: "First"},
			{SongID: "song-2", Position: 1, Title: "Second"},
		},
		Transitions: []models.Transition{
			{FromSongID: "song-1", ToSongID: "song-2", Weight: 1.5},
		},
	}
}

func TestChains(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Validates Transition Style", func(t *testing.T) {
		chains := NewChains(api.NewClient(api.Opts{}), nil)

		_, err := chains.Create(ctx, models.MoodChainCreate{
			Name:            "Workout",
			TransitionStyle: models.TransitionStyle("bouncy"),
		})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}

		_, err = chains.Create(ctx, models.MoodChainCreate{Name: ""})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input for blank name, got %v", err)
		}
	})

	t.Run("FromHistory Prepends Generated Chain", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/mood-chains/from-history", func(w http.ResponseWriter, r *http.Request) {
			var input models.ChainFromHistory
			json.NewDecoder(r.Body).Decode(&input)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.MoodChain{ID: "chain-gen", Name: input.Name, IsAutoGenerated: true})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		chains := NewChains(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		created, err := chains.FromHistory(ctx, models.ChainFromHistory{Name: "Last Month", MinPlays: 3})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !created.IsAutoGenerated {
			t.Error("expected an auto-generated chain")
		}
		if items := chains.Items(); len(items) != 1 || items[0].ID != "chain-gen" {
			t.Errorf("expected the chain prepended, got %v", items)
		}
	})

	t.Run("Next Decodes Suggestions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("current_song_id"); got != "song-1" {
				t.Errorf("unexpected current_song_id %q", got)
			}
			if got := r.URL.Query().Get("count"); got != "3" {
				t.Errorf("unexpected count %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"suggestions": []models.NextSuggestion{
					{SongID: "song-2", Weight: 2.0, Reason: "learned transition"},
				},
			})
		}))
		defer server.Close()

		chains := NewChains(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		suggestions, err := chains.Next(ctx, "chain-1", "song-1", 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(suggestions) != 1 || suggestions[0].SongID != "song-2" {
			t.Errorf("unexpected suggestions %v", suggestions)
		}
	})
}

func TestChainTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects Edges Outside The Chain", func(t *testing.T) {
		hits := 0
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/mood-chains/chain-1", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(focusDetail())
		})
		mux.HandleFunc(api.BasePath+"/mood-chains/chain-1/transitions", func(w http.ResponseWriter, r *http.Request) {
			hits++
			json.NewEncoder(w).Encode(focusDetail())
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		chains := NewChains(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		chains.Open(ctx, "chain-1")

		err := chains.SetTransitions(ctx, "chain-1", []models.Transition{
			{FromSongID: "song-1", ToSongID: "song-outside", Weight: 1},
		})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
		if hits != 0 {
			t.Error("expected no request for a locally rejected graph")
		}
	})

	t.Run("Applies Returned Detail", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc(api.BasePath+"/mood-chains/chain-1", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(focusDetail())
		})
		mux.HandleFunc(api.BasePath+"/mood-chains/chain-1/transitions", func(w http.ResponseWriter, r *http.Request) {
			detail := focusDetail()
			detail.Transitions = []models.Transition{
				{FromSongID: "song-2", ToSongID: "song-1", Weight: 0.5},
			}
			json.NewEncoder(w).Encode(detail)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		chains := NewChains(api.NewClient(api.Opts{BaseURL: server.URL}), nil)
		chains.Open(ctx, "chain-1")

		err := chains.SetTransitions(ctx, "chain-1", []models.Transition{
			{FromSongID: "song-2", ToSongID: "song-1", Weight: 0.5},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		current := chains.Current()
		if len(current.Transitions) != 1 || current.Transitions[0].FromSongID != "song-2" {
			t.Errorf("expected the returned graph cached, got %v", current.Transitions)
		}
	})

	t.Run("RecordTransition Posts The Played Edge", func(t *testing.T) {
		var payload map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			json.NewDecoder(r.Body).Decode(&payload)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		chains := NewChains(api.NewClient(api.Opts{BaseURL: server.URL}), nil)

		if err := chains.RecordTransition(ctx, "chain-1", "song-1", "song-2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if payload["from_song_id"] != "song-1" || payload["to_song_id"] != "song-2" {
			t.Errorf("unexpected payload %v", payload)
		}
	})
}
