package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"golang.org/x/oauth2"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestTokenRepository(t *testing.T) {
	t.Run("Load Before Save", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != nil {
			t.Error("expected nil for a fresh database")
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		err := repo.Save(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, err := repo.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected pair %q / %q", token.AccessToken, token.RefreshToken)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("Save Replaces The Single Row", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		repo.Save(&oauth2.Token{AccessToken: "first", RefreshToken: "r1"})
		repo.Save(&oauth2.Token{AccessToken: "second", RefreshToken: "r2"})

		token, _ := repo.Load()
		if token.AccessToken != "second" {
			t.Errorf("expected the later pair, got %q", token.AccessToken)
		}
	})

	t.Run("Save Nil Clears", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))
		repo.Save(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh"})

		if err := repo.Save(nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token, _ := repo.Load(); token != nil {
			t.Error("expected the session cleared")
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		if err := repo.Clear(); err != nil {
			t.Errorf("expected no error clearing an empty table, got %v", err)
		}
	})
}

func TestPrefsRepository(t *testing.T) {
	t.Run("Get Falls Back When Unset", func(t *testing.T) {
		repo := NewPrefsRepository(testDB(t))

		value, err := repo.Get(PrefTheme, "dark")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if value != "dark" {
			t.Errorf("expected the fallback, got %q", value)
		}
	})

	t.Run("Set Then Get", func(t *testing.T) {
		repo := NewPrefsRepository(testDB(t))

		if err := repo.Set(PrefTheme, "light"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if value, _ := repo.Get(PrefTheme, "dark"); value != "light" {
			t.Errorf("expected the stored value, got %q", value)
		}

		// Setting again replaces rather than duplicates.
		repo.Set(PrefTheme, "dark")
		if value, _ := repo.Get(PrefTheme, "light"); value != "dark" {
			t.Errorf("expected the replacement, got %q", value)
		}
	})
}

func TestSongCacheRepository(t *testing.T) {
	songs := []models.Song{
		{ID: "song-1", Title: "Alpha", Artist: "One", IsFavorite: true},
		{ID: "song-2", Title: "Beta", Artist: "Two", DurationSeconds: 180},
	}

	t.Run("Replace Then List", func(t *testing.T) {
		repo := NewSongCacheRepository(testDB(t))

		if err := repo.Replace(songs); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cached, err := repo.List(10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cached) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(cached))
		}
		if cached[0].Title != "Alpha" || !cached[0].IsFavorite {
			t.Errorf("unexpected first song %+v", cached[0])
		}
		if cached[1].DurationSeconds != 180 {
			t.Errorf("unexpected second song %+v", cached[1])
		}
	})

	t.Run("Replace Clears Previous Entries", func(t *testing.T) {
		repo := NewSongCacheRepository(testDB(t))
		repo.Replace(songs)

		repo.Replace([]models.Song{{ID: "song-9", Title: "Only"}})

		cached, _ := repo.List(10)
		if len(cached) != 1 || cached[0].ID != "song-9" {
			t.Errorf("expected only the new entry, got %v", cached)
		}
	})

	t.Run("Append Upserts Duplicates", func(t *testing.T) {
		repo := NewSongCacheRepository(testDB(t))
		repo.Replace(songs)

		updated := songs[0]
		updated.Title = "Alpha Remastered"
		if err := repo.Append([]models.Song{updated, {ID: "song-3", Title: "Gamma"}}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cached, _ := repo.List(10)
		if len(cached) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(cached))
		}
		for _, song := range cached {
			if song.ID == "song-1" && song.Title != "Alpha Remastered" {
				t.Errorf("expected the duplicate upserted, got %q", song.Title)
			}
		}
	})

	t.Run("Remove", func(t *testing.T) {
		repo := NewSongCacheRepository(testDB(t))
		repo.Replace(songs)

		if err := repo.Remove("song-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cached, _ := repo.List(10)
		if len(cached) != 1 || cached[0].ID != "song-2" {
			t.Errorf("expected song-1 gone, got %v", cached)
		}
	})

	t.Run("List Respects Limit", func(t *testing.T) {
		repo := NewSongCacheRepository(testDB(t))
		repo.Replace(songs)

		cached, _ := repo.List(1)
		if len(cached) != 1 {
			t.Errorf("expected 1 song, got %d", len(cached))
		}
	})
}
