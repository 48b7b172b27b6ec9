package repositories

import (
	"database/sql"
	"fmt"

	"github.com/krolx/nicemusic/internal/models"
)

// SongCacheRepository caches the most recently fetched songs for offline
// listing. The cache is replaced wholesale on each reset-fetch; duplicate ids
// are upserted so appending pages never conflicts.
type SongCacheRepository struct {
	db *sql.DB
}

// NewSongCacheRepository creates a new [SongCacheRepository] with the given database connection
func NewSongCacheRepository(db *sql.DB) *SongCacheRepository {
	return &SongCacheRepository{db: db}
}

// Replace clears the cache and stores songs in order.
func (r *SongCacheRepository) Replace(songs []models.Song) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_songs"); err != nil {
		return fmt.Errorf("failed to clear song cache: %w", err)
	}

	for _, song := range songs {
		if err := upsertSong(tx, song); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Append upserts songs into the cache without clearing it.
func (r *SongCacheRepository) Append(songs []models.Song) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, song := range songs {
		if err := upsertSong(tx, song); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns cached songs in most-recently-cached order.
func (r *SongCacheRepository) List(limit int) ([]models.Song, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, title, artist, album, genre, duration_seconds, is_favorite, play_count
		FROM cached_songs
		ORDER BY cached_at DESC, title ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query song cache: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var (
			song     models.Song
			artist   sql.NullString
			album    sql.NullString
			genre    sql.NullString
			favorite int
		)

		if err := rows.Scan(&song.ID, &song.Title, &artist, &album, &genre, &song.DurationSeconds, &favorite, &song.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan cached song: %w", err)
		}

		song.Artist = artist.String
		song.Album = album.String
		song.Genre = genre.String
		song.IsFavorite = favorite != 0
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

// Remove deletes a song from the cache by id.
func (r *SongCacheRepository) Remove(id string) error {
	if _, err := r.db.Exec("DELETE FROM cached_songs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to remove cached song: %w", err)
	}
	return nil
}

func upsertSong(tx *sql.Tx, song models.Song) error {
	query := `
		INSERT INTO cached_songs (id, title, artist, album, genre, duration_seconds, is_favorite, play_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genre = excluded.genre,
			duration_seconds = excluded.duration_seconds,
			is_favorite = excluded.is_favorite,
			play_count = excluded.play_count
	`

	favorite := 0
	if song.IsFavorite {
		favorite = 1
	}

	if _, err := tx.Exec(query, song.ID, song.Title, song.Artist, song.Album, song.Genre, song.DurationSeconds, favorite, song.PlayCount); err != nil {
		return fmt.Errorf("failed to cache song %s: %w", song.ID, err)
	}

	return nil
}
