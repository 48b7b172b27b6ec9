package models

import (
	"fmt"
	"time"
)

// Song represents a library track as returned by the API.
type Song struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Artist          string     `json:"artist,omitempty"`
	Album           string     `json:"album,omitempty"`
	AlbumArtist     string     `json:"album_artist,omitempty"`
	Genre           string     `json:"genre,omitempty"`
	Year            int        `json:"year,omitempty"`
	TrackNumber     int        `json:"track_number,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	FileFormat      string     `json:"file_format,omitempty"`
	CoverArtPath    string     `json:"cover_art_path,omitempty"`
	PlayCount       int        `json:"play_count"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
	IsFavorite      bool       `json:"is_favorite"`
	Rating          int        `json:"rating,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SongUpdate is a partial update to song metadata and user flags.
// Nil fields are omitted from the request and left unchanged remotely.
type SongUpdate struct {
	Title      *string `json:"title,omitempty"`
	Artist     *string `json:"artist,omitempty"`
	Album      *string `json:"album,omitempty"`
	Genre      *string `json:"genre,omitempty"`
	Year       *int    `json:"year,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
}

// SongFilters is the query value object driving paginated song fetches.
// It is fully replaceable; merging is handled by the owning store.
type SongFilters struct {
	Search     string `json:"search,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	Genre      string `json:"genre,omitempty"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
	YearFrom   int    `json:"year_from,omitempty"`
	YearTo     int    `json:"year_to,omitempty"`
	Sort       string `json:"sort,omitempty"`
	Order      string `json:"order,omitempty"`
}

// Playlist represents a playlist in list view.
type Playlist struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	CoverImagePath       string    `json:"cover_image_path,omitempty"`
	IsPublic             bool      `json:"is_public"`
	SongCount            int       `json:"song_count"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PlaylistSong is a song's membership in a playlist, with denormalized
// song fields for display. Order is significant.
type PlaylistSong struct {
	SongID          string    `json:"song_id"`
	Position        int       `json:"position"`
	AddedAt         time.Time `json:"added_at"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist,omitempty"`
	Album           string    `json:"album,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	CoverArtPath    string    `json:"cover_art_path,omitempty"`
}

// PlaylistDetail is a playlist with its ordered songs.
type PlaylistDetail struct {
	Playlist
	Songs []PlaylistSong `json:"songs"`
}

// PlaylistCreate is the payload for creating a playlist.
type PlaylistCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PlaylistUpdate is a partial update to playlist metadata.
type PlaylistUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Tag is a user-defined label attached to songs. Color is an optional
// #RRGGBB hex value.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCreate is the payload for creating a tag.
type TagCreate struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TagUpdate is a partial update to a tag.
type TagUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// TagList is the non-paginated tag listing response.
type TagList struct {
	Items []Tag `json:"items"`
}

// SongWithTags is the song summary returned by the tag attach and detach
// endpoints, carrying the song's full tag set after the change.
type SongWithTags struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Tags   []Tag  `json:"tags"`
}

// TransitionStyle enumerates mood chain playback styles.
type TransitionStyle string

const (
	StyleSmooth     TransitionStyle = "smooth"
	StyleRandom     TransitionStyle = "random"
	StyleEnergyFlow TransitionStyle = "energy_flow"
	StyleGenreMatch TransitionStyle = "genre_match"
)

// Valid reports whether s is a known transition style.
func (s TransitionStyle) Valid() bool {
	switch s {
	case StyleSmooth, StyleRandom, StyleEnergyFlow, StyleGenreMatch:
		return true
	}
	return false
}

// MoodChain represents a mood chain in list view.
type MoodChain struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Description             string          `json:"description,omitempty"`
	CoverImagePath          string          `json:"cover_image_path,omitempty"`
	TransitionStyle         TransitionStyle `json:"transition_style"`
	AutoAdvance             bool            `json:"auto_advance"`
	AutoAdvanceDelaySeconds int             `json:"auto_advance_delay_seconds"`
	IsAutoGenerated         bool            `json:"is_auto_generated"`
	SongCount               int             `json:"song_count"`
	PlayCount               int             `json:"play_count"`
	LastPlayedAt            *time.Time      `json:"last_played_at,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// ChainSong is a song's membership in a mood chain with its transition weight.
type ChainSong struct {
	SongID           string    `json:"song_id"`
	Position         int       `json:"position"`
	TransitionWeight float64   `json:"transition_weight"`
	AddedAt          time.Time `json:"added_at"`
	Title            string    `json:"title"`
	Artist           string    `json:"artist,omitempty"`
	Album            string    `json:"album,omitempty"`
	DurationSeconds  int       `json:"duration_seconds"`
	CoverArtPath     string    `json:"cover_art_path,omitempty"`
	Energy           *float64  `json:"energy,omitempty"`
	Valence          *float64  `json:"valence,omitempty"`
	BPM              int       `json:"bpm,omitempty"`
	Genre            string    `json:"genre,omitempty"`
}

// Transition is a directed weighted edge between two songs in a chain.
type Transition struct {
	ID         string  `json:"id,omitempty"`
	FromSongID string  `json:"from_song_id"`
	ToSongID   string  `json:"to_song_id"`
	Weight     float64 `json:"weight"`
	PlayCount  int     `json:"play_count,omitempty"`
}

// MoodChainDetail is a mood chain with its songs and transition graph.
type MoodChainDetail struct {
	MoodChain
	Songs       []ChainSong  `json:"songs"`
	Transitions []Transition `json:"transitions"`
}

// ValidateTransitions checks that every transition references songs that are
// members of the chain.
func (d *MoodChainDetail) ValidateTransitions(transitions []Transition) error {
	members := make(map[string]bool, len(d.Songs))
	for _, s := range d.Songs {
		members[s.SongID] = true
	}

	for _, t := range transitions {
		if !members[t.FromSongID] {
			return fmt.Errorf("transition source %s is not a member of chain %s", t.FromSongID, d.ID)
		}
		if !members[t.ToSongID] {
			return fmt.Errorf("transition target %s is not a member of chain %s", t.ToSongID, d.ID)
		}
	}

	return nil
}

// MoodChainCreate is the payload for creating a mood chain.
type MoodChainCreate struct {
	Name                    string          `json:"name"`
	Description             string          `json:"description,omitempty"`
	TransitionStyle         TransitionStyle `json:"transition_style,omitempty"`
	AutoAdvance             *bool           `json:"auto_advance,omitempty"`
	AutoAdvanceDelaySeconds int             `json:"auto_advance_delay_seconds,omitempty"`
	SongIDs                 []string        `json:"song_ids,omitempty"`
}

// MoodChainUpdate is a partial update to mood chain metadata.
type MoodChainUpdate struct {
	Name                    *string          `json:"name,omitempty"`
	Description             *string          `json:"description,omitempty"`
	TransitionStyle         *TransitionStyle `json:"transition_style,omitempty"`
	AutoAdvance             *bool            `json:"auto_advance,omitempty"`
	AutoAdvanceDelaySeconds *int             `json:"auto_advance_delay_seconds,omitempty"`
}

// ChainFromHistory is the payload for generating a chain from listening history.
type ChainFromHistory struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	FromDate    *time.Time `json:"from_date,omitempty"`
	ToDate      *time.Time `json:"to_date,omitempty"`
	MinPlays    int        `json:"min_plays,omitempty"`
}

// NextSuggestion is a server-computed candidate for the next song in a chain.
// The weighting and learning model lives entirely server-side.
type NextSuggestion struct {
	SongID          string  `json:"song_id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist,omitempty"`
	Album           string  `json:"album,omitempty"`
	DurationSeconds int     `json:"duration_seconds"`
	CoverArtPath    string  `json:"cover_art_path,omitempty"`
	Weight          float64 `json:"weight"`
	Reason          string  `json:"reason"`
}

// Mood enumerates the personal mix mood filters.
type Mood string

const (
	MoodEnergetic Mood = "energetic"
	MoodCalm      Mood = "calm"
	MoodFocus     Mood = "focus"
)

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	switch m {
	case MoodEnergetic, MoodCalm, MoodFocus:
		return true
	}
	return false
}

// SimilarSong pairs a candidate song with the server's similarity score and
// the human-readable reasons behind it.
type SimilarSong struct {
	Song            Song     `json:"song"`
	SimilarityScore float64  `json:"similarity_score"`
	Reasons         []string `json:"reasons"`
}

// SimilarSongs is the similar-songs recommendation response.
type SimilarSongs struct {
	SourceSong Song          `json:"source_song"`
	Items      []SimilarSong `json:"items"`
}

// DiscoverSection is one themed group of discovery recommendations, e.g.
// songs not listened to in a while or hidden gems.
type DiscoverSection struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Items []Song `json:"items"`
}

// Discover is the discovery recommendations response. Empty sections are
// omitted by the server.
type Discover struct {
	Sections []DiscoverSection `json:"sections"`
}

// PersonalMix is a server-generated mix targeting a mood and duration.
type PersonalMix struct {
	Songs                []Song `json:"songs"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
	Mood                 Mood   `json:"mood,omitempty"`
}

// Page is the uniform envelope returned by all list endpoints.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PlayRecord is the payload for recording a play event.
type PlayRecord struct {
	SongID                  string `json:"song_id"`
	DurationListenedSeconds int    `json:"duration_listened_seconds"`
	Completed               bool   `json:"completed"`
	ContextType             string `json:"context_type,omitempty"`
	ContextID               string `json:"context_id,omitempty"`
	DeviceType              string `json:"device_type,omitempty"`
}

// HistoryItem is a single listening history entry.
type HistoryItem struct {
	ID                    string    `json:"id"`
	SongID                string    `json:"song_id"`
	PlayedAt              time.Time `json:"played_at"`
	PlayedDurationSeconds int       `json:"played_duration_seconds,omitempty"`
	Completed             bool      `json:"completed"`
	Skipped               bool      `json:"skipped"`
	ContextType           string    `json:"context_type,omitempty"`
	ContextID             string    `json:"context_id,omitempty"`
	Song                  Song      `json:"song"`
}

// HourlyCount is plays bucketed by hour of day (0-23).
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DailyCount is plays bucketed by ISO date.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Overview is the aggregate listening statistics response.
type Overview struct {
	TotalPlays           int           `json:"total_plays"`
	TotalDurationSeconds int           `json:"total_duration_seconds"`
	UniqueSongs          int           `json:"unique_songs"`
	UniqueArtists        int           `json:"unique_artists"`
	MostPlayedGenre      string        `json:"most_played_genre,omitempty"`
	ListeningByHour      []HourlyCount `json:"listening_by_hour"`
	ListeningByDay       []DailyCount  `json:"listening_by_day"`
}

// TopSong pairs a song with its play count over the queried period.
type TopSong struct {
	Song      Song `json:"song"`
	PlayCount int  `json:"play_count"`
}

// TopSongs is the top-songs statistics response.
type TopSongs struct {
	Items []TopSong `json:"items"`
}

// TopArtist aggregates plays for a single artist.
type TopArtist struct {
	Artist    string `json:"artist"`
	PlayCount int    `json:"play_count"`
	Songs     []Song `json:"songs"`
}

// TopArtists is the top-artists statistics response.
type TopArtists struct {
	Items []TopArtist `json:"items"`
}

// SearchResults groups matches across entity types for a free-text query.
type SearchResults struct {
	Songs     []Song     `json:"songs"`
	Artists   []string   `json:"artists"`
	Albums    []string   `json:"albums"`
	Playlists []Playlist `json:"playlists"`
}

// User is the authenticated account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the access/refresh token pair issued by the auth endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// LoginRequest is the payload for password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// SongUploadResult is the server's acknowledgement of an uploaded song.
type SongUploadResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
}
