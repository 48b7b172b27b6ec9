package uploads

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// ProbeMeta reads embedded tags from a local audio file and returns metadata
// overrides for the upload form. The server extracts tags itself; probing
// locally lets the user review and correct fields before uploading.
//
// Files without readable tags are fine to upload, so callers should treat an
// error here as advisory.
func ProbeMeta(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	meta := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}

	put("title", m.Title())
	put("artist", m.Artist())
	put("album", m.Album())
	put("album_artist", m.AlbumArtist())
	put("genre", m.Genre())
	if year := m.Year(); year > 0 {
		meta["year"] = strconv.Itoa(year)
	}
	if track, _ := m.Track(); track > 0 {
		meta["track_number"] = strconv.Itoa(track)
	}

	return meta, nil
}
