package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/uploads"
)

var (
	_ list.Item = songItem{}
	_ list.Item = uploadItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	title := i.song.Title
	if i.song.IsFavorite {
		title = "♥ " + title
	}
	return title
}
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	if i.song.DurationSeconds > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.song.DurationSeconds))
	}
	return desc
}

// uploadItem wraps [uploads.Item] to implement [list.Item].
type uploadItem struct {
	item uploads.Item
}

func (i uploadItem) FilterValue() string { return i.item.Name }
func (i uploadItem) Title() string       { return i.item.Name }
func (i uploadItem) Description() string {
	switch i.item.Status {
	case uploads.StatusUploading:
		return fmt.Sprintf("uploading %d%%", i.item.Progress)
	case uploads.StatusSuccess:
		return "✓ uploaded"
	case uploads.StatusError:
		return fmt.Sprintf("✗ %s", i.item.Err)
	default:
		return "pending"
	}
}
