package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krolx/nicemusic/internal/models"
	tu "github.com/krolx/nicemusic/internal/testing"
)

func sampleDetail() *models.PlaylistDetail {
	return &models.PlaylistDetail{
		Playlist: models.Playlist{
			ID:          "pl-1",
			Name:        "Morning Commute",
			Description: "Songs for the train",
			IsPublic:    true,
			SongCount:   2,
		},
		Songs: []models.PlaylistSong{
			{SongID: "song-1", Position: 0, Title: "Opener", Artist: "The Band", Album: "Debut", DurationSeconds: 245},
			{SongID: "song-2", Position: 1, Title: "Closer", Artist: "Solo Act", DurationSeconds: 190},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("Headers And Rows", func(t *testing.T) {
		data, err := ExportToCSV(sampleDetail())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Position,Song ID,Title,Artist,Album,Duration" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[1] != "1,song-1,Opener,The Band,Debut,245" {
			t.Errorf("unexpected row %q", lines[1])
		}
		if lines[2] != "2,song-2,Closer,Solo Act,,190" {
			t.Errorf("unexpected row %q", lines[2])
		}
	})

	t.Run("Empty Playlist", func(t *testing.T) {
		detail := sampleDetail()
		detail.Songs = nil

		data, err := ExportToCSV(detail)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(string(data)) != "Position,Song ID,Title,Artist,Album,Duration" {
			t.Errorf("expected only the header, got %q", data)
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("Full Document", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleDetail(), "cover.jpg")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		content := string(data)

		for _, want := range []string{
			"# Morning Commute",
			"![Cover](cover.jpg)",
			"**Description**: Songs for the train",
			"**Songs**: 2",
			"**Visibility**: Public",
			"## Songs",
			"1. The Band - Opener (Debut) [4:05]",
			"2. Solo Act - Closer [3:10]",
		} {
			if !strings.Contains(content, want) {
				t.Errorf("expected markdown to contain %q", want)
			}
		}
	})

	t.Run("Private Without Cover", func(t *testing.T) {
		detail := sampleDetail()
		detail.IsPublic = false
		detail.Description = ""

		data, err := ExportToMarkdown(detail, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		content := string(data)

		if !strings.Contains(content, "**Visibility**: Private") {
			t.Error("expected private visibility")
		}
		if strings.Contains(content, "![Cover]") {
			t.Error("expected no cover reference")
		}
		if strings.Contains(content, "**Description**") {
			t.Error("expected no description line")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleDetail())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "Playlist: Morning Commute") {
		t.Error("expected the playlist name")
	}
	if !strings.Contains(content, "1. The Band - Opener") {
		t.Error("expected the first song line")
	}
	if !strings.Contains(content, "2. Solo Act - Closer") {
		t.Error("expected the second song line")
	}
}

func TestToMetadataJSON(t *testing.T) {
	data, err := ToMetadataJSON(sampleDetail().Playlist)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded models.Playlist
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if decoded.ID != "pl-1" || decoded.Name != "Morning Commute" {
		t.Errorf("unexpected metadata %+v", decoded)
	}
}

func TestDownloadImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "image-bytes" {
			t.Errorf("unexpected data %q", data)
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected an error for a 404")
		}
	})
}

func TestWriteCSVExport(t *testing.T) {
	t.Run("Writes Songs And Metadata", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "morning")

		result, err := WriteCSVExport(sampleDetail(), base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SongsFile != base+"_songs.csv" {
			t.Errorf("unexpected songs file %q", result.SongsFile)
		}
		tu.AssertFileExists(t, result.SongsFile)
		tu.AssertFileExists(t, result.MetadataFile)

		content := tu.MustReadFile(t, result.SongsFile)
		if !strings.Contains(content, "song-1") {
			t.Error("expected the song rows written")
		}
	})

	t.Run("Defaults To Playlist ID", func(t *testing.T) {
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, wd)

		result, err := WriteCSVExport(sampleDetail(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SongsFile != "pl-1_songs.csv" {
			t.Errorf("unexpected songs file %q", result.SongsFile)
		}
	})
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("Creates Directory With README", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteMarkdownExport(sampleDetail(), dir, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if result.CoverImage != "" {
			t.Error("expected no cover image without a URL")
		}
		if len(result.Files) != 1 {
			t.Errorf("expected one file, got %v", result.Files)
		}
	})

	t.Run("Downloads Cover Image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "export")
		result, err := WriteMarkdownExport(sampleDetail(), dir, server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "cover.jpg"))
		if result.CoverImage == "" {
			t.Error("expected the cover image path recorded")
		}

		content := tu.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(content, "![Cover](cover.jpg)") {
			t.Error("expected the README to reference the cover")
		}
	})

	t.Run("Failed Download Still Writes README", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "export")
		_, err := WriteMarkdownExport(sampleDetail(), dir, server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.txt")

	written, err := WriteTextExport(sampleDetail(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if written != path {
		t.Errorf("unexpected path %q", written)
	}
	tu.AssertFileExists(t, path)
}
