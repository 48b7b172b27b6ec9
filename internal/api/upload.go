package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/krolx/nicemusic/internal/models"
)

// ProgressFunc receives upload progress as a percentage from 0 to 100.
type ProgressFunc func(pct int)

// UploadSong streams the audio file at filePath to the songs endpoint as a
// multipart request. Metadata overrides (title, artist, album) are sent as
// form fields when present. Progress, if non-nil, is reported monotonically.
//
// Like every call, the upload is retried at most once after a token refresh;
// the file is reopened for the retry so the stream starts from the beginning.
func (c *Client) UploadSong(ctx context.Context, filePath string, overrides map[string]string, progress ProgressFunc) (*models.SongUploadResult, error) {
	status, body, err := c.uploadOnce(ctx, filePath, overrides, progress)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if err := c.awaitRefresh(ctx); err != nil {
			return nil, err
		}
		status, body, err = c.uploadOnce(ctx, filePath, overrides, progress)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		return nil, normalizeResponse(status, body)
	}

	var result models.SongUploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, normalizeTransport(fmt.Errorf("failed to decode upload response: %w", err))
	}

	return &result, nil
}

func (c *Client) uploadOnce(ctx context.Context, filePath string, overrides map[string]string, progress ProgressFunc) (int, []byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to stat file: %w", err))
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()

		for field, value := range overrides {
			if value == "" {
				continue
			}
			if err := mw.WriteField(field, value); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		part, err := mw.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		src := io.Reader(f)
		if progress != nil {
			src = &progressReader{r: f, total: info.Size(), report: progress}
		}

		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+BasePath+"/songs", pr)
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token, err := c.tokens.Load(); err == nil && token != nil && token.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, normalizeTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to read response: %w", err))
	}

	return resp.StatusCode, body, nil
}

// GetSong fetches a single song by id.
func (c *Client) GetSong(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := c.Get(ctx, "/songs/"+id, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// StreamURL returns the absolute URL for a song's audio stream.
func (c *Client) StreamURL(songID string) string {
	return fmt.Sprintf("%s%s/songs/%s/stream", c.baseURL, BasePath, songID)
}

// CoverURL returns the absolute URL for a song's cover art.
func (c *Client) CoverURL(songID string) string {
	return fmt.Sprintf("%s%s/songs/%s/cover", c.baseURL, BasePath, songID)
}

// PlaylistCoverURL returns the absolute URL for a playlist's cover image.
func (c *Client) PlaylistCoverURL(playlistID string) string {
	return fmt.Sprintf("%s%s/playlists/%s/cover", c.baseURL, BasePath, playlistID)
}

// progressReader reports read progress as a percentage. Reported values never
// decrease and never exceed 100.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}

	return n, err
}
