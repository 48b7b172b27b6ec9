// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
)

// MockUploader is a test double for the upload slice of [api.Client]
type MockUploader struct {
	mu        sync.Mutex
	Uploads   []string
	UploadErr error
	Song      models.Song
	SongErr   error
	Reports   []int // Per-upload progress percentages to replay
}

func (m *MockUploader) UploadSong(ctx context.Context, filePath string, overrides map[string]string, progress api.ProgressFunc) (*models.SongUploadResult, error) {
	m.mu.Lock()
	m.Uploads = append(m.Uploads, filePath)
	m.mu.Unlock()

	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if progress != nil {
		for _, pct := range m.Reports {
			progress(pct)
		}
	}
	return &models.SongUploadResult{ID: m.Song.ID, Title: m.Song.Title, Artist: m.Song.Artist}, nil
}

func (m *MockUploader) GetSong(ctx context.Context, id string) (*models.Song, error) {
	if m.SongErr != nil {
		return nil, m.SongErr
	}
	song := m.Song
	song.ID = id
	return &song, nil
}

// Uploaded returns the recorded upload paths.
func (m *MockUploader) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Uploads))
	copy(out, m.Uploads)
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
