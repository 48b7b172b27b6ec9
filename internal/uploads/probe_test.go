package uploads

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeMeta(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		if _, err := ProbeMeta(filepath.Join(t.TempDir(), "absent.mp3")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("Untagged File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "noise.mp3")
		if err := os.WriteFile(path, []byte("not an audio container"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		// Unreadable tags are advisory; the caller uploads without overrides.
		if _, err := ProbeMeta(path); err == nil {
			t.Error("expected an error for a file without tags")
		}
	})
}
