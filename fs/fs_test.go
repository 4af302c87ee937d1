package fs_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/quizdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", filepath.Join("example.com", "index.json")},
		{"https://example.com/", filepath.Join("example.com", "index.json")},
		{"https://example.com/quiz/math/", filepath.Join("example.com", "quiz", "math", "index.json")},
		{"https://example.com/quiz/1", filepath.Join("example.com", "quiz", "1.json")},
		{"https://www.example.com:8080/quiz/page.html", filepath.Join("www.example.com", "quiz", "page.json")},
		{"quiz.html", "quiz.json"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url, ".json")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("writes content and creates directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "quiz.json")

		err := fs.WriteFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, `{"ok":true}`)
			return err
		})

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, string(data))
	})

	t.Run("leaves existing file untouched on failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "quiz.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		err := fs.WriteFile(path, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return errors.New("encode failed")
		})

		require.Error(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file should be removed")
	})
}

func TestURLToPath_StaysInsideTree(t *testing.T) {
	t.Parallel()

	got, err := fs.URLToPath("https://example.com/../../etc/passwd", ".json")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("example.com", "etc", "passwd.json"), got)
}
