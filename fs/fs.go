// Package fs writes encoded quizzes to the local filesystem.
package fs

import (
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// URLToPath converts a quiz page URL to a relative file path with the given
// extension, rooted at the host name.
// Example: https://example.com/quiz/math/ → example.com/quiz/math/index.json
func URLToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	// Cleaning against a rooted path keeps ".." segments inside the tree.
	rel := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case rel == "":
		rel = "index"
	case strings.HasSuffix(u.Path, "/"):
		rel += "/index"
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	if u.Host != "" {
		rel = u.Hostname() + "/" + rel
	}
	return filepath.FromSlash(rel) + ext, nil
}

// WriteFile writes a file atomically: content goes to a temporary file in
// the target directory, which is renamed over name once write succeeds.
// On failure the target is left untouched.
func WriteFile(name string, write func(w io.Writer) error) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
