package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/quizdoc"
)

// ExportDir writes one file per quiz with update-all-or-nothing semantics.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
type ExportDir struct {
	baseDir string
	name    string
	encoder quizdoc.QuizEncoder
	ext     string
}

// NewExportDir creates a new ExportDir that encodes quizzes with encoder
// into files named after their source URL with extension ext.
func NewExportDir(baseDir, name string, encoder quizdoc.QuizEncoder, ext string) *ExportDir {
	return &ExportDir{
		baseDir: baseDir,
		name:    name,
		encoder: encoder,
		ext:     ext,
	}
}

func (d *ExportDir) tempDir() string {
	return filepath.Join(d.baseDir, d.name+".tmp")
}

func (d *ExportDir) finalDir() string {
	return filepath.Join(d.baseDir, d.name)
}

// Save encodes quiz into the staging directory.
func (d *ExportDir) Save(ctx context.Context, quiz *quizdoc.Quiz) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	relPath, err := URLToPath(quiz.SourceURL, d.ext)
	if err != nil {
		return quizdoc.Errorf(quizdoc.EINVALID, "invalid source URL %q: %v", quiz.SourceURL, err)
	}
	return WriteFile(filepath.Join(d.tempDir(), relPath), func(w io.Writer) error {
		return d.encoder.Encode(w, quiz)
	})
}

// Commit replaces the final directory with the staged files.
func (d *ExportDir) Commit() error {
	if err := os.MkdirAll(d.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(d.finalDir()); err != nil {
		return err
	}
	return os.Rename(d.tempDir(), d.finalDir())
}

// Abort discards the staged files.
func (d *ExportDir) Abort() error {
	return os.RemoveAll(d.tempDir())
}
