package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/quizdoc"
	main "github.com/fwojciec/quizdoc/cmd/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/fwojciec/quizdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBatch returns a batch whose pages hold as many questions as the
// page body has "<q>" markers.
func stubBatch(pages map[string]string) *crawl.Batch {
	return &crawl.Batch{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", quizdoc.Errorf(quizdoc.ENOTFOUND, "page not found")
				}
				return html, nil
			},
		},
		Resolver: &mock.SelectorResolver{
			ResolveFn: func(*quizdoc.SelectorConfig, string) quizdoc.SelectorConfig {
				return quizdoc.DefaultSelectorConfig()
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(_ context.Context, html, _ string, _ quizdoc.SelectorConfig) ([]*quizdoc.Question, error) {
				var questions []*quizdoc.Question
				for i := range strings.Count(html, "<q>") {
					questions = append(questions, &quizdoc.Question{
						ID:           quizdoc.QuestionID(i + 1),
						QuestionText: "Q",
					})
				}
				return questions, nil
			},
		},
		RetryDelays: []time.Duration{},
	}
}

func newDeps(batch *crawl.Batch) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Batch:  batch,
		Encoders: map[string]quizdoc.QuizEncoder{
			"json": quizdoc.NewJSONEncoder(),
		},
	}, stdout, stderr
}

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("processes given URLs and prints summary", func(t *testing.T) {
		t.Parallel()

		batch := stubBatch(map[string]string{
			"https://quiz.test/1": "<q><q>",
			"https://quiz.test/2": "<p>",
		})
		var saved []string
		batch.Quizzes = &mock.QuizService{
			CreateQuizFn: func(_ context.Context, quiz *quizdoc.Quiz) error {
				saved = append(saved, quiz.SourceURL)
				return nil
			},
		}
		deps, stdout, stderr := newDeps(batch)

		cmd := &main.BatchCmd{
			URLs: []string{"https://quiz.test/1", "https://quiz.test/2", "https://quiz.test/missing"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://quiz.test/1"}, saved)
		assert.Contains(t, stdout.String(), "Found 3 URLs")
		assert.Contains(t, stdout.String(), "Saved 1, already saved 0, without questions 1, failed 1")
		assert.Contains(t, stderr.String(), "skip https://quiz.test/missing")
	})

	t.Run("applies filter to given URLs", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(stubBatch(map[string]string{
			"https://quiz.test/math/1": "<q>",
		}))

		cmd := &main.BatchCmd{
			URLs:   []string{"https://quiz.test/math/1", "https://quiz.test/art/1"},
			Filter: []string{"/math/"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Found 1 URLs")
	})

	t.Run("skips excluded URLs", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(stubBatch(map[string]string{
			"https://quiz.test/math/1": "<q>",
		}))

		cmd := &main.BatchCmd{
			URLs:    []string{"https://quiz.test/math/1", "https://quiz.test/math/1/answers"},
			Exclude: []string{"/answers$"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Found 1 URLs")
		assert.Contains(t, stdout.String(), "failed 0")
	})

	t.Run("passes exclude patterns to sitemap discovery", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(stubBatch(nil))
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *quizdoc.URLFilter) ([]string, error) {
				require.NotNil(t, filter)
				assert.Empty(t, filter.Include)
				assert.Len(t, filter.Exclude, 1)
				return nil, nil
			},
		}

		cmd := &main.BatchCmd{URLs: []string{"https://quiz.test/"}, Sitemap: true, Exclude: []string{"/blog/"}}
		err := cmd.Run(deps)

		require.NoError(t, err)
	})

	t.Run("rejects invalid filter", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(stubBatch(nil))

		cmd := &main.BatchCmd{URLs: []string{"https://quiz.test/"}, Filter: []string{"[invalid"}}
		err := cmd.Run(deps)

		assert.Equal(t, quizdoc.EINVALID, quizdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})

	t.Run("discovers URLs from sitemaps", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(stubBatch(map[string]string{
			"https://quiz.test/a": "<q>",
			"https://quiz.test/b": "<q>",
		}))
		var roots []string
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *quizdoc.URLFilter) ([]string, error) {
				roots = append(roots, baseURL)
				assert.Nil(t, filter)
				return []string{"https://quiz.test/a", "https://quiz.test/b"}, nil
			},
		}

		cmd := &main.BatchCmd{URLs: []string{"https://quiz.test/"}, Sitemap: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://quiz.test/"}, roots)
		assert.Contains(t, stdout.String(), "Found 2 URLs")
	})

	t.Run("reports sitemap errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(stubBatch(nil))
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *quizdoc.URLFilter) ([]string, error) {
				return nil, quizdoc.Errorf(quizdoc.EINVALID, "base URL must be absolute")
			},
		}

		cmd := &main.BatchCmd{URLs: []string{"quiz.test"}, Sitemap: true}
		err := cmd.Run(deps)

		assert.Error(t, err)
		assert.Contains(t, stderr.String(), "base URL must be absolute")
	})

	t.Run("writes one file per quiz to out dir", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(stubBatch(map[string]string{
			"https://quiz.test/unit/1": "<q>",
			"https://quiz.test/unit/2": "<q><q>",
			"https://quiz.test/unit/3": "",
		}))
		outDir := filepath.Join(t.TempDir(), "export")

		cmd := &main.BatchCmd{
			URLs:        []string{"https://quiz.test/unit/1", "https://quiz.test/unit/2", "https://quiz.test/unit/3"},
			OutDir:      outDir,
			OutputFlags: main.OutputFlags{Format: "json"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 2 files")
		assert.FileExists(t, filepath.Join(outDir, "quiz.test", "unit", "1.json"))
		assert.FileExists(t, filepath.Join(outDir, "quiz.test", "unit", "2.json"))
		assert.NoFileExists(t, filepath.Join(outDir, "quiz.test", "unit", "3.json"))

		_, err = os.Stat(outDir + ".tmp")
		assert.True(t, os.IsNotExist(err), "staging directory should be moved")
	})
}
