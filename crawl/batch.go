// Package crawl provides quiz extraction orchestration.
// It coordinates fetching, selector resolution, extraction, and storage
// of quiz pages.
package crawl

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed in parallel by Run.
const DefaultConcurrency = 4

// dedupeFalsePositiveRate bounds the chance that Run drops a distinct URL.
const dedupeFalsePositiveRate = 1e-6

// Batch extracts quizzes from pages.
type Batch struct {
	Fetcher     quizdoc.Fetcher
	Extractor   quizdoc.Extractor
	Resolver    quizdoc.SelectorResolver
	Titles      quizdoc.TitleExtractor
	Quizzes     quizdoc.QuizService
	RateLimiter quizdoc.DomainLimiter

	// Override, when set, is used for every page instead of the registry.
	Override *quizdoc.SelectorConfig

	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of a batch run.
type Result struct {
	// Quizzes holds every non-empty quiz in input order.
	Quizzes []*quizdoc.Quiz

	Saved   int
	Skipped int
	Empty   int
	Failed  int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Questions int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type pageResult struct {
	position int
	url      string
	quiz     *quizdoc.Quiz
	err      error
}

func (b *Batch) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// ExtractHTML extracts a quiz from an already loaded page. sourceURL picks
// the registry entry and resolves relative references; it may be empty.
// A page without questions yields a quiz with no questions.
func (b *Batch) ExtractHTML(ctx context.Context, html, sourceURL string) (*quizdoc.Quiz, error) {
	cfg := b.Resolver.Resolve(b.Override, sourceURL)

	questions, err := b.Extractor.Extract(ctx, html, sourceURL, cfg)
	if err != nil {
		return nil, err
	}

	quiz := &quizdoc.Quiz{
		SourceURL: sourceURL,
		Questions: questions,
	}
	if b.Titles != nil {
		title, err := b.Titles.ExtractTitle(html)
		if err != nil {
			b.logger().Debug("title extraction failed", "url", sourceURL, "err", err)
		}
		quiz.Title = title
	}
	return quiz, nil
}

// ExtractURL fetches a page, respecting the rate limit and retrying
// transient failures, and extracts its quiz.
func (b *Batch) ExtractURL(ctx context.Context, url string) (*quizdoc.Quiz, error) {
	if err := waitURL(ctx, b.RateLimiter, url); err != nil {
		return nil, err
	}

	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, url, b.Fetcher.Fetch, b.logger(), delays)
	if err != nil {
		return nil, err
	}
	return b.ExtractHTML(ctx, html, url)
}

// Run extracts quizzes from urls in parallel. Repeated URLs are processed
// once. Pages are saved in input order when Quizzes is set; a page whose
// content is already saved counts as skipped. Failures of single pages do
// not stop the run.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	urls = bloom.Dedupe(urls, dedupeFalsePositiveRate)
	total := len(urls)

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan pageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			g.Go(func() error {
				quiz, err := b.ExtractURL(gctx, url)
				resultCh <- pageResult{position: i, url: url, quiz: quiz, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]pageResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
		}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		} else {
			event.Questions = len(r.quiz.Questions)
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, r := range results {
		switch {
		case r.err != nil:
			result.Failed++
			b.logger().Warn("extract failed", "url", r.url, "err", r.err)
			continue
		case len(r.quiz.Questions) == 0:
			result.Empty++
			continue
		}

		result.Quizzes = append(result.Quizzes, r.quiz)
		if b.Quizzes == nil {
			continue
		}

		err := b.Quizzes.CreateQuiz(ctx, r.quiz)
		switch quizdoc.ErrorCode(err) {
		case "":
			result.Saved++
		case quizdoc.ECONFLICT:
			result.Skipped++
		default:
			result.Failed++
			b.logger().Warn("save failed", "url", r.url, "err", err)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, nil
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
