// Package goquery implements question extraction on top of goquery and
// cascadia CSS selectors.
package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/quizdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultImageConcurrency is the default number of concurrent image downloads.
const DefaultImageConcurrency = 4

// explanationMarkerRe finds an inline "Explanation:" marker and captures
// everything after it up to the end of the block, across lines.
var explanationMarkerRe = regexp.MustCompile(`(?is)Explanation:(.*)\z`)

// Ensure Extractor implements quizdoc.Extractor at compile time.
var _ quizdoc.Extractor = (*Extractor)(nil)

// Extractor extracts questions from HTML using selector configurations.
// Extractor holds no per-call state and is safe for concurrent use.
type Extractor struct {
	sanitizer   *Sanitizer
	images      *ImageResolver
	concurrency int
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithImageResolver sets the resolver used for image selectors.
// Defaults to a resolver without downloads.
func WithImageResolver(r *ImageResolver) Option {
	return func(e *Extractor) {
		e.images = r
	}
}

// WithConcurrency sets how many images are resolved at once.
// Defaults to DefaultImageConcurrency if not specified.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		e.concurrency = n
	}
}

// WithLogger sets the logger used to report skipped question blocks.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		sanitizer:   NewSanitizer(),
		concurrency: DefaultImageConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.images == nil {
		e.images = NewImageResolver(nil)
	}
	if e.concurrency <= 0 {
		e.concurrency = DefaultImageConcurrency
	}
	return e
}

// Extract implements quizdoc.Extractor. Empty selectors in cfg are replaced
// by the defaults. A block that cannot be extracted is skipped.
func (e *Extractor) Extract(ctx context.Context, html string, baseURL string, cfg quizdoc.SelectorConfig) ([]*quizdoc.Question, error) {
	cfg = cfg.WithDefaults()
	if _, err := cascadia.Compile(cfg.Container); err != nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "invalid container selector %q: %v", cfg.Container, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	blocks := doc.Find(cfg.Container)
	questions := make([]*quizdoc.Question, 0, blocks.Length())
	var images []imageJob

	blocks.Each(func(i int, block *goquery.Selection) {
		position := i + 1
		q, err := e.extractQuestion(block, cfg, position)
		if err != nil {
			e.logger.Warn("skipping question block", "position", position, "err", err)
			return
		}
		if cfg.Image != "" {
			images = append(images, imageJob{question: q, block: block})
		}
		questions = append(questions, q)
	})

	if err := e.resolveImages(ctx, images, cfg.Image, baseURL); err != nil {
		return nil, err
	}
	return questions, nil
}

// extractQuestion builds the question for one block. A panic raised by a
// malformed block is converted into an error.
func (e *Extractor) extractQuestion(block *goquery.Selection, cfg quizdoc.SelectorConfig, position int) (q *quizdoc.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			q, err = nil, fmt.Errorf("extracting question %d: %v", position, r)
		}
	}()

	questionText, _ := firstOf(block, selectorHTML(cfg.QuestionText), ownHTML)
	explanation, _ := firstOf(block, selectorHTML(cfg.Explanation), markerText(explanationMarkerRe))
	paragraph, _ := firstOf(block, selectorHTML(cfg.Paragraph))

	correct := block.Find(cfg.Answers.Correct)
	incorrect := block.Find(cfg.Answers.Incorrect)

	return &quizdoc.Question{
		ID:                 quizdoc.QuestionID(position),
		QuestionNumber:     quizdoc.QuestionNumber(position),
		QuestionText:       e.clean(questionText),
		Answers:            quizdoc.LabelAnswers(e.answerTexts(correct), e.answerTexts(incorrect)),
		Explanation:        e.clean(explanation),
		Paragraph:          e.clean(paragraph),
		HasMultipleCorrect: correct.Length() > 1,
	}, nil
}

// answerTexts sanitizes and normalizes every match in document order.
// Matches that normalize to nothing are kept as "" and dropped by labeling.
func (e *Extractor) answerTexts(matches *goquery.Selection) []string {
	texts := make([]string, 0, matches.Length())
	matches.Each(func(_ int, m *goquery.Selection) {
		inner, err := m.Html()
		if err != nil {
			return
		}
		texts = append(texts, quizdoc.NormalizeAnswer(e.clean(inner)))
	})
	return texts
}

func (e *Extractor) clean(markup string) string {
	return strings.TrimSpace(e.sanitizer.Sanitize(strings.TrimSpace(markup)))
}

type imageJob struct {
	question *quizdoc.Question
	block    *goquery.Selection
}

// resolveImages resolves images for all blocks concurrently. Each job writes
// only its own question, so the result does not depend on completion order.
func (e *Extractor) resolveImages(ctx context.Context, jobs []imageJob, selector, baseURL string) error {
	if len(jobs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			job.question.Image = e.images.Resolve(gctx, job.block, selector, baseURL)
			return nil
		})
	}
	return g.Wait()
}
