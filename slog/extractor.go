package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/quizdoc"
)

// Ensure LoggingExtractor implements quizdoc.Extractor.
var _ quizdoc.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   quizdoc.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next quizdoc.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the question count.
func (e *LoggingExtractor) Extract(ctx context.Context, html string, baseURL string, cfg quizdoc.SelectorConfig) (questions []*quizdoc.Question, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"url", baseURL,
			"container", cfg.Container,
			"bytes", len(html),
			"questions", len(questions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, html, baseURL, cfg)
}

// Ensure LoggingResolver implements quizdoc.SelectorResolver.
var _ quizdoc.SelectorResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a SelectorResolver with debug logging.
type LoggingResolver struct {
	next   quizdoc.SelectorResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next quizdoc.SelectorResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the chosen container.
func (r *LoggingResolver) Resolve(override *quizdoc.SelectorConfig, sourceKey string) quizdoc.SelectorConfig {
	cfg := r.next.Resolve(override, sourceKey)
	source := "(none)"
	if sourceKey != "" {
		source = sourceKey
	}
	r.logger.Debug("resolve selectors",
		"source", source,
		"override", override != nil,
		"container", cfg.Container,
	)
	return cfg
}
