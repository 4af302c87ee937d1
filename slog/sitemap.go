// Package slog provides log/slog decorators for quizdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/quizdoc"
)

// Ensure LoggingSitemapService implements quizdoc.SitemapService.
var _ quizdoc.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   quizdoc.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next quizdoc.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the site, the number of filter patterns and the number
// of quiz pages found.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *quizdoc.URLFilter) (urls []string, err error) {
	var include, exclude int
	if filter != nil {
		include, exclude = len(filter.Include), len(filter.Exclude)
	}
	defer func(begin time.Time) {
		s.logger.Info("discover quiz pages",
			"site", baseURL,
			"include", include,
			"exclude", exclude,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
