package mock

import (
	"context"

	"github.com/fwojciec/quizdoc"
)

var _ quizdoc.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of quizdoc.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *quizdoc.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *quizdoc.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
