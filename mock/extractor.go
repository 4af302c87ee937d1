package mock

import (
	"context"

	"github.com/fwojciec/quizdoc"
)

var _ quizdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of quizdoc.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, html string, baseURL string, cfg quizdoc.SelectorConfig) ([]*quizdoc.Question, error)
}

func (e *Extractor) Extract(ctx context.Context, html string, baseURL string, cfg quizdoc.SelectorConfig) ([]*quizdoc.Question, error) {
	return e.ExtractFn(ctx, html, baseURL, cfg)
}

var _ quizdoc.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of quizdoc.TitleExtractor.
type TitleExtractor struct {
	ExtractTitleFn func(html string) (string, error)
}

func (e *TitleExtractor) ExtractTitle(html string) (string, error) {
	return e.ExtractTitleFn(html)
}

var _ quizdoc.SelectorResolver = (*SelectorResolver)(nil)

// SelectorResolver is a mock implementation of quizdoc.SelectorResolver.
type SelectorResolver struct {
	ResolveFn func(override *quizdoc.SelectorConfig, sourceKey string) quizdoc.SelectorConfig
}

func (r *SelectorResolver) Resolve(override *quizdoc.SelectorConfig, sourceKey string) quizdoc.SelectorConfig {
	return r.ResolveFn(override, sourceKey)
}
