package mock

import (
	"context"

	"github.com/fwojciec/quizdoc"
)

var _ quizdoc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of quizdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ quizdoc.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of quizdoc.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) (*quizdoc.Asset, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) (*quizdoc.Asset, error) {
	return f.FetchAssetFn(ctx, url)
}

var _ quizdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of quizdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
