package quizdoc

import "context"

// Fetcher retrieves HTML pages from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns the page HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Asset is a fetched binary resource such as an image.
type Asset struct {
	Data        []byte
	ContentType string
}

// AssetFetcher retrieves binary resources referenced by a page.
type AssetFetcher interface {
	// FetchAsset downloads the resource at url.
	FetchAsset(ctx context.Context, url string) (*Asset, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
