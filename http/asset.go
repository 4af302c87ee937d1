package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/quizdoc"
)

// Ensure AssetFetcher implements quizdoc.AssetFetcher at compile time.
var _ quizdoc.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher downloads binary resources such as question images.
type AssetFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewAssetFetcher creates a new AssetFetcher. It accepts the same options
// as NewFetcher.
func NewAssetFetcher(opts ...Option) *AssetFetcher {
	o := newOptions(opts)
	return &AssetFetcher{
		client:    o.client,
		userAgent: o.userAgent,
		maxBody:   o.maxBody,
	}
}

// FetchAsset downloads the resource at url with its declared content type.
func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) (*quizdoc.Asset, error) {
	resp, err := get(ctx, f.client, url, f.userAgent, "image/*,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, f.maxBody, url)
	if err != nil {
		return nil, err
	}
	return &quizdoc.Asset{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
