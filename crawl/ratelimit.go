package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/quizdoc"
	"golang.org/x/time/rate"
)

var _ quizdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so requests to different quiz sites run
// concurrently while requests to one site are spaced out.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second per domain, without bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// waitURL waits on limiter for the host of rawURL. A nil limiter or a URL
// without host does not wait.
func waitURL(ctx context.Context, limiter quizdoc.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return limiter.Wait(ctx, u.Hostname())
}

var _ quizdoc.AssetFetcher = (*LimitedAssetFetcher)(nil)

// LimitedAssetFetcher applies a DomainLimiter to image downloads so that
// embedding images does not bypass the politeness limit of a site.
type LimitedAssetFetcher struct {
	next    quizdoc.AssetFetcher
	limiter quizdoc.DomainLimiter
}

// NewLimitedAssetFetcher creates a new LimitedAssetFetcher.
func NewLimitedAssetFetcher(next quizdoc.AssetFetcher, limiter quizdoc.DomainLimiter) *LimitedAssetFetcher {
	return &LimitedAssetFetcher{next: next, limiter: limiter}
}

// FetchAsset waits for the rate limit of the asset host, then delegates.
func (f *LimitedAssetFetcher) FetchAsset(ctx context.Context, url string) (*quizdoc.Asset, error) {
	if err := waitURL(ctx, f.limiter, url); err != nil {
		return nil, err
	}
	return f.next.FetchAsset(ctx, url)
}
