package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/fwojciec/quizdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements quizdoc.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ quizdoc.DomainLimiter = crawl.NewDomainLimiter(1)
	})

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "quiz.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("rate limits requests to same domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10) // 100ms between requests

		err := limiter.Wait(context.Background(), "quiz.example.com")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "quiz.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("domain names are case-insensitive", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		err := limiter.Wait(context.Background(), "Quiz.Example.com")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "quiz.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "same domain in different case should share a limit")
	})

	t.Run("different domains have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		err := limiter.Wait(context.Background(), "quiz.example.com")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "other.example.org")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "different domain should not wait")
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)

		start := time.Now()
		for range 20 {
			require.NoError(t, limiter.Wait(context.Background(), "quiz.example.com"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)

		err := limiter.Wait(context.Background(), "quiz.example.com")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = limiter.Wait(ctx, "quiz.example.com")
		assert.Error(t, err, "should fail when context times out")
	})

	t.Run("concurrent requests are serialized per domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32

		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background(), "quiz.example.com"); err == nil {
					completed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), completed.Load(), "all requests should complete")
	})
}

func TestLimitedAssetFetcher(t *testing.T) {
	t.Parallel()

	t.Run("waits on the asset host before fetching", func(t *testing.T) {
		t.Parallel()

		var order []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				order = append(order, "wait:"+domain)
				return nil
			},
		}
		next := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, url string) (*quizdoc.Asset, error) {
				order = append(order, "fetch:"+url)
				return &quizdoc.Asset{Data: []byte("gif"), ContentType: "image/gif"}, nil
			},
		}

		f := crawl.NewLimitedAssetFetcher(next, limiter)
		asset, err := f.FetchAsset(context.Background(), "https://cdn.example.com:8443/img/q1.gif")

		require.NoError(t, err)
		assert.Equal(t, "image/gif", asset.ContentType)
		assert.Equal(t, []string{
			"wait:cdn.example.com",
			"fetch:https://cdn.example.com:8443/img/q1.gif",
		}, order)
	})

	t.Run("does not fetch when wait fails", func(t *testing.T) {
		t.Parallel()

		limiter := &mock.DomainLimiter{
			WaitFn: func(context.Context, string) error {
				return context.Canceled
			},
		}
		next := &mock.AssetFetcher{
			FetchAssetFn: func(context.Context, string) (*quizdoc.Asset, error) {
				t.Fatal("fetch should not be called")
				return nil, nil
			},
		}

		f := crawl.NewLimitedAssetFetcher(next, limiter)
		_, err := f.FetchAsset(context.Background(), "https://cdn.example.com/q1.gif")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil limiter fetches directly", func(t *testing.T) {
		t.Parallel()

		next := &mock.AssetFetcher{
			FetchAssetFn: func(context.Context, string) (*quizdoc.Asset, error) {
				return &quizdoc.Asset{Data: []byte("png")}, nil
			},
		}

		f := crawl.NewLimitedAssetFetcher(next, nil)
		asset, err := f.FetchAsset(context.Background(), "https://cdn.example.com/q1.png")

		require.NoError(t, err)
		assert.Equal(t, []byte("png"), asset.Data)
	})
}
