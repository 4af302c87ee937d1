package goquery_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/goquery"
	"github.com/fwojciec/quizdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(t *testing.T, html string) *gq.Selection {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find(".question").First()
}

func TestImageResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("embeds fetched image as data URI", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var fetched []string
		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, url string) (*quizdoc.Asset, error) {
				mu.Lock()
				fetched = append(fetched, url)
				mu.Unlock()
				return &quizdoc.Asset{Data: []byte("GIF89a"), ContentType: "image/gif; charset=binary"}, nil
			},
		}
		r := goquery.NewImageResolver(fetcher)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="img/q1.gif"></div>`), "img", "https://quiz.example.com/tests/page.html")

		assert.Equal(t, "data:image/gif;base64,R0lGODlh", got)
		assert.Equal(t, []string{"https://quiz.example.com/tests/img/q1.gif"}, fetched)
	})

	t.Run("falls back to raw src when fetch fails", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, _ string) (*quizdoc.Asset, error) {
				return nil, errors.New("connection refused")
			},
		}
		r := goquery.NewImageResolver(fetcher)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="https://cdn.example.com/x.png"></div>`), "img", "")

		assert.Equal(t, "https://cdn.example.com/x.png", got)
	})

	t.Run("falls back to raw src when body is empty", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, _ string) (*quizdoc.Asset, error) {
				return &quizdoc.Asset{ContentType: "image/png"}, nil
			},
		}
		r := goquery.NewImageResolver(fetcher)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="/x.png"></div>`), "img", "https://example.com/")

		assert.Equal(t, "/x.png", got)
	})

	t.Run("falls back to raw src on timeout", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(ctx context.Context, _ string) (*quizdoc.Asset, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		r := goquery.NewImageResolver(fetcher, goquery.WithImageTimeout(10*time.Millisecond))

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="https://slow.example.com/x.png"></div>`), "img", "")

		assert.Equal(t, "https://slow.example.com/x.png", got)
	})

	t.Run("sniffs media type when content type is missing", func(t *testing.T) {
		t.Parallel()

		png := []byte("\x89PNG\r\n\x1a\n")
		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, _ string) (*quizdoc.Asset, error) {
				return &quizdoc.Asset{Data: png}, nil
			},
		}
		r := goquery.NewImageResolver(fetcher)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="https://example.com/x"></div>`), "img", "")

		assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"), got)
	})

	t.Run("returns data URI sources unchanged", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.AssetFetcher{
			FetchAssetFn: func(_ context.Context, _ string) (*quizdoc.Asset, error) {
				t.Fatal("unexpected fetch")
				return nil, nil
			},
		}
		r := goquery.NewImageResolver(fetcher)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="data:image/png;base64,AAAA"></div>`), "img", "")

		assert.Equal(t, "data:image/png;base64,AAAA", got)
	})

	t.Run("returns raw src without fetcher", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewImageResolver(nil)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><img src="pic.jpg"></div>`), "img", "https://example.com/")

		assert.Equal(t, "pic.jpg", got)
	})

	t.Run("reads background image from inline style", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewImageResolver(nil)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><div class="pic" style="color: red; background-image: url('/bg.png')"></div></div>`), ".pic", "")

		assert.Equal(t, "/bg.png", got)
	})

	t.Run("returns empty when nothing matches", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewImageResolver(nil)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><p>text</p></div>`), "img", "")

		assert.Empty(t, got)
	})

	t.Run("returns empty for element without image", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewImageResolver(nil)

		got := r.Resolve(context.Background(), block(t, `<div class="question"><span class="pic">none</span></div>`), ".pic", "")

		assert.Empty(t, got)
	})
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	got := goquery.DataURI(&quizdoc.Asset{Data: []byte("abc"), ContentType: "image/svg+xml"})

	assert.Equal(t, "data:image/svg+xml;base64,YWJj", got)
}
