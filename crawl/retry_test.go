package crawl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first successful fetch", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://quiz.example.com/1", fetch, nil, shortDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "ok", nil
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://quiz.example.com/1", fetch, logger, shortDelays)

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 3, calls)
		assert.Contains(t, buf.String(), "retrying fetch")
		assert.Contains(t, buf.String(), "attempt=3")
	})

	t.Run("gives up after all delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("HTTP 503 for https://quiz.example.com/1")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://quiz.example.com/1", fetch, nil, shortDelays)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry not found", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "", quizdoc.Errorf(quizdoc.ENOTFOUND, "page not found")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://quiz.example.com/1", fetch, nil, shortDelays)

		assert.Equal(t, quizdoc.ENOTFOUND, quizdoc.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "", quizdoc.Errorf(quizdoc.EINVALID, "bad url")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "::", fetch, nil, shortDelays)

		assert.Equal(t, quizdoc.EINVALID, quizdoc.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			cancel()
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://quiz.example.com/1", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("default delays back off exponentially", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, crawl.DefaultRetryDelays())
	})
}
