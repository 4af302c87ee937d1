package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/quizdoc"
)

// Ensure LoggingFetcher implements quizdoc.Fetcher.
var _ quizdoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   quizdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next quizdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingAssetFetcher implements quizdoc.AssetFetcher.
var _ quizdoc.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with debug logging.
type LoggingAssetFetcher struct {
	next   quizdoc.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next quizdoc.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// FetchAsset delegates to the wrapped fetcher and logs the download.
func (f *LoggingAssetFetcher) FetchAsset(ctx context.Context, url string) (asset *quizdoc.Asset, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin), "err", err}
		if asset != nil {
			attrs = append(attrs, "bytes", len(asset.Data), "type", asset.ContentType)
		}
		f.logger.Debug("fetch asset", attrs...)
	}(time.Now())
	return f.next.FetchAsset(ctx, url)
}
