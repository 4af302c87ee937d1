package goquery

import (
	"context"
	"encoding/base64"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/quizdoc"
)

// DefaultImageTimeout bounds a single image download.
const DefaultImageTimeout = 10 * time.Second

// backgroundURLRe captures the url(...) value of a background or
// background-image declaration in an inline style.
var backgroundURLRe = regexp.MustCompile(`(?i)background(?:-image)?\s*:[^;]*?url\(\s*([^)]*?)\s*\)`)

// ImageResolver finds the illustration of a question block and embeds it
// as a data URI when possible. Resolution never fails: a download problem
// degrades to the raw reference.
type ImageResolver struct {
	fetcher quizdoc.AssetFetcher
	timeout time.Duration
	logger  *slog.Logger
}

// ImageOption configures an ImageResolver.
type ImageOption func(*ImageResolver)

// WithImageTimeout sets the timeout for one image download.
// Defaults to DefaultImageTimeout if not specified.
func WithImageTimeout(d time.Duration) ImageOption {
	return func(r *ImageResolver) {
		r.timeout = d
	}
}

// WithImageLogger sets the logger used to report download fallbacks.
func WithImageLogger(logger *slog.Logger) ImageOption {
	return func(r *ImageResolver) {
		r.logger = logger
	}
}

// NewImageResolver creates an ImageResolver. A nil fetcher disables
// embedding and image references are returned as found.
func NewImageResolver(fetcher quizdoc.AssetFetcher, opts ...ImageOption) *ImageResolver {
	r := &ImageResolver{
		fetcher: fetcher,
		timeout: DefaultImageTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the image of block located by selector, or "" when the
// block has none. baseURL, when absolute, resolves relative sources before
// downloading.
func (r *ImageResolver) Resolve(ctx context.Context, block *goquery.Selection, selector, baseURL string) string {
	if selector == "" {
		return ""
	}
	match := block.Find(selector).First()
	if match.Length() == 0 {
		return ""
	}

	if goquery.NodeName(match) == "img" {
		if src := strings.TrimSpace(match.AttrOr("src", "")); src != "" {
			return r.embed(ctx, src, baseURL)
		}
	}

	if style, ok := match.Attr("style"); ok {
		if m := backgroundURLRe.FindStringSubmatch(style); m != nil {
			return strings.Trim(m[1], `"' `)
		}
	}
	return ""
}

// embed downloads src and encodes it as a data URI, returning src
// unchanged on any failure.
func (r *ImageResolver) embed(ctx context.Context, src, baseURL string) string {
	if strings.HasPrefix(strings.ToLower(src), "data:") || r.fetcher == nil {
		return src
	}

	target, ok := resolveReference(baseURL, src)
	if !ok {
		return src
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	asset, err := r.fetcher.FetchAsset(ctx, target)
	if err != nil {
		r.logger.Debug("image fallback", "src", src, "err", err)
		return src
	}
	if len(asset.Data) == 0 {
		r.logger.Debug("image fallback", "src", src, "err", "empty body")
		return src
	}
	return DataURI(asset)
}

// DataURI encodes an asset as a base64 data URI. The media type comes from
// the asset and is sniffed from the content when missing.
func DataURI(asset *quizdoc.Asset) string {
	mediaType := ""
	if asset.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(asset.ContentType); err == nil {
			mediaType = mt
		}
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(asset.Data))
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(asset.Data)
}

// resolveReference resolves src against baseURL and reports whether the
// result is an http(s) URL that can be downloaded.
func resolveReference(baseURL, src string) (string, bool) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if base, err := url.Parse(baseURL); err == nil && base.IsAbs() {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	return ref.String(), true
}
