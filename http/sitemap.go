package http

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/quizdoc"
)

// Ensure SitemapService implements quizdoc.SitemapService.
var _ quizdoc.SitemapService = (*SitemapService)(nil)

// SitemapService discovers quiz page URLs from website sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService. It accepts the same
// options as NewFetcher.
func NewSitemapService(opts ...Option) *SitemapService {
	o := newOptions(opts)
	return &SitemapService{client: o.client, userAgent: o.userAgent}
}

// DiscoverURLs implements quizdoc.SitemapService. It returns an empty,
// non-nil slice when the site publishes no sitemap.
//
// When baseURL has a non-root path (e.g. https://example.com/quizzes/),
// only URLs below that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *quizdoc.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "invalid base URL %q", baseURL)
	}
	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{service: s, visited: make(map[string]bool)}
	urls := []string{}
	seen := make(map[string]bool)
	for _, sm := range sitemaps {
		locs, err := w.walk(ctx, sm)
		if err != nil {
			return nil, err
		}
		for _, loc := range locs {
			if seen[loc] || !underPath(loc, prefix) || !filter.Match(loc) {
				continue
			}
			seen[loc] = true
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// underPath reports whether rawURL lies at or below prefix, respecting
// path segment boundaries: /quiz matches /quiz/1 but not /quizzes.
func underPath(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// locateSitemaps reads Sitemap directives from robots.txt and falls back
// to /sitemap.xml when there are none.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := get(ctx, s.client, robotsURL, s.userAgent, "text/plain")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			sitemaps = append(sitemaps, value)
		}
	}
	return sitemaps, scanner.Err()
}

// sitemapWalk follows one discovery run through nested sitemap indexes.
type sitemapWalk struct {
	service *SitemapService
	visited map[string]bool
}

// walk returns the page locations listed by the sitemap at sitemapURL.
// A missing sitemap yields no locations.
func (w *sitemapWalk) walk(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.visited[sitemapURL] {
		return nil, nil
	}
	w.visited[sitemapURL] = true

	resp, err := get(ctx, w.service.client, sitemapURL, w.service.userAgent, "application/xml,text/xml;q=0.9")
	if quizdoc.ErrorCode(err) == quizdoc.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}
	var out []string
	for _, child := range locs(root, "sitemap") {
		urls, err := w.walk(ctx, child)
		if err != nil {
			return nil, err
		}
		out = append(out, urls...)
	}
	return out, nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}
