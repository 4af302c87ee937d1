// Package bloom provides quiz URL deduplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet remembers URLs in a Bloom filter. Equivalent spellings of a URL
// (host case, fragment, trailing slash) are treated as one.
// False positives are possible at the configured rate; false negatives are
// not. URLSet is not safe for concurrent use.
type URLSet struct {
	f *bloom.BloomFilter
}

// NewURLSet creates a new set sized for n expected URLs with the given
// false positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	if n == 0 {
		n = 1
	}
	return &URLSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL.
func (s *URLSet) Add(rawURL string) {
	s.f.AddString(Normalize(rawURL))
}

// Test returns true if the URL might have been added.
func (s *URLSet) Test(rawURL string) bool {
	return s.f.TestString(Normalize(rawURL))
}

// Seen records rawURL and reports whether it was probably recorded before.
func (s *URLSet) Seen(rawURL string) bool {
	return s.f.TestAndAddString(Normalize(rawURL))
}

// EstimatedCount returns the approximate number of URLs in the set.
func (s *URLSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}

// Normalize returns the canonical form of rawURL used for deduplication:
// lower-case scheme and host, no fragment, and no trailing slash on a
// non-root path. Unparseable input is returned trimmed.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// Dedupe returns urls without repeats, keeping first occurrences in order.
func Dedupe(urls []string, fpRate float64) []string {
	set := NewURLSet(uint(len(urls)), fpRate)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if set.Seen(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
