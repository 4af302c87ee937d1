// Package trafilatura reads page titles from HTML metadata using
// go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/quizdoc"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure TitleExtractor implements quizdoc.TitleExtractor at compile time.
var _ quizdoc.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor wraps go-trafilatura metadata extraction. It looks at
// <meta> tags, JSON-LD and the document <title>.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// ExtractTitle returns the page title, or "" when the page declares none.
func (e *TitleExtractor) ExtractTitle(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", quizdoc.Errorf(quizdoc.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result.Metadata.Title), nil
}
