// Package readability reads page titles using go-readability. It serves as
// a fallback for pages whose main content is too short for trafilatura.
package readability

import (
	"strings"

	"github.com/fwojciec/quizdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure TitleExtractor implements quizdoc.TitleExtractor at compile time.
var _ quizdoc.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor wraps go-readability article parsing.
type TitleExtractor struct{}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// ExtractTitle returns the article title, or "" when none is found.
func (e *TitleExtractor) ExtractTitle(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", quizdoc.Errorf(quizdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(article.Title), nil
}
