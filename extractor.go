package quizdoc

import "context"

// Extractor extracts questions from an HTML document.
type Extractor interface {
	// Extract parses html and returns one question per block matched by
	// cfg.Container, in document order. A document without matching blocks
	// yields an empty slice. Only an unusable document or container
	// selector is reported as an error (EINVALID); field lookups that find
	// nothing are not errors. baseURL is the page address, used to resolve
	// relative references; it may be empty.
	Extract(ctx context.Context, html string, baseURL string, cfg SelectorConfig) ([]*Question, error)
}

// Sanitizer reduces markup to a fixed set of inline formatting tags.
type Sanitizer interface {
	// Sanitize unwraps every element that is not allowed, keeping its text.
	// Sanitize is idempotent and never fails; malformed markup degrades to text.
	Sanitize(markup string) string
}

// AllowedTags lists the inline formatting tags kept by sanitization.
var AllowedTags = []string{
	"br", "i", "b", "u", "em", "strong", "sup", "sub",
	"mark", "small", "del", "ins", "code",
}

// TitleExtractor reads a page title from document metadata.
type TitleExtractor interface {
	// ExtractTitle returns the page title, or "" when none is found.
	ExtractTitle(html string) (string, error)
}

// TitleExtractors tries each extractor in order and returns the first
// non-empty title. Extractor errors are skipped.
type TitleExtractors []TitleExtractor

// ExtractTitle implements TitleExtractor.
func (s TitleExtractors) ExtractTitle(html string) (string, error) {
	var lastErr error
	for _, e := range s {
		title, err := e.ExtractTitle(html)
		if err != nil {
			lastErr = err
			continue
		}
		if title != "" {
			return title, nil
		}
	}
	return "", lastErr
}
