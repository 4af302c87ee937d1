package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy produces the raw markup of a field from a question block.
// The boolean reports whether the strategy found the field at all.
type fieldStrategy func(block *goquery.Selection) (string, bool)

// firstOf evaluates strategies in order and returns the first hit.
func firstOf(block *goquery.Selection, strategies ...fieldStrategy) (string, bool) {
	for _, s := range strategies {
		if markup, ok := s(block); ok {
			return markup, true
		}
	}
	return "", false
}

// selectorHTML returns the inner markup of the first descendant matching selector.
func selectorHTML(selector string) fieldStrategy {
	return func(block *goquery.Selection) (string, bool) {
		if selector == "" {
			return "", false
		}
		match := block.Find(selector).First()
		if match.Length() == 0 {
			return "", false
		}
		inner, err := match.Html()
		if err != nil {
			return "", false
		}
		return inner, true
	}
}

// ownHTML returns the inner markup of the block itself.
func ownHTML(block *goquery.Selection) (string, bool) {
	inner, err := block.Html()
	if err != nil {
		return "", false
	}
	return inner, true
}

// markerText scans the inner markup of the block with re and returns the
// first capture group.
func markerText(re *regexp.Regexp) fieldStrategy {
	return func(block *goquery.Selection) (string, bool) {
		inner, err := block.Html()
		if err != nil {
			return "", false
		}
		m := re.FindStringSubmatch(inner)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}
