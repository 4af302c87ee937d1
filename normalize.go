package quizdoc

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// enumeratorRe matches a leading answer enumerator followed by whitespace:
// a run of letters A-D ("A B"), a single letter A-D ("A", "A.", "b)") or a
// number ("1", "1.", "12)"). The enumerator may be followed by closing tags
// ("<b>A.</b> four"). With "." or ")" it may also end the fragment.
var enumeratorRe = regexp.MustCompile(`^(?:` +
	`[A-Da-d](?:\s+[A-Da-d])+` + closingTags + `(?:\s+|$)|` +
	`[A-Da-d][.)]?` + closingTags + `\s+|` +
	`[A-Da-d][.)]` + closingTags + `$|` +
	`\d+[.)]?` + closingTags + `\s+|` +
	`\d+[.)]` + closingTags + `$)`)

const closingTags = `(?:</[a-zA-Z][a-zA-Z0-9]*>)*`

var closingTagRe = regexp.MustCompile(`</[a-zA-Z][a-zA-Z0-9]*>`)

// leadingTagsRe matches the opening tags that may precede the first text.
var leadingTagsRe = regexp.MustCompile(`^(?:\s*<[a-zA-Z][^>]*>)*\s*`)

var tagRe = regexp.MustCompile(`<[^>]*>`)

var emptyElementRe = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)></([a-zA-Z][a-zA-Z0-9]*)>`)

// NormalizeAnswer cleans one sanitized answer fragment. It strips a leading
// enumerator, terminates the text with a period and capitalizes the first
// letter. Returns "" when no text remains, which callers treat as no answer.
//
// All checks inspect the text content of the fragment; edits are applied to
// the markup at the corresponding position, so inline tags are preserved.
func NormalizeAnswer(fragment string) string {
	s := strings.TrimSpace(fragment)
	lead := leadingTagsRe.FindString(s)
	rest := s[len(lead):]
	if m := enumeratorRe.FindString(rest); m != "" {
		// Closing tags inside the enumerator still close the leading tags.
		closing := strings.Join(closingTagRe.FindAllString(m, -1), "")
		rest = closing + rest[len(m):]
		s = dropEmptyElements(strings.TrimSpace(lead) + rest)
	}
	s = strings.TrimSpace(s)

	text := TextContent(s)
	if text == "" {
		return ""
	}
	if !strings.HasSuffix(text, ".") {
		s = strings.TrimRightFunc(s, unicode.IsSpace) + "."
	}
	return capitalizeFirstLetter(s)
}

// dropEmptyElements removes elements left without content, such as the
// "<b></b>" remaining once "<b>A.</b>" loses its enumerator.
func dropEmptyElements(markup string) string {
	for {
		out := emptyElementRe.ReplaceAllStringFunc(markup, func(pair string) string {
			m := emptyElementRe.FindStringSubmatch(pair)
			if m[1] != m[2] {
				return pair
			}
			return ""
		})
		if out == markup {
			return out
		}
		markup = out
	}
}

// TextContent returns the trimmed, unescaped text of a markup fragment.
func TextContent(markup string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(markup, "")))
}

// capitalizeFirstLetter upper-cases the first text character of markup,
// skipping over tags. A leading character reference is left alone.
func capitalizeFirstLetter(markup string) string {
	for i := 0; i < len(markup); {
		switch markup[i] {
		case '<':
			end := strings.IndexByte(markup[i:], '>')
			if end < 0 {
				return markup
			}
			i += end + 1
			continue
		case '&':
			return markup
		}
		r, size := utf8.DecodeRuneInString(markup[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		upper := unicode.ToUpper(r)
		if upper == r {
			return markup
		}
		return markup[:i] + string(upper) + markup[i+size:]
	}
	return markup
}
