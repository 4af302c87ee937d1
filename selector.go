package quizdoc

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultContainerSelector locates question blocks when a configuration
// leaves the container selector empty.
const DefaultContainerSelector = ".question"

// AnswerSelectors locates correct and incorrect answers inside a question block.
type AnswerSelectors struct {
	Correct   string `json:"correct" yaml:"correct"`
	Incorrect string `json:"incorrect" yaml:"incorrect"`
}

// SelectorConfig describes where each question field lives in a document.
// All selectors except Container are scoped to a single question block.
// A SelectorConfig is treated as an immutable value by the extraction engine.
type SelectorConfig struct {
	Container    string          `json:"container" yaml:"container"`
	QuestionText string          `json:"questionText" yaml:"questionText"`
	Answers      AnswerSelectors `json:"answers" yaml:"answers"`
	Explanation  string          `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Paragraph    string          `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Image        string          `json:"image,omitempty" yaml:"image,omitempty"`
}

// DefaultSelectorConfig returns the built-in configuration.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Container:    DefaultContainerSelector,
		QuestionText: ".questionText",
		Answers: AnswerSelectors{
			Correct:   ".correctAnswer",
			Incorrect: ".answer:not(.correctAnswer)",
		},
		Explanation: ".explanation",
		Paragraph:   ".paragraph",
		Image:       "img",
	}
}

// WithDefaults returns a copy of c where every empty selector is replaced by
// the corresponding default selector. The image selector is left as is:
// an empty image selector disables image lookup.
func (c SelectorConfig) WithDefaults() SelectorConfig {
	def := DefaultSelectorConfig()
	if strings.TrimSpace(c.Container) == "" {
		c.Container = def.Container
	}
	if strings.TrimSpace(c.QuestionText) == "" {
		c.QuestionText = def.QuestionText
	}
	if strings.TrimSpace(c.Answers.Correct) == "" {
		c.Answers.Correct = def.Answers.Correct
	}
	if strings.TrimSpace(c.Answers.Incorrect) == "" {
		c.Answers.Incorrect = def.Answers.Incorrect
	}
	if strings.TrimSpace(c.Explanation) == "" {
		c.Explanation = def.Explanation
	}
	if strings.TrimSpace(c.Paragraph) == "" {
		c.Paragraph = def.Paragraph
	}
	return c
}

// IsZero reports whether no selector is set.
func (c SelectorConfig) IsZero() bool {
	return c == SelectorConfig{}
}

// BuiltinRegistry returns the site configurations shipped with quizdoc,
// keyed by host name.
func BuiltinRegistry() map[string]SelectorConfig {
	return map[string]SelectorConfig{
		"hamexam.org": DefaultSelectorConfig(),
		"example.com": {
			Container:    ".question-block",
			QuestionText: ".question-title",
			Answers: AnswerSelectors{
				Correct:   ".correct",
				Incorrect: ".answer:not(.correct)",
			},
			Explanation: ".explanation",
			Paragraph:   ".paragraph",
			Image:       "img",
		},
	}
}

// SelectorResolver picks the selector configuration for one extraction.
type SelectorResolver interface {
	// Resolve returns override when it is non-nil. Otherwise it looks up
	// the host of sourceKey in the registry and finally falls back to the
	// default configuration. Resolve never fails.
	Resolve(override *SelectorConfig, sourceKey string) SelectorConfig
}

var _ SelectorResolver = (*Resolver)(nil)

// Resolver resolves selector configurations against a read-only registry.
type Resolver struct {
	registry map[string]SelectorConfig
	fallback SelectorConfig
}

// NewResolver creates a Resolver over a copy of registry. Keys are matched
// case-insensitively against URL host names.
func NewResolver(registry map[string]SelectorConfig, fallback SelectorConfig) *Resolver {
	r := &Resolver{
		registry: make(map[string]SelectorConfig, len(registry)),
		fallback: fallback,
	}
	for k, v := range registry {
		r.registry[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return r
}

// Resolve implements SelectorResolver.
func (r *Resolver) Resolve(override *SelectorConfig, sourceKey string) SelectorConfig {
	if override != nil {
		return *override
	}
	if cfg, ok := r.Lookup(sourceKey); ok {
		return cfg
	}
	return r.fallback
}

// Lookup returns the registry entry for the host of sourceKey.
// Malformed keys are reported as a miss.
func (r *Resolver) Lookup(sourceKey string) (SelectorConfig, bool) {
	host := HostKey(sourceKey)
	if host == "" {
		return SelectorConfig{}, false
	}
	if cfg, ok := r.registry[host]; ok {
		return cfg, true
	}
	if bare, found := strings.CutPrefix(host, "www."); found {
		if cfg, ok := r.registry[bare]; ok {
			return cfg, true
		}
	}
	return SelectorConfig{}, false
}

// Keys returns the registry keys in sorted order.
func (r *Resolver) Keys() []string {
	keys := make([]string, 0, len(r.registry))
	for k := range r.registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HostKey derives a registry key from a source address: the lower-cased
// host name without port. Returns "" when sourceKey is not an absolute URL.
func HostKey(sourceKey string) string {
	sourceKey = strings.TrimSpace(sourceKey)
	if sourceKey == "" {
		return ""
	}
	u, err := url.Parse(sourceKey)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
