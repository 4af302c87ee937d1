package goquery

import (
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/quizdoc"
)

// ValidateConfig compiles every non-empty selector in cfg and returns
// EINVALID naming the first one that does not parse.
func ValidateConfig(cfg quizdoc.SelectorConfig) error {
	fields := []struct {
		name     string
		selector string
	}{
		{"container", cfg.Container},
		{"questionText", cfg.QuestionText},
		{"answers.correct", cfg.Answers.Correct},
		{"answers.incorrect", cfg.Answers.Incorrect},
		{"explanation", cfg.Explanation},
		{"paragraph", cfg.Paragraph},
		{"image", cfg.Image},
	}
	for _, f := range fields {
		if f.selector == "" {
			continue
		}
		if _, err := cascadia.Compile(f.selector); err != nil {
			return quizdoc.Errorf(quizdoc.EINVALID, "invalid %s selector %q: %v", f.name, f.selector, err)
		}
	}
	return nil
}
