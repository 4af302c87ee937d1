package mock

import "github.com/fwojciec/quizdoc"

var _ quizdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of quizdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
