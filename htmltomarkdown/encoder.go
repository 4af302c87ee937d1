package htmltomarkdown

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/quizdoc"
)

// Ensure Encoder implements quizdoc.QuizEncoder at compile time.
var _ quizdoc.QuizEncoder = (*Encoder)(nil)

// Encoder writes a quiz as a Markdown document. Answers are rendered as a
// task list with the correct ones checked.
type Encoder struct {
	conv quizdoc.Converter
}

// NewEncoder creates a Markdown encoder that converts fields with conv.
func NewEncoder(conv quizdoc.Converter) *Encoder {
	return &Encoder{conv: conv}
}

// Name implements quizdoc.QuizEncoder.
func (e *Encoder) Name() string { return "markdown" }

// Encode implements quizdoc.QuizEncoder.
func (e *Encoder) Encode(w io.Writer, quiz *quizdoc.Quiz) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", quiz.DisplayName())
	if quiz.SourceURL != "" && quiz.Title != "" {
		fmt.Fprintf(bw, "\nSource: <%s>\n", quiz.SourceURL)
	}

	for _, q := range quiz.Questions {
		if err := e.encodeQuestion(bw, q); err != nil {
			return fmt.Errorf("encoding %s: %w", q.QuestionNumber, err)
		}
	}
	return bw.Flush()
}

func (e *Encoder) encodeQuestion(w *bufio.Writer, q *quizdoc.Question) error {
	fmt.Fprintf(w, "\n## %s\n", q.QuestionNumber)

	paragraph, err := e.conv.Convert(q.Paragraph)
	if err != nil {
		return err
	}
	if paragraph != "" {
		fmt.Fprintf(w, "\n%s\n", quote(paragraph))
	}

	text, err := e.conv.Convert(q.QuestionText)
	if err != nil {
		return err
	}
	if text != "" {
		fmt.Fprintf(w, "\n%s\n", text)
	}

	if q.Image != "" {
		fmt.Fprintf(w, "\n![%s](<%s>)\n", q.QuestionNumber, q.Image)
	}

	if len(q.Answers) > 0 {
		w.WriteString("\n")
		for _, a := range q.Answers {
			answer, err := e.conv.Convert(a.Text)
			if err != nil {
				return err
			}
			mark := " "
			if a.IsCorrect {
				mark = "x"
			}
			fmt.Fprintf(w, "- [%s] %s. %s\n", mark, a.Label, answer)
		}
	}

	explanation, err := e.conv.Convert(q.Explanation)
	if err != nil {
		return err
	}
	if explanation != "" {
		fmt.Fprintf(w, "\n**Explanation:** %s\n", explanation)
	}
	return nil
}

// quote prefixes every line of s with a blockquote marker.
func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}
