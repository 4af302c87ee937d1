package quizdoc

import (
	"strconv"
	"strings"
)

// Answer is one labeled answer option of a question.
type Answer struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is one extracted quiz question. Text fields hold sanitized
// markup limited to inline formatting tags. Empty optional fields are unset.
type Question struct {
	// ID is the 1-based position within one extraction. It is unique within
	// that extraction only.
	ID             string   `json:"id"`
	QuestionNumber string   `json:"questionNumber"`
	QuestionText   string   `json:"questionText"`
	Answers        []Answer `json:"answers"`
	Explanation    string   `json:"explanation,omitempty"`
	Paragraph      string   `json:"paragraph,omitempty"`
	Image          string   `json:"image,omitempty"`

	// HasMultipleCorrect reports whether the question block matched more
	// than one correct answer.
	HasMultipleCorrect bool `json:"hasMultipleCorrect"`
}

// CorrectAnswers returns the answers marked correct, in label order.
func (q *Question) CorrectAnswers() []Answer {
	var out []Answer
	for _, a := range q.Answers {
		if a.IsCorrect {
			out = append(out, a)
		}
	}
	return out
}

// QuestionID returns the identifier of the question at a 1-based position.
func QuestionID(position int) string {
	return strconv.Itoa(position)
}

// QuestionNumber returns the human-readable ordinal for a 1-based position.
func QuestionNumber(position int) string {
	return "Question " + strconv.Itoa(position)
}

// AnswerLabel returns the label for the answer at a 0-based index:
// A through Z, then AA, AB, and so on.
func AnswerLabel(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// LabelAnswers builds the labeled answer list for one question. Correct
// answers are labeled first, in order, and incorrect answers continue the
// sequence. Empty texts are skipped and do not consume a label.
func LabelAnswers(correct, incorrect []string) []Answer {
	answers := make([]Answer, 0, len(correct)+len(incorrect))
	add := func(text string, isCorrect bool) {
		if strings.TrimSpace(text) == "" {
			return
		}
		answers = append(answers, Answer{
			Label:     AnswerLabel(len(answers)),
			Text:      text,
			IsCorrect: isCorrect,
		})
	}
	for _, text := range correct {
		add(text, true)
	}
	for _, text := range incorrect {
		add(text, false)
	}
	return answers
}
