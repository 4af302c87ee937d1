package quizdoc

import (
	"encoding/json"
	"io"
)

// ExportParagraph wraps the supplementary paragraph in the export shape.
type ExportParagraph struct {
	Text string `json:"text"`
}

// ExportAnswer is the flat export shape of an answer.
type ExportAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// ExportQuestion is the flat export shape of a question. Labels, ids and
// numbering are positional and therefore not exported.
type ExportQuestion struct {
	Text        string           `json:"text"`
	Explanation string           `json:"explanation,omitempty"`
	Paragraph   *ExportParagraph `json:"paragraph,omitempty"`
	Image       string           `json:"image,omitempty"`
	Answers     []ExportAnswer   `json:"answers"`
}

// Export converts questions to the export shape.
func Export(questions []*Question) []ExportQuestion {
	out := make([]ExportQuestion, 0, len(questions))
	for _, q := range questions {
		eq := ExportQuestion{
			Text:        q.QuestionText,
			Explanation: q.Explanation,
			Image:       q.Image,
			Answers:     make([]ExportAnswer, 0, len(q.Answers)),
		}
		if q.Paragraph != "" {
			eq.Paragraph = &ExportParagraph{Text: q.Paragraph}
		}
		for _, a := range q.Answers {
			eq.Answers = append(eq.Answers, ExportAnswer{Text: a.Text, Correct: a.IsCorrect})
		}
		out = append(out, eq)
	}
	return out
}

// Import rebuilds questions from the export shape. Positions, labels and
// the multiple-correct flag are derived the same way extraction derives them.
func Import(records []ExportQuestion) []*Question {
	questions := make([]*Question, 0, len(records))
	for i, r := range records {
		var correct, incorrect []string
		for _, a := range r.Answers {
			if a.Correct {
				correct = append(correct, a.Text)
			} else {
				incorrect = append(incorrect, a.Text)
			}
		}
		q := &Question{
			ID:                 QuestionID(i + 1),
			QuestionNumber:     QuestionNumber(i + 1),
			QuestionText:       r.Text,
			Answers:            LabelAnswers(correct, incorrect),
			Explanation:        r.Explanation,
			Image:              r.Image,
			HasMultipleCorrect: len(correct) > 1,
		}
		if r.Paragraph != nil {
			q.Paragraph = r.Paragraph.Text
		}
		questions = append(questions, q)
	}
	return questions
}

// DecodeExport reads an export-shape JSON array.
func DecodeExport(r io.Reader) ([]ExportQuestion, error) {
	var records []ExportQuestion
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, Errorf(EINVALID, "invalid export file: %v", err)
	}
	return records, nil
}

var _ QuizEncoder = (*JSONEncoder)(nil)

// JSONEncoder writes quizzes as an indented export-shape JSON array.
type JSONEncoder struct{}

// NewJSONEncoder creates a new JSONEncoder.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Name returns "json".
func (e *JSONEncoder) Name() string {
	return "json"
}

// Encode writes the quiz questions in export shape.
func (e *JSONEncoder) Encode(w io.Writer, quiz *Quiz) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Export(quiz.Questions))
}
