// Package etree encodes quizzes as Moodle XML using beevik/etree.
package etree

import (
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/quizdoc"
)

// Ensure Encoder implements quizdoc.QuizEncoder at compile time.
var _ quizdoc.QuizEncoder = (*Encoder)(nil)

// Encoder writes quizzes in the Moodle XML question import format.
// Questions with answers become multichoice questions; questions without
// answers become essay questions. Embedded data URI images are attached
// as question files.
type Encoder struct {
	// Category, when set, adds a category record before the questions.
	Category string
}

// NewEncoder creates a new Moodle XML encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Name implements quizdoc.QuizEncoder.
func (e *Encoder) Name() string { return "moodle" }

// Encode implements quizdoc.QuizEncoder.
func (e *Encoder) Encode(w io.Writer, quiz *quizdoc.Quiz) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("quiz")

	category := e.Category
	if category == "" && quiz.Title != "" {
		category = "$course$/" + quiz.Title
	}
	if category != "" {
		q := root.CreateElement("question")
		q.CreateAttr("type", "category")
		q.CreateElement("category").CreateElement("text").SetText(category)
	}

	for _, q := range quiz.Questions {
		if err := encodeQuestion(root, q); err != nil {
			return fmt.Errorf("encoding %s: %w", q.QuestionNumber, err)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func encodeQuestion(root *etree.Element, q *quizdoc.Question) error {
	el := root.CreateElement("question")
	if len(q.Answers) == 0 {
		el.CreateAttr("type", "essay")
	} else {
		el.CreateAttr("type", "multichoice")
	}

	el.CreateElement("name").CreateElement("text").SetText(q.QuestionNumber)

	body, file, err := questionBody(q)
	if err != nil {
		return err
	}
	qt := el.CreateElement("questiontext")
	qt.CreateAttr("format", "html")
	qt.CreateElement("text").CreateCData(body)
	if file != nil {
		f := qt.CreateElement("file")
		f.CreateAttr("name", file.name)
		f.CreateAttr("path", "/")
		f.CreateAttr("encoding", "base64")
		f.SetText(file.data)
	}

	if q.Explanation != "" {
		fb := el.CreateElement("generalfeedback")
		fb.CreateAttr("format", "html")
		fb.CreateElement("text").CreateCData(q.Explanation)
	}
	el.CreateElement("defaultgrade").SetText("1")

	if len(q.Answers) == 0 {
		return nil
	}

	correct := len(q.CorrectAnswers())
	el.CreateElement("single").SetText(strconv.FormatBool(correct <= 1))
	el.CreateElement("shuffleanswers").SetText("true")
	el.CreateElement("answernumbering").SetText("ABCD")

	for _, a := range q.Answers {
		ans := el.CreateElement("answer")
		ans.CreateAttr("fraction", fraction(a.IsCorrect, correct))
		ans.CreateAttr("format", "html")
		ans.CreateElement("text").CreateCData(a.Text)
	}
	return nil
}

// fraction returns the Moodle grade percentage of one answer. Correct
// answers share the full grade.
func fraction(isCorrect bool, correct int) string {
	if !isCorrect || correct == 0 {
		return "0"
	}
	return strconv.FormatFloat(100/float64(correct), 'f', -1, 64)
}

type attachment struct {
	name string
	data string
}

// questionBody assembles the question HTML: passage, text, and image.
// A data URI image is returned as an attachment referenced through
// @@PLUGINFILE@@.
func questionBody(q *quizdoc.Question) (string, *attachment, error) {
	var b strings.Builder
	if q.Paragraph != "" {
		b.WriteString("<p>" + q.Paragraph + "</p>")
	}
	b.WriteString("<p>" + q.QuestionText + "</p>")

	if q.Image == "" {
		return b.String(), nil, nil
	}
	if !strings.HasPrefix(q.Image, "data:") {
		fmt.Fprintf(&b, `<p><img src="%s" alt=""></p>`, escapeAttr(q.Image))
		return b.String(), nil, nil
	}

	file, err := dataAttachment(q.ID, q.Image)
	if err != nil {
		return "", nil, err
	}
	fmt.Fprintf(&b, `<p><img src="@@PLUGINFILE@@/%s" alt=""></p>`, file.name)
	return b.String(), file, nil
}

// dataAttachment splits a base64 data URI into a named file.
func dataAttachment(id, uri string) (*attachment, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "unsupported image data URI")
	}
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(strings.TrimSuffix(meta, ";base64")); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	if id == "" {
		id = "0"
	}
	return &attachment{name: "question-" + id + ext, data: data}, nil
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;").Replace(s)
}
