package quizdoc

import (
	"context"
	"io"
	"time"
)

// Quiz is a saved batch of questions extracted from one source.
type Quiz struct {
	ID          string      `json:"id"`
	SourceURL   string      `json:"sourceUrl"`
	Title       string      `json:"title"`
	ContentHash string      `json:"contentHash"`
	Questions   []*Question `json:"questions"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Validate returns an error if the quiz contains invalid fields.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return Errorf(EINVALID, "quiz questions required")
	}
	for i, question := range q.Questions {
		if question == nil {
			return Errorf(EINVALID, "quiz question %d is nil", i+1)
		}
	}
	return nil
}

// DisplayName returns the title, falling back to the source URL.
func (q *Quiz) DisplayName() string {
	if q.Title != "" {
		return q.Title
	}
	if q.SourceURL != "" {
		return q.SourceURL
	}
	return "(untitled)"
}

// QuizService represents a service for managing saved quizzes.
type QuizService interface {
	// CreateQuiz saves a quiz and assigns its ID, content hash and
	// creation time. Returns ECONFLICT if a quiz with the same source URL
	// and content hash already exists.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// FindQuizByID retrieves a quiz with its questions.
	// Returns ENOTFOUND if the quiz does not exist.
	FindQuizByID(ctx context.Context, id string) (*Quiz, error)

	// FindQuizzes retrieves quizzes matching the filter, newest first.
	FindQuizzes(ctx context.Context, filter QuizFilter) ([]*Quiz, error)

	// DeleteQuiz permanently removes a quiz.
	// Returns ENOTFOUND if the quiz does not exist.
	DeleteQuiz(ctx context.Context, id string) error

	// DeleteAllQuizzes removes every saved quiz and returns how many were removed.
	DeleteAllQuizzes(ctx context.Context) (int, error)
}

// QuizFilter represents a filter for FindQuizzes.
type QuizFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// QuizEncoder writes a quiz in a specific output format.
type QuizEncoder interface {
	// Name returns the format identifier (e.g., "json", "moodle").
	Name() string

	// Encode writes the quiz to w.
	Encode(w io.Writer, quiz *Quiz) error
}
