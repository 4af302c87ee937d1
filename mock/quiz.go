package mock

import (
	"context"
	"io"

	"github.com/fwojciec/quizdoc"
)

var _ quizdoc.QuizService = (*QuizService)(nil)

// QuizService is a mock implementation of quizdoc.QuizService.
type QuizService struct {
	CreateQuizFn       func(ctx context.Context, quiz *quizdoc.Quiz) error
	FindQuizByIDFn     func(ctx context.Context, id string) (*quizdoc.Quiz, error)
	FindQuizzesFn      func(ctx context.Context, filter quizdoc.QuizFilter) ([]*quizdoc.Quiz, error)
	DeleteQuizFn       func(ctx context.Context, id string) error
	DeleteAllQuizzesFn func(ctx context.Context) (int, error)
}

func (s *QuizService) CreateQuiz(ctx context.Context, quiz *quizdoc.Quiz) error {
	return s.CreateQuizFn(ctx, quiz)
}

func (s *QuizService) FindQuizByID(ctx context.Context, id string) (*quizdoc.Quiz, error) {
	return s.FindQuizByIDFn(ctx, id)
}

func (s *QuizService) FindQuizzes(ctx context.Context, filter quizdoc.QuizFilter) ([]*quizdoc.Quiz, error) {
	return s.FindQuizzesFn(ctx, filter)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	return s.DeleteQuizFn(ctx, id)
}

func (s *QuizService) DeleteAllQuizzes(ctx context.Context) (int, error) {
	return s.DeleteAllQuizzesFn(ctx)
}

var _ quizdoc.QuizEncoder = (*QuizEncoder)(nil)

// QuizEncoder is a mock implementation of quizdoc.QuizEncoder.
type QuizEncoder struct {
	NameFn   func() string
	EncodeFn func(w io.Writer, quiz *quizdoc.Quiz) error
}

func (e *QuizEncoder) Name() string {
	return e.NameFn()
}

func (e *QuizEncoder) Encode(w io.Writer, quiz *quizdoc.Quiz) error {
	return e.EncodeFn(w, quiz)
}
