package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/quizdoc"
)

// Ensure LoggingQuizService implements quizdoc.QuizService.
var _ quizdoc.QuizService = (*LoggingQuizService)(nil)

// LoggingQuizService wraps a QuizService with logging.
type LoggingQuizService struct {
	next   quizdoc.QuizService
	logger *slog.Logger
}

// NewLoggingQuizService creates a new LoggingQuizService.
func NewLoggingQuizService(next quizdoc.QuizService, logger *slog.Logger) *LoggingQuizService {
	return &LoggingQuizService{next: next, logger: logger}
}

func (s *LoggingQuizService) CreateQuiz(ctx context.Context, quiz *quizdoc.Quiz) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create quiz",
			"id", quiz.ID,
			"source", quiz.SourceURL,
			"questions", len(quiz.Questions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateQuiz(ctx, quiz)
}

func (s *LoggingQuizService) FindQuizByID(ctx context.Context, id string) (quiz *quizdoc.Quiz, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find quiz", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindQuizByID(ctx, id)
}

func (s *LoggingQuizService) FindQuizzes(ctx context.Context, filter quizdoc.QuizFilter) (quizzes []*quizdoc.Quiz, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find quizzes", "count", len(quizzes), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindQuizzes(ctx, filter)
}

func (s *LoggingQuizService) DeleteQuiz(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete quiz", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteQuiz(ctx, id)
}

func (s *LoggingQuizService) DeleteAllQuizzes(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete all quizzes", "count", n, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteAllQuizzes(ctx)
}
