package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/quizdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ quizdoc.QuizService = (*QuizService)(nil)

// QuizService implements quizdoc.QuizService using SQLite.
type QuizService struct {
	db  *DB
	now func() time.Time
}

// NewQuizService creates a new QuizService.
func NewQuizService(db *DB) *QuizService {
	return &QuizService{db: db, now: time.Now}
}

// CreateQuiz saves a quiz and its questions in one transaction.
func (s *QuizService) CreateQuiz(ctx context.Context, quiz *quizdoc.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return err
	}

	hash, err := contentHash(quiz.Questions)
	if err != nil {
		return fmt.Errorf("hashing quiz content: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM quizzes WHERE source_url = ? AND content_hash = ?
	`, quiz.SourceURL, hash).Scan(&existing)
	if err == nil {
		return quizdoc.Errorf(quizdoc.ECONFLICT, "quiz already saved as %s", existing)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	id := uuid.New().String()
	createdAt := s.now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO quizzes (id, source_url, title, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, quiz.SourceURL, quiz.Title, hash, createdAt.Format(timeFormat)); err != nil {
		return err
	}

	for i, q := range quiz.Questions {
		answers, err := json.Marshal(q.Answers)
		if err != nil {
			return fmt.Errorf("encoding answers of question %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (quiz_id, position, question_id, question_number, question_text,
				answers, explanation, paragraph, image, has_multiple_correct)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, q.ID, q.QuestionNumber, q.QuestionText, string(answers),
			q.Explanation, q.Paragraph, q.Image, q.HasMultipleCorrect); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	quiz.ID = id
	quiz.ContentHash = hash
	quiz.CreatedAt = createdAt
	return nil
}

// FindQuizByID retrieves a quiz with its questions.
func (s *QuizService) FindQuizByID(ctx context.Context, id string) (*quizdoc.Quiz, error) {
	quizzes, err := s.FindQuizzes(ctx, quizdoc.QuizFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, quizdoc.Errorf(quizdoc.ENOTFOUND, "quiz not found")
	}
	return quizzes[0], nil
}

// FindQuizzes retrieves quizzes matching the filter, newest first.
func (s *QuizService) FindQuizzes(ctx context.Context, filter quizdoc.QuizFilter) ([]*quizdoc.Quiz, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source_url, title, content_hash, created_at FROM quizzes WHERE 1=1`)
	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []*quizdoc.Quiz{}
	for rows.Next() {
		var quiz quizdoc.Quiz
		var createdAt string
		if err := rows.Scan(&quiz.ID, &quiz.SourceURL, &quiz.Title, &quiz.ContentHash, &createdAt); err != nil {
			return nil, err
		}
		if quiz.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, &quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, quiz := range quizzes {
		if quiz.Questions, err = s.findQuestions(ctx, quiz.ID); err != nil {
			return nil, err
		}
	}
	return quizzes, nil
}

func (s *QuizService) findQuestions(ctx context.Context, quizID string) ([]*quizdoc.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, question_number, question_text, answers,
			explanation, paragraph, image, has_multiple_correct
		FROM questions
		WHERE quiz_id = ?
		ORDER BY position
	`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*quizdoc.Question
	for rows.Next() {
		var q quizdoc.Question
		var answers string
		if err := rows.Scan(&q.ID, &q.QuestionNumber, &q.QuestionText, &answers,
			&q.Explanation, &q.Paragraph, &q.Image, &q.HasMultipleCorrect); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// DeleteQuiz permanently removes a quiz and its questions.
func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return quizdoc.Errorf(quizdoc.ENOTFOUND, "quiz not found")
	}
	return nil
}

// DeleteAllQuizzes removes every saved quiz.
func (s *QuizService) DeleteAllQuizzes(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes`)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
