package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/quizdoc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := quizdoc.QuizFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.SourceURL = &c.Source
	}

	quizzes, err := deps.Quizzes.FindQuizzes(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(deps.Stdout, "No quizzes found. Use 'quizdoc extract --save' to add one.")
		return nil
	}

	for _, q := range quizzes {
		fmt.Fprintf(deps.Stdout, "%s  %3d  %s  %s\n",
			q.ID, len(q.Questions), q.CreatedAt.Local().Format("2006-01-02 15:04"), q.DisplayName())
	}

	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	encoder, err := lookupEncoder(deps, c.Format)
	if err != nil {
		return err
	}

	quiz, err := deps.Quizzes.FindQuizByID(deps.Ctx, c.ID)
	if err != nil {
		if quizdoc.ErrorCode(err) == quizdoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: quiz %q not found. Use 'quizdoc list' to see saved quizzes.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	if err := encoder.Encode(deps.Stdout, quiz); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Quizzes.DeleteQuiz(deps.Ctx, c.ID); err != nil {
		if quizdoc.ErrorCode(err) == quizdoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: quiz %q not found. Use 'quizdoc list' to see saved quizzes.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted quiz %s\n", c.ID)
	return nil
}

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return quizdoc.Errorf(quizdoc.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Quizzes.DeleteAllQuizzes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d quizzes\n", n)
	return nil
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	data, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	records, err := quizdoc.DecodeExport(strings.NewReader(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	quiz := &quizdoc.Quiz{
		SourceURL: c.Source,
		Title:     c.Title,
		Questions: quizdoc.Import(records),
	}
	if err := deps.Quizzes.CreateQuiz(deps.Ctx, quiz); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported quiz %s (%d questions)\n", quiz.ID, len(quiz.Questions))
	return nil
}
