package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if (c.URL == "") == (c.File == "") {
		fmt.Fprintln(deps.Stderr, "error: give either a URL or --file")
		return quizdoc.Errorf(quizdoc.EINVALID, "give either a URL or --file")
	}

	encoder, err := lookupEncoder(deps, c.Format)
	if err != nil {
		return err
	}

	var quiz *quizdoc.Quiz
	if c.File != "" {
		html, err := readInput(deps, c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
		quiz, err = deps.Batch.ExtractHTML(deps.Ctx, html, c.Base)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
	} else {
		quiz, err = deps.Batch.ExtractURL(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
	}

	if len(quiz.Questions) == 0 {
		fmt.Fprintln(deps.Stderr, "No questions found. Check the selectors with 'quizdoc sites' or pass --container.")
	}

	if c.Save && len(quiz.Questions) > 0 {
		err := deps.Batch.Quizzes.CreateQuiz(deps.Ctx, quiz)
		switch quizdoc.ErrorCode(err) {
		case "":
			fmt.Fprintf(deps.Stderr, "Saved quiz %s (%d questions)\n", quiz.ID, len(quiz.Questions))
		case quizdoc.ECONFLICT:
			fmt.Fprintf(deps.Stderr, "Skipped: %s\n", quizdoc.ErrorMessage(err))
		default:
			fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
	}

	if c.Output != "" {
		err = fs.WriteFile(c.Output, func(w io.Writer) error {
			return encoder.Encode(w, quiz)
		})
	} else {
		err = encoder.Encode(deps.Stdout, quiz)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}
	return nil
}

// readInput reads a whole file, or stdin for "-".
func readInput(deps *Dependencies, name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(deps.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", quizdoc.Errorf(quizdoc.EINVALID, "cannot read %s: %v", name, err)
	}
	return string(data), nil
}

// lookupEncoder returns the encoder for an output format.
func lookupEncoder(deps *Dependencies, format string) (quizdoc.QuizEncoder, error) {
	encoder, ok := deps.Encoders[format]
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: unknown format %q\n", format)
		return nil, quizdoc.Errorf(quizdoc.EINVALID, "unknown format %q", format)
	}
	return encoder, nil
}
