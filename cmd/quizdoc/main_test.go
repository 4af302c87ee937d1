package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/quizdoc"
	main "github.com/fwojciec/quizdoc/cmd/quizdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizPage = `<html><head><title>Arithmetic</title></head><body>
<div class="q">
  <div class="questionText">What is 2+2?</div>
  <div class="answer correctAnswer">4</div>
  <div class="answer">5</div>
  <div class="explanation">Basic addition.</div>
</div>
<div class="q">
  <div class="questionText">What is 3*3?</div>
  <div class="answer">6</div>
  <div class="answer correctAnswer">9</div>
</div>
</body></html>`

// testEnv holds the files shared by end-to-end runs.
type testEnv struct {
	dir      string
	dbPath   string
	registry string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		dbPath:   filepath.Join(dir, "quizdoc.db"),
		registry: filepath.Join(dir, "sites.yaml"),
	}
	require.NoError(t, os.WriteFile(env.registry, []byte("sites:\n  quiz.test:\n    container: .q\n"), 0o644))
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = e.dbPath
	m.Stdin = strings.NewReader(stdin)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), append([]string{"--registry", e.registry}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_ExtractFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	page := env.write(t, "page.html", quizPage)

	stdout, stderr, err := env.run(t, "", "extract", "--file", page, "--base", "https://quiz.test/t/1")
	require.NoError(t, err, stderr)

	var records []quizdoc.ExportQuestion
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "What is 2+2?", records[0].Text)
	assert.Equal(t, "Basic addition.", records[0].Explanation)
	assert.Contains(t, records[0].Answers, quizdoc.ExportAnswer{Text: "4", Correct: true})
	assert.Contains(t, records[0].Answers, quizdoc.ExportAnswer{Text: "5", Correct: false})
	assert.Contains(t, records[1].Answers, quizdoc.ExportAnswer{Text: "9", Correct: true})
}

func TestMain_Run_ExtractStdinWithoutSiteFindsNothing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Without a base URL the registry entry for quiz.test does not apply
	// and the default container matches nothing.
	stdout, stderr, err := env.run(t, quizPage, "extract", "--file=-")
	require.NoError(t, err)

	assert.Equal(t, "[]\n", stdout)
	assert.Contains(t, stderr, "No questions found")
}

func TestMain_Run_ExtractWithSelectorFlags(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	stdout, stderr, err := env.run(t, quizPage, "extract", "--file=-", "--container", ".q", "--format", "markdown")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "## Question 1")
	assert.Contains(t, stdout, "## Question 2")
	assert.Contains(t, stdout, "What is 2+2?")
}

func TestMain_Run_ExtractRejectsInvalidSelector(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, stderr, err := env.run(t, quizPage, "extract", "--file=-", "--container", "div[")

	assert.Equal(t, quizdoc.EINVALID, quizdoc.ErrorCode(err))
	assert.Contains(t, stderr, "container")
}

func TestMain_Run_SaveListShowDelete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	page := env.write(t, "page.html", quizPage)

	_, stderr, err := env.run(t, "", "extract", "--file", page, "--base", "https://quiz.test/t/1", "--save")
	require.NoError(t, err, stderr)
	require.Contains(t, stderr, "Saved quiz ")
	id := strings.Fields(strings.TrimPrefix(stderr[strings.Index(stderr, "Saved quiz "):], "Saved quiz "))[0]

	// Saving identical content again is reported, not failed.
	_, stderr, err = env.run(t, "", "extract", "--file", page, "--base", "https://quiz.test/t/1", "--save")
	require.NoError(t, err)
	assert.Contains(t, stderr, "already saved as "+id)

	stdout, _, err := env.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, id)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))

	stdout, _, err = env.run(t, "", "show", id, "--format", "moodle")
	require.NoError(t, err)
	assert.Contains(t, stdout, `<question type="multichoice">`)
	assert.Contains(t, stdout, "What is 2+2?")

	stdout, _, err = env.run(t, "", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted quiz "+id)

	stdout, _, err = env.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No quizzes found")
}

func TestMain_Run_ImportAndClear(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	export := `[{"text":"Capital of France?","answers":[{"text":"Paris","correct":true},{"text":"Rome","correct":false}]}]`

	stdout, stderr, err := env.run(t, export, "import", "-", "--source", "https://quiz.test/geo", "--title", "Geography")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Imported quiz ")
	assert.Contains(t, stdout, "(1 questions)")

	stdout, _, err = env.run(t, "", "list", "--source", "https://quiz.test/geo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Geography")

	_, stderr, err = env.run(t, "", "clear")
	assert.Error(t, err)
	assert.Contains(t, stderr, "--force")

	stdout, _, err = env.run(t, "", "clear", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted 1 quizzes")
}

func TestMain_Run_ImportRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, stderr, err := env.run(t, "{not json", "import", "-")

	assert.Equal(t, quizdoc.EINVALID, quizdoc.ErrorCode(err))
	assert.Contains(t, stderr, "invalid export file")
}

func TestMain_Run_Sites(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	stdout, _, err := env.run(t, "", "sites")
	require.NoError(t, err)
	assert.Contains(t, stdout, "quiz.test  .q")
	assert.Contains(t, stdout, "hamexam.org  .question")

	stdout, _, err = env.run(t, "", "sites", "--dump")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sites:")
	assert.Contains(t, stdout, "quiz.test:")
}
