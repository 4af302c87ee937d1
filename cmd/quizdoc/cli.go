package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/fwojciec/quizdoc/goquery"
	"github.com/fwojciec/quizdoc/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Quizzes  quizdoc.QuizService
	Sitemaps quizdoc.SitemapService
	Batch    *crawl.Batch
	Encoders map[string]quizdoc.QuizEncoder
	Registry map[string]quizdoc.SelectorConfig
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose  bool   `short:"v" help:"Log progress and diagnostics to stderr"`
	Registry string `type:"path" help:"Site registry file (default ~/.quizdoc/sites.yaml)"`

	Extract ExtractCmd `cmd:"" help:"Extract questions from one quiz page"`
	Batch   BatchCmd   `cmd:"" help:"Extract questions from many quiz pages"`
	List    ListCmd    `cmd:"" help:"List saved quizzes"`
	Show    ShowCmd    `cmd:"" help:"Print a saved quiz"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a saved quiz"`
	Clear   ClearCmd   `cmd:"" help:"Delete all saved quizzes"`
	Import  ImportCmd  `cmd:"" help:"Save questions from an export file"`
	Sites   SitesCmd   `cmd:"" help:"List known site configurations"`
}

// SelectorFlags overrides the registry for every page of a command.
type SelectorFlags struct {
	Config       string `type:"existingfile" help:"Selector configuration file (YAML)"`
	Container    string `help:"Question block selector"`
	QuestionText string `name:"question-text" help:"Question text selector"`
	Correct      string `help:"Correct answer selector"`
	Incorrect    string `help:"Incorrect answer selector"`
	Explanation  string `help:"Explanation selector"`
	Paragraph    string `help:"Supplementary paragraph selector"`
	Image        string `help:"Image selector"`
}

// Override builds the selector configuration given on the command line.
// Flags take precedence over the config file. Returns nil when neither is
// given, so that the registry decides.
func (f SelectorFlags) Override() (*quizdoc.SelectorConfig, error) {
	cfg := &quizdoc.SelectorConfig{}
	if f.Config != "" {
		loaded, err := yaml.LoadSelectorConfigFile(f.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Container, f.Container)
	set(&cfg.QuestionText, f.QuestionText)
	set(&cfg.Answers.Correct, f.Correct)
	set(&cfg.Answers.Incorrect, f.Incorrect)
	set(&cfg.Explanation, f.Explanation)
	set(&cfg.Paragraph, f.Paragraph)
	set(&cfg.Image, f.Image)

	if f.Config == "" && cfg.IsZero() {
		return nil, nil
	}
	if err := goquery.ValidateConfig(*cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FetchFlags configures page and image downloads.
type FetchFlags struct {
	JS       bool          `name:"js" help:"Render pages in a headless browser"`
	Timeout  time.Duration `default:"10s" help:"Timeout for one page or image download"`
	NoImages bool          `name:"no-images" help:"Keep image references instead of embedding them"`
}

// OutputFlags selects the output format.
type OutputFlags struct {
	Format string `short:"t" enum:"json,markdown,moodle" default:"json" help:"Output format (json, markdown, moodle)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL    string `arg:"" optional:"" help:"Quiz page URL"`
	File   string `short:"f" help:"Read the page from a file instead, or - for stdin"`
	Base   string `help:"Page URL of --file input, used to pick the site and resolve images"`
	Output string `short:"o" type:"path" help:"Write to a file instead of stdout"`
	Save   bool   `short:"s" help:"Save the quiz to the database"`

	FetchFlags    `embed:""`
	OutputFlags   `embed:""`
	SelectorFlags `embed:""`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string `arg:"" name:"url" help:"Quiz page URLs, or site roots with --sitemap"`
	Sitemap     bool     `help:"Discover quiz pages from the sitemaps of the given sites"`
	Filter      []string `short:"F" help:"Only process URLs matching regex (repeatable)"`
	Exclude     []string `short:"X" help:"Skip URLs matching regex (repeatable)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent page limit"`
	Rate        float64  `default:"1" help:"Requests per second per site, 0 disables limiting"`
	Save        bool     `default:"true" negatable:"" help:"Save quizzes to the database"`
	OutDir      string   `type:"path" help:"Also write one file per quiz below this directory"`

	FetchFlags    `embed:""`
	OutputFlags   `embed:""`
	SelectorFlags `embed:""`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source string `help:"Only list quizzes from this source URL"`
	Limit  int    `short:"n" help:"Maximum number of quizzes to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Quiz ID"`

	OutputFlags `embed:""`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Quiz ID"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm deletion"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File   string `arg:"" help:"Export file, or - for stdin"`
	Source string `help:"Source URL to record"`
	Title  string `help:"Title to record"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct {
	Dump bool `help:"Print the configurations as a registry file"`
}
