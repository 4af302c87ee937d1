package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/fwojciec/quizdoc/etree"
	"github.com/fwojciec/quizdoc/goquery"
	"github.com/fwojciec/quizdoc/htmltomarkdown"
	quizhttp "github.com/fwojciec/quizdoc/http"
	"github.com/fwojciec/quizdoc/readability"
	"github.com/fwojciec/quizdoc/rod"
	quizslog "github.com/fwojciec/quizdoc/slog"
	"github.com/fwojciec/quizdoc/sqlite"
	"github.com/fwojciec/quizdoc/trafilatura"
	"github.com/fwojciec/quizdoc/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Input for commands reading "-". Defaults to os.Stdin.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	QuizService quizdoc.QuizService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("quizdoc"),
		kong.Description("Extract quiz questions from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'quizdoc --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Encoders = encoders()

	registry, err := loadRegistry(cli.Registry)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}
	deps.Registry = registry

	if needsDB(cmd, cli) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set QUIZDOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.QuizService = sqlite.NewQuizService(m.DB)
		deps.Quizzes = quizslog.NewLoggingQuizService(m.QuizService, deps.Logger)
	}

	switch cmd {
	case "extract":
		fetcher, err := m.wireBatch(deps, cli.Extract.FetchFlags, cli.Extract.SelectorFlags, 0)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
		defer fetcher.Close()
		if cli.Extract.Save {
			deps.Batch.Quizzes = deps.Quizzes
		}
	case "batch":
		fetcher, err := m.wireBatch(deps, cli.Batch.FetchFlags, cli.Batch.SelectorFlags, cli.Batch.Rate)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", quizdoc.ErrorMessage(err))
			return err
		}
		defer fetcher.Close()
		deps.Batch.Concurrency = cli.Batch.Concurrency
		if cli.Batch.Save {
			deps.Batch.Quizzes = deps.Quizzes
		}
		deps.Sitemaps = quizslog.NewLoggingSitemapService(
			quizhttp.NewSitemapService(quizhttp.WithTimeout(cli.Batch.Timeout)),
			deps.Logger,
		)
	}

	return kongCtx.Run(deps)
}

// wireBatch builds the extraction pipeline shared by extract and batch.
// It returns the page fetcher, which the caller must close.
func (m *Main) wireBatch(deps *Dependencies, fetch FetchFlags, sel SelectorFlags, rps float64) (quizdoc.Fetcher, error) {
	override, err := sel.Override()
	if err != nil {
		return nil, err
	}

	var limiter quizdoc.DomainLimiter
	if rps > 0 {
		limiter = crawl.NewDomainLimiter(rps)
	}

	var fetcher quizdoc.Fetcher
	if fetch.JS {
		opts := []rod.Option{rod.WithFetchTimeout(fetch.Timeout)}
		if override != nil && override.Container != "" {
			opts = append(opts, rod.WithWaitSelector(override.Container))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = quizhttp.NewFetcher(quizhttp.WithTimeout(fetch.Timeout))
	}
	fetcher = quizslog.NewLoggingFetcher(fetcher, deps.Logger)

	images := goquery.NewImageResolver(nil)
	if !fetch.NoImages {
		var assets quizdoc.AssetFetcher = quizhttp.NewAssetFetcher(quizhttp.WithTimeout(fetch.Timeout))
		assets = quizslog.NewLoggingAssetFetcher(assets, deps.Logger)
		assets = crawl.NewLimitedAssetFetcher(assets, limiter)
		images = goquery.NewImageResolver(assets,
			goquery.WithImageTimeout(fetch.Timeout),
			goquery.WithImageLogger(deps.Logger),
		)
	}

	extractor := goquery.NewExtractor(
		goquery.WithImageResolver(images),
		goquery.WithLogger(deps.Logger),
	)

	resolver := quizdoc.NewResolver(deps.Registry, quizdoc.DefaultSelectorConfig())

	deps.Batch = &crawl.Batch{
		Fetcher:   fetcher,
		Extractor: quizslog.NewLoggingExtractor(extractor, deps.Logger),
		Resolver:  quizslog.NewLoggingResolver(resolver, deps.Logger),
		Titles: quizdoc.TitleExtractors{
			trafilatura.NewTitleExtractor(),
			readability.NewTitleExtractor(),
		},
		RateLimiter: limiter,
		Override:    override,
		Logger:      deps.Logger,
	}
	return fetcher, nil
}

// needsDB reports whether cmd reads or writes saved quizzes.
func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "list", "show", "delete", "clear", "import":
		return true
	case "extract":
		return cli.Extract.Save
	case "batch":
		return cli.Batch.Save
	}
	return false
}

// loadRegistry merges the built-in site configurations with the registry
// file. The default registry file is optional; an explicit one is not.
func loadRegistry(path string) (map[string]quizdoc.SelectorConfig, error) {
	optional := path == ""
	if optional {
		p, err := yaml.DefaultRegistryPath()
		if err != nil {
			return quizdoc.BuiltinRegistry(), nil
		}
		path = p
	}
	sites, err := yaml.LoadRegistryFile(path, optional)
	if err != nil {
		return nil, err
	}
	return yaml.MergeRegistry(quizdoc.BuiltinRegistry(), sites), nil
}

func encoders() map[string]quizdoc.QuizEncoder {
	out := make(map[string]quizdoc.QuizEncoder)
	for _, enc := range []quizdoc.QuizEncoder{
		quizdoc.NewJSONEncoder(),
		htmltomarkdown.NewEncoder(htmltomarkdown.NewConverter()),
		etree.NewEncoder(),
	} {
		out[enc.Name()] = enc
	}
	return out
}

// extensions maps output formats to file extensions.
var extensions = map[string]string{
	"json":     ".json",
	"markdown": ".md",
	"moodle":   ".xml",
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func defaultDBPath() string {
	if path := os.Getenv("QUIZDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "quizdoc.db"
	}
	return filepath.Join(home, ".quizdoc", "quizdoc.db")
}
