package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/crawl"
	"github.com/fwojciec/quizdoc/fs"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	filter, err := quizdoc.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	var dir *fs.ExportDir
	if c.OutDir != "" {
		encoder, err := lookupEncoder(deps, c.Format)
		if err != nil {
			return err
		}
		dir = fs.NewExportDir(filepath.Dir(c.OutDir), filepath.Base(c.OutDir), encoder, extensions[c.Format])
	}

	urls, err := c.collectURLs(deps, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %d questions\n",
				event.Completed, event.Total, crawl.TruncateURL(event.URL, 60), event.Questions)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, quizdoc.ErrorMessage(event.Error))
		}
	}

	result, err := deps.Batch.Run(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", quizdoc.ErrorMessage(err))
		return err
	}

	if dir != nil {
		if err := exportAll(deps, dir, result.Quizzes); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %s\n", c.OutDir, quizdoc.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  Wrote %d files to %s\n", len(result.Quizzes), c.OutDir)
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d, already saved %d, without questions %d, failed %d\n",
		result.Saved, result.Skipped, result.Empty, result.Failed)
	return nil
}

// collectURLs returns the pages to process, discovering them from sitemaps
// when requested.
func (c *BatchCmd) collectURLs(deps *Dependencies, filter *quizdoc.URLFilter) ([]string, error) {
	if !c.Sitemap {
		var urls []string
		for _, u := range c.URLs {
			if filter.Match(u) {
				urls = append(urls, u)
			}
		}
		return urls, nil
	}

	var urls []string
	for _, site := range c.URLs {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, site, filter)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

func exportAll(deps *Dependencies, dir *fs.ExportDir, quizzes []*quizdoc.Quiz) error {
	for _, quiz := range quizzes {
		if err := dir.Save(deps.Ctx, quiz); err != nil {
			_ = dir.Abort()
			return err
		}
	}
	return dir.Commit()
}
