package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kova98/painhunt.api/config"
	"github.com/kova98/painhunt.api/enums"
	"github.com/kova98/painhunt.api/exporter"
	"github.com/kova98/painhunt.api/models"
	"github.com/kova98/painhunt.api/sources"
)

var scrapeFlags struct {
	subreddits []string
	keywords   []string
	limit      int
	matchMode  string
	out        string
	asJSON     bool
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape subreddits once and export the matching posts",
	Example: `  painhunt scrape --subreddit SaaS --subreddit startups --keyword "i hate" --keyword "wish there was"
  painhunt scrape -s smallbusiness -k frustrating --limit 50 --json`,
	RunE: scrapeAction,
}

func init() {
	f := scrapeCmd.Flags()
	f.StringSliceVarP(&scrapeFlags.subreddits, "subreddit", "s", nil, "subreddit to scan (repeatable)")
	f.StringSliceVarP(&scrapeFlags.keywords, "keyword", "k", nil, "keyword to look for, earlier ones win (repeatable)")
	f.IntVarP(&scrapeFlags.limit, "limit", "l", models.DefaultLimit, "posts per feed (1-100)")
	f.StringVar(&scrapeFlags.matchMode, "match", string(enums.MatchModeBroad), "keyword match mode: broad or exact")
	f.StringVarP(&scrapeFlags.out, "out", "o", "", "workbook path (default pain_points_<date>.xlsx)")
	f.BoolVar(&scrapeFlags.asJSON, "json", false, "print matched posts as JSON instead of writing a workbook")
	_ = scrapeCmd.MarkFlagRequired("subreddit")
	_ = scrapeCmd.MarkFlagRequired("keyword")
	scrapeCmd.MarkFlagsMutuallyExclusive("out", "json")

	rootCmd.AddCommand(scrapeCmd)
}

func scrapeAction(cmd *cobra.Command, _ []string) error {
	req := models.ScrapeRequest{
		Sources:   scrapeFlags.subreddits,
		Keywords:  scrapeFlags.keywords,
		Limit:     scrapeFlags.limit,
		MatchMode: enums.MatchMode(scrapeFlags.matchMode),
	}
	if err := req.Validate(); err != nil {
		return errors.Wrap(err, "invalid arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	scraper, err := newScraper(logger, cfg)
	if err != nil {
		return err
	}

	outcomes, err := scraper.ScrapeSources(cmd.Context(), req)
	if err != nil {
		return errors.Wrap(err, "scrape")
	}
	writeSummary(cmd.ErrOrStderr(), outcomes)

	posts := sources.Flatten(outcomes)
	if scrapeFlags.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}

	data, err := exporter.Export(posts)
	if err != nil {
		return errors.Wrap(err, "export")
	}
	path := scrapeFlags.out
	if path == "" {
		path = exporter.FileName(time.Now())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d posts to %s\n", len(posts), path)
	return nil
}

func writeSummary(w io.Writer, outcomes []sources.SourceOutcome) {
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Fprintf(w, "r/%-24s failed: %v\n", o.Source, o.Err)
			continue
		}
		fmt.Fprintf(w, "r/%-24s scanned %4d  matched %4d\n", o.Source, o.Scanned, len(o.Posts))
	}
}
