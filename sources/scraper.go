package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kova98/painhunt.api/enums"
	"github.com/kova98/painhunt.api/matchers"
	"github.com/kova98/painhunt.api/metrics"
	"github.com/kova98/painhunt.api/models"
)

// DefaultPacing is the wait between two consecutive sources.
const DefaultPacing = time.Second

type FeedFetcher interface {
	FetchFeed(ctx context.Context, source string, kind enums.FeedKind, limit int) ([]models.Post, error)
}

// SourceOutcome is what one source contributed to a run. Err is set when the
// source failed; Posts is then empty.
type SourceOutcome struct {
	Source  string
	Scanned int
	Posts   []models.Post
	Err     error
}

func (o SourceOutcome) Failed() bool {
	return o.Err != nil
}

// Flatten concatenates the matched posts of every outcome in order.
func Flatten(outcomes []SourceOutcome) []models.Post {
	total := 0
	for _, o := range outcomes {
		total += len(o.Posts)
	}
	posts := make([]models.Post, 0, total)
	for _, o := range outcomes {
		posts = append(posts, o.Posts...)
	}
	return posts
}

type Scraper struct {
	logger          *slog.Logger
	fetcher         FeedFetcher
	pacing          time.Duration
	concurrentFeeds bool
	wait            func(ctx context.Context, d time.Duration) error
}

type ScraperOption func(*Scraper)

func WithPacing(d time.Duration) ScraperOption {
	return func(s *Scraper) { s.pacing = d }
}

// WithConcurrentFeeds fetches the feeds of one source in parallel. Sources
// themselves are always processed one at a time.
func WithConcurrentFeeds(enabled bool) ScraperOption {
	return func(s *Scraper) { s.concurrentFeeds = enabled }
}

func NewScraper(logger *slog.Logger, fetcher FeedFetcher, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		logger:  logger,
		fetcher: fetcher,
		pacing:  DefaultPacing,
		wait:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape returns every matched post across the requested sources. Only an
// *AuthError or a cancelled context produce an error; failing sources are
// logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, req models.ScrapeRequest) ([]models.Post, error) {
	outcomes, err := s.ScrapeSources(ctx, req)
	return Flatten(outcomes), err
}

// ScrapeSources processes the sources in order and reports one outcome per
// completed source. On error the outcomes collected so far are returned too.
func (s *Scraper) ScrapeSources(ctx context.Context, req models.ScrapeRequest) ([]SourceOutcome, error) {
	runID := uuid.New()
	logger := s.logger.With("run_id", runID.String())
	logger.Info("starting scrape", "subreddits", len(req.Sources), "keywords", len(req.Keywords), "limit", req.Limit)

	outcomes := make([]SourceOutcome, 0, len(req.Sources))
	for i, source := range req.Sources {
		logger.Info("scraping subreddit", "subreddit", source)

		outcome := s.scrapeSource(ctx, source, req)

		var authErr *AuthError
		if errors.As(outcome.Err, &authErr) {
			metrics.SourcesScraped.WithLabelValues("auth_error").Inc()
			logger.Error("scrape aborted", "subreddit", source, "error", truncateError(authErr))
			return outcomes, authErr
		}
		if ctx.Err() != nil {
			logger.Info("scrape cancelled", "subreddit", source, "completed", len(outcomes))
			return outcomes, ctx.Err()
		}

		if outcome.Failed() {
			metrics.SourcesScraped.WithLabelValues("failed").Inc()
			logger.Error("subreddit failed", "subreddit", source, "error", truncateError(outcome.Err))
		} else {
			metrics.SourcesScraped.WithLabelValues("ok").Inc()
			metrics.PostsScanned.Add(float64(outcome.Scanned))
			metrics.PostsMatched.Add(float64(len(outcome.Posts)))
			logger.Info("subreddit done", "subreddit", source, "scanned", outcome.Scanned, "matched", len(outcome.Posts))
		}
		outcomes = append(outcomes, outcome)

		if i < len(req.Sources)-1 {
			if err := s.wait(ctx, s.pacing); err != nil {
				logger.Info("scrape cancelled", "completed", len(outcomes))
				return outcomes, err
			}
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	logger.Info("scrape finished", "matches", len(Flatten(outcomes)), "failed_subreddits", failed)

	return outcomes, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source string, req models.ScrapeRequest) SourceOutcome {
	batches, err := s.fetchFeeds(ctx, source, req.Limit)
	if err != nil {
		return SourceOutcome{Source: source, Err: err}
	}

	unique := Dedupe(batches)
	return SourceOutcome{
		Source:  source,
		Scanned: len(unique),
		Posts:   FilterByKeywords(unique, req.Keywords, req.MatchMode),
	}
}

// fetchFeeds returns one batch per feed kind, in enums.FeedKinds order.
func (s *Scraper) fetchFeeds(ctx context.Context, source string, limit int) ([][]models.Post, error) {
	batches := make([][]models.Post, len(enums.FeedKinds))

	if !s.concurrentFeeds {
		for i, kind := range enums.FeedKinds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			posts, err := s.fetcher.FetchFeed(ctx, source, kind, limit)
			if err != nil {
				return nil, err
			}
			batches[i] = posts
		}
		return batches, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range enums.FeedKinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			posts, err := s.fetcher.FetchFeed(gctx, source, kind, limit)
			if err != nil {
				return err
			}
			batches[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// Dedupe merges feed batches keeping the first occurrence of every post id.
func Dedupe(batches [][]models.Post) []models.Post {
	seen := make(map[string]bool)
	var unique []models.Post
	for _, batch := range batches {
		for _, post := range batch {
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			unique = append(unique, post)
		}
	}
	return unique
}

// FilterByKeywords keeps the posts mentioning at least one keyword and tags
// each with the first keyword that matched.
func FilterByKeywords(posts []models.Post, keywords []string, mode enums.MatchMode) []models.Post {
	matched := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		keyword, ok := matchers.FirstMatch(post.Text(), keywords, mode)
		if !ok {
			continue
		}
		matched = append(matched, post.WithKeyword(keyword))
	}
	return matched
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
