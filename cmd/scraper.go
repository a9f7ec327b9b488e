package cmd

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/kova98/painhunt.api/config"
	"github.com/kova98/painhunt.api/sources"
)

// newScraper wires the upstream client chain from cfg: http client (optionally
// proxied), token cache, feed client and the scraper on top.
func newScraper(logger *slog.Logger, cfg config.AppConfig) (*sources.Scraper, error) {
	client, err := sources.NewHTTPClient(cfg.ProxyURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "create http client")
	}

	tokens := sources.NewTokenCache(logger, client, cfg.RedditAuthURL, cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	reddit := sources.NewRedditClient(logger, client, tokens, cfg.RedditAPIBase, cfg.RedditUserAgent)

	return sources.NewScraper(logger, reddit,
		sources.WithPacing(cfg.Pacing),
		sources.WithConcurrentFeeds(cfg.ConcurrentFeeds),
	), nil
}
